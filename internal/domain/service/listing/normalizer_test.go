package listing_test

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car_monitor/internal/domain/entity"
	"car_monitor/internal/domain/service/listing"
	"car_monitor/internal/domain/value"
)

func TestNormalizePrices(t *testing.T) {
	n := listing.NewNormalizer(3.3)
	ctx := context.Background()

	testCases := []struct {
		name    string
		raw     entity.RawListing
		wantUSD *float64
		wantBYN *float64
	}{
		{
			name:    "USD only converts to BYN",
			raw:     entity.RawListing{PriceUSD: lo.ToPtr(10000.0)},
			wantUSD: lo.ToPtr(10000.0),
			wantBYN: lo.ToPtr(33000.0),
		},
		{
			name:    "BYN only converts to USD",
			raw:     entity.RawListing{PriceBYN: lo.ToPtr(33000.0)},
			wantUSD: lo.ToPtr(10000.0),
			wantBYN: lo.ToPtr(33000.0),
		},
		{
			name:    "Both within tolerance stay as published",
			raw:     entity.RawListing{PriceUSD: lo.ToPtr(100.0), PriceBYN: lo.ToPtr(345.0)},
			wantUSD: lo.ToPtr(100.0),
			wantBYN: lo.ToPtr(345.0),
		},
		{
			name:    "Mismatch beyond tolerance recomputes USD from BYN",
			raw:     entity.RawListing{PriceUSD: lo.ToPtr(20000.0), PriceBYN: lo.ToPtr(100000.0)},
			wantUSD: lo.ToPtr(30303.03),
			wantBYN: lo.ToPtr(100000.0),
		},
		{
			name:    "Insane USD dropped, BYN drives both",
			raw:     entity.RawListing{PriceUSD: lo.ToPtr(5000000.0), PriceBYN: lo.ToPtr(33000.0)},
			wantUSD: lo.ToPtr(10000.0),
			wantBYN: lo.ToPtr(33000.0),
		},
		{
			name:    "Insane BYN dropped entirely",
			raw:     entity.RawListing{PriceBYN: lo.ToPtr(50000000.0)},
			wantUSD: nil,
			wantBYN: nil,
		},
		{
			name:    "No prices",
			raw:     entity.RawListing{},
			wantUSD: nil,
			wantBYN: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := n.Normalize(ctx, tc.raw)

			assert.Equal(t, tc.wantUSD, l.PriceUSD)
			assert.Equal(t, tc.wantBYN, l.PriceBYN)
		})
	}
}

func TestNormalizeGuards(t *testing.T) {
	rq := require.New(t)
	n := listing.NewNormalizer(3.3)
	ctx := context.Background()

	// Пробег больше миллиона — мусор.
	l := n.Normalize(ctx, entity.RawListing{MileageKm: lo.ToPtr(1_500_000)})
	rq.Nil(l.MileageKm)

	// Пробег, совпадающий с годом выпуска, — ошибка разбора.
	l = n.Normalize(ctx, entity.RawListing{Year: lo.ToPtr(2022), MileageKm: lo.ToPtr(2022)})
	rq.Nil(l.MileageKm)
	rq.Equal(lo.ToPtr(2022), l.Year)

	// Нормальный пробег проходит.
	l = n.Normalize(ctx, entity.RawListing{Year: lo.ToPtr(2022), MileageKm: lo.ToPtr(180000)})
	rq.Equal(lo.ToPtr(180000), l.MileageKm)

	// Год вне диапазона отбрасывается.
	l = n.Normalize(ctx, entity.RawListing{Year: lo.ToPtr(1850)})
	rq.Nil(l.Year)

	l = n.Normalize(ctx, entity.RawListing{Year: lo.ToPtr(2050)})
	rq.Nil(l.Year)
}

func TestNormalizeAttributes(t *testing.T) {
	rq := require.New(t)
	n := listing.NewNormalizer(3.3)
	ctx := context.Background()

	l := n.Normalize(ctx, entity.RawListing{
		Brand:            "mercedes",
		Model:            " E200 ",
		TransmissionText: "автоматическая",
		EngineTypeText:   "дизель",
		FreeText:         "седан, отличное состояние",
	})

	rq.Equal("Mercedes-Benz", l.Brand)
	rq.Equal("E200", l.Model)
	rq.Equal(value.TransmissionAutomatic, l.Transmission)
	rq.Equal(value.EngineDiesel, l.EngineType)
	rq.Equal(value.BodyType("sedan"), l.BodyType)
}

func TestNormalizeTitleSynthesis(t *testing.T) {
	rq := require.New(t)
	n := listing.NewNormalizer(3.3)
	ctx := context.Background()

	// Короткий заголовок достраивается из марки, модели и года.
	l := n.Normalize(ctx, entity.RawListing{
		Title: "BMW",
		Brand: "BMW",
		Model: "520d",
		Year:  lo.ToPtr(2018),
	})
	rq.Equal("BMW 520d 2018", l.Title)

	// Нормальный заголовок не трогаем.
	l = n.Normalize(ctx, entity.RawListing{Title: "BMW 520d xDrive M-Sport"})
	rq.Equal("BMW 520d xDrive M-Sport", l.Title)

	// Достраивать не из чего — остаётся как есть.
	l = n.Normalize(ctx, entity.RawListing{Title: "..."})
	rq.Equal("...", l.Title)
}

func TestCanonicalBrand(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"mercedes", "Mercedes-Benz"},
		{"Mercedes Benz", "Mercedes-Benz"},
		{"mercedesbenz", "Mercedes-Benz"},
		{"vw", "Volkswagen"},
		{"BMW", "BMW"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, listing.CanonicalBrand(tc.in), tc.in)
	}
}
