package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car_monitor/internal/domain"
	"car_monitor/internal/domain/entity"
	"car_monitor/internal/domain/value"
	"car_monitor/pkg/errcodes"
)

func TestParseFilterArgs(t *testing.T) {
	rq := require.New(t)

	f, err := parseFilterArgs(100, "/add марка=BMW модель=520 год=2015-2020 цена=10000-20000 коробка=автомат")
	rq.NoError(err)
	rq.Equal(int64(100), f.RecipientID)
	rq.Equal("BMW", f.Brand)
	rq.Equal("520", f.Model)
	rq.Equal(lo.ToPtr(2015), f.YearFrom)
	rq.Equal(lo.ToPtr(2020), f.YearTo)
	rq.Equal(lo.ToPtr(10000.0), f.PriceFromUSD)
	rq.Equal(lo.ToPtr(20000.0), f.PriceToUSD)
	rq.Equal(value.TransmissionAutomatic, f.Transmission)
	rq.True(f.Active)

	// Открытые границы.
	f, err = parseFilterArgs(100, "/add цена=-20000")
	rq.NoError(err)
	rq.Nil(f.PriceFromUSD)
	rq.Equal(lo.ToPtr(20000.0), f.PriceToUSD)

	// Кузов приводится к каноническому slug.
	f, err = parseFilterArgs(100, "/add кузов=универсал")
	rq.NoError(err)
	rq.Equal(value.BodyType("universal"), f.BodyType)
}

func TestParseFilterArgsErrors(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{"No criteria", "/add"},
		{"Unknown key", "/add цвет=красный"},
		{"Bad range", "/add год=двадцать"},
		{"Unknown transmission", "/add коробка=полуавтомат"},
		{"Swapped years", "/add год=2020-2015"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseFilterArgs(100, tc.text)
			assert.Error(t, err)
		})
	}
}

func TestIsFilterNotFound(t *testing.T) {
	rq := require.New(t)

	rq.True(isFilterNotFound(domain.NewError(errcodes.FilterNotFound, "фильтр не найден")))
	rq.True(isFilterNotFound(fmt.Errorf("repo: %w", domain.NewError(errcodes.FilterNotFound, "фильтр не найден"))))
	rq.False(isFilterNotFound(domain.NewError(errcodes.InternalServerError, "база недоступна")))
	rq.False(isFilterNotFound(errors.New("plain")))
}

func TestRenderFilter(t *testing.T) {
	rq := require.New(t)

	f := entity.Filter{
		Brand:      "BMW",
		YearFrom:   lo.ToPtr(2015),
		PriceToUSD: lo.ToPtr(20000.0),
		BodyType:   value.BodyType("sedan"),
	}

	rendered := renderFilter(f)
	rq.Contains(rendered, "марка=BMW")
	rq.Contains(rendered, "год=от 2015")
	rq.Contains(rendered, "цена=$до 20000")
	rq.Contains(rendered, "кузов=sedan")
}
