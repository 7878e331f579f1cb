package listing

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"car_monitor/internal/domain/entity"
	"car_monitor/internal/domain/value"
)

const (
	defaultExchangeRate = 3.3
	priceTolerance      = 0.15
	maxSanePriceUSD     = 1_000_000
	maxSanePriceBYN     = 10_000_000
	maxSaneMileageKm    = 1_000_000
	minSaneYear         = 1900
	maxSaneYear         = 2030
	minTitleLen         = 10
)

// Normalizer приводит сырые объявления к каноничному виду: сверяет цены
// в двух валютах, отбрасывает мусорные годы и пробеги, классифицирует
// текстовые атрибуты и достраивает заголовок.
type Normalizer struct {
	exchangeRate float64
}

// NewNormalizer создаёт нормализатор с курсом BYN за USD.
func NewNormalizer(exchangeRate float64) *Normalizer {
	if exchangeRate <= 0 {
		exchangeRate = defaultExchangeRate
	}

	return &Normalizer{exchangeRate: exchangeRate}
}

func (n *Normalizer) Normalize(ctx context.Context, raw entity.RawListing) entity.Listing {
	l := entity.Listing{
		Source:        raw.Source,
		ExternalID:    raw.ExternalID,
		Brand:         CanonicalBrand(raw.Brand),
		Model:         strings.TrimSpace(raw.Model),
		EngineVolumeL: raw.EngineVolumeL,
		City:          strings.TrimSpace(raw.City),
		URL:           raw.URL,
		ImageURL:      raw.ImageURL,
	}

	l.PriceUSD, l.PriceBYN = n.reconcilePrices(ctx, raw)
	l.Year = saneYear(raw.Year)
	l.MileageKm = saneMileage(raw.MileageKm, l.Year)

	l.Transmission = value.ClassifyTransmission(raw.TransmissionText)
	if l.Transmission == "" {
		l.Transmission = value.ClassifyTransmission(raw.FreeText)
	}

	l.EngineType = value.ClassifyEngineType(raw.EngineTypeText)
	if l.EngineType == "" {
		l.EngineType = value.ClassifyEngineType(raw.FreeText)
	}

	l.BodyType = value.ClassifyBodyType(raw.BodyTypeText)
	if l.BodyType == "" {
		l.BodyType = value.ClassifyBodyType(raw.Title + " " + raw.FreeText)
	}

	l.Title = synthesizeTitle(raw.Title, l)

	return l
}

// reconcilePrices сверяет цены в двух валютах. Недостающая валюта
// досчитывается по курсу. Когда обе цены есть, но расходятся больше чем
// на 15%, побеждает та, которой противоречит меньшая относительная
// ошибка, вторая пересчитывается.
func (n *Normalizer) reconcilePrices(ctx context.Context, raw entity.RawListing) (*float64, *float64) {
	usd := sanePrice(raw.PriceUSD, maxSanePriceUSD)
	byn := sanePrice(raw.PriceBYN, maxSanePriceBYN)

	switch {
	case usd == nil && byn == nil:
		return nil, nil
	case usd == nil:
		return lo.ToPtr(round2(*byn / n.exchangeRate)), byn
	case byn == nil:
		return usd, lo.ToPtr(round2(*usd * n.exchangeRate))
	}

	expectedBYN := *usd * n.exchangeRate
	expectedUSD := *byn / n.exchangeRate

	usdDiff := math.Abs(*usd-expectedUSD) / math.Max(*usd, 1)
	bynDiff := math.Abs(*byn-expectedBYN) / math.Max(expectedBYN, 1)

	if usdDiff <= priceTolerance && bynDiff <= priceTolerance {
		return usd, byn
	}

	if usdDiff < bynDiff {
		logger(ctx).Warn(
			"цены в валютах расходятся, BYN пересчитан из USD",
			slog.String("source", raw.Source),
			slog.String("external-id", raw.ExternalID),
			slog.Float64("usd", *usd),
			slog.Float64("byn", *byn),
		)

		return usd, lo.ToPtr(round2(expectedBYN))
	}

	logger(ctx).Warn(
		"цены в валютах расходятся, USD пересчитан из BYN",
		slog.String("source", raw.Source),
		slog.String("external-id", raw.ExternalID),
		slog.Float64("usd", *usd),
		slog.Float64("byn", *byn),
	)

	return lo.ToPtr(round2(expectedUSD)), byn
}

func sanePrice(price *float64, ceiling float64) *float64 {
	if price == nil || *price <= 0 || *price > ceiling {
		return nil
	}

	return price
}

func saneYear(year *int) *int {
	if year == nil || *year < minSaneYear || *year > maxSaneYear {
		return nil
	}

	return year
}

// saneMileage отбрасывает невозможные пробеги. Пробег, совпадающий
// с годом выпуска, — почти наверняка ошибка разбора карточки.
func saneMileage(mileage, year *int) *int {
	if mileage == nil || *mileage <= 0 || *mileage > maxSaneMileageKm {
		return nil
	}

	if year != nil && *mileage == *year {
		return nil
	}

	return mileage
}

// synthesizeTitle достраивает заголовок из марки, модели и года, когда
// источник отдал пустой или бесполезно короткий.
func synthesizeTitle(raw string, l entity.Listing) string {
	title := strings.TrimSpace(raw)
	if utf8.RuneCountInString(title) >= minTitleLen {
		return title
	}

	var parts []string

	if l.Brand != "" {
		parts = append(parts, l.Brand)
	}

	if l.Model != "" {
		parts = append(parts, l.Model)
	}

	if l.Year != nil {
		parts = append(parts, strconv.Itoa(*l.Year))
	}

	if len(parts) == 0 {
		return title
	}

	return strings.Join(parts, " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100 //nolint:mnd // два знака
}
