package entity

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"car_monitor/internal/domain/value"
)

// RawListing — объявление в том виде, в котором его увидел экстрактор
// источника. Поля без инвариантов: что нашли в разметке, то и лежит.
type RawListing struct {
	Source           string
	ExternalID       string
	Title            string
	Brand            string
	Model            string
	PriceUSD         *float64
	PriceBYN         *float64
	Year             *int
	MileageKm        *int
	EngineVolumeL    *float64
	City             string
	URL              string
	ImageURL         string
	TransmissionText string
	EngineTypeText   string
	BodyTypeText     string
	// FreeText — весь текст карточки, запасной источник атрибутов.
	FreeText string
}

// Listing — каноничное объявление после нормализации. Пара
// (Source, ExternalID) идентифицирует объявление глобально.
type Listing struct {
	Source        string             `json:"source" db:"source"`
	ExternalID    string             `json:"external_id" db:"external_id"`
	Title         string             `json:"title" db:"title"`
	Brand         string             `json:"brand,omitempty" db:"brand"`
	Model         string             `json:"model,omitempty" db:"model"`
	PriceUSD      *float64           `json:"price_usd,omitempty" db:"price_usd"`
	PriceBYN      *float64           `json:"price_byn,omitempty" db:"price_byn"`
	Year          *int               `json:"year,omitempty" db:"year"`
	MileageKm     *int               `json:"mileage_km,omitempty" db:"mileage_km"`
	EngineVolumeL *float64           `json:"engine_volume_l,omitempty" db:"engine_volume_l"`
	City          string             `json:"city,omitempty" db:"city"`
	URL           string             `json:"url" db:"url"`
	ImageURL      string             `json:"image_url,omitempty" db:"image_url"`
	Transmission  value.Transmission `json:"transmission,omitempty" db:"transmission"`
	EngineType    value.EngineType   `json:"engine_type,omitempty" db:"engine_type"`
	BodyType      value.BodyType     `json:"body_type,omitempty" db:"body_type"`
}

const minViableTitleLen = 3

// IsViable отсекает мусор, который экстракторы иногда принимают за
// объявление: ссылки на страницы каталога и карточки без заголовка.
func (l Listing) IsViable() bool {
	if utf8.RuneCountInString(strings.TrimSpace(l.Title)) < minViableTitleLen {
		return false
	}

	if l.URL == "" {
		return false
	}

	u, err := url.Parse(l.URL)
	if err != nil {
		return false
	}

	path := strings.ToLower(strings.Trim(u.Path, "/"))

	// Поисковая выдача av.by живёт на /filter; слово "filter" внутри
	// слага карточки (масляный фильтр и т.п.) объявление не дисквалифицирует.
	for _, seg := range strings.Split(path, "/") {
		if seg == "filter" {
			return false
		}
	}

	// Голая страница каталога вместо карточки.
	if strings.ToLower(u.Host) == "abw.by" && path == "cars" {
		return false
	}

	return true
}
