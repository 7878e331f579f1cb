package persistence

import (
	"time"

	"car_monitor/internal/domain/entity"
	"car_monitor/internal/domain/value"
)

// filterSchema — внутренняя структура для маппинга строки users_filters.
type filterSchema struct {
	ID           int64     `db:"id"`
	RecipientID  int64     `db:"recipient_id"`
	Brand        string    `db:"brand"`
	Model        string    `db:"model"`
	YearFrom     *int      `db:"year_from"`
	YearTo       *int      `db:"year_to"`
	PriceFromUSD *float64  `db:"price_from_usd"`
	PriceToUSD   *float64  `db:"price_to_usd"`
	Transmission string    `db:"transmission"`
	EngineType   string    `db:"engine_type"`
	BodyType     string    `db:"body_type"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s *filterSchema) toDomain() entity.Filter {
	return entity.Filter{
		ID:           s.ID,
		RecipientID:  s.RecipientID,
		Brand:        s.Brand,
		Model:        s.Model,
		YearFrom:     s.YearFrom,
		YearTo:       s.YearTo,
		PriceFromUSD: s.PriceFromUSD,
		PriceToUSD:   s.PriceToUSD,
		Transmission: value.Transmission(s.Transmission),
		EngineType:   value.EngineType(s.EngineType),
		BodyType:     value.BodyType(s.BodyType),
		Active:       s.IsActive,
		CreatedAt:    s.CreatedAt,
	}
}

// foundListingSchema — представление строки found_listings.
type foundListingSchema struct {
	ID            int64     `db:"id"`
	FilterID      int64     `db:"filter_id"`
	RecipientID   int64     `db:"recipient_id"`
	Source        string    `db:"source"`
	ExternalID    string    `db:"external_id"`
	Title         string    `db:"title"`
	Brand         string    `db:"brand"`
	Model         string    `db:"model"`
	PriceUSD      *float64  `db:"price_usd"`
	PriceBYN      *float64  `db:"price_byn"`
	Year          *int      `db:"year"`
	MileageKm     *int      `db:"mileage_km"`
	EngineVolumeL *float64  `db:"engine_volume_l"`
	City          string    `db:"city"`
	URL           string    `db:"url"`
	ImageURL      string    `db:"image_url"`
	Transmission  string    `db:"transmission"`
	EngineType    string    `db:"engine_type"`
	BodyType      string    `db:"body_type"`
	Notified      bool      `db:"notified"`
	FoundAt       time.Time `db:"found_at"`
}

func (s *foundListingSchema) toDomain() entity.FoundListing {
	return entity.FoundListing{
		ID:          s.ID,
		FilterID:    s.FilterID,
		RecipientID: s.RecipientID,
		Listing: entity.Listing{
			Source:        s.Source,
			ExternalID:    s.ExternalID,
			Title:         s.Title,
			Brand:         s.Brand,
			Model:         s.Model,
			PriceUSD:      s.PriceUSD,
			PriceBYN:      s.PriceBYN,
			Year:          s.Year,
			MileageKm:     s.MileageKm,
			EngineVolumeL: s.EngineVolumeL,
			City:          s.City,
			URL:           s.URL,
			ImageURL:      s.ImageURL,
			Transmission:  value.Transmission(s.Transmission),
			EngineType:    value.EngineType(s.EngineType),
			BodyType:      value.BodyType(s.BodyType),
		},
		Notified: s.Notified,
		FoundAt:  s.FoundAt,
	}
}
