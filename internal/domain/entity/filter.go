package entity

import (
	"time"

	"github.com/go-playground/validator/v10"

	"car_monitor/internal/domain"
	"car_monitor/internal/domain/value"
	"car_monitor/pkg/errcodes"
)

var validate = validator.New() //nolint:gochecknoglobals

// Filter — сохранённый поисковый фильтр. Получатель (recipient) — это
// телеграм-чат, в который уходят уведомления по этому фильтру.
type Filter struct {
	ID           int64              `json:"id" db:"id"`
	RecipientID  int64              `json:"recipient_id" db:"recipient_id"`
	Brand        string             `json:"brand,omitempty" db:"brand" validate:"omitempty,min=2,max=100"`
	Model        string             `json:"model,omitempty" db:"model" validate:"omitempty,max=100"`
	YearFrom     *int               `json:"year_from,omitempty" db:"year_from" validate:"omitempty,gte=1900,lte=2100"`
	YearTo       *int               `json:"year_to,omitempty" db:"year_to" validate:"omitempty,gte=1900,lte=2100"`
	PriceFromUSD *float64           `json:"price_from_usd,omitempty" db:"price_from_usd" validate:"omitempty,gte=0"`
	PriceToUSD   *float64           `json:"price_to_usd,omitempty" db:"price_to_usd" validate:"omitempty,gte=0"`
	Transmission value.Transmission `json:"transmission,omitempty" db:"transmission"`
	EngineType   value.EngineType   `json:"engine_type,omitempty" db:"engine_type"`
	BodyType     value.BodyType     `json:"body_type,omitempty" db:"body_type"`
	Active       bool               `json:"active" db:"is_active"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
}

// Validate проверяет границы полей и что задан хотя бы один критерий поиска.
func (f Filter) Validate() error {
	if err := validate.Struct(f); err != nil {
		return domain.WrapError(err, errcodes.ValidationError, "фильтр не прошёл валидацию")
	}

	if f.YearFrom != nil && f.YearTo != nil && *f.YearFrom > *f.YearTo {
		return domain.NewError(errcodes.ValidationError, "year_from больше year_to")
	}

	if f.PriceFromUSD != nil && f.PriceToUSD != nil && *f.PriceFromUSD > *f.PriceToUSD {
		return domain.NewError(errcodes.ValidationError, "price_from_usd больше price_to_usd")
	}

	if !f.hasDimension() {
		return domain.NewError(errcodes.FilterInvalid, "в фильтре нет ни одного критерия поиска")
	}

	return nil
}

func (f Filter) hasDimension() bool {
	return f.Brand != "" || f.Model != "" ||
		f.YearFrom != nil || f.YearTo != nil ||
		f.PriceFromUSD != nil || f.PriceToUSD != nil ||
		f.Transmission != "" || f.EngineType != "" || f.BodyType != ""
}
