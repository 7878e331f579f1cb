package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"car_monitor/internal/domain"
	"car_monitor/internal/domain/entity"
	"car_monitor/pkg/errcodes"
)

type FoundListingRepository struct {
	db *sqlx.DB
}

// NewFoundListingRepository создаёт новый экземпляр репозитория.
func NewFoundListingRepository(db *sqlx.DB) *FoundListingRepository {
	return &FoundListingRepository{db: db}
}

// withTx выполняет функцию в транзакции.
func (r *FoundListingRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "транзакция не открылась")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"транзакция не выполнилась",
			)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "транзакция не закоммитилась")
	}

	return nil
}

// Exists сообщает, показывали ли уже это объявление этому получателю.
func (r *FoundListingRepository) Exists(ctx context.Context, source, externalID string, recipientID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM found_listings
			WHERE source = $1 AND external_id = $2 AND recipient_id = $3
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, source, externalID, recipientID); err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "проверка дубля не выполнилась")
	}

	return exists, nil
}

// Create сохраняет находку и возвращает её идентификатор. Нулевой
// идентификатор без ошибки означает, что получатель это объявление
// уже видел: уникальность по (source, external_id, recipient_id)
// соблюдает сама база, гонка двух циклов сюда не долетает.
func (r *FoundListingRepository) Create(ctx context.Context, found *entity.FoundListing) (int64, error) {
	var id int64

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO found_listings (
				filter_id, recipient_id, source, external_id, title, brand, model,
				price_usd, price_byn, year, mileage_km, engine_volume_l,
				city, url, image_url, transmission, engine_type, body_type, notified
			)
			VALUES (
				:filter_id, :recipient_id, :source, :external_id, :title, :brand, :model,
				:price_usd, :price_byn, :year, :mileage_km, :engine_volume_l,
				:city, :url, :image_url, :transmission, :engine_type, :body_type, :notified
			)
			ON CONFLICT (source, external_id, recipient_id) DO NOTHING
			RETURNING id`

		params := map[string]any{
			"filter_id":       found.FilterID,
			"recipient_id":    found.RecipientID,
			"source":          found.Source,
			"external_id":     found.ExternalID,
			"title":           found.Title,
			"brand":           found.Brand,
			"model":           found.Model,
			"price_usd":       found.PriceUSD,
			"price_byn":       found.PriceBYN,
			"year":            found.Year,
			"mileage_km":      found.MileageKm,
			"engine_volume_l": found.EngineVolumeL,
			"city":            found.City,
			"url":             found.URL,
			"image_url":       found.ImageURL,
			"transmission":    found.Transmission,
			"engine_type":     found.EngineType,
			"body_type":       found.BodyType,
			"notified":        found.Notified,
		}

		bound, args, err := sqlx.Named(query, params)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "запрос не собрался")
		}

		row := tx.QueryRowxContext(ctx, tx.Rebind(bound), args...)

		if err := row.Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Конфликт уникальности: строка уже есть.
				return nil
			}

			return domain.WrapError(err, errcodes.InternalServerError, "находка не сохранилась")
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	found.ID = id

	return id, nil
}

// MarkNotified помечает находку отправленной.
func (r *FoundListingRepository) MarkNotified(ctx context.Context, id int64) error {
	query := `UPDATE found_listings SET notified = TRUE WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "отметка об отправке не записалась")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "число затронутых строк неизвестно")
	}

	if rows == 0 {
		return domain.NewError(errcodes.ListingNotFound, "находка не найдена")
	}

	return nil
}

// ListRecent возвращает последние находки получателя.
func (r *FoundListingRepository) ListRecent(ctx context.Context, recipientID int64, limit int) ([]entity.FoundListing, error) {
	query := `
		SELECT id, filter_id, recipient_id, source, external_id, title, brand, model,
		       price_usd, price_byn, year, mileage_km, engine_volume_l,
		       city, url, image_url, transmission, engine_type, body_type,
		       notified, found_at
		FROM found_listings
		WHERE recipient_id = $1
		ORDER BY found_at DESC
		LIMIT $2`

	var schemas []foundListingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, recipientID, limit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, domain.WrapError(err, errcodes.InternalServerError, "находки не прочитались")
	}

	found := make([]entity.FoundListing, 0, len(schemas))
	for _, s := range schemas {
		found = append(found, s.toDomain())
	}

	return found, nil
}
