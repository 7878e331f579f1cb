package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"car_monitor/internal/domain"
	"car_monitor/internal/domain/entity"
	"car_monitor/pkg/errcodes"
)

const filterColumns = `
	id, recipient_id, brand, model, year_from, year_to,
	price_from_usd, price_to_usd, transmission, engine_type, body_type,
	is_active, created_at `

type FilterRepository struct {
	db *sqlx.DB
}

// NewFilterRepository создаёт новый экземпляр репозитория.
func NewFilterRepository(db *sqlx.DB) *FilterRepository {
	return &FilterRepository{db: db}
}

// Create сохраняет фильтр и проставляет присвоенный идентификатор.
func (r *FilterRepository) Create(ctx context.Context, f *entity.Filter) error {
	query := `
		INSERT INTO users_filters (
			recipient_id, brand, model, year_from, year_to,
			price_from_usd, price_to_usd, transmission, engine_type, body_type,
			is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	row := r.db.QueryRowxContext(ctx, query,
		f.RecipientID, f.Brand, f.Model, f.YearFrom, f.YearTo,
		f.PriceFromUSD, f.PriceToUSD, f.Transmission, f.EngineType, f.BodyType,
		f.Active,
	)

	if err := row.Scan(&f.ID, &f.CreatedAt); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "фильтр не сохранился")
	}

	return nil
}

// GetByID возвращает фильтр по идентификатору.
func (r *FilterRepository) GetByID(ctx context.Context, id int64) (entity.Filter, error) {
	query := `SELECT` + filterColumns + `FROM users_filters WHERE id = $1`

	var schema filterSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Filter{}, domain.NewError(errcodes.FilterNotFound, "фильтр не найден")
		}

		return entity.Filter{}, domain.WrapError(err, errcodes.InternalServerError, "фильтр не прочитался")
	}

	return schema.toDomain(), nil
}

// ListActive возвращает все активные фильтры всех получателей.
func (r *FilterRepository) ListActive(ctx context.Context) ([]entity.Filter, error) {
	query := `SELECT` + filterColumns + `FROM users_filters WHERE is_active ORDER BY id`

	var schemas []filterSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "активные фильтры не прочитались")
	}

	filters := make([]entity.Filter, 0, len(schemas))
	for _, s := range schemas {
		filters = append(filters, s.toDomain())
	}

	return filters, nil
}

// ListByRecipient возвращает фильтры одного получателя, включая выключенные.
func (r *FilterRepository) ListByRecipient(ctx context.Context, recipientID int64) ([]entity.Filter, error) {
	query := `SELECT` + filterColumns + `FROM users_filters WHERE recipient_id = $1 ORDER BY id`

	var schemas []filterSchema
	if err := r.db.SelectContext(ctx, &schemas, query, recipientID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "фильтры получателя не прочитались")
	}

	filters := make([]entity.Filter, 0, len(schemas))
	for _, s := range schemas {
		filters = append(filters, s.toDomain())
	}

	return filters, nil
}

// SetActive включает или выключает фильтр. Получатель может управлять
// только своими фильтрами, поэтому recipient_id входит в условие.
func (r *FilterRepository) SetActive(ctx context.Context, id, recipientID int64, active bool) error {
	query := `UPDATE users_filters SET is_active = $1 WHERE id = $2 AND recipient_id = $3`

	return r.execOwned(ctx, query, active, id, recipientID)
}

// Delete удаляет фильтр получателя.
func (r *FilterRepository) Delete(ctx context.Context, id, recipientID int64) error {
	query := `DELETE FROM users_filters WHERE id = $1 AND recipient_id = $2`

	return r.execOwned(ctx, query, id, recipientID)
}

func (r *FilterRepository) execOwned(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "запрос не выполнился")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "число затронутых строк неизвестно")
	}

	if rows == 0 {
		return domain.NewError(errcodes.FilterNotFound, "фильтр не найден")
	}

	return nil
}
