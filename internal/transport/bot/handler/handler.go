package handler

import (
	"context"

	"car_monitor/internal/domain/entity"
	"car_monitor/internal/worker"
)

type FilterRepository interface {
	Create(ctx context.Context, f *entity.Filter) error
	ListByRecipient(ctx context.Context, recipientID int64) ([]entity.Filter, error)
	SetActive(ctx context.Context, id, recipientID int64, active bool) error
	Delete(ctx context.Context, id, recipientID int64) error
}

type FoundRepository interface {
	ListRecent(ctx context.Context, recipientID int64, limit int) ([]entity.FoundListing, error)
}

type Handler struct {
	filters FilterRepository
	found   FoundRepository
	scanner *worker.Scanner
}

func New(filters FilterRepository, found FoundRepository, scanner *worker.Scanner) *Handler {
	return &Handler{
		filters: filters,
		found:   found,
		scanner: scanner,
	}
}
