package entity

import "time"

// FoundListing — объявление, найденное по конкретному фильтру.
// Уникально по (source, external_id, recipient_id): одно и то же
// объявление можно показать разным получателям, но каждому один раз.
type FoundListing struct {
	ID          int64 `json:"id" db:"id"`
	FilterID    int64 `json:"filter_id" db:"filter_id"`
	RecipientID int64 `json:"recipient_id" db:"recipient_id"`
	Listing
	Notified bool      `json:"notified" db:"notified"`
	FoundAt  time.Time `json:"found_at" db:"found_at"`
}
