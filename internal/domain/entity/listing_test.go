package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"car_monitor/internal/domain/entity"
)

func TestListingIsViable(t *testing.T) {
	testCases := []struct {
		name   string
		title  string
		url    string
		viable bool
	}{
		{"Detail page", "BMW 520d", "https://av.by/offer/101234567", true},
		{"Search results page", "BMW 520d", "https://cars.av.by/filter?brands=6", false},
		{"Filter word inside slug", "Масляный фильтр Bosch", "https://kufar.by/item/oil-filter-bosch-123", true},
		{"Bare abw catalog", "BMW 520d", "https://abw.by/cars", false},
		{"Abw detail page", "BMW 520d", "https://abw.by/cars/detail/bmw/520d/98765", true},
		{"Short title", "BM", "https://av.by/offer/101234567", false},
		{"Empty URL", "BMW 520d", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := entity.Listing{Title: tc.title, URL: tc.url}
			assert.Equal(t, tc.viable, l.IsViable())
		})
	}
}
