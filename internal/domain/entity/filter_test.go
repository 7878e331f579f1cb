package entity_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car_monitor/internal/domain"
	"car_monitor/internal/domain/entity"
	"car_monitor/pkg/errcodes"
)

func TestFilterValidate(t *testing.T) {
	rq := require.New(t)

	valid := entity.Filter{RecipientID: 1, Brand: "BMW", PriceToUSD: lo.ToPtr(20000.0)}
	rq.NoError(valid.Validate())

	empty := entity.Filter{RecipientID: 1}
	err := empty.Validate()
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.FilterInvalid, code)

	swapped := entity.Filter{RecipientID: 1, YearFrom: lo.ToPtr(2020), YearTo: lo.ToPtr(2010)}
	rq.Error(swapped.Validate())

	badYear := entity.Filter{RecipientID: 1, YearFrom: lo.ToPtr(1800)}
	rq.Error(badYear.Validate())
}

func TestListingIsViableBasic(t *testing.T) {
	testCases := []struct {
		name    string
		listing entity.Listing
		want    bool
	}{
		{
			name:    "Ok",
			listing: entity.Listing{Title: "BMW 520d", URL: "https://abw.by/cars/detail/bmw/520/12345"},
			want:    true,
		},
		{
			name:    "Short title",
			listing: entity.Listing{Title: "a", URL: "https://av.by/offer/1"},
			want:    false,
		},
		{
			name:    "No URL",
			listing: entity.Listing{Title: "BMW 520d"},
			want:    false,
		},
		{
			name:    "Search page instead of ad",
			listing: entity.Listing{Title: "BMW 520d", URL: "https://cars.av.by/filter?brands=6"},
			want:    false,
		},
		{
			name:    "Bare catalog page",
			listing: entity.Listing{Title: "BMW 520d", URL: "https://abw.by/cars"},
			want:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.listing.IsViable())
		})
	}
}
