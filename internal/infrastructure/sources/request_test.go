package sources

import (
	"net/url"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"car_monitor/internal/domain/entity"
)

func testFilter() entity.Filter {
	return entity.Filter{
		Brand:        "Mercedes-Benz",
		Model:        "E 200",
		YearFrom:     lo.ToPtr(2015),
		YearTo:       lo.ToPtr(2020),
		PriceFromUSD: lo.ToPtr(10000.0),
		PriceToUSD:   lo.ToPtr(25000.0),
	}
}

func queryOf(t *testing.T, rawURL string) url.Values {
	t.Helper()

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)

	return parsed.Query()
}

func TestAvByBuildRequest(t *testing.T) {
	rq := require.New(t)

	src := &AvBy{}

	req := src.buildRequest(testFilter())
	params := queryOf(t, req.URL)

	rq.Equal("8", params.Get("brands[0][brand]"))
	rq.Equal("2015", params.Get("year_from"))
	rq.Equal("2020", params.Get("year_to"))
	rq.Equal("10000", params.Get("price_from"))
	rq.Equal("25000", params.Get("price_to"))

	// Незнакомая марка ищется без параметра марки.
	req = src.buildRequest(entity.Filter{Brand: "Wartburg"})
	rq.Empty(queryOf(t, req.URL).Get("brands[0][brand]"))
}

func TestKufarBuildRequest(t *testing.T) {
	rq := require.New(t)

	src := &Kufar{}

	req := src.buildRequest(testFilter())
	params := queryOf(t, req.URL)

	rq.Equal("2010", params.Get("cat"))
	rq.Equal("Mercedes-Benz E 200", params.Get("query"))
	rq.Equal("10000:25000", params.Get("prc"))

	// Без нижней границы диапазон цены не передаётся.
	req = src.buildRequest(entity.Filter{Brand: "BMW", PriceToUSD: lo.ToPtr(20000.0)})
	rq.Empty(queryOf(t, req.URL).Get("prc"))
}

func TestOnlinerBuildRequest(t *testing.T) {
	rq := require.New(t)

	src := &Onliner{}

	req := src.buildRequest(testFilter())
	params := queryOf(t, req.URL)

	rq.Equal("mercedes", params.Get("brand"))
	rq.Equal("e-200", params.Get("model"))
	rq.Equal("2015", params.Get("year_from"))
	rq.Equal("25000", params.Get("price_to"))
	rq.Equal(onlinerWaitSelector, req.WaitSelector)
}
