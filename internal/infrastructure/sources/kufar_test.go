package sources_test

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"car_monitor/internal/infrastructure/fetch"
	"car_monitor/internal/infrastructure/sources"
)

const kufarFixture = `{"ads":[
 {"ad_id":1021,
  "subject":"BMW 520d",
  "description":"Один владелец, обслужена",
  "ad_link":"https://kufar.by/item/1021",
  "ad_parameters":[
    {"p":"brand","pu":"brn","pl":"Марка","v":"5","vl":"BMW"},
    {"p":"cars_level_1","pu":"crl","pl":"Модель","v":"12","vl":"520d"},
    {"p":"regdate","pu":"rgd","pl":"Год выпуска","v":2018,"vl":"2018"},
    {"p":"price","pl":"Цена","vl":"9 500 $"},
    {"p":"price","pl":"Цена","vl":"25 000 р."},
    {"p":"mileage","pl":"Пробег","vl":"180 000 км"},
    {"p":"engine_volume","pl":"Объем","vl":"2,0"},
    {"p":"transmission","pl":"Коробка","vl":"Автомат"},
    {"p":"fuel_type","pl":"Топливо","vl":"Дизель"},
    {"p":"body_type","pl":"Кузов","vl":"Седан"},
    {"p":"city","pl":"Город","vl":"Минск"}],
  "images":[{"url":"https://cdn.kufar.by/1.jpg"}]},
 {"ad_id":1022,
  "subject":"Renault Logan",
  "ad_parameters":[{"p":"price","pl":"Цена","vl":"7 000"}],
  "price":null},
 {"subject":"без ad_id"}
]}`

func TestKufarExtract(t *testing.T) {
	rq := require.New(t)

	src := sources.NewKufar(nil, fetch.Retrier{})

	listings, err := src.Extract(context.Background(), []byte(kufarFixture))
	rq.NoError(err)
	rq.Len(listings, 2)

	raw := listings[0]
	rq.Equal("kufar.by", raw.Source)
	rq.Equal("1021", raw.ExternalID)
	rq.Equal("BMW 520d", raw.Title)
	rq.Equal("BMW", raw.Brand)
	rq.Equal("520d", raw.Model)
	rq.Equal(lo.ToPtr(2018), raw.Year)
	rq.Equal(lo.ToPtr(9500.0), raw.PriceUSD)
	rq.Equal(lo.ToPtr(25000.0), raw.PriceBYN)
	rq.Equal(lo.ToPtr(180000), raw.MileageKm)
	rq.Equal(lo.ToPtr(2.0), raw.EngineVolumeL)
	rq.Equal("Автомат", raw.TransmissionText)
	rq.Equal("Дизель", raw.EngineTypeText)
	rq.Equal("Седан", raw.BodyTypeText)
	rq.Equal("Минск", raw.City)
	rq.Equal("https://kufar.by/item/1021", raw.URL)
	rq.Equal("https://cdn.kufar.by/1.jpg", raw.ImageURL)
	rq.Contains(raw.FreeText, "Один владелец")

	// Сумма без валюты выбрасывается, ссылка достраивается из ad_id.
	second := listings[1]
	rq.Equal("1022", second.ExternalID)
	rq.Nil(second.PriceUSD)
	rq.Nil(second.PriceBYN)
	rq.Equal("https://kufar.by/item/1022", second.URL)
}

// Запасной путь цены: объект price с полями usd/byn.
func TestKufarExtractPriceFallback(t *testing.T) {
	rq := require.New(t)

	const fixture = `{"ads":[
 {"ad_id":7,"subject":"Audi A4","ad_parameters":[],"price":{"usd":12000,"byn":"39600"}}
]}`

	src := sources.NewKufar(nil, fetch.Retrier{})

	listings, err := src.Extract(context.Background(), []byte(fixture))
	rq.NoError(err)
	rq.Len(listings, 1)
	rq.Equal(lo.ToPtr(12000.0), listings[0].PriceUSD)
	rq.Equal(lo.ToPtr(39600.0), listings[0].PriceBYN)
}

func TestKufarExtractBadJSON(t *testing.T) {
	src := sources.NewKufar(nil, fetch.Retrier{})

	_, err := src.Extract(context.Background(), []byte("<html>not json</html>"))
	require.Error(t, err)
}
