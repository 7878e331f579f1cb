package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"car_monitor/internal/domain"
	"car_monitor/internal/domain/entity"
	"car_monitor/internal/infrastructure/fetch"
	"car_monitor/pkg/errcodes"
	"car_monitor/pkg/lox"
)

const (
	avByName      = "av.by"
	avByFilterURL = "https://cars.av.by/filter"
)

// Идентификаторы марок в фильтре av.by.
//
//nolint:gochecknoglobals
var avBrandIDs = map[string]string{
	"audi": "1", "chevrolet": "3", "fiat": "4", "ford": "5", "bmw": "6",
	"hyundai": "7", "mercedes-benz": "8", "mercedes": "8", "nissan": "9",
	"peugeot": "10", "opel": "11", "renault": "12", "kia": "13",
	"toyota": "14", "volkswagen": "15", "vw": "15", "mazda": "16",
	"skoda": "17", "volvo": "18", "tesla": "19", "citroen": "20",
	"honda": "21", "lexus": "22", "mitsubishi": "23", "subaru": "24",
	"suzuki": "25",
}

// Известные места массива объявлений внутри __NEXT_DATA__. Сайт
// переезжает между ревизиями Next.js, поэтому пути дублируются,
// а последним рубежом идёт рекурсивный поиск.
//
//nolint:gochecknoglobals
var avAdvertPaths = [][]string{
	{"props", "initialState", "filter", "main", "adverts"},
	{"props", "pageProps", "adverts"},
	{"props", "initialState", "adverts"},
	{"props", "pageProps", "initialState", "adverts"},
}

// AvBy — каталог cars.av.by: SSR-страница Next.js со встроенным JSON.
type AvBy struct {
	fetcher *fetch.Fetcher
	retrier fetch.Retrier
}

func NewAvBy(fetcher *fetch.Fetcher, retrier fetch.Retrier) *AvBy {
	return &AvBy{fetcher: fetcher, retrier: retrier}
}

func (s *AvBy) Name() string {
	return avByName
}

func (s *AvBy) Search(ctx context.Context, f entity.Filter) ([]entity.RawListing, error) {
	req := s.buildRequest(f)

	resp, err := s.retrier.Do(ctx, func(ctx context.Context) (fetch.Response, error) {
		return s.fetcher.Fetch(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("retrier.Do: %w", err)
	}

	return s.Extract(ctx, resp.Body)
}

// buildRequest переводит фильтр в параметры каталога. Марка передаётся
// числовым идентификатором; незнакомая марка ищется без параметра,
// локальная фильтрация отсеет лишнее.
func (s *AvBy) buildRequest(f entity.Filter) fetch.Request {
	params := url.Values{}

	if id, ok := avBrandIDs[strings.ToLower(strings.TrimSpace(f.Brand))]; ok {
		params.Set("brands[0][brand]", id)
	}

	if f.YearFrom != nil {
		params.Set("year_from", strconv.Itoa(*f.YearFrom))
	}

	if f.YearTo != nil {
		params.Set("year_to", strconv.Itoa(*f.YearTo))
	}

	if f.PriceFromUSD != nil {
		params.Set("price_from", strconv.Itoa(int(*f.PriceFromUSD)))
	}

	if f.PriceToUSD != nil {
		params.Set("price_to", strconv.Itoa(int(*f.PriceToUSD)))
	}

	reqURL := avByFilterURL
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	return fetch.Request{URL: reqURL}
}

// Extract достаёт объявления из __NEXT_DATA__ серверного рендера.
func (s *AvBy) Extract(ctx context.Context, body []byte) ([]entity.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, domain.WrapError(err, errcodes.ExtractFailed, "av.by: разметка не разобрана")
	}

	data := strings.TrimSpace(doc.Find("script#__NEXT_DATA__").First().Text())
	if data == "" {
		return nil, domain.NewError(errcodes.ExtractFailed, "av.by: на странице нет __NEXT_DATA__")
	}

	var root map[string]any
	if err := json.Unmarshal([]byte(data), &root); err != nil {
		return nil, domain.WrapError(err, errcodes.ExtractFailed, "av.by: __NEXT_DATA__ не распарсился")
	}

	adverts := avFindAdverts(root)

	return lox.FilterMap(adverts, func(item any) (entity.RawListing, bool) {
		return s.parseAdvert(ctx, item)
	}), nil
}

func avFindAdverts(root map[string]any) []any {
	for _, path := range avAdvertPaths {
		if arr, ok := digSlice(root, path...); ok {
			return arr
		}
	}

	return findAdvertArray(root, 0)
}

const advertSearchMaxDepth = 6

// findAdvertArray рекурсивно ищет массив объектов с id и properties —
// так выглядят объявления в любой ревизии av.by.
func findAdvertArray(v any, depth int) []any {
	if depth > advertSearchMaxDepth {
		return nil
	}

	switch t := v.(type) {
	case []any:
		if len(t) > 0 {
			if first, ok := t[0].(map[string]any); ok {
				_, hasID := first["id"]
				_, hasProps := first["properties"]

				if hasID && hasProps {
					return t
				}
			}
		}

		for _, item := range t {
			if found := findAdvertArray(item, depth+1); found != nil {
				return found
			}
		}
	case map[string]any:
		for _, val := range t {
			if found := findAdvertArray(val, depth+1); found != nil {
				return found
			}
		}
	}

	return nil
}

func (s *AvBy) parseAdvert(_ context.Context, item any) (entity.RawListing, bool) {
	ad, ok := item.(map[string]any)
	if !ok {
		return entity.RawListing{}, false
	}

	raw := entity.RawListing{Source: avByName}

	raw.ExternalID = anyString(ad["id"])
	if raw.ExternalID == "" {
		return entity.RawListing{}, false
	}

	raw.Title = anyString(ad["title"])

	for _, key := range []string{"brand", "brandName", "make"} {
		if raw.Brand = anyString(ad[key]); raw.Brand != "" {
			break
		}
	}

	for _, key := range []string{"model", "modelName"} {
		if raw.Model = anyString(ad[key]); raw.Model != "" {
			break
		}
	}

	if year, ok := toInt(ad["year"]); ok {
		raw.Year = &year
	}

	if props, ok := ad["properties"].([]any); ok {
		s.applyProperties(&raw, props)
	}

	if usd, ok := dig(ad, "price", "usd", "amount"); ok {
		if val, ok := toFloat(usd); ok {
			raw.PriceUSD = &val
		}
	}

	if byn, ok := dig(ad, "price", "byn", "amount"); ok {
		if val, ok := toFloat(byn); ok {
			raw.PriceBYN = &val
		}
	}

	if photos, ok := ad["photos"].([]any); ok && len(photos) > 0 {
		if photo, ok := photos[0].(map[string]any); ok {
			if u, ok := dig(photo, "medium", "url"); ok {
				raw.ImageURL = anyString(u)
			} else {
				raw.ImageURL = anyString(photo["url"])
			}
		}
	}

	raw.City = anyString(ad["locationName"])

	for _, key := range []string{"publicUrl", "url", "link"} {
		if raw.URL = anyString(ad[key]); raw.URL != "" {
			break
		}
	}

	if raw.URL == "" {
		raw.URL = "https://av.by/offer/" + raw.ExternalID
	}

	return raw, true
}

func (s *AvBy) applyProperties(raw *entity.RawListing, props []any) {
	for _, p := range props {
		prop, ok := p.(map[string]any)
		if !ok {
			continue
		}

		val := prop["value"]

		switch anyString(prop["name"]) {
		case "mileage":
			if km, ok := toInt(val); ok {
				raw.MileageKm = &km
			}
		case "engine_capacity":
			if vol, ok := toFloat(val); ok {
				raw.EngineVolumeL = &vol
			}
		case "transmission_type":
			raw.TransmissionText = anyString(val)
		case "engine_type":
			raw.EngineTypeText = anyString(val)
		case "body_type":
			raw.BodyTypeText = anyString(val)
		}
	}
}
