package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"car_monitor/internal/domain"
	"car_monitor/internal/domain/entity"
	"car_monitor/internal/infrastructure/fetch"
	"car_monitor/pkg/errcodes"
	"car_monitor/pkg/lox"
)

const (
	kufarName         = "kufar.by"
	kufarAPIURL       = "https://api.kufar.by/search-api/v1/search/rendered-paginated"
	kufarCarsCategory = "2010"
	kufarPageSize     = "50"
	kufarMaxPriceUSD  = 999999
)

// Kufar — поисковый JSON API kufar.by.
type Kufar struct {
	fetcher *fetch.Fetcher
	retrier fetch.Retrier
}

func NewKufar(fetcher *fetch.Fetcher, retrier fetch.Retrier) *Kufar {
	return &Kufar{fetcher: fetcher, retrier: retrier}
}

func (s *Kufar) Name() string {
	return kufarName
}

type kufarResponse struct {
	Ads []kufarAd `json:"ads"`
}

type kufarAd struct {
	AdID         int64        `json:"ad_id"`
	Subject      string       `json:"subject"`
	Description  string       `json:"description"`
	AdLink       string       `json:"ad_link"`
	AdParameters []kufarParam `json:"ad_parameters"`
	Images       []any        `json:"images"`
	Price        any          `json:"price"`
}

// kufarParam: {'pl': 'Марка', 'vl': 'BMW', 'p': 'brand', 'v': '5', 'pu': 'brn'}.
type kufarParam struct {
	P  string `json:"p"`
	PU string `json:"pu"`
	PL string `json:"pl"`
	V  any    `json:"v"`
	VL any    `json:"vl"`
}

func (s *Kufar) Search(ctx context.Context, f entity.Filter) ([]entity.RawListing, error) {
	req := s.buildRequest(f)

	resp, err := s.retrier.Do(ctx, func(ctx context.Context) (fetch.Response, error) {
		return s.fetcher.Fetch(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("retrier.Do: %w", err)
	}

	return s.Extract(ctx, resp.Body)
}

// buildRequest собирает запрос к search API. Марка и модель уходят
// в полнотекстовый query: числовых справочников у kufar наружу нет.
func (s *Kufar) buildRequest(f entity.Filter) fetch.Request {
	params := url.Values{}
	params.Set("cat", kufarCarsCategory)
	params.Set("size", kufarPageSize)
	params.Set("sort", "lst.d")

	var query []string

	if f.Brand != "" {
		query = append(query, f.Brand)
	}

	if f.Model != "" {
		query = append(query, f.Model)
	}

	if len(query) > 0 {
		params.Set("query", strings.Join(query, " "))
	}

	if f.PriceFromUSD != nil {
		to := kufarMaxPriceUSD
		if f.PriceToUSD != nil {
			to = int(*f.PriceToUSD)
		}

		params.Set("prc", fmt.Sprintf("%d:%d", int(*f.PriceFromUSD), to))
	}

	return fetch.Request{
		URL:     kufarAPIURL + "?" + params.Encode(),
		Headers: map[string]string{"Accept": "application/json"},
	}
}

func (s *Kufar) Extract(ctx context.Context, body []byte) ([]entity.RawListing, error) {
	var resp kufarResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.WrapError(err, errcodes.ExtractFailed, "kufar.by: ответ API не распарсился")
	}

	return lox.FilterMap(resp.Ads, func(ad kufarAd) (entity.RawListing, bool) {
		return s.parseAd(ctx, ad)
	}), nil
}

func (s *Kufar) parseAd(_ context.Context, ad kufarAd) (entity.RawListing, bool) {
	if ad.AdID == 0 {
		return entity.RawListing{}, false
	}

	raw := entity.RawListing{
		Source:     kufarName,
		ExternalID: strconv.FormatInt(ad.AdID, 10),
		Title:      strings.TrimSpace(ad.Subject),
		FreeText:   ad.Subject + " " + ad.Description,
	}

	params := map[string]string{}

	for _, p := range ad.AdParameters {
		code := p.P
		if code == "" {
			code = p.PU
		}

		text := anyString(p.VL)
		if text == "" {
			text = anyString(p.V)
		}

		if code != "" && text != "" {
			params[code] = text
		}
	}

	raw.Brand = firstParam(params, "brand", "brn")
	raw.Model = firstParam(params, "cars_level_1", "crl")

	if yearText := firstParam(params, "regdate", "rgd", "year"); yearText != "" {
		if year := findYear(yearText); year != nil {
			raw.Year = year
		}
	}

	raw.PriceUSD, raw.PriceBYN = s.parsePrices(ad)

	if mileage := firstParam(params, "mileage", "пробег", "odometer"); mileage != "" {
		if digits := cleanDigits(mileage); digits != "" {
			if km, err := strconv.Atoi(digits); err == nil {
				raw.MileageKm = &km
			}
		}
	}

	if volume := firstParam(params, "engine_volume", "объем", "engine"); volume != "" {
		if val, err := strconv.ParseFloat(strings.ReplaceAll(volume, ",", "."), 64); err == nil {
			raw.EngineVolumeL = &val
		}
	}

	raw.City = firstParam(params, "city", "город")
	raw.TransmissionText = firstParam(params, "transmission", "коробка", "gearbox")
	raw.EngineTypeText = firstParam(params, "fuel_type", "топливо", "fuel")
	raw.BodyTypeText = firstParam(params, "body_type", "кузов", "body")

	raw.ImageURL = kufarImageURL(ad.Images)

	raw.URL = ad.AdLink

	switch {
	case raw.URL == "":
		raw.URL = "https://kufar.by/item/" + raw.ExternalID
	case !strings.HasPrefix(raw.URL, "http"):
		raw.URL = absolutize("https://kufar.by", raw.URL)
	}

	return raw, true
}

// parsePrices идёт по параметрам с ценой. Валюта определяется только
// по подписи или тексту параметра: сумма без валюты — это неизвестно
// какая сумма, такую выгоднее выбросить, чем угадывать.
func (s *Kufar) parsePrices(ad kufarAd) (*float64, *float64) {
	var usd, byn *float64

	for _, p := range ad.AdParameters {
		label := strings.ToLower(p.PL)
		code := p.P
		if code == "" {
			code = p.PU
		}

		isPrice := strings.Contains(label, "цена") || strings.Contains(label, "price") ||
			code == "price" || code == "prc" || code == "price_usd" || code == "price_byn"
		if !isPrice {
			continue
		}

		text := anyString(p.VL)
		if text == "" {
			text = anyString(p.V)
		}

		val, ok := parseLocalizedNumber(text)
		if !ok || val > 1_000_000 {
			continue
		}

		textLower := strings.ToLower(text)

		switch {
		case strings.Contains(label, "usd") || strings.Contains(textLower, "$") ||
			strings.Contains(textLower, "долл") || code == "price_usd":
			if usd == nil {
				usd = &val
			}
		case strings.Contains(label, "byn") || strings.Contains(textLower, "р.") ||
			strings.Contains(textLower, "бел") || strings.Contains(textLower, "руб") ||
			code == "price_byn":
			if byn == nil {
				byn = &val
			}
		}
	}

	if usd != nil || byn != nil {
		return usd, byn
	}

	// Запасной путь: объект price с полями usd/byn.
	if price, ok := ad.Price.(map[string]any); ok {
		if val, ok := toFloat(firstKey(price, "usd", "USD")); ok {
			usd = &val
		}

		if val, ok := toFloat(firstKey(price, "byn", "BYN")); ok {
			byn = &val
		}
	}

	return usd, byn
}

func kufarImageURL(images []any) string {
	if len(images) == 0 {
		return ""
	}

	switch img := images[0].(type) {
	case map[string]any:
		for _, key := range []string{"url", "src", "link"} {
			if u := anyString(img[key]); u != "" {
				return u
			}
		}
	case string:
		return img
	}

	return ""
}

func firstParam(params map[string]string, keys ...string) string {
	for _, key := range keys {
		if val := params[key]; val != "" {
			return val
		}
	}

	return ""
}

func firstKey(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if val, ok := m[key]; ok {
			return val
		}
	}

	return nil
}
