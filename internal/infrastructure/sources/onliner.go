package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"car_monitor/internal/domain"
	"car_monitor/internal/domain/entity"
	"car_monitor/internal/infrastructure/fetch"
	"car_monitor/pkg/errcodes"
)

const (
	onlinerName         = "ab.onliner.by"
	onlinerBaseURL      = "https://ab.onliner.by"
	onlinerWaitSelector = "a.vehicle-form__offers-unit"
)

//nolint:gochecknoglobals
var (
	onlinerIDRe = regexp.MustCompile(`/(\d+)/?$`)

	// Слова, по которым карточку видно как служебную ссылку, а не объявление.
	onlinerSkipWords = []string{
		"главная", "onliner", "автобарахолка", "каталог", "новости",
		"люди", "кошелек", "aerogrill",
	}

	// Сегменты URL, которые не могут быть маркой.
	onlinerSkipSegments = map[string]bool{
		"car": true, "vehicle": true, "auto": true,
		"ab.onliner.by": true, "onliner.by": true, "https:": true, "": true,
	}
)

// Onliner — автобарахолка ab.onliner.by. Список объявлений рисует JS,
// поэтому источнику нужен рендерящий фетчер.
type Onliner struct {
	fetcher *fetch.Fetcher
	retrier fetch.Retrier
}

func NewOnliner(fetcher *fetch.Fetcher, retrier fetch.Retrier) *Onliner {
	return &Onliner{fetcher: fetcher, retrier: retrier}
}

func (s *Onliner) Name() string {
	return onlinerName
}

func (s *Onliner) Search(ctx context.Context, f entity.Filter) ([]entity.RawListing, error) {
	req := s.buildRequest(f)

	resp, err := s.retrier.Do(ctx, func(ctx context.Context) (fetch.Response, error) {
		return s.fetcher.Fetch(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("retrier.Do: %w", err)
	}

	return s.Extract(ctx, resp.Body)
}

func (s *Onliner) buildRequest(f entity.Filter) fetch.Request {
	params := url.Values{}

	if f.Brand != "" {
		slug := strings.ToLower(strings.TrimSpace(f.Brand))
		slug = strings.ReplaceAll(slug, " ", "-")
		// В путях onliner Mercedes-Benz живёт как mercedes.
		slug = strings.ReplaceAll(slug, "mercedes-benz", "mercedes")
		params.Set("brand", slug)
	}

	if f.Model != "" {
		params.Set("model", strings.ReplaceAll(strings.ToLower(strings.TrimSpace(f.Model)), " ", "-"))
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

	reqURL := onlinerBaseURL
	if len(params) > 0 {
		reqURL += "/?" + params.Encode()
	}

	return fetch.Request{
		URL:          reqURL,
		WaitSelector: onlinerWaitSelector,
	}
}

func (s *Onliner) Extract(ctx context.Context, body []byte) ([]entity.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, domain.WrapError(err, errcodes.ExtractFailed, "ab.onliner.by: разметка не разобрана")
	}

	var listings []entity.RawListing

	doc.Find(onlinerWaitSelector).Each(func(_ int, unit *goquery.Selection) {
		if raw, ok := s.parseUnit(ctx, unit); ok {
			listings = append(listings, raw)
		}
	})

	return listings, nil
}

func (s *Onliner) parseUnit(_ context.Context, unit *goquery.Selection) (entity.RawListing, bool) {
	href, _ := unit.Attr("href")
	if href == "" {
		return entity.RawListing{}, false
	}

	adURL := absolutize(onlinerBaseURL, href)

	idMatch := onlinerIDRe.FindStringSubmatch(strings.TrimRight(adURL, "/") + "/")
	if idMatch == nil {
		return entity.RawListing{}, false
	}

	raw := entity.RawListing{
		Source:     onlinerName,
		ExternalID: idMatch[1],
		URL:        adURL,
		FreeText:   unit.Text(),
	}

	raw.Title = strings.TrimSpace(unit.Find(".vehicle-form__link_primary-alter").First().Text())
	if raw.Title == "" {
		raw.Title = strings.TrimSpace(unit.Find(".vehicle-form__title").First().Text())
	}

	raw.Brand, raw.Model = s.brandModelFromURL(adURL)
	if raw.Brand == "" && raw.Model == "" {
		raw.Brand, raw.Model = brandModelFromTitle(raw.Title)
	}

	if s.looksLikeNavigation(raw) {
		return entity.RawListing{}, false
	}

	if raw.Brand == "" && raw.Model == "" {
		return entity.RawListing{}, false
	}

	pricePart := unit.Find(".vehicle-form__offers-part_price").First()
	raw.PriceBYN = findMoney(pricePart.Find(".vehicle-form__button_price").Text(), bynRe)
	raw.PriceUSD = findMoney(pricePart.Find(".vehicle-form__description").Text(), usdRe)

	yearText := unit.Find(".vehicle-form__offers-part_year .vehicle-form__description").First().Text()
	raw.Year = findYear(yearText)

	if raw.Year == nil {
		raw.Year = findYear(raw.FreeText)
	}

	mileageText := unit.Find(".vehicle-form__offers-part_mileage .vehicle-form__description").First().Text()
	if !strings.Contains(strings.ToLower(mileageText), "нов") {
		raw.MileageKm = findMileage(mileageText)
	}

	raw.City = strings.TrimSpace(unit.Find(".vehicle-form__offers-part_city .vehicle-form__description").First().Text())

	engineText := unit.Find(".vehicle-form__description_engine").First().Text()
	raw.EngineTypeText = engineText
	raw.EngineVolumeL = findEngineVolume(engineText)

	raw.TransmissionText = unit.Find(".vehicle-form__description_transmission").First().Text()

	if img, ok := unit.Find("img").First().Attr("src"); ok {
		raw.ImageURL = absolutize(onlinerBaseURL, img)
	}

	return raw, true
}

// brandModelFromURL достаёт марку и модель из пути карточки:
// /bmw/5-series/1234567 -> BMW, 5-Series.
func (s *Onliner) brandModelFromURL(adURL string) (string, string) {
	parsed, err := url.Parse(adURL)
	if err != nil {
		return "", ""
	}

	var parts []string

	for _, seg := range strings.Split(parsed.Path, "/") {
		seg = strings.ToLower(strings.TrimSpace(seg))
		if seg == "" || onlinerSkipSegments[seg] {
			continue
		}

		if _, err := strconv.Atoi(seg); err == nil {
			continue
		}

		parts = append(parts, seg)
	}

	if len(parts) == 0 {
		return "", ""
	}

	brand := titleCaseSlug(parts[0])
	if strings.EqualFold(brand, "Mercedes") {
		brand = "Mercedes-Benz"
	}

	model := ""
	if len(parts) > 1 {
		model = titleCaseSlug(parts[1])
	}

	return brand, model
}

func (s *Onliner) looksLikeNavigation(raw entity.RawListing) bool {
	haystack := strings.ToLower(raw.Title + " " + raw.Brand + " " + raw.Model)

	for _, word := range onlinerSkipWords {
		if strings.Contains(haystack, word) {
			return true
		}
	}

	return false
}

// brandModelFromTitle берёт марку и модель из заголовка, обрезая
// на первом слове, похожем на год.
func brandModelFromTitle(title string) (string, string) {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return "", ""
	}

	if yearRe.MatchString(fields[0]) {
		return "", ""
	}

	brand := strings.Trim(fields[0], ",.;:")
	model := ""

	if len(fields) > 1 && !yearRe.MatchString(fields[1]) {
		model = strings.Trim(fields[1], ",.;:")
	}

	return brand, model
}

func titleCaseSlug(slug string) string {
	words := strings.Split(slug, "-")

	for i, w := range words {
		if w == "" {
			continue
		}

		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return strings.Join(words, "-")
}
