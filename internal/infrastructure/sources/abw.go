package sources

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"car_monitor/internal/domain"
	"car_monitor/internal/domain/entity"
	"car_monitor/internal/infrastructure/fetch"
	"car_monitor/pkg/errcodes"
)

const (
	abwName       = "abw.by"
	abwBaseURL    = "https://abw.by"
	abwCatalogURL = "https://abw.by/cars"
)

// Abw — каталог abw.by. Фильтров в URL у сайта нет: забираем свежие
// карточки целиком, отсев по фильтру происходит локально.
type Abw struct {
	fetcher *fetch.Fetcher
	retrier fetch.Retrier
}

func NewAbw(fetcher *fetch.Fetcher, retrier fetch.Retrier) *Abw {
	return &Abw{fetcher: fetcher, retrier: retrier}
}

func (s *Abw) Name() string {
	return abwName
}

func (s *Abw) Search(ctx context.Context, _ entity.Filter) ([]entity.RawListing, error) {
	resp, err := s.retrier.Do(ctx, func(ctx context.Context) (fetch.Response, error) {
		return s.fetcher.Fetch(ctx, fetch.Request{URL: abwCatalogURL})
	})
	if err != nil {
		return nil, fmt.Errorf("retrier.Do: %w", err)
	}

	return s.Extract(ctx, resp.Body)
}

func (s *Abw) Extract(ctx context.Context, body []byte) ([]entity.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, domain.WrapError(err, errcodes.ExtractFailed, "abw.by: разметка не разобрана")
	}

	var listings []entity.RawListing

	seen := map[string]bool{}

	links := doc.Find(`a[href*="/cars/detail/"]`)
	if links.Length() == 0 {
		// Запасной путь: разметка без прямых ссылок на карточки.
		links = doc.Find("div.card__wrapper a[href]")
	}

	// Глубину выдачи режет вызывающий: глубокий скан свежих фильтров
	// должен видеть больше карточек, чем обычный цикл.
	links.Each(func(_ int, link *goquery.Selection) {
		raw, ok := s.parseCard(ctx, link)
		if !ok || seen[raw.URL] {
			return
		}

		seen[raw.URL] = true
		listings = append(listings, raw)
	})

	return listings, nil
}

func (s *Abw) parseCard(_ context.Context, link *goquery.Selection) (entity.RawListing, bool) {
	href, _ := link.Attr("href")
	if href == "" {
		return entity.RawListing{}, false
	}

	adURL := strings.TrimRight(absolutize(abwBaseURL, href), "/")
	if idx := strings.Index(adURL, "?"); idx >= 0 {
		adURL = adURL[:idx]
	}

	externalID := lastNumericSegment(adURL)
	if externalID == "" {
		return entity.RawListing{}, false
	}

	container := link.Closest(".card__wrapper, .card")
	if container.Length() == 0 {
		container = link
	}

	text := container.Text()

	raw := entity.RawListing{
		Source:     abwName,
		ExternalID: externalID,
		URL:        adURL,
		FreeText:   text,
	}

	raw.Title = firstLine(container.Find(".card__info").First().Text())
	if raw.Title == "" {
		raw.Title = firstLine(link.Text())
	}

	raw.Brand, raw.Model = abwBrandModel(adURL, raw.Title, text)

	raw.PriceUSD = findMoney(text, usdRe)
	raw.PriceBYN = findMoney(text, bynRe)
	raw.Year = findYear(text)
	raw.MileageKm = findMileage(text)
	raw.EngineVolumeL = findEngineVolume(text)
	raw.City = findCity(text)

	img := container.Find("img").First()
	for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
		if src, ok := img.Attr(attr); ok && src != "" {
			raw.ImageURL = absolutize(abwBaseURL, src)

			break
		}
	}

	return raw, true
}

// abwBrandModel: сначала путь карточки /cars/detail/<марка>/<модель>/<id>,
// потом заголовок, потом поиск известной марки по всему тексту.
func abwBrandModel(adURL, title, text string) (string, string) {
	if idx := strings.Index(adURL, "/cars/detail/"); idx >= 0 {
		tail := strings.Split(adURL[idx+len("/cars/detail/"):], "/")

		var words []string

		for _, seg := range tail {
			if _, err := strconv.Atoi(seg); err == nil {
				continue
			}

			if seg != "" {
				words = append(words, titleCaseSlug(seg))
			}
		}

		if len(words) >= 2 {
			return words[0], words[1]
		}

		if len(words) == 1 {
			return words[0], ""
		}
	}

	if brand, model := brandModelFromTitle(title); brand != "" {
		return brand, model
	}

	return findBrandModel(text)
}

func lastNumericSegment(adURL string) string {
	segments := strings.Split(adURL, "/")

	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "" {
			continue
		}

		if _, err := strconv.Atoi(segments[i]); err == nil {
			return segments[i]
		}

		break
	}

	return ""
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}

	return ""
}
