package sources

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Общие регулярки для схем-less разметки. Суммы на сайтах пишутся
// с пробельными разделителями тысяч, иногда с неразрывным пробелом.
//
//nolint:gochecknoglobals
var (
	yearRe    = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	// Перед пробегом не должно стоять цифры, иначе в "2022 180 000 км"
	// матч начнётся внутри года.
	mileageRe = regexp.MustCompile(`(?:^|[^\d])(\d{1,3}(?:[\s ]\d{3})*|\d+)\s*км`)
	usdRe     = regexp.MustCompile(`(\d[\d\s ]*)\s*\$`)
	bynRe     = regexp.MustCompile(`(\d[\d\s ]*)\s*р\.`)
	volumeRe  = regexp.MustCompile(`(\d+[.,]?\d*)\s*л`)
	numberRe  = regexp.MustCompile(`(\d[\d\s ,.]*\d|\d)`)
)

func cleanDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, s)
}

func findYear(text string) *int {
	match := yearRe.FindString(text)
	if match == "" {
		return nil
	}

	year, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}

	return &year
}

// findMileage перебирает кандидатов "N км" и пропускает мусор: 4-значные
// числа, похожие на год ("2022 180 000 км" — это год и пробег, а не два
// пробега), хвосты телефонов и невозможные значения.
func findMileage(text string) *int {
	for _, match := range mileageRe.FindAllStringSubmatch(text, -1) {
		digits := cleanDigits(match[1])
		if digits == "" {
			continue
		}

		val, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}

		if len(digits) == 4 && val >= 1900 && val <= 2100 {
			continue
		}

		if len(digits) >= 9 && strings.HasPrefix(digits, "375") {
			continue
		}

		if val <= 0 || val > 1_000_000 {
			continue
		}

		return &val
	}

	return nil
}

func findMoney(text string, re *regexp.Regexp) *float64 {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	digits := cleanDigits(match[1])
	if digits == "" {
		return nil
	}

	val, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil
	}

	return &val
}

// findEngineVolume пропускает кандидатов вне разумного диапазона:
// "150 л.с." — это мощность, а не объём.
func findEngineVolume(text string) *float64 {
	for _, match := range volumeRe.FindAllStringSubmatch(text, -1) {
		val, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
		if err != nil {
			continue
		}

		if val < 0.1 || val > 20 {
			continue
		}

		return &val
	}

	return nil
}

// parseLocalizedNumber разбирает сумму, в которой точка и запятая могут
// быть как разделителем тысяч, так и десятичным: "25 000", "25,000.50",
// "25.000", "1,5".
func parseLocalizedNumber(s string) (float64, bool) {
	match := numberRe.FindString(s)
	if match == "" {
		return 0, false
	}

	cleaned := strings.NewReplacer(" ", "", " ", "").Replace(match)

	dotPos := strings.LastIndex(cleaned, ".")
	commaPos := strings.LastIndex(cleaned, ",")

	switch {
	case dotPos >= 0 && commaPos >= 0:
		if dotPos > commaPos {
			// Точка десятичная, запятая — тысячи.
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
	case commaPos >= 0:
		if len(cleaned)-commaPos-1 > 3 {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
	case dotPos >= 0:
		if len(cleaned)-dotPos-1 > 3 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}

	return val, true
}

func absolutize(base, href string) string {
	if href == "" {
		return ""
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}

	refURL, err := url.Parse(href)
	if err != nil {
		return href
	}

	return baseURL.ResolveReference(refURL).String()
}

//nolint:gochecknoglobals
var belarusCities = []string{
	"Минск", "Гомель", "Могилев", "Витебск", "Гродно", "Брест",
	"Бобруйск", "Барановичи", "Борисов", "Пинск", "Орша", "Мозырь",
	"Солигорск", "Новополоцк", "Лида", "Молодечно", "Полоцк", "Жлобин",
	"Светлогорск", "Речица", "Слуцк", "Кобрин", "Волковыск", "Калинковичи",
	"Сморгонь", "Рогачев", "Осиповичи", "Жодино", "Слоним", "Кричев",
}

func findCity(text string) string {
	lowered := strings.ToLower(text)

	for _, city := range belarusCities {
		if strings.Contains(lowered, strings.ToLower(city)) {
			return city
		}
	}

	return ""
}

//nolint:gochecknoglobals
var knownBrands = []string{
	"BMW", "Mercedes", "Audi", "Toyota", "Nissan", "Volkswagen",
	"Hyundai", "Kia", "Renault", "Skoda", "Ford", "Mazda", "Honda",
	"Lexus", "Volvo", "LADA", "BelGee", "Geely", "Chery", "Haval",
	"Opel", "Peugeot", "Fiat", "Subaru", "Mitsubishi", "Suzuki",
	"Citroen", "Chevrolet", "Tesla",
}

// findBrandModel ищет известную марку в свободном тексте; моделью
// считается следующее слово, если оно не похоже на год.
func findBrandModel(text string) (string, string) {
	lowered := strings.ToLower(text)

	for _, brand := range knownBrands {
		idx := strings.Index(lowered, strings.ToLower(brand))
		if idx < 0 {
			continue
		}

		rest := strings.Fields(text[idx+len(brand):])
		if len(rest) > 0 && yearRe.FindString(rest[0]) == "" {
			return brand, strings.Trim(rest[0], ",.;:")
		}

		return brand, ""
	}

	return "", ""
}
