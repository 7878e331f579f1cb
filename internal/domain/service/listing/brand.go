package listing

import "strings"

// Алиасы марок: объявления пишут одну и ту же марку по-разному.
//
//nolint:gochecknoglobals
var brandAliases = map[string]string{
	"mercedes":      "mercedes-benz",
	"mercedes benz": "mercedes-benz",
	"mercedesbenz":  "mercedes-benz",
	"vw":            "volkswagen",
}

//nolint:gochecknoglobals
var brandDisplay = map[string]string{
	"mercedes-benz": "Mercedes-Benz",
	"volkswagen":    "Volkswagen",
}

// CanonicalBrand приводит марку к каноничному написанию: Mercedes и
// Mercedes Benz становятся Mercedes-Benz, VW — Volkswagen. Незнакомые
// марки возвращаются как есть.
func CanonicalBrand(brand string) string {
	b := strings.TrimSpace(brand)
	if b == "" {
		return ""
	}

	canon, ok := brandAliases[strings.ToLower(b)]
	if !ok {
		return b
	}

	if display, ok := brandDisplay[canon]; ok {
		return display
	}

	return canon
}

// brandKey — ключ сравнения марок: нижний регистр, без дефисов,
// пробелов и хвоста "benz".
func brandKey(brand string) string {
	b := strings.ToLower(strings.TrimSpace(brand))

	if canon, ok := brandAliases[b]; ok {
		b = canon
	}

	for _, cut := range []string{"-", " ", "benz"} {
		b = strings.ReplaceAll(b, cut, "")
	}

	return b
}

func modelKey(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))

	for _, cut := range []string{"-", " ", "_"} {
		m = strings.ReplaceAll(m, cut, "")
	}

	return m
}
