package value

import "strings"

// Transmission — тип коробки передач. Значения хранятся в том виде,
// в котором показываются пользователю.
type Transmission string

const (
	TransmissionAutomatic Transmission = "Автомат"
	TransmissionManual    Transmission = "Механика"
	TransmissionCVT       Transmission = "Вариатор"
)

// ClassifyTransmission распознаёт коробку в свободном тексте объявления.
// Вариатор проверяется первым: "автоматическая (вариатор)" — это вариатор.
func ClassifyTransmission(text string) Transmission {
	t := strings.ToLower(text)

	switch {
	case strings.Contains(t, "вариатор") || strings.Contains(t, "cvt"):
		return TransmissionCVT
	case strings.Contains(t, "автомат") || strings.Contains(t, "automatic"):
		return TransmissionAutomatic
	case strings.Contains(t, "механи") || strings.Contains(t, "manual"):
		return TransmissionManual
	}

	return ""
}

// EngineType — тип двигателя.
type EngineType string

const (
	EnginePetrol   EngineType = "Бензин"
	EngineDiesel   EngineType = "Дизель"
	EngineElectric EngineType = "Электро"
)

func ClassifyEngineType(text string) EngineType {
	t := strings.ToLower(text)

	switch {
	case strings.Contains(t, "дизел") || strings.Contains(t, "diesel"):
		return EngineDiesel
	case strings.Contains(t, "электр") || strings.Contains(t, "electro") || strings.Contains(t, "electric"):
		return EngineElectric
	case strings.Contains(t, "бензин") || strings.Contains(t, "petrol") || strings.Contains(t, "gasoline"):
		return EnginePetrol
	}

	return ""
}

// BodyType — канонический тип кузова (slug в нижнем регистре).
type BodyType string

// Словарь ключевых слов. Порядок важен: первый сработавший тип побеждает,
// "универсал" и "wagon" сводятся к universal.
//
//nolint:gochecknoglobals
var bodyTypeKeywords = []struct {
	Type     BodyType
	Keywords []string
}{
	{"sedan", []string{"седан", "sedan"}},
	{"hatchback", []string{"хэтчбек", "хетчбек", "хэтч", "хетч", "hatchback"}},
	{"universal", []string{"универсал", "universal", "wagon", "estate"}},
	{"suv", []string{"внедорожн", "джип", "suv", "offroad"}},
	{"crossover", []string{"кроссовер", "кросс", "crossover"}},
	{"coupe", []string{"купе", "coupe"}},
	{"cabriolet", []string{"кабриолет", "cabriolet", "convertible"}},
	{"minivan", []string{"минивэн", "минивен", "minivan"}},
	{"van", []string{"фургон", "микроавтобус", "van", "bus"}},
	{"pickup", []string{"пикап", "pickup"}},
	{"liftback", []string{"лифтбек", "лифтбэк", "liftback"}},
}

// ClassifyBodyType распознаёт тип кузова в свободном тексте.
func ClassifyBodyType(text string) BodyType {
	t := strings.ToLower(text)

	for _, bt := range bodyTypeKeywords {
		for _, kw := range bt.Keywords {
			if strings.Contains(t, kw) {
				return bt.Type
			}
		}
	}

	return ""
}

// CanonicalBodyType приводит значение из фильтра к каноническому slug:
// и "универсал", и "wagon" означают universal.
func CanonicalBodyType(s string) BodyType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	for _, bt := range bodyTypeKeywords {
		if s == string(bt.Type) {
			return bt.Type
		}
	}

	if bt := ClassifyBodyType(s); bt != "" {
		return bt
	}

	return BodyType(s)
}
