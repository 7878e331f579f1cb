package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"car_monitor/internal/domain/value"
)

func TestClassifyTransmission(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want value.Transmission
	}{
		{"Automatic russian", "автоматическая", value.TransmissionAutomatic},
		{"CVT wins over automatic", "автоматическая (вариатор)", value.TransmissionCVT},
		{"Manual russian", "механика, 5 ступеней", value.TransmissionManual},
		{"CVT english", "CVT transmission", value.TransmissionCVT},
		{"Unknown", "2.0 л, 2015", value.Transmission("")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, value.ClassifyTransmission(tc.text))
		})
	}
}

func TestClassifyEngineType(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want value.EngineType
	}{
		{"Diesel", "2.0 л / дизель", value.EngineDiesel},
		{"Petrol", "бензин 1.6", value.EnginePetrol},
		{"Electric", "электро, 150 кВт", value.EngineElectric},
		{"Unknown", "красный, 2018 год", value.EngineType("")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, value.ClassifyEngineType(tc.text))
		})
	}
}

func TestBodyType(t *testing.T) {
	rq := assert.New(t)

	rq.Equal(value.BodyType("sedan"), value.ClassifyBodyType("Седан, 2019 г."))
	rq.Equal(value.BodyType("universal"), value.ClassifyBodyType("кузов универсал"))
	rq.Equal(value.BodyType(""), value.ClassifyBodyType("BMW 520d"))

	// Фильтр может прислать и slug, и слово из объявления.
	rq.Equal(value.BodyType("universal"), value.CanonicalBodyType("wagon"))
	rq.Equal(value.BodyType("universal"), value.CanonicalBodyType("универсал"))
	rq.Equal(value.BodyType("universal"), value.CanonicalBodyType("universal"))
	rq.Equal(value.BodyType("suv"), value.CanonicalBodyType("внедорожник"))
}
