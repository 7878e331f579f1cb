package listing

import (
	"strings"

	"car_monitor/internal/domain/entity"
	"car_monitor/internal/domain/value"
)

// Matches сообщает, подходит ли объявление под фильтр. Чистая функция:
// один и тот же вход всегда даёт один и тот же ответ.
//
// Семантика неизвестных значений различается по полям. Для границ года
// и цены неизвестное значение — отказ: нельзя утверждать, что объявление
// в рамках бюджета, не зная цены. Для коробки, двигателя и кузова
// неизвестное значение пропускается: эти атрибуты часто не указаны
// в объявлении, и терять из-за этого подходящие машины хуже, чем
// изредка показать лишнюю.
func Matches(l entity.Listing, f entity.Filter) bool {
	if f.Brand != "" && !brandMatch(f.Brand, l.Brand) {
		return false
	}

	if f.Model != "" && !modelMatch(f.Model, l.Model) {
		return false
	}

	if f.YearFrom != nil && (l.Year == nil || *l.Year < *f.YearFrom) {
		return false
	}

	if f.YearTo != nil && (l.Year == nil || *l.Year > *f.YearTo) {
		return false
	}

	if f.PriceFromUSD != nil && (l.PriceUSD == nil || *l.PriceUSD < *f.PriceFromUSD) {
		return false
	}

	if f.PriceToUSD != nil && (l.PriceUSD == nil || *l.PriceUSD > *f.PriceToUSD) {
		return false
	}

	// Категории коробки взаимоисключающие: автомат не проходит фильтр
	// "механика" и наоборот.
	if f.Transmission != "" && l.Transmission != "" && f.Transmission != l.Transmission {
		return false
	}

	if f.EngineType != "" && l.EngineType != "" && f.EngineType != l.EngineType {
		return false
	}

	if f.BodyType != "" && l.BodyType != "" &&
		value.CanonicalBodyType(string(f.BodyType)) != value.CanonicalBodyType(string(l.BodyType)) {
		return false
	}

	return true
}

// brandMatch сравнивает марки по ключу с подстрочным совпадением в обе
// стороны: фильтр "BMW" находит "BMW AG", фильтр "Mercedes" — "Mercedes-Benz".
func brandMatch(want, got string) bool {
	w, g := brandKey(want), brandKey(got)
	if w == "" || g == "" {
		return false
	}

	return strings.Contains(g, w) || strings.Contains(w, g)
}

func modelMatch(want, got string) bool {
	w, g := modelKey(want), modelKey(got)
	if w == "" || g == "" {
		return false
	}

	return strings.Contains(g, w) || strings.Contains(w, g)
}
