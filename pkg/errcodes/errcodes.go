package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Фильтры поиска
	FilterNotFound  failure.ErrorCode = "FilterNotFound"  // ID есть, но в базе нет
	InvalidFilterID failure.ErrorCode = "InvalidFilterID" // Пришёл мусор вместо ID
	FilterInvalid   failure.ErrorCode = "FilterInvalid"   // Ни одного критерия поиска

	// Объявления
	ListingNotFound failure.ErrorCode = "ListingNotFound"
	ListingExists   failure.ErrorCode = "ListingExists" // Уже находили для этого получателя

	// Источники
	UnknownSource     failure.ErrorCode = "UnknownSource"
	SourceUnavailable failure.ErrorCode = "SourceUnavailable"
	SourceRateLimited failure.ErrorCode = "SourceRateLimited" // HTTP 429
	ExtractFailed     failure.ErrorCode = "ExtractFailed"     // Разметка/JSON не распознаны
)
