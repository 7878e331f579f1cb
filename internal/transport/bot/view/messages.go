package view

const StartMessage = `👋 <b>Привет! Я слежу за автобарахолками.</b>

Добавь фильтр — и я буду присылать свежие объявления с av.by, kufar.by, ab.onliner.by и abw.by.

<b>Команды:</b>
/add марка=BMW модель=X5 год=2015-2020 цена=10000-20000 — добавить фильтр
/filters — список фильтров
/pause <code>ID</code> — приостановить фильтр
/resume <code>ID</code> — возобновить фильтр
/delete <code>ID</code> — удалить фильтр
/recent — последние находки
/status — состояние сканера

В /add также понимаю: коробка=автомат|механика|вариатор, двигатель=бензин|дизель|электро, кузов=седан|универсал|...`

const (
	AddUsage = `❌ Не понял фильтр. Пример:
/add марка=BMW модель=520 год=2015-2020 цена=10000-20000 коробка=автомат`

	AddSuccess = "✅ Фильтр <code>%d</code> сохранён:\n%s"

	FiltersEmpty = "📋 Фильтров пока нет. Добавь первый: /add марка=BMW"

	FilterPaused  = "⏸ Фильтр <code>%d</code> приостановлен"
	FilterResumed = "▶️ Фильтр <code>%d</code> снова в работе"
	FilterDeleted = "🗑 Фильтр <code>%d</code> удалён"
	FilterIDUsage = "❌ Использование: %s <code>ID</code>"

	FilterNotFound = "⚠️ Фильтр <code>%d</code> не найден среди твоих"

	RecentEmpty = "🔍 Находок пока нет — сканер ещё ищет"

	InternalError = "😔 Что-то пошло не так, попробуй ещё раз"
)
