package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"car_monitor/internal/domain"
	"car_monitor/internal/domain/entity"
	"car_monitor/internal/domain/value"
	"car_monitor/internal/transport/bot/view"
	"car_monitor/pkg/errcodes"
)

const recentLimit = 10

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

// OnAdd разбирает фильтр из аргументов команды и сохраняет его.
// Формат: /add марка=BMW модель=520 год=2015-2020 цена=10000-20000.
func (h *Handler) OnAdd(ctx *th.Context, msg telego.Message) error {
	filter, err := parseFilterArgs(msg.Chat.ID, msg.Text)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.AddUsage)
	}

	if err := h.filters.Create(ctx, &filter); err != nil {
		logger(ctx).Error("фильтр не сохранился", "error", err)

		return h.sendHTML(ctx, msg.Chat.ID, view.InternalError)
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.AddSuccess, filter.ID, renderFilter(filter)))
}

func (h *Handler) OnFilters(ctx *th.Context, msg telego.Message) error {
	filters, err := h.filters.ListByRecipient(ctx, msg.Chat.ID)
	if err != nil {
		logger(ctx).Error("фильтры не прочитались", "error", err)

		return h.sendHTML(ctx, msg.Chat.ID, view.InternalError)
	}

	if len(filters) == 0 {
		return h.sendHTML(ctx, msg.Chat.ID, view.FiltersEmpty)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📋 <b>Твои фильтры (%d):</b>\n\n", len(filters)))

	for _, f := range filters {
		status := "🟢"
		if !f.Active {
			status = "🔴"
		}

		sb.WriteString(fmt.Sprintf("%s <code>%d</code> — %s\n", status, f.ID, renderFilter(f)))
	}

	return h.sendHTML(ctx, msg.Chat.ID, sb.String())
}

func (h *Handler) OnPause(ctx *th.Context, msg telego.Message) error {
	return h.setActive(ctx, msg, "/pause", false, view.FilterPaused)
}

func (h *Handler) OnResume(ctx *th.Context, msg telego.Message) error {
	return h.setActive(ctx, msg, "/resume", true, view.FilterResumed)
}

func (h *Handler) OnDelete(ctx *th.Context, msg telego.Message) error {
	id, ok := parseFilterID(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.FilterIDUsage, "/delete"))
	}

	if err := h.filters.Delete(ctx, id, msg.Chat.ID); err != nil {
		if isFilterNotFound(err) {
			return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.FilterNotFound, id))
		}

		logger(ctx).Error("фильтр не удалился", "error", err)

		return h.sendHTML(ctx, msg.Chat.ID, view.InternalError)
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.FilterDeleted, id))
}

func (h *Handler) OnRecent(ctx *th.Context, msg telego.Message) error {
	found, err := h.found.ListRecent(ctx, msg.Chat.ID, recentLimit)
	if err != nil {
		logger(ctx).Error("находки не прочитались", "error", err)

		return h.sendHTML(ctx, msg.Chat.ID, view.InternalError)
	}

	if len(found) == 0 {
		return h.sendHTML(ctx, msg.Chat.ID, view.RecentEmpty)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🔍 <b>Последние находки (%d):</b>\n\n", len(found)))

	for _, fl := range found {
		sb.WriteString(fmt.Sprintf("• <a href='%s'>%s</a> [%s]\n", fl.URL, fl.Title, fl.Source))
	}

	return h.sendHTML(ctx, msg.Chat.ID, sb.String())
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	scannerStatus := "🔴 остановлен"
	if h.scanner.IsRunning() {
		scannerStatus = "🟢 работает"
	}

	filters, err := h.filters.ListByRecipient(ctx, msg.Chat.ID)
	if err != nil {
		logger(ctx).Error("фильтры не прочитались", "error", err)

		return h.sendHTML(ctx, msg.Chat.ID, view.InternalError)
	}

	active := 0

	for _, f := range filters {
		if f.Active {
			active++
		}
	}

	text := fmt.Sprintf(`📊 <b>Статус</b>

🔍 <b>Сканер:</b> %s
📋 <b>Фильтров:</b> %d (активных %d)`,
		scannerStatus, len(filters), active)

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

func (h *Handler) setActive(ctx *th.Context, msg telego.Message, cmd string, active bool, okTemplate string) error {
	id, ok := parseFilterID(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.FilterIDUsage, cmd))
	}

	if err := h.filters.SetActive(ctx, id, msg.Chat.ID, active); err != nil {
		if isFilterNotFound(err) {
			return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.FilterNotFound, id))
		}

		logger(ctx).Error("состояние фильтра не изменилось", "error", err)

		return h.sendHTML(ctx, msg.Chat.ID, view.InternalError)
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(okTemplate, id))
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})

	return err
}

func isFilterNotFound(err error) bool {
	code, ok := domain.GetCode(err)

	return ok && code == errcodes.FilterNotFound
}

func parseFilterID(text string) (int64, bool) {
	args := strings.Fields(text)
	if len(args) < 2 {
		return 0, false
	}

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// parseFilterArgs разбирает пары ключ=значение из текста команды.
func parseFilterArgs(recipientID int64, text string) (entity.Filter, error) {
	filter := entity.Filter{
		RecipientID: recipientID,
		Active:      true,
	}

	for _, tok := range strings.Fields(text)[1:] {
		key, val, ok := strings.Cut(tok, "=")
		if !ok || val == "" {
			return entity.Filter{}, domain.NewError(errcodes.ValidationError, "ожидается ключ=значение: "+tok)
		}

		switch strings.ToLower(key) {
		case "марка", "brand":
			filter.Brand = val
		case "модель", "model":
			filter.Model = val
		case "год", "year":
			from, to, err := parseIntRange(val)
			if err != nil {
				return entity.Filter{}, err
			}

			filter.YearFrom, filter.YearTo = from, to
		case "цена", "price":
			from, to, err := parseIntRange(val)
			if err != nil {
				return entity.Filter{}, err
			}

			if from != nil {
				filter.PriceFromUSD = ptrFloat(*from)
			}

			if to != nil {
				filter.PriceToUSD = ptrFloat(*to)
			}
		case "коробка", "transmission":
			filter.Transmission = value.ClassifyTransmission(val)
			if filter.Transmission == "" {
				return entity.Filter{}, domain.NewError(errcodes.ValidationError, "неизвестная коробка: "+val)
			}
		case "двигатель", "engine", "топливо":
			filter.EngineType = value.ClassifyEngineType(val)
			if filter.EngineType == "" {
				return entity.Filter{}, domain.NewError(errcodes.ValidationError, "неизвестный двигатель: "+val)
			}
		case "кузов", "body":
			filter.BodyType = value.CanonicalBodyType(val)
		default:
			return entity.Filter{}, domain.NewError(errcodes.ValidationError, "неизвестный ключ: "+key)
		}
	}

	if err := filter.Validate(); err != nil {
		return entity.Filter{}, err
	}

	return filter, nil
}

// parseIntRange понимает "2015", "2015-2020", "2015-" и "-2020".
func parseIntRange(val string) (*int, *int, error) {
	parse := func(s string) (*int, error) {
		if s == "" {
			return nil, nil //nolint:nilnil // открытая граница
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, domain.NewError(errcodes.ValidationError, "не число: "+s)
		}

		return &n, nil
	}

	fromStr, toStr, ranged := strings.Cut(val, "-")
	if !ranged {
		n, err := parse(val)
		if err != nil {
			return nil, nil, err
		}

		return n, n, nil
	}

	from, err := parse(fromStr)
	if err != nil {
		return nil, nil, err
	}

	to, err := parse(toStr)
	if err != nil {
		return nil, nil, err
	}

	return from, to, nil
}

func ptrFloat(n int) *float64 {
	f := float64(n)

	return &f
}

func renderFilter(f entity.Filter) string {
	var parts []string

	if f.Brand != "" {
		parts = append(parts, "марка="+f.Brand)
	}

	if f.Model != "" {
		parts = append(parts, "модель="+f.Model)
	}

	if f.YearFrom != nil || f.YearTo != nil {
		parts = append(parts, "год="+renderRange(f.YearFrom, f.YearTo))
	}

	if f.PriceFromUSD != nil || f.PriceToUSD != nil {
		from, to := intPtrOfFloat(f.PriceFromUSD), intPtrOfFloat(f.PriceToUSD)
		parts = append(parts, "цена=$"+renderRange(from, to))
	}

	if f.Transmission != "" {
		parts = append(parts, "коробка="+string(f.Transmission))
	}

	if f.EngineType != "" {
		parts = append(parts, "двигатель="+string(f.EngineType))
	}

	if f.BodyType != "" {
		parts = append(parts, "кузов="+string(f.BodyType))
	}

	return strings.Join(parts, ", ")
}

func renderRange(from, to *int) string {
	switch {
	case from != nil && to != nil && *from == *to:
		return strconv.Itoa(*from)
	case from != nil && to != nil:
		return fmt.Sprintf("%d-%d", *from, *to)
	case from != nil:
		return fmt.Sprintf("от %d", *from)
	default:
		return fmt.Sprintf("до %d", *to)
	}
}

func intPtrOfFloat(f *float64) *int {
	if f == nil {
		return nil
	}

	n := int(*f)

	return &n
}
