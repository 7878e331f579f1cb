package notifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"car_monitor/internal/domain/entity"
)

type TelegramBot struct {
	bot *telego.Bot
}

func NewTelegramBot(token string) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{bot: bot}, nil
}

// Deliver отправляет карточку объявления получателю. Если есть фото —
// уходит фотография с подписью, при любой ошибке фото откатываемся
// на обычное текстовое сообщение.
func (b *TelegramBot) Deliver(ctx context.Context, recipientID int64, listing entity.Listing) error {
	text := renderListing(listing)

	if listing.ImageURL != "" {
		photo := tu.Photo(
			tu.ID(recipientID),
			tu.FileFromURL(listing.ImageURL),
		).WithCaption(text).WithParseMode(telego.ModeHTML)

		_, err := b.bot.SendPhoto(ctx, photo)
		if err == nil {
			return nil
		}

		logger(ctx).Debug("фото не отправилось, откат на текст", "error", err)
	}

	msg := tu.Message(tu.ID(recipientID), text).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, recipientID int64, text string) error {
	msg := tu.Message(tu.ID(recipientID), text)

	_, err := b.bot.SendMessage(ctx, msg)

	return err
}

func renderListing(l entity.Listing) string {
	var sb strings.Builder

	sb.WriteString("🚗 <b>Новое объявление!</b>\n\n")
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n\n", l.Title))

	if l.Year != nil {
		sb.WriteString(fmt.Sprintf("📅 Год: %d\n", *l.Year))
	}

	if l.MileageKm != nil {
		sb.WriteString(fmt.Sprintf("🛣️ Пробег: %s км\n", formatThousands(*l.MileageKm)))
	}

	if l.EngineVolumeL != nil {
		sb.WriteString(fmt.Sprintf("⚙️ Объем: %v л\n", *l.EngineVolumeL))
	}

	if l.City != "" {
		sb.WriteString(fmt.Sprintf("📍 Город: %s\n", l.City))
	}

	if l.Transmission != "" {
		sb.WriteString(fmt.Sprintf("🔧 Коробка: %s\n", l.Transmission))
	}

	if l.EngineType != "" {
		sb.WriteString(fmt.Sprintf("⛽ Двигатель: %s\n", l.EngineType))
	}

	if l.BodyType != "" {
		sb.WriteString(fmt.Sprintf("🚙 Тип кузова: %s\n", l.BodyType))
	}

	switch {
	case l.PriceUSD != nil && l.PriceBYN != nil:
		sb.WriteString(fmt.Sprintf("\n💰 <b>$%s</b> / <b>%s BYN</b>\n",
			formatThousands(int(*l.PriceUSD)), formatThousands(int(*l.PriceBYN))))
	case l.PriceUSD != nil:
		sb.WriteString(fmt.Sprintf("\n💰 <b>$%s</b>\n", formatThousands(int(*l.PriceUSD))))
	case l.PriceBYN != nil:
		sb.WriteString(fmt.Sprintf("\n💰 <b>%s BYN</b>\n", formatThousands(int(*l.PriceBYN))))
	}

	sb.WriteString(fmt.Sprintf("\n🔗 <a href='%s'>Открыть объявление</a>", l.URL))

	return sb.String()
}

// formatThousands: 180000 -> "180 000".
func formatThousands(n int) string {
	digits := strconv.Itoa(n)

	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign = "-"
		digits = digits[1:]
	}

	var groups []string

	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}

	groups = append([]string{digits}, groups...)

	return sign + strings.Join(groups, " ")
}
