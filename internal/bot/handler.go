package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bocrates/internal/domain"
)

// RateService is the slice of the rate layer the command handlers consume.
type RateService interface {
	Snapshot(ctx context.Context) (*domain.RateSnapshot, error)
	QuoteFor(ctx context.Context, code string) (domain.RateQuote, *domain.RateSnapshot, error)
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (domain.ConversionResult, error)
	SupportedCodes() []string
	NextRefresh() time.Time
}

// Sender is satisfied by tgbotapi.BotAPI.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handler struct {
	svc    RateService
	sender Sender
	names  map[string]string // code -> display name
	redact bool
}

func NewHandler(svc RateService, sender Sender, names map[string]string, redact bool) *Handler {
	if names == nil {
		names = map[string]string{}
	}
	return &Handler{svc: svc, sender: sender, names: names, redact: redact}
}

// HandleUpdate dispatches one Telegram update to the matching command.
// Unknown commands and non-command messages are ignored.
func (h *Handler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !strings.HasPrefix(msg.Text, "/") {
		return
	}

	command, args := splitCommand(msg.Text)
	logCommandSafely(command, msg, h.redact)

	var reply string
	switch command {
	case "/start":
		reply = h.startReply()
	case "/rate":
		reply = h.rateReply(ctx, args)
	case "/convert":
		reply = h.convertReply(ctx, args)
	case "/cny_convert":
		reply = h.cnyConvertReply(ctx, args)
	case "/currency":
		reply = h.currencyReply(ctx)
	default:
		return
	}
	if reply == "" {
		return
	}

	if _, err := h.sender.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		logrus.WithError(err).WithField("command", command).Error("Failed to send reply")
	}
}

func (h *Handler) startReply() string {
	return formatWelcome()
}

func (h *Handler) rateReply(ctx context.Context, args []string) string {
	if len(args) > 0 {
		quote, snap, err := h.svc.QuoteFor(ctx, args[0])
		if err != nil {
			return errorReply(err)
		}
		return formatSingleRate(quote, h.names[quote.Code], snap, h.svc.NextRefresh())
	}

	snap, err := h.svc.Snapshot(ctx)
	if err != nil {
		return errorReply(err)
	}
	return formatRateList(snap, h.svc.SupportedCodes(), h.names, h.svc.NextRefresh())
}

func (h *Handler) convertReply(ctx context.Context, args []string) string {
	if len(args) < 3 {
		return msgConvertUsage
	}
	from := strings.ToUpper(args[0])
	to := strings.ToUpper(args[1])
	amount, err := parseAmount(args[2])
	if err != nil {
		return errorReply(err)
	}

	res, err := h.svc.Convert(ctx, amount, from, to)
	if err != nil {
		return errorReply(err)
	}
	return formatConversion(res, h.svc.NextRefresh())
}

func (h *Handler) cnyConvertReply(ctx context.Context, args []string) string {
	if len(args) < 2 {
		return msgCNYConvertUsage
	}
	from := strings.ToUpper(args[0])
	amount, err := parseAmount(args[1])
	if err != nil {
		return errorReply(err)
	}

	res, err := h.svc.Convert(ctx, amount, from, "CNY")
	if err != nil {
		return errorReply(err)
	}
	return formatCNYConversion(res, h.svc.NextRefresh())
}

func (h *Handler) currencyReply(ctx context.Context) string {
	return formatCurrencyList(h.svc.SupportedCodes(), h.names)
}

// splitCommand separates the command word from its arguments, stripping an
// optional @botname suffix used in group chats.
func splitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	command := strings.ToLower(fields[0])
	command, _, _ = strings.Cut(command, "@")
	return command, fields[1:]
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	return amount, nil
}

func errorReply(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return msgInvalidAmount
	case errors.Is(err, domain.ErrUnsupportedCurrency):
		return msgUnsupportedCurrency
	case errors.Is(err, domain.ErrNoDataAvailable):
		return msgNoData
	default:
		logrus.WithError(err).Error("Unexpected error while handling command")
		return msgNoData
	}
}
