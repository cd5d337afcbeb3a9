package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bocrates/internal/adapters/cache"
	"bocrates/internal/bot"
	"bocrates/internal/domain"
)

type stubService struct {
	snapshots int
}

func (s *stubService) Snapshot(context.Context) (*domain.RateSnapshot, error) {
	s.snapshots++
	quotes := []domain.RateQuote{{Code: "USD", Middle: decimal.RequireFromString("715.42")}}
	return domain.NewSnapshot(quotes, time.Date(2025, 5, 2, 12, 0, 0, 0, time.UTC)), nil
}

func (s *stubService) QuoteFor(context.Context, string) (domain.RateQuote, *domain.RateSnapshot, error) {
	return domain.RateQuote{}, nil, domain.ErrUnsupportedCurrency
}

func (s *stubService) Convert(context.Context, decimal.Decimal, string, string) (domain.ConversionResult, error) {
	return domain.ConversionResult{}, domain.ErrNoDataAvailable
}

func (s *stubService) SupportedCodes() []string { return []string{"CNY", "USD"} }

func (s *stubService) NextRefresh() time.Time { return time.Time{} }

type countingSender struct {
	sent int
}

func (s *countingSender) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent++
	return tgbotapi.Message{}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *stubService, *countingSender) {
	t.Helper()
	dedup, err := cache.NewUpdateDedup(1024)
	require.NoError(t, err)
	t.Cleanup(dedup.Close)

	svc := &stubService{}
	sender := &countingSender{}
	handler := bot.NewHandler(svc, sender, nil, true)
	return NewRouter("/webhook", handler, dedup), svc, sender
}

func updateBody(t *testing.T, updateID int, text string) *bytes.Reader {
	t.Helper()
	update := tgbotapi.Update{
		UpdateID: updateID,
		Message: &tgbotapi.Message{
			MessageID: 1,
			Text:      text,
			Chat:      &tgbotapi.Chat{ID: 42, Type: "private"},
		},
	}
	body, err := json.Marshal(update)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestWebhookAnswersSuccess(t *testing.T) {
	router, svc, sender := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", updateBody(t, 1, "/rate")))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"success"}`, rec.Body.String())
	require.Equal(t, 1, svc.snapshots)
	require.Equal(t, 1, sender.sent)
}

func TestWebhookSkipsDuplicateUpdates(t *testing.T) {
	router, _, sender := newTestRouter(t)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", updateBody(t, 7, "/rate")))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Equal(t, 1, sender.sent)
}

func TestWebhookToleratesGarbageBody(t *testing.T) {
	router, _, sender := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte("{not json"))))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"success"}`, rec.Body.String())
	require.Equal(t, 0, sender.sent)
}

func TestHealthz(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}
