package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

func TestDescribeMessageRedacted(t *testing.T) {
	msg := &tgbotapi.Message{
		MessageID: 10,
		Text:      "/convert USD EUR 100",
		Chat:      &tgbotapi.Chat{ID: 42, Type: "private"},
		From:      &tgbotapi.User{ID: 987654, UserName: "alice_example"},
	}

	info := describeMessage(msg, true)

	require.Contains(t, info, "message id=10")
	require.Contains(t, info, "chat_type=private")
	require.Contains(t, info, "command=/convert")
	require.NotContains(t, info, "987654")
	require.NotContains(t, info, "alice_example")
	// Command arguments may carry user input and must never be logged.
	require.NotContains(t, info, "USD")
}

func TestDescribeMessageUnredacted(t *testing.T) {
	msg := &tgbotapi.Message{
		MessageID: 10,
		Text:      "/rate",
		From:      &tgbotapi.User{ID: 987654},
	}

	info := describeMessage(msg, false)
	require.Contains(t, info, "987654")
}

func TestDescribeMessageNoPanicsOnSparseMessage(t *testing.T) {
	info := describeMessage(&tgbotapi.Message{MessageID: 3, Text: "hi"}, true)
	require.Contains(t, info, "message id=3")

	info = describeMessage(&tgbotapi.Message{}, false)
	require.NotEmpty(t, info)
}
