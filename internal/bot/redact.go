package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// describeMessage returns a log-safe description of an incoming message.
// With redaction enabled it carries no user identifiers or names, only the
// message ID, chat type and the bare command word (never its arguments).
func describeMessage(msg *tgbotapi.Message, redact bool) string {
	if !redact {
		var userID int64
		if msg.From != nil {
			userID = msg.From.ID
		}
		return fmt.Sprintf("message from user %d", userID)
	}

	info := fmt.Sprintf("message id=%d", msg.MessageID)
	if msg.Chat != nil {
		info += " chat_type=" + msg.Chat.Type
	}
	if strings.HasPrefix(msg.Text, "/") {
		info += " command=" + strings.Fields(msg.Text)[0]
	}
	return info
}

func logCommandSafely(command string, msg *tgbotapi.Message, redact bool) {
	logrus.Infof("Handling %s command - %s", command, describeMessage(msg, redact))
}
