package notification

import (
	"fmt"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
	"github.com/pkg/errors"
)

// TelegramSender delivers notifications to a single chat.
type TelegramSender struct {
	api    *botApi.BotAPI
	chatID int64
}

func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}
	log.Infof("telegram notifications authorized on account %s", api.Self.UserName)
	return &TelegramSender{api: api, chatID: chatID}, nil
}

func (s *TelegramSender) Send(subject, body string) error {
	msg := botApi.NewMessage(s.chatID, fmt.Sprintf("%s\n\n%s", subject, body))
	if _, err := s.api.Send(msg); err != nil {
		return errors.Wrap(err, "failed to send telegram message")
	}
	return nil
}
