package channels

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/permachat/permachat/pkg/config"
	"github.com/permachat/permachat/pkg/logger"
)

// TelegramNotifier announces completed uploads to a configured Telegram chat.
// The relay owns the bot that receives files; this notifier only sends.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(cfg config.TelegramConfig) (*TelegramNotifier, error) {
	return newTelegramNotifier(cfg, tgbotapi.APIEndpoint)
}

func newTelegramNotifier(cfg config.TelegramConfig, endpoint string) (*TelegramNotifier, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram: token is required")
	}
	if cfg.ChatID == 0 {
		return nil, fmt.Errorf("telegram: chat_id is required")
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(cfg.Token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: creating bot: %w", err)
	}

	logger.InfoCF("channels", "Telegram notifier ready", map[string]interface{}{
		"username": bot.Self.UserName,
	})

	return &TelegramNotifier{bot: bot, chatID: cfg.ChatID}, nil
}

// AnnounceUpload sends the permanent URL to the configured chat. HTML parse
// mode first, plain text on retry.
func (n *TelegramNotifier) AnnounceUpload(url string) error {
	text := fmt.Sprintf(`Your file is on permanent storage: <a href="%s">%s</a>`, url, url)
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := n.bot.Send(msg); err != nil {
		msg.Text = "Your file is on permanent storage: " + url
		msg.ParseMode = ""
		if _, retryErr := n.bot.Send(msg); retryErr != nil {
			logger.ErrorCF("channels", "Telegram announcement failed", map[string]interface{}{
				"error": retryErr.Error(),
			})
			return retryErr
		}
	}

	return nil
}
