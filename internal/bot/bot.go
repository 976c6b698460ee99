// Package bot runs the companion Telegram chat bot.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

type Bot struct {
	token string
	cmds  *Commands
}

func New(token string, cmds *Commands) *Bot { return &Bot{token: token, cmds: cmds} }

// Run long-polls Telegram for updates until ctx is cancelled. An empty token
// disables the bot.
func (b *Bot) Run(ctx context.Context) error {
	if b.token == "" {
		log.Warn().Msg("Telegram bot token not set, bot disabled")
		return nil
	}
	api, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return err
	}
	api.Debug = false
	log.Info().Str("username", api.Self.UserName).Msg("Telegram bot started")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()
	for {
		select {
		case <-ctx.Done():
			return nil
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			msg := up.Message
			if msg == nil || msg.From == nil || !msg.IsCommand() {
				continue
			}
			log.Debug().Int64("from", msg.From.ID).Str("command", msg.Command()).Msg("bot command")
			reply := b.cmds.Handle(ctx, msg.From.ID, msg.Command(), msg.CommandArguments())
			b.send(api, msg.Chat.ID, reply)
		}
	}
}

func (b *Bot) send(api *tgbotapi.BotAPI, chatID int64, reply Reply) {
	msg := newMessage(chatID, reply)
	if _, err := api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send tg msg")
	}
}

func newMessage(chatID int64, reply Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.GameURL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("Open Game", reply.GameURL)),
		)
	}
	return msg
}
