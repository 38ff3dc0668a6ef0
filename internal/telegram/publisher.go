package telegram

import (
	"context"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/telebot.v3"

	"github.com/curadda/digestbot/pkg/errors"
	"github.com/curadda/digestbot/pkg/logger"
	"github.com/curadda/digestbot/pkg/tools/await"
)

// Channel is a chat addressed by username, e.g. "@CurrentAdda".
type Channel string

func (c Channel) Recipient() string { return string(c) }

// Recipient interprets a numeric chat as a ChatID and anything else as
// a channel username.
func Recipient(chat string) telebot.Recipient {
	id, err := strconv.ParseInt(chat, 10, 64)
	if err == nil {
		return telebot.ChatID(id)
	}
	return Channel(chat)
}

type sendFunc func(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)

func NewPublisher(bot *telebot.Bot, cfg Config, log logger.Logger) *Publisher {
	cfg = cfg.withDefaults()
	return &Publisher{
		send:    bot.Send,
		chat:    Recipient(cfg.Chat),
		retries: cfg.SendRetries,
		delay:   cfg.RetryDelay,
		log:     log.With("publisher"),
	}
}

type Publisher struct {
	send    sendFunc
	chat    telebot.Recipient
	retries int
	delay   time.Duration
	log     logger.Logger
}

// SendDocument uploads the file to the configured chat. Timed out
// attempts are retried after a delay; any other failure is final.
func (p *Publisher) SendDocument(ctx context.Context, path string, caption string) error {
	doc := &telebot.Document{
		File:     telebot.FromDisk(path),
		FileName: filepath.Base(path),
		Caption:  caption,
	}

	var lastErr error

	for attempt := 0; attempt < p.retries; attempt++ {
		if attempt > 0 {
			if !await.Until(time.Now().Add(p.delay), 0).Await(ctx) {
				return errors.WrapFail(ctx.Err(), "wait before retry")
			}
		}

		_, err := p.send(p.chat, doc)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isTimeout(err) {
			return errors.WrapFail(err, "send document")
		}

		p.log.Warnf("send attempt %d timed out: %s", attempt+1, err)
	}

	return errors.WrapFail(lastErr, "send document after retries")
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(err.Error(), "timeout")
}
