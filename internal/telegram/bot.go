package telegram

import (
	"context"

	"gopkg.in/telebot.v3"

	"github.com/curadda/digestbot/pkg/errors"
	"github.com/curadda/digestbot/pkg/logger"
)

func New(log logger.Logger, cfg Config, runner Runner) (*Bot, error) {
	cfg = cfg.withDefaults()

	b, err := telebot.NewBot(telebot.Settings{
		Token:   cfg.Token,
		Updates: 256,
		Poller: &telebot.LongPoller{
			Timeout: cfg.PollInterval,
		},
	})
	if err != nil {
		return nil, errors.WrapFail(err, "init telebot")
	}

	return &Bot{
		bot:    b,
		cfg:    cfg,
		runner: runner,
		log:    log.With("telegram"),
	}, nil
}

type Bot struct {
	bot *telebot.Bot
	ctx context.Context

	cfg    Config
	runner Runner

	log logger.Logger
}

// SetRunner binds the digest runner; must be called before Run.
func (b *Bot) SetRunner(runner Runner) {
	b.runner = runner
}

func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	b.setupHandlers()
	go b.bot.Start()
	return nil
}

func (b *Bot) Stop() {
	b.bot.Stop()
}

// Publisher returns a channel publisher backed by the same bot session.
func (b *Bot) Publisher() *Publisher {
	return NewPublisher(b.bot, b.cfg, b.log)
}
