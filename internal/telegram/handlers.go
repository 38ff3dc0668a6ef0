package telegram

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vitaliy-ukiru/fsm-telebot"
	"github.com/vitaliy-ukiru/fsm-telebot/storages/memory"
	"gopkg.in/telebot.v3"

	"github.com/curadda/digestbot/internal/digest"
	"github.com/curadda/digestbot/pkg/errors"
)

const (
	initialState = fsm.DefaultState

	publishConfirmState fsm.State = "publishConfirm"
)

const usage = "Available commands:\n" +
	"/status — result of the last digest run\n" +
	"/publish — build and publish the digest now\n"

func (b *Bot) setupHandlers() {
	manager := fsm.NewManager(
		b.bot,
		nil,
		memory.NewStorage(),
		nil,
	)

	manager.Bind("/start", fsm.AnyState, b.start)
	manager.Bind("/status", fsm.AnyState, b.status)

	manager.Bind("/publish", initialState, b.startPublish)
	manager.Bind(telebot.OnText, publishConfirmState, b.publish)
}

func (b *Bot) setState(s fsm.Context, target fsm.State) {
	err := s.Set(target)
	if err != nil {
		b.log.Warn(errors.WrapFailf(err, "set state to %q", target))
	}
}

func (b *Bot) final(c telebot.Context, s fsm.Context, msg string, opts ...any) error {
	b.setState(s, initialState)
	return c.Send(msg, opts...)
}

func (b *Bot) fail(c telebot.Context, s fsm.Context, err error) error {
	b.log.Error(err)
	return b.final(c, s, "Something went wrong")
}

func (b *Bot) isAdmin(c telebot.Context) bool {
	sender := c.Sender()
	return sender != nil && slices.Contains(b.cfg.Admins, sender.ID)
}

func (b *Bot) start(c telebot.Context, s fsm.Context) error {
	b.setState(s, initialState)
	return c.Send(usage)
}

func (b *Bot) status(c telebot.Context, s fsm.Context) error {
	if !b.isAdmin(c) {
		return b.final(c, s, "This bot is admin-only")
	}

	last, ok := b.runner.Last()
	if !ok {
		return b.final(c, s, "No digest runs yet")
	}

	return b.final(c, s, formatReport(last))
}

func (b *Bot) startPublish(c telebot.Context, s fsm.Context) error {
	if !b.isAdmin(c) {
		return b.final(c, s, "This bot is admin-only")
	}

	b.setState(s, publishConfirmState)
	return c.Send("Publish the digest now? (yes/no)")
}

func (b *Bot) publish(c telebot.Context, s fsm.Context) error {
	if !strings.EqualFold(strings.TrimSpace(c.Text()), "yes") {
		return b.final(c, s, "Cancelled")
	}

	report, err := b.runner.TryRun(b.ctx)
	if err != nil {
		if errors.Is(err, digest.ErrBusy) {
			return b.final(c, s, "A digest run is already in progress")
		}
		return b.fail(c, s, errors.WrapFail(err, "run digest"))
	}

	return b.final(c, s, formatReport(report))
}

func formatReport(r digest.Report) string {
	if len(r.NewArticles) == 0 {
		return fmt.Sprintf("Run at %s: no new articles", r.RanAt.Format("15:04:05"))
	}

	return fmt.Sprintf(
		"Run at %s: %d new articles, published %q",
		r.RanAt.Format("15:04:05"), len(r.NewArticles), r.PDFName,
	)
}
