package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/curadda/digestbot/internal/api"
	"github.com/curadda/digestbot/internal/articles"
	"github.com/curadda/digestbot/internal/digest"
	"github.com/curadda/digestbot/internal/report"
	"github.com/curadda/digestbot/internal/scrape"
	"github.com/curadda/digestbot/internal/telegram"
	"github.com/curadda/digestbot/internal/translate"
	"github.com/curadda/digestbot/pkg/errors"
	"github.com/curadda/digestbot/pkg/logger"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "load config"))
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "init logger"))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGABRT)
	defer cancel()

	httpClient := &http.Client{Timeout: 30 * time.Second}

	ledger, err := articles.New(ctx, log, cfg.Mongo)
	if err != nil {
		log.Panic(errors.WrapFail(err, "init articles ledger"))
	}

	bot, err := telegram.New(log, cfg.Telegram, nil)
	if err != nil {
		log.Panic(errors.WrapFail(err, "init telegram bot"))
	}

	scraper := scrape.New(cfg.Scrape, httpClient, log)

	svc := digest.New(log, cfg.Digest, digest.Deps{
		Lister:     scraper,
		Scraper:    scraper,
		Ledger:     ledger,
		Translator: translate.New(cfg.Translate, httpClient, log),
		Builder:    report.NewBuilder(httpClient, log),
		Converter:  report.NewConverter(cfg.Converter),
		Publisher:  bot.Publisher(),
	})

	switch cfg.Mode {
	case modeServe:
		serve(ctx, log, cfg, svc, bot, ledger)
	default:
		runOnce(ctx, log, svc, ledger)
	}
}

func runOnce(ctx context.Context, log logger.Logger, svc *digest.Service, ledger articles.API) {
	rep, err := svc.Run(ctx)

	closeErr := ledger.Close(context.Background())
	if closeErr != nil {
		log.Warn(errors.WrapFail(closeErr, "close articles ledger"))
	}

	if err != nil {
		log.Panic(errors.WrapFail(err, "run digest"))
	}

	if rep.Published {
		log.Infof("published %q with %d new articles", rep.PDFName, len(rep.NewArticles))
	} else {
		log.Infof("nothing new to publish")
	}
}

func serve(
	ctx context.Context,
	log logger.Logger,
	cfg *Config,
	svc *digest.Service,
	bot *telegram.Bot,
	ledger articles.API,
) {
	bot.SetRunner(svc)

	err := bot.Run(ctx)
	if err != nil {
		log.Panic(errors.WrapFail(err, "run telegram bot"))
	}

	server := api.NewServer(cfg.API, log, svc)

	go func() {
		err := server.Serve(ctx)
		if err != nil {
			log.Error(errors.WrapFail(err, "serve http api"))
		}
	}()

	go svc.Watch(ctx, cfg.Digest.Interval)

	stopped := make(chan struct{})
	context.AfterFunc(ctx, func() {
		stdlog.Println("Graceful shutdown...")

		bot.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Warn(errors.WrapFail(err, "shutdown http server"))
		}

		err = ledger.Close(shutdownCtx)
		if err != nil {
			log.Warn(errors.WrapFail(err, "close articles ledger"))
		}

		stopped <- struct{}{}
	})

	stdlog.Println("Digest bot has been started")
	<-stopped
	stdlog.Println("Shutdown complete")
}
