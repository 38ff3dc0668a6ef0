package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/curadda/digestbot/internal/api"
	"github.com/curadda/digestbot/internal/digest"
	"github.com/curadda/digestbot/internal/repo"
	"github.com/curadda/digestbot/internal/scrape"
	"github.com/curadda/digestbot/internal/telegram"
	"github.com/curadda/digestbot/internal/translate"
	"github.com/curadda/digestbot/pkg/environment"
	"github.com/curadda/digestbot/pkg/errors"
)

const (
	modeOnce  = "once"
	modeServe = "serve"
)

type Config struct {
	Environment environment.Env `yaml:"Environment"`
	Mode        string          `yaml:"Mode"`

	Digest    digest.Config    `yaml:"Digest"`
	Scrape    scrape.Config    `yaml:"Scrape"`
	Translate translate.Config `yaml:"Translate"`
	Telegram  telegram.Config  `yaml:"Telegram"`
	Mongo     repo.Config      `yaml:"Mongo"`
	API       api.Config       `yaml:"API"`

	// Converter is the office suite binary used for PDF conversion.
	Converter string `yaml:"Converter"`
}

// secrets is the environment contract of the CI job: every value the
// workflow injects is bound here and overrides the YAML file.
type secrets struct {
	BotToken    string `env:"TELEGRAM_BOT_TOKEN"`
	ChatID      string `env:"TELEGRAM_CHAT_ID"`
	ChannelID   string `env:"TELEGRAM_CHANNEL_ID"`
	DBName      string `env:"DB_NAME"`
	Collection  string `env:"COLLECTION_NAME"`
	MongoURL    string `env:"MONGO_CONNECTION_STRING"`
	TemplateURL string `env:"TEMPLATE_URL"`
}

func loadConfig() (*Config, error) {
	cfg := defaultConfig()

	err := readYAML(&cfg)
	if err != nil {
		return nil, err
	}

	var sec secrets
	err = env.Parse(&sec)
	if err != nil {
		return nil, errors.WrapFail(err, "parse environment")
	}
	overlay(&cfg, sec)

	applyFlags(&cfg)

	err = validate(cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Environment: environment.Development,
		Mode:        modeOnce,
		Digest: digest.Config{
			Interval: 12 * time.Hour,
		},
		Scrape: scrape.Config{
			BaseURL: "https://www.gktoday.in/current-affairs/",
			Pages:   2,
		},
		Mongo: repo.Config{
			Timeout: 30 * time.Second,
		},
	}
}

func readYAML(cfg *Config) error {
	path, err := filepath.Abs("config.yaml")
	if err != nil {
		return errors.WrapFail(err, "build path to config")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// the file is optional: secrets alone are enough for a run
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.WrapFail(err, "read \"config.yaml\"")
	}

	err = yaml.Unmarshal(data, cfg)
	return errors.WrapFail(err, "parse yaml")
}

func overlay(cfg *Config, sec secrets) {
	if sec.BotToken != "" {
		cfg.Telegram.Token = sec.BotToken
	}

	chat := sec.ChatID
	if chat == "" {
		chat = sec.ChannelID
	}
	if chat != "" {
		cfg.Telegram.Chat = chat
	}

	if sec.DBName != "" {
		cfg.Mongo.Database = sec.DBName
	}
	if sec.Collection != "" {
		cfg.Mongo.Collection = sec.Collection
	}
	if sec.MongoURL != "" {
		cfg.Mongo.URL = sec.MongoURL
	}
	if sec.TemplateURL != "" {
		cfg.Digest.TemplateURL = sec.TemplateURL
	}
}

func applyFlags(cfg *Config) {
	rawEnv := flag.String("env", "", "environment (dev, prod)")
	rawMode := flag.String("mode", "", "run mode (once, serve)")
	flag.Parse()

	if *rawEnv != "" {
		cfg.Environment = environment.FromString(*rawEnv)
	}
	if *rawMode != "" {
		cfg.Mode = *rawMode
	}
}

func validate(cfg Config) error {
	var missing []string

	required := []struct {
		name  string
		value string
	}{
		{"TELEGRAM_BOT_TOKEN", cfg.Telegram.Token},
		{"TELEGRAM_CHAT_ID", cfg.Telegram.Chat},
		{"DB_NAME", cfg.Mongo.Database},
		{"COLLECTION_NAME", cfg.Mongo.Collection},
		{"MONGO_CONNECTION_STRING", cfg.Mongo.URL},
		{"TEMPLATE_URL", cfg.Digest.TemplateURL},
	}

	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}

	if len(missing) > 0 {
		return errors.Failf("run without required settings: %s", strings.Join(missing, ", "))
	}

	if cfg.Mode != modeOnce && cfg.Mode != modeServe {
		return errors.Failf("interpret mode %q", cfg.Mode)
	}

	return nil
}
