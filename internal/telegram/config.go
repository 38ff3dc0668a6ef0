package telegram

import "time"

type Config struct {
	Token        string        `yaml:"token"`
	Chat         string        `yaml:"chat"`
	PollInterval time.Duration `yaml:"pollInterval"`

	Admins []int64 `yaml:"admins"`

	SendRetries int           `yaml:"sendRetries"`
	RetryDelay  time.Duration `yaml:"retryDelay"`
}

func (c Config) withDefaults() Config {
	if c.PollInterval == 0 {
		c.PollInterval = 10 * time.Second
	}
	if c.SendRetries == 0 {
		c.SendRetries = 3
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = 5 * time.Second
	}
	return c
}
