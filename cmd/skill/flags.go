package main

import (
	"bitbucket.org/sotavant/meetup-skill/internal/meetup"
	"bitbucket.org/sotavant/meetup-skill/internal/verify"
	"errors"
	"flag"
	"fmt"
	"github.com/caarlos0/env/v11"
	"time"
)

// config заполняется из флагов, заданные переменные окружения их перекрывают.
type config struct {
	RunAddr            string        `env:"RUN_ADDR"`
	LogLevel           string        `env:"LOG_LEVEL"`
	MeetupURL          string        `env:"MEETUP_API_URL"`
	MeetupToken        string        `env:"MEETUP_API_TOKEN"`
	MeetupTimeout      time.Duration `env:"MEETUP_TIMEOUT"`
	Community          string        `env:"MEETUP_COMMUNITY"`
	SkillID            string        `env:"SKILL_ID"`
	TimestampTolerance time.Duration `env:"TIMESTAMP_TOLERANCE"`
	TrimHead           int           `env:"DESCRIPTION_TRIM_HEAD"`
	TrimTail           int           `env:"DESCRIPTION_TRIM_TAIL"`
}

var errNoToken = errors.New("meetup API token is not set")

func parseFlags(name string, args []string) (config, error) {
	var cfg config

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.RunAddr, "a", ":8080", "address and port")
	fs.StringVar(&cfg.LogLevel, "l", "info", "log level")
	fs.StringVar(&cfg.MeetupURL, "meetup-url", meetup.DefaultBaseURL, "meetup API base URL")
	fs.StringVar(&cfg.MeetupToken, "meetup-token", "", "meetup API token")
	fs.DurationVar(&cfg.MeetupTimeout, "meetup-timeout", 5*time.Second, "meetup API request timeout")
	fs.StringVar(&cfg.Community, "c", "KLab-Community", "meetup group urlname")
	fs.StringVar(&cfg.SkillID, "skill-id", "", "accepted Alexa skill id, empty accepts any")
	fs.DurationVar(&cfg.TimestampTolerance, "tolerance", verify.DefaultTolerance, "request timestamp tolerance")
	fs.IntVar(&cfg.TrimHead, "trim-head", 0, "description paragraphs dropped from the head")
	fs.IntVar(&cfg.TrimTail, "trim-tail", 2, "description paragraphs dropped from the tail")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.MeetupToken == "" {
		return config{}, errNoToken
	}

	return cfg, nil
}
