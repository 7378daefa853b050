package main

import (
	"bitbucket.org/sotavant/meetup-skill/internal/dispatch"
	"bitbucket.org/sotavant/meetup-skill/internal/logger"
	"bitbucket.org/sotavant/meetup-skill/internal/meetup"
	"bitbucket.org/sotavant/meetup-skill/internal/speech"
	"bitbucket.org/sotavant/meetup-skill/internal/verify"
	"go.uber.org/zap"
	"net/http"
	"os"
)

func main() {
	cfg, err := parseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		panic(err)
	}
	if err := run(cfg); err != nil {
		panic(err)
	}
}

func run(cfg config) error {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return err
	}

	client := meetup.New(cfg.MeetupURL, cfg.MeetupToken, cfg.MeetupTimeout)
	d := dispatch.New(client, cfg.Community, speech.TrimPolicy{
		Head: cfg.TrimHead,
		Tail: cfg.TrimTail,
	})
	appInstance := newApp(d, verify.New(cfg.SkillID, cfg.TimestampTolerance))

	logger.Log.Info("Running server",
		zap.String("address", cfg.RunAddr),
		zap.String("community", cfg.Community),
	)

	return http.ListenAndServe(cfg.RunAddr, logger.RequestLogger(gzipMiddleware(appInstance.webhook)))
}
