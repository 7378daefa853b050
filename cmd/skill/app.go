package main

import (
	"bitbucket.org/sotavant/meetup-skill/internal/logger"
	"bitbucket.org/sotavant/meetup-skill/internal/models"
	"context"
	"encoding/json"
	"go.uber.org/zap"
	"net/http"
)

type dispatcher interface {
	Dispatch(ctx context.Context, req models.Request) models.Response
}

type verifier interface {
	Verify(req models.Request) error
}

type app struct {
	dispatcher dispatcher
	verifier   verifier
}

func newApp(d dispatcher, v verifier) *app {
	return &app{dispatcher: d, verifier: v}
}

func (a *app) webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		logger.Log.Debug("got request with bad method", zap.String("method", r.Method))

		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	logger.Log.Debug("decoding request")
	var req models.Request
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		logger.Log.Debug("cannot decode request JSON body", zap.Error(err))

		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// запросы, не прошедшие проверку, до навыка не доходят
	if err := a.verifier.Verify(req); err != nil {
		logger.Log.Info("rejected request", zap.String("request_id", req.Request.RequestID), zap.Error(err))

		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := a.dispatcher.Dispatch(ctx, req)

	w.Header().Set("Content-Type", "application/json")

	// сериализуем ответ навыка
	enc := json.NewEncoder(w)
	if err := enc.Encode(resp); err != nil {
		logger.Log.Debug("error encoding response", zap.Error(err))
		return
	}
	logger.Log.Debug("sending HTTP 200 response")
}
