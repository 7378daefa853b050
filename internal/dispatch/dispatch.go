// Package dispatch направляет запрос Alexa ровно в один обработчик и
// превращает результат в один ответ.
package dispatch

import (
	"bitbucket.org/sotavant/meetup-skill/internal/logger"
	"bitbucket.org/sotavant/meetup-skill/internal/models"
	"bitbucket.org/sotavant/meetup-skill/internal/response"
	"bitbucket.org/sotavant/meetup-skill/internal/speech"
	"bitbucket.org/sotavant/meetup-skill/internal/store"
	"context"
	"errors"
	"fmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const scopeName = "bitbucket.org/sotavant/meetup-skill/internal/dispatch"

var tracer = otel.Tracer(scopeName)

var ErrUnsupportedRequest = errors.New("unsupported request type")

// Имена маршрутов в порядке проверки.
const (
	RouteLaunch       = "launch"
	RouteHelp         = "help"
	RouteStop         = "stop"
	RouteEvent        = "event"
	RouteFallback     = "fallback"
	RouteSessionEnded = "session-ended"
)

type handler func(ctx context.Context, req models.Request) (models.Response, error)

type route struct {
	name   string
	match  func(req models.Request) bool
	handle handler
}

type Dispatcher struct {
	store     store.Store
	community string
	trim      speech.TrimPolicy
	routes    []route
}

func New(s store.Store, community string, trim speech.TrimPolicy) *Dispatcher {
	d := &Dispatcher{
		store:     s,
		community: community,
		trim:      trim,
	}

	// побеждает первое совпадение, системные интенты стоят раньше
	// предметных и fallback
	d.routes = []route{
		{RouteLaunch, isType(models.TypeLaunchRequest), d.launch},
		{RouteHelp, isIntent(models.IntentHelp), d.help},
		{RouteStop, isIntent(models.IntentStop, models.IntentCancel), d.stop},
		{RouteEvent, isIntent(models.IntentNextEvent, models.IntentNextEventDetails), d.event},
		{RouteFallback, isType(models.TypeIntentRequest), d.fallback},
		{RouteSessionEnded, isType(models.TypeSessionEndedRequest), d.sessionEnded},
	}

	return d
}

func isType(t string) func(models.Request) bool {
	return func(req models.Request) bool {
		return req.Request.Type == t
	}
}

func isIntent(names ...string) func(models.Request) bool {
	return func(req models.Request) bool {
		if req.Request.Type != models.TypeIntentRequest {
			return false
		}
		name := req.IntentName()
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
}

// Route возвращает имя маршрута для req или "", если подходящего нет.
func (d *Dispatcher) Route(req models.Request) string {
	if rt, ok := d.match(req); ok {
		return rt.name
	}
	return ""
}

func (d *Dispatcher) match(req models.Request) (route, bool) {
	for _, rt := range d.routes {
		if rt.match(req) {
			return rt, true
		}
	}
	return route{}, false
}

// Dispatch всегда возвращает ровно один ответ. Ошибки обработчиков,
// неизвестные типы запросов и паники превращаются в общее извинение.
func (d *Dispatcher) Dispatch(ctx context.Context, req models.Request) (resp models.Response) {
	ctx, span := tracer.Start(ctx, "dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("request.type", req.Request.Type),
		attribute.String("request.intent", req.IntentName()),
	)

	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("panic while handling request", zap.Any("panic", r))
			span.SetStatus(codes.Error, fmt.Sprint(r))
			resp = response.Tell(phraseUnexpected)
		}
	}()

	rt, ok := d.match(req)
	if !ok {
		return d.unexpected(span, fmt.Errorf("%w: %q", ErrUnsupportedRequest, req.Request.Type))
	}
	span.SetAttributes(attribute.String("dispatch.route", rt.name))

	resp, err := rt.handle(ctx, req)
	if err != nil {
		return d.unexpected(span, fmt.Errorf("route %s: %w", rt.name, err))
	}

	return resp
}

func (d *Dispatcher) unexpected(span trace.Span, err error) models.Response {
	logger.Log.Error("cannot handle request", zap.Error(err))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return response.Tell(phraseUnexpected)
}

func (d *Dispatcher) launch(_ context.Context, req models.Request) (models.Response, error) {
	logger.Log.Info("session started", zap.String("session_id", req.Session.SessionID))
	return response.Ask(phraseWelcome, phraseHelpHint), nil
}

func (d *Dispatcher) help(context.Context, models.Request) (models.Response, error) {
	return response.Ask(phraseHelp, phraseHelpHint), nil
}

func (d *Dispatcher) stop(context.Context, models.Request) (models.Response, error) {
	return response.EndSession(response.Tell(phraseFarewell), true), nil
}

func (d *Dispatcher) fallback(_ context.Context, req models.Request) (models.Response, error) {
	logger.Log.Debug("unhandled intent", zap.String("intent", req.IntentName()))
	return response.Ask(phraseNotHeard, phraseHelpHint), nil
}

func (d *Dispatcher) sessionEnded(_ context.Context, req models.Request) (models.Response, error) {
	logger.Log.Info("session ended",
		zap.String("session_id", req.Session.SessionID),
		zap.String("reason", req.Request.Reason),
	)
	return response.Empty(), nil
}
