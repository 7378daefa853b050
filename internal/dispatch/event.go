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
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	dateLayout  = "Monday, January 2"
	clockLayout = "15:04"
)

// Виды сбоев в логе неудачного запроса события.
const (
	KindSourceUnavailable = "source_unavailable"
	KindMalformedMarkup   = "malformed_markup"
	KindUnexpected        = "unexpected"
)

// event отвечает на NextEvent и NextEventDetails. Ошибки до Dispatch не
// доходят: они логируются и заменяются извинением здесь же.
func (d *Dispatcher) event(ctx context.Context, req models.Request) (models.Response, error) {
	resp, err := d.describeNextEvent(ctx, req.IntentName())
	if err != nil {
		logger.Log.Error("cannot retrieve next event",
			zap.String("kind", failureKind(err)),
			zap.String("intent", req.IntentName()),
			zap.String("community", d.community),
			zap.Error(err),
		)
		trace.SpanFromContext(ctx).RecordError(err)
		return response.Tell(phraseCantFetch), nil
	}

	return resp, nil
}

func (d *Dispatcher) describeNextEvent(ctx context.Context, intent string) (models.Response, error) {
	e, err := d.store.NextEvent(ctx, d.community)
	if err != nil {
		return models.Response{}, err
	}
	if e == nil {
		return response.Tell(phraseNoEvents), nil
	}

	switch intent {
	case models.IntentNextEvent:
		return response.Ask(announce(e), phraseKnowMore), nil
	case models.IntentNextEventDetails:
		details, err := speech.StripDescription(e.Description, d.trim)
		if err != nil {
			return models.Response{}, fmt.Errorf("describe %q: %w", e.Name, err)
		}
		if details == "" {
			return response.Tell(phraseNoDetails), nil
		}
		return response.Tell(phraseDetails + details), nil
	}

	return models.Response{}, fmt.Errorf("no event answer for intent %q", intent)
}

func announce(e *store.Event) string {
	text := fmt.Sprintf("The next event is %s, on %s %s at %s",
		e.Name,
		e.Start.Format(dateLayout),
		speech.MediumPause,
		e.Start.Format(clockLayout),
	)
	if e.VenueName != "" {
		text += ", at " + e.VenueName
	}
	return text + "."
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, store.ErrSourceUnavailable):
		return KindSourceUnavailable
	case errors.Is(err, speech.ErrMalformedMarkup):
		return KindMalformedMarkup
	default:
		return KindUnexpected
	}
}
