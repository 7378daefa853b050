// Package meetup читает ближайшие события из REST API Meetup.
package meetup

import (
	"bitbucket.org/sotavant/meetup-skill/internal/logger"
	"bitbucket.org/sotavant/meetup-skill/internal/store"
	"context"
	"encoding/json"
	"fmt"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"net/http"
	"time"
)

const (
	scopeName = "bitbucket.org/sotavant/meetup-skill/internal/meetup"

	DefaultBaseURL = "https://api.meetup.com"

	localLayout = "2006-01-02 15:04"
)

var tracer = otel.Tracer(scopeName)

type Client struct {
	http *resty.Client
}

var _ store.Store = (*Client)(nil)

// New создаёт клиента с токеном. timeout ограничивает весь запрос, ноль
// оставляет только контекст вызывающего.
func New(baseURL, token string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetTransport(otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return operation + " " + r.URL.Path
			}),
		))

	return &Client{http: c}
}

type event struct {
	Name        string `json:"name"`
	LocalDate   string `json:"local_date"`
	LocalTime   string `json:"local_time"`
	Description string `json:"description"`
	Venue       *venue `json:"venue"`
}

type venue struct {
	Name string `json:"name"`
}

// NextEvent запрашивает одно ближайшее событие группы community (её urlname).
// API сортирует предстоящие события по времени начала.
func (c *Client) NextEvent(ctx context.Context, community string) (*store.Event, error) {
	ctx, span := tracer.Start(ctx, "meetup next event")
	defer span.End()
	span.SetAttributes(attribute.String("meetup.community", community))

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("urlname", community).
		SetQueryParams(map[string]string{
			"status": "upcoming",
			"page":   "1",
		}).
		Get("/{urlname}/events")
	if err != nil {
		return nil, fail(span, fmt.Errorf("%w: %w", store.ErrSourceUnavailable, err))
	}

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode()))
	if resp.IsError() {
		return nil, fail(span, fmt.Errorf("%w: unexpected status %s", store.ErrSourceUnavailable, resp.Status()))
	}

	// тело разбираем сами: прокси отвечают 200 с HTML, а resty
	// декодирует только ответы с JSON Content-Type
	var events []event
	if err := json.Unmarshal(resp.Body(), &events); err != nil {
		return nil, fail(span, fmt.Errorf("%w: decode events: %w", store.ErrSourceUnavailable, err))
	}

	if len(events) == 0 {
		logger.Log.Debug("no upcoming events", zap.String("community", community))
		return nil, nil
	}

	e, err := events[0].toStore()
	if err != nil {
		return nil, fail(span, fmt.Errorf("%w: %w", store.ErrSourceUnavailable, err))
	}

	return e, nil
}

func (e event) toStore() (*store.Event, error) {
	start, err := time.Parse(localLayout, e.LocalDate+" "+e.LocalTime)
	if err != nil {
		return nil, fmt.Errorf("parse event start: %w", err)
	}

	out := &store.Event{
		Name:        e.Name,
		Start:       start,
		Description: e.Description,
	}
	if e.Venue != nil {
		out.VenueName = e.Venue.Name
	}

	return out, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
