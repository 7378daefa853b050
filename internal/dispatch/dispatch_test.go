package dispatch

import (
	"bitbucket.org/sotavant/meetup-skill/internal/logger"
	"bitbucket.org/sotavant/meetup-skill/internal/models"
	"bitbucket.org/sotavant/meetup-skill/internal/speech"
	"bitbucket.org/sotavant/meetup-skill/internal/store"
	"bitbucket.org/sotavant/meetup-skill/internal/store/mock"
	"context"
	"fmt"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"testing"
	"time"
)

const community = "KLab-Community"

func request(typ, intent string) models.Request {
	req := models.Request{Version: models.Version}
	req.Request.Type = typ
	if intent != "" {
		req.Request.Intent = &models.Intent{Name: intent}
	}
	return req
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })
	return logs
}

func ssml(text string) string {
	return speech.ToSSML(text)
}

func TestRoute(t *testing.T) {
	d := New(nil, community, speech.TrimPolicy{})

	testCases := []struct {
		name     string
		req      models.Request
		expected string
	}{
		{"launch", request(models.TypeLaunchRequest, ""), RouteLaunch},
		{"help", request(models.TypeIntentRequest, models.IntentHelp), RouteHelp},
		{"stop", request(models.TypeIntentRequest, models.IntentStop), RouteStop},
		{"cancel", request(models.TypeIntentRequest, models.IntentCancel), RouteStop},
		{"next_event", request(models.TypeIntentRequest, models.IntentNextEvent), RouteEvent},
		{"next_event_details", request(models.TypeIntentRequest, models.IntentNextEventDetails), RouteEvent},
		{"unknown_intent", request(models.TypeIntentRequest, "WeatherIntent"), RouteFallback},
		{"yes_intent", request(models.TypeIntentRequest, "AMAZON.YesIntent"), RouteFallback},
		{"intent_without_name", request(models.TypeIntentRequest, ""), RouteFallback},
		{"session_ended", request(models.TypeSessionEndedRequest, ""), RouteSessionEnded},
		// интент в запросе другого типа игнорируется
		{"launch_with_help_intent", request(models.TypeLaunchRequest, models.IntentHelp), RouteLaunch},
		{"unsupported_type", request("CanFulfillIntentRequest", ""), ""},
		{"empty_type", request("", ""), ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, d.Route(tc.req))
		})
	}
}

func TestRouteOrder(t *testing.T) {
	d := New(nil, community, speech.TrimPolicy{})

	var names []string
	for _, rt := range d.routes {
		names = append(names, rt.name)
	}

	assert.Equal(t, []string{
		RouteLaunch,
		RouteHelp,
		RouteStop,
		RouteEvent,
		RouteFallback,
		RouteSessionEnded,
	}, names)
}

func TestDispatchWithoutStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	// без ожиданий: эти пути не должны ходить в store
	d := New(mock.NewMockStore(ctrl), community, speech.TrimPolicy{})

	testCases := []struct {
		name       string
		req        models.Request
		speech     string
		reprompt   string
		endSession *bool
	}{
		{
			name:       "launch",
			req:        request(models.TypeLaunchRequest, ""),
			speech:     ssml(phraseWelcome),
			reprompt:   ssml(phraseHelpHint),
			endSession: boolPtr(false),
		},
		{
			name:       "help",
			req:        request(models.TypeIntentRequest, models.IntentHelp),
			speech:     ssml(phraseHelp),
			reprompt:   ssml(phraseHelpHint),
			endSession: boolPtr(false),
		},
		{
			name:       "stop",
			req:        request(models.TypeIntentRequest, models.IntentStop),
			speech:     ssml(phraseFarewell),
			endSession: boolPtr(true),
		},
		{
			name:       "cancel",
			req:        request(models.TypeIntentRequest, models.IntentCancel),
			speech:     ssml(phraseFarewell),
			endSession: boolPtr(true),
		},
		{
			name:       "fallback",
			req:        request(models.TypeIntentRequest, "OrderPizzaIntent"),
			speech:     ssml(phraseNotHeard),
			reprompt:   ssml(phraseHelpHint),
			endSession: boolPtr(false),
		},
		{
			name:   "unsupported_type",
			req:    request("Display.ElementSelected", ""),
			speech: ssml(phraseUnexpected),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := d.Dispatch(context.Background(), tc.req)

			assert.Equal(t, models.Version, resp.Version)
			require.NotNil(t, resp.Response.OutputSpeech)
			assert.Equal(t, tc.speech, resp.Response.OutputSpeech.SSML)

			if tc.reprompt == "" {
				assert.Nil(t, resp.Response.Reprompt)
			} else {
				require.NotNil(t, resp.Response.Reprompt)
				assert.Equal(t, tc.reprompt, resp.Response.Reprompt.OutputSpeech.SSML)
			}

			assert.Equal(t, tc.endSession, resp.Response.ShouldEndSession)
		})
	}
}

func TestDispatchSessionEnded(t *testing.T) {
	d := New(nil, community, speech.TrimPolicy{})

	req := request(models.TypeSessionEndedRequest, "")
	req.Request.Reason = "USER_INITIATED"
	resp := d.Dispatch(context.Background(), req)

	assert.Nil(t, resp.Response.OutputSpeech)
	assert.Nil(t, resp.Response.Reprompt)
	require.NotNil(t, resp.Response.ShouldEndSession)
	assert.True(t, *resp.Response.ShouldEndSession)
}

func kotlinNight() *store.Event {
	return &store.Event{
		Name:        "Kotlin Night",
		Start:       time.Date(2019, time.May, 21, 19, 0, 0, 0, time.UTC),
		VenueName:   "Impact Hub",
		Description: "<p>Pizza &amp; talks from 19.30 ~ Jane</p><p>Sign up</p><p>Sponsors</p>",
	}
}

func TestDispatchNextEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mock.NewMockStore(ctrl)
	s.EXPECT().NextEvent(gomock.Any(), community).Return(kotlinNight(), nil)

	d := New(s, community, speech.TrimPolicy{Tail: 2})
	resp := d.Dispatch(context.Background(), request(models.TypeIntentRequest, models.IntentNextEvent))

	require.NotNil(t, resp.Response.OutputSpeech)
	assert.Equal(t,
		`<speak>The next event is Kotlin Night, on Tuesday, May 21 <break strength="medium"/> at 19:00, at Impact Hub.</speak>`,
		resp.Response.OutputSpeech.SSML,
	)
	require.NotNil(t, resp.Response.Reprompt)
	assert.Equal(t, ssml(phraseKnowMore), resp.Response.Reprompt.OutputSpeech.SSML)
	require.NotNil(t, resp.Response.ShouldEndSession)
	assert.False(t, *resp.Response.ShouldEndSession)
}

func TestDispatchNextEventWithoutVenue(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mock.NewMockStore(ctrl)
	e := kotlinNight()
	e.VenueName = ""
	s.EXPECT().NextEvent(gomock.Any(), community).Return(e, nil)

	resp := New(s, community, speech.TrimPolicy{}).
		Dispatch(context.Background(), request(models.TypeIntentRequest, models.IntentNextEvent))

	require.NotNil(t, resp.Response.OutputSpeech)
	assert.Equal(t,
		`<speak>The next event is Kotlin Night, on Tuesday, May 21 <break strength="medium"/> at 19:00.</speak>`,
		resp.Response.OutputSpeech.SSML,
	)
}

func TestDispatchNoEvents(t *testing.T) {
	for _, intent := range []string{models.IntentNextEvent, models.IntentNextEventDetails} {
		t.Run(intent, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			s := mock.NewMockStore(ctrl)
			s.EXPECT().NextEvent(gomock.Any(), community).Return(nil, nil)

			resp := New(s, community, speech.TrimPolicy{}).
				Dispatch(context.Background(), request(models.TypeIntentRequest, intent))

			require.NotNil(t, resp.Response.OutputSpeech)
			assert.Equal(t, ssml(phraseNoEvents), resp.Response.OutputSpeech.SSML)
			assert.Nil(t, resp.Response.Reprompt)
			assert.Nil(t, resp.Response.ShouldEndSession)
		})
	}
}

func TestDispatchNextEventDetails(t *testing.T) {
	testCases := []struct {
		name     string
		policy   speech.TrimPolicy
		expected string
	}{
		{
			name:   "drop_footer",
			policy: speech.TrimPolicy{Tail: 2},
			expected: `<speak>Here are the details. <break strength="strong"/> ` +
				`Pizza &amp; talks from 19:30 hosted by Jane</speak>`,
		},
		{
			name:     "only_boilerplate",
			policy:   speech.TrimPolicy{Head: 1, Tail: 3},
			expected: ssml(phraseNoDetails),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			s := mock.NewMockStore(ctrl)
			s.EXPECT().NextEvent(gomock.Any(), community).Return(kotlinNight(), nil)

			resp := New(s, community, tc.policy).
				Dispatch(context.Background(), request(models.TypeIntentRequest, models.IntentNextEventDetails))

			require.NotNil(t, resp.Response.OutputSpeech)
			assert.Equal(t, tc.expected, resp.Response.OutputSpeech.SSML)
			assert.Nil(t, resp.Response.Reprompt)
			assert.Nil(t, resp.Response.ShouldEndSession)
		})
	}
}

func TestDispatchEventFailures(t *testing.T) {
	malformed := kotlinNight()
	malformed.Description = "no paragraphs at all"

	testCases := []struct {
		name   string
		intent string
		event  *store.Event
		err    error
		kind   string
	}{
		{
			name:   "timeout",
			intent: models.IntentNextEventDetails,
			err:    fmt.Errorf("%w: %w", store.ErrSourceUnavailable, context.DeadlineExceeded),
			kind:   KindSourceUnavailable,
		},
		{
			name:   "source_down",
			intent: models.IntentNextEvent,
			err:    fmt.Errorf("%w: unexpected status 502", store.ErrSourceUnavailable),
			kind:   KindSourceUnavailable,
		},
		{
			name:   "malformed_description",
			intent: models.IntentNextEventDetails,
			event:  malformed,
			kind:   KindMalformedMarkup,
		},
		{
			name:   "unknown_error",
			intent: models.IntentNextEvent,
			err:    fmt.Errorf("boom"),
			kind:   KindUnexpected,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logs := observeLogs(t)
			ctrl := gomock.NewController(t)
			s := mock.NewMockStore(ctrl)
			s.EXPECT().NextEvent(gomock.Any(), community).Return(tc.event, tc.err)

			resp := New(s, community, speech.TrimPolicy{}).
				Dispatch(context.Background(), request(models.TypeIntentRequest, tc.intent))

			require.NotNil(t, resp.Response.OutputSpeech)
			assert.Equal(t, ssml(phraseCantFetch), resp.Response.OutputSpeech.SSML)
			assert.Nil(t, resp.Response.ShouldEndSession)

			entries := logs.FilterMessage("cannot retrieve next event").All()
			require.Len(t, entries, 1)
			fields := entries[0].ContextMap()
			assert.Equal(t, tc.kind, fields["kind"])
			assert.Equal(t, tc.intent, fields["intent"])
			assert.NotEmpty(t, fields["error"])
		})
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	logs := observeLogs(t)
	ctrl := gomock.NewController(t)
	s := mock.NewMockStore(ctrl)
	s.EXPECT().NextEvent(gomock.Any(), community).
		DoAndReturn(func(context.Context, string) (*store.Event, error) {
			panic("directory exploded")
		})

	resp := New(s, community, speech.TrimPolicy{}).
		Dispatch(context.Background(), request(models.TypeIntentRequest, models.IntentNextEvent))

	require.NotNil(t, resp.Response.OutputSpeech)
	assert.Equal(t, ssml(phraseUnexpected), resp.Response.OutputSpeech.SSML)
	assert.Nil(t, resp.Response.ShouldEndSession)
	assert.Equal(t, 1, logs.FilterMessage("panic while handling request").Len())
}

func boolPtr(b bool) *bool {
	return &b
}
