package models

import "time"

const (
	TypeLaunchRequest       = "LaunchRequest"
	TypeIntentRequest       = "IntentRequest"
	TypeSessionEndedRequest = "SessionEndedRequest"
)

const (
	IntentNextEvent        = "NextEventIntent"
	IntentNextEventDetails = "NextEventDetailsIntent"

	IntentCancel = "AMAZON.CancelIntent"
	IntentHelp   = "AMAZON.HelpIntent"
	IntentStop   = "AMAZON.StopIntent"
)

const (
	SpeechTypeSSML = "SSML"
	Version        = "1.0"
)

// Request описывает конверт запроса Alexa.
// См. https://developer.amazon.com/docs/custom-skills/request-and-response-json-reference.html
type Request struct {
	Version string      `json:"version"`
	Session Session     `json:"session"`
	Context Context     `json:"context"`
	Request RequestBody `json:"request"`
}

type Session struct {
	New         bool        `json:"new"`
	SessionID   string      `json:"sessionId"`
	Application Application `json:"application"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type Context struct {
	System System `json:"System"`
}

type System struct {
	Application Application `json:"application"`
}

// RequestBody описывает вариантную часть запроса. Intent заполняется только
// для IntentRequest.
type RequestBody struct {
	Type      string    `json:"type"`
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
	Locale    string    `json:"locale"`
	Reason    string    `json:"reason,omitempty"`
	Intent    *Intent   `json:"intent,omitempty"`
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// IntentName возвращает имя интента или пустую строку.
func (r Request) IntentName() string {
	if r.Request.Intent == nil {
		return ""
	}
	return r.Request.Intent.Name
}

// Response описывает ответ навыка.
type Response struct {
	Version  string          `json:"version"`
	Response ResponsePayload `json:"response"`
}

type ResponsePayload struct {
	OutputSpeech *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt     *Reprompt     `json:"reprompt,omitempty"`
	// nil оставляет решение платформе
	ShouldEndSession *bool `json:"shouldEndSession,omitempty"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	SSML string `json:"ssml"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}
