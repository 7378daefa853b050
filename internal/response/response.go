// Package response собирает три формы ответа навыка.
package response

import (
	"bitbucket.org/sotavant/meetup-skill/internal/models"
	"bitbucket.org/sotavant/meetup-skill/internal/speech"
)

// Tell проговаривает text, shouldEndSession решает платформа.
func Tell(text string) models.Response {
	return models.Response{
		Version: models.Version,
		Response: models.ResponsePayload{
			OutputSpeech: outputSpeech(text),
		},
	}
}

// Ask проговаривает text и ждёт ответа. reprompt звучит, если пользователь
// промолчал.
func Ask(text, reprompt string) models.Response {
	resp := Tell(text)
	resp.Response.Reprompt = &models.Reprompt{OutputSpeech: *outputSpeech(reprompt)}
	return EndSession(resp, false)
}

// Empty закрывает сессию без речи.
func Empty() models.Response {
	return EndSession(models.Response{Version: models.Version}, true)
}

func EndSession(resp models.Response, end bool) models.Response {
	resp.Response.ShouldEndSession = &end
	return resp
}

func outputSpeech(text string) *models.OutputSpeech {
	return &models.OutputSpeech{
		Type: models.SpeechTypeSSML,
		SSML: speech.ToSSML(text),
	}
}
