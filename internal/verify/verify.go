// Package verify проверяет запросы вебхука до логики навыка.
package verify

import (
	"bitbucket.org/sotavant/meetup-skill/internal/models"
	"errors"
	"fmt"
	"time"
)

var ErrValidationFailed = errors.New("request validation failed")

// DefaultTolerance — допустимое Alexa расхождение времени запроса.
const DefaultTolerance = 150 * time.Second

// Verifier проверяет поля конверта, которые платформа гарантирует для
// настоящих запросов. Цепочку сертификатов и подпись проверяет шлюз.
type Verifier struct {
	SkillID   string
	Tolerance time.Duration
	Now       func() time.Time
}

func New(skillID string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Verifier{SkillID: skillID, Tolerance: tolerance, Now: time.Now}
}

func (v *Verifier) Verify(req models.Request) error {
	ts := req.Request.Timestamp
	if ts.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrValidationFailed)
	}
	if skew := v.Now().Sub(ts).Abs(); skew > v.Tolerance {
		return fmt.Errorf("%w: timestamp off by %s", ErrValidationFailed, skew.Round(time.Second))
	}

	if v.SkillID == "" {
		return nil
	}
	appID := req.Context.System.Application.ApplicationID
	if appID == "" {
		appID = req.Session.Application.ApplicationID
	}
	if appID != v.SkillID {
		return fmt.Errorf("%w: unknown application %q", ErrValidationFailed, appID)
	}

	return nil
}
