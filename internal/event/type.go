package event

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"survey-service/internal/models"
)

const (
	SurveyEventQueue = "survey_events"
	PushNotiQueue    = "push_noti_events"
)

// NotificationEventPushModel is the payload the notification service reads
// from push_noti_events.
type NotificationEventPushModel struct {
	LstUserIds []string       `json:"lstUserIds,omitempty"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	Data       map[string]any `json:"data,omitempty"`
}

// SurveyEvent is published by the collection app whenever a survey row
// changes.
type SurveyEvent struct {
	ID         string                 `json:"id"`
	Type       models.SurveyEventType `json:"type"`
	SurveyID   string                 `json:"survey_id"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type EventValidationError struct {
	EventID string
	Reason  string
}

func (e *EventValidationError) Error() string {
	return fmt.Sprintf("invalid survey event %q: %s", e.EventID, e.Reason)
}

// ParseSurveyEvent decodes and validates a message body. Any error means the
// message can never be processed.
func ParseSurveyEvent(body []byte) (SurveyEvent, error) {
	var ev SurveyEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return SurveyEvent{}, fmt.Errorf("failed to unmarshal survey event: %w", err)
	}
	ev.SurveyID = strings.TrimSpace(ev.SurveyID)

	switch ev.Type {
	case models.SurveySubmitted, models.SurveyApproved, models.SurveyDeleted:
	case "":
		return ev, &EventValidationError{EventID: ev.ID, Reason: "event has no type"}
	default:
		return ev, &EventValidationError{EventID: ev.ID, Reason: fmt.Sprintf("unsupported event type: %s", ev.Type)}
	}
	if ev.SurveyID == "" {
		return ev, &EventValidationError{EventID: ev.ID, Reason: "event has no survey_id"}
	}
	return ev, nil
}
