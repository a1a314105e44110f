package event

import (
	"context"
	"fmt"
	"strings"

	"survey-service/internal/analytics"
)

const maxAlertWarnings = 3

// NotificationHelper builds the notifications this service sends.
type NotificationHelper struct {
	publisher *NotificationPublisher
}

func NewNotificationHelper(publisher *NotificationPublisher) *NotificationHelper {
	return &NotificationHelper{
		publisher: publisher,
	}
}

// NotifyPoorQuality asks a surveyor to revisit a survey that scored Poor.
func (h *NotificationHelper) NotifyPoorQuality(ctx context.Context, recipientID string, report analytics.QualityReport) error {
	return h.publisher.PublishNotification(ctx, poorQualityNotification(recipientID, report))
}

func poorQualityNotification(recipientID string, report analytics.QualityReport) NotificationEventPushModel {
	warnings := report.Warnings
	if len(warnings) > maxAlertWarnings {
		warnings = warnings[:maxAlertWarnings]
	}
	body := fmt.Sprintf("Survey %s scored %d/100 (%s). Please review and correct it.", report.SurveyID, report.Score, report.Status)
	if len(warnings) > 0 {
		body += " Issues: " + strings.Join(warnings, " ")
	}

	return NotificationEventPushModel{
		LstUserIds: []string{recipientID},
		Title:      "Survey Needs Review",
		Body:       body,
		Data: map[string]any{
			"type":      "survey_quality",
			"survey_id": report.SurveyID,
			"score":     report.Score,
			"status":    string(report.Status),
		},
	}
}
