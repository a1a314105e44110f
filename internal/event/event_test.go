package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"survey-service/internal/analytics"
	"survey-service/internal/config"
	"survey-service/internal/models"
	"survey-service/internal/repository"
	"survey-service/internal/services"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type fakeAcknowledger struct {
	acked    int
	nacked   int
	requeued bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked++
	a.requeued = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type recordingHandler struct {
	events []SurveyEvent
	err    error
}

func (h *recordingHandler) HandleSurveyEvent(ctx context.Context, event SurveyEvent) error {
	h.events = append(h.events, event)
	return h.err
}

type fakeInvalidator struct {
	calls int
	err   error
}

func (f *fakeInvalidator) InvalidateCache(ctx context.Context) error {
	f.calls++
	return f.err
}

type fakeScorer struct {
	scored []string
	err    error
}

func (f *fakeScorer) HandleSubmitted(ctx context.Context, surveyID string) (analytics.QualityReport, error) {
	f.scored = append(f.scored, surveyID)
	if f.err != nil {
		return analytics.QualityReport{}, f.err
	}
	return analytics.QualityReport{SurveyID: surveyID, Score: 100, Status: models.QualityExcellent}, nil
}

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func delivery(ack *fakeAcknowledger, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

// ============ TEST SUITE 1: Event parsing ============

func TestParseSurveyEvent(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		wantInvalid bool
		wantSurvey  string
	}{
		{"submitted", `{"id":"e1","type":"submitted","survey_id":" s1 "}`, false, false, "s1"},
		{"approved", `{"id":"e2","type":"approved","survey_id":"s2"}`, false, false, "s2"},
		{"deleted", `{"id":"e3","type":"deleted","survey_id":"s3"}`, false, false, "s3"},
		{"not json", `{"id":`, true, false, ""},
		{"missing type", `{"id":"e4","survey_id":"s4"}`, true, true, ""},
		{"unknown type", `{"id":"e5","type":"archived","survey_id":"s5"}`, true, true, ""},
		{"missing survey", `{"id":"e6","type":"submitted"}`, true, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseSurveyEvent([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				var invalid *EventValidationError
				assert.Equal(t, tt.wantInvalid, errors.As(err, &invalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSurvey, ev.SurveyID)
		})
	}
}

// ============ TEST SUITE 2: Message acknowledgement ============

func TestSurveyConsumer_ProcessMessage(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		handlerErr   error
		wantAcked    int
		wantNacked   int
		wantRequeue  bool
		wantHandled  int
		wantFailures int64
	}{
		{"handled event is acked", `{"id":"e1","type":"approved","survey_id":"s1"}`, nil, 1, 0, false, 1, 0},
		{"malformed event is dropped", `garbage`, nil, 0, 1, false, 0, 1},
		{"invalid event is dropped", `{"id":"e1","type":"bogus","survey_id":"s1"}`, nil, 0, 1, false, 0, 1},
		{"handler failure is requeued", `{"id":"e1","type":"submitted","survey_id":"s1"}`, errors.New("db down"), 0, 1, true, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &recordingHandler{err: tt.handlerErr}
			consumer := NewSurveyConsumer(&RabbitMQConnection{}, handler)
			ack := &fakeAcknowledger{}

			consumer.processMessage(context.Background(), delivery(ack, tt.body))

			assert.Equal(t, tt.wantAcked, ack.acked)
			assert.Equal(t, tt.wantNacked, ack.nacked)
			assert.Equal(t, tt.wantRequeue, ack.requeued)
			assert.Len(t, handler.events, tt.wantHandled)
			_, failed := consumer.Stats()
			assert.Equal(t, tt.wantFailures, failed)
		})
	}
}

// ============ TEST SUITE 3: Event handling ============

func TestDefaultSurveyEventHandler(t *testing.T) {
	t.Run("every event invalidates, only submissions are scored", func(t *testing.T) {
		cache := &fakeInvalidator{}
		scorer := &fakeScorer{}
		h := NewDefaultSurveyEventHandler(cache, scorer)
		ctx := context.Background()

		require.NoError(t, h.HandleSurveyEvent(ctx, SurveyEvent{Type: models.SurveyApproved, SurveyID: "s1"}))
		require.NoError(t, h.HandleSurveyEvent(ctx, SurveyEvent{Type: models.SurveyDeleted, SurveyID: "s2"}))
		require.NoError(t, h.HandleSurveyEvent(ctx, SurveyEvent{Type: models.SurveySubmitted, SurveyID: "s3"}))

		assert.Equal(t, 3, cache.calls)
		assert.Equal(t, []string{"s3"}, scorer.scored)
	})

	t.Run("vanished survey is not retried", func(t *testing.T) {
		h := NewDefaultSurveyEventHandler(&fakeInvalidator{}, &fakeScorer{err: repository.ErrSurveyNotFound})
		err := h.HandleSurveyEvent(context.Background(), SurveyEvent{Type: models.SurveySubmitted, SurveyID: "gone"})
		assert.NoError(t, err)
	})

	t.Run("scoring failure is returned", func(t *testing.T) {
		boom := errors.New("db down")
		h := NewDefaultSurveyEventHandler(&fakeInvalidator{}, &fakeScorer{err: boom})
		err := h.HandleSurveyEvent(context.Background(), SurveyEvent{Type: models.SurveySubmitted, SurveyID: "s1"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("invalidation failure is returned", func(t *testing.T) {
		boom := errors.New("redis down")
		scorer := &fakeScorer{}
		h := NewDefaultSurveyEventHandler(&fakeInvalidator{err: boom}, scorer)
		err := h.HandleSurveyEvent(context.Background(), SurveyEvent{Type: models.SurveySubmitted, SurveyID: "s1"})
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, scorer.scored)
	})
}

// ============ TEST SUITE 4: Notifications ============

func TestNotificationHelper_NotifyPoorQuality(t *testing.T) {
	ch := &fakeChannel{}
	helper := NewNotificationHelper(&NotificationPublisher{ch: ch})

	report := analytics.QualityReport{
		SurveyID: "s1",
		Score:    25,
		Status:   models.QualityPoor,
		Warnings: []string{"w1", "w2", "w3", "w4"},
	}
	require.NoError(t, helper.NotifyPoorQuality(context.Background(), "stu-9", report))

	require.Len(t, ch.published, 1)
	assert.Equal(t, []string{PushNotiQueue}, ch.declared)
	assert.Equal(t, []string{PushNotiQueue}, ch.keys)
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)

	var sent NotificationEventPushModel
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &sent))
	assert.Equal(t, []string{"stu-9"}, sent.LstUserIds)
	assert.Equal(t, "Survey Needs Review", sent.Title)
	assert.Contains(t, sent.Body, "25/100 (Poor)")
	assert.Contains(t, sent.Body, "w3")
	assert.NotContains(t, sent.Body, "w4")
	assert.Equal(t, "s1", sent.Data["survey_id"])
}

func TestNotificationPublisher_Failures(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &NotificationPublisher{ch: ch}

	err := p.PublishNotification(context.Background(), NotificationEventPushModel{Title: "t"})
	assert.Error(t, err)
	published, failed := p.Stats()
	assert.Equal(t, int64(0), published)
	assert.Equal(t, int64(1), failed)

	noChannel := NewNotificationPublisher(&RabbitMQConnection{})
	assert.Error(t, noChannel.PublishNotification(context.Background(), NotificationEventPushModel{Title: "t"}))
}

// ============ TEST SUITE 5: Submission flow ============

type memorySurveyStore struct {
	records map[string]models.SurveyRecord
}

func (m *memorySurveyStore) ListSurveys(ctx context.Context) ([]models.SurveyRecord, error) {
	out := make([]models.SurveyRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func (m *memorySurveyStore) GetSurvey(ctx context.Context, id string) (models.SurveyRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return models.SurveyRecord{}, repository.ErrSurveyNotFound
	}
	return rec, nil
}

func (m *memorySurveyStore) SetApproved(ctx context.Context, id string, approved bool) error {
	return nil
}

func TestSurveyConsumer_PoorSubmissionWithBrokenPublisher(t *testing.T) {
	store := &memorySurveyStore{records: map[string]models.SurveyRecord{
		"s1": {ID: "s1", SubmitterID: "stu-1", Payload: models.DecodePayload([]byte(`{}`))},
	}}
	ch := &fakeChannel{err: errors.New("channel closed")}
	publisher := &NotificationPublisher{ch: ch}
	quality := services.NewQualityService(store, NewNotificationHelper(publisher))
	cache := &fakeInvalidator{}

	consumer := NewSurveyConsumer(&RabbitMQConnection{}, NewDefaultSurveyEventHandler(cache, quality))
	ack := &fakeAcknowledger{}

	consumer.processMessage(context.Background(), delivery(ack, `{"id":"e1","type":"submitted","survey_id":"s1"}`))

	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, 0, ack.nacked)
	assert.False(t, ack.requeued)
	assert.Equal(t, 1, cache.calls)
	assert.Empty(t, ch.published)

	_, failedPublishes := publisher.Stats()
	assert.Equal(t, int64(1), failedPublishes)
}

// ============ TEST SUITE 6: Connection setup ============

func TestAmqpURL(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.RabbitMQConfig
		port    int
		wantErr bool
	}{
		{
			name: "plain credentials",
			cfg:  config.RabbitMQConfig{Username: "admin", Password: "admin", Host: "localhost", Port: "5672"},
			port: 5672,
		},
		{
			name: "credentials with reserved characters",
			cfg:  config.RabbitMQConfig{Username: "svc", Password: "p@ss/word:1", Host: "mq", Port: "5673"},
			port: 5673,
		},
		{
			name:    "bad port",
			cfg:     config.RabbitMQConfig{Username: "a", Password: "b", Host: "mq", Port: "amqp"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := amqpURL(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			parsed, err := amqp.ParseURI(got)
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Host, parsed.Host)
			assert.Equal(t, tt.port, parsed.Port)
			assert.Equal(t, tt.cfg.Username, parsed.Username)
			assert.Equal(t, tt.cfg.Password, parsed.Password)
			assert.Equal(t, "/", parsed.Vhost)
		})
	}
}

type failingDeclarer struct {
	declared []string
	failOn   string
}

func (f *failingDeclarer) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if name == f.failOn {
		return amqp.Queue{}, errors.New("access refused")
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func TestDeclareQueues(t *testing.T) {
	ch := &fakeChannel{}
	require.NoError(t, declareQueues(ch, ServiceQueues))
	assert.Equal(t, []string{SurveyEventQueue, PushNotiQueue}, ch.declared)

	failing := &failingDeclarer{failOn: PushNotiQueue}
	err := declareQueues(failing, ServiceQueues)
	require.Error(t, err)
	assert.Contains(t, err.Error(), PushNotiQueue)
	assert.Equal(t, []string{SurveyEventQueue}, failing.declared)
}
