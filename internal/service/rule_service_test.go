package service

import (
	"context"
	"errors"
	"testing"

	"mindforge-be/internal/entity"
	"mindforge-be/internal/pkg/logger"
	"mindforge-be/internal/pkg/serverutils"
	"mindforge-be/pkg/brainstorm/rules"
	"mindforge-be/pkg/events"
	pktNats "mindforge-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuleBook struct {
	known   uuid.UUID
	err     error
	applied []uuid.UUID
}

func (f *fakeRuleBook) ListActive(ctx context.Context) ([]*entity.LearnedRule, error) {
	return []*entity.LearnedRule{{Id: f.known, Category: "business", RuleText: "Ask", TimesApplied: 2}}, nil
}

func (f *fakeRuleBook) Apply(ctx context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	if id != f.known {
		return rules.ErrRuleNotFound
	}
	f.applied = append(f.applied, id)
	return nil
}

type fakeSubscriber struct {
	subject, durable string
	handler          pktNats.EventHandler
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, subject, durable string, h pktNats.EventHandler) error {
	f.subject, f.durable, f.handler = subject, durable, h
	return nil
}

func TestRuleService_Apply(t *testing.T) {
	ctx := context.Background()
	book := &fakeRuleBook{known: uuid.New()}
	pub := &recordingPublisher{}
	svc := NewRuleService(book, pub, logger.NewNopLogger())

	require.NoError(t, svc.Apply(ctx, book.known))
	require.Len(t, pub.got, 1)
	assert.Equal(t, "RULE_APPLIED", pub.got[0].EventType())

	err := svc.Apply(ctx, uuid.New())
	assert.True(t, serverutils.IsNotFound(err))
	assert.Len(t, pub.got, 1)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].TimesApplied)
}

func TestRuleService_HandleFeedback(t *testing.T) {
	known := uuid.New()

	tests := []struct {
		name        string
		data        map[string]interface{}
		storeErr    error
		wantErr     bool
		wantApplied int
	}{
		{name: "applies", data: map[string]interface{}{"rule_id": known.String()}, wantApplied: 1},
		{name: "unknown rule is acked", data: map[string]interface{}{"rule_id": uuid.NewString()}},
		{name: "missing id is acked", data: map[string]interface{}{}},
		{name: "bad id is acked", data: map[string]interface{}{"rule_id": "nope"}},
		{name: "storage failure retries", data: map[string]interface{}{"rule_id": known.String()}, storeErr: errors.New("db down"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := &fakeRuleBook{known: known, err: tt.storeErr}
			svc := NewRuleService(book, nil, logger.NewNopLogger())

			err := svc.HandleFeedback(context.Background(), events.New("RULE_FEEDBACK", tt.data))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, book.applied, tt.wantApplied)
		})
	}
}

func TestRuleService_StartSubscribesToFeedback(t *testing.T) {
	book := &fakeRuleBook{known: uuid.New()}
	sub := &fakeSubscriber{}
	svc := NewRuleService(book, nil, logger.NewNopLogger())

	require.NoError(t, svc.Start(context.Background(), sub))
	assert.Equal(t, "events.RULE_FEEDBACK", sub.subject)
	assert.Equal(t, "mindforge-rule-feedback", sub.durable)

	require.NoError(t, sub.handler(context.Background(), events.New("RULE_FEEDBACK", map[string]interface{}{"rule_id": book.known.String()})))
	assert.Len(t, book.applied, 1)
}
