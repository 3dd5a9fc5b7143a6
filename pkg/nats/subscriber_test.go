package nats

import (
	"context"
	"errors"
	"testing"

	"mindforge-be/internal/pkg/logger"
	"mindforge-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

type fakeMsg struct {
	data               []byte
	acked, naked, term bool
}

func (m *fakeMsg) Subject() string { return "events.RULE_FEEDBACK" }
func (m *fakeMsg) Data() []byte    { return m.data }
func (m *fakeMsg) Ack() error      { m.acked = true; return nil }
func (m *fakeMsg) Nak() error      { m.naked = true; return nil }
func (m *fakeMsg) Term() error     { m.term = true; return nil }

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.RULE_FEEDBACK", Subject("RULE_FEEDBACK"))
}

func TestDispatch(t *testing.T) {
	valid, err := events.Marshal(events.New("RULE_FEEDBACK", map[string]interface{}{"rule_id": "abc"}))
	assert.NoError(t, err)

	tests := []struct {
		name       string
		data       []byte
		handlerErr error
		wantCalled bool
		wantAck    bool
		wantNak    bool
		wantTerm   bool
	}{
		{name: "handled", data: valid, wantCalled: true, wantAck: true},
		{name: "handler fails", data: valid, handlerErr: errors.New("db down"), wantCalled: true, wantNak: true},
		{name: "malformed", data: []byte("not json"), wantTerm: true},
		{name: "missing type", data: []byte(`{"data":{}}`), wantTerm: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &fakeMsg{data: tt.data}
			called := false
			dispatch(context.Background(), msg, func(ctx context.Context, e events.Event) error {
				called = true
				id, _ := events.StringField(e, "rule_id")
				assert.Equal(t, "abc", id)
				assert.Equal(t, "RULE_FEEDBACK", e.EventType())
				return tt.handlerErr
			}, logger.NewNopLogger())

			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantAck, msg.acked)
			assert.Equal(t, tt.wantNak, msg.naked)
			assert.Equal(t, tt.wantTerm, msg.term)
		})
	}
}
