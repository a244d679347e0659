package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelNotifier_Delivery(t *testing.T) {
	n := NewChannelNotifier(4, NopLogger{})

	n.Emit(EventSetupCompleted, map[string]any{"session_id": "s1"})

	select {
	case event := <-n.Events():
		assert.Equal(t, EventSetupCompleted, event.Name)
		assert.Equal(t, "s1", event.Payload["session_id"])
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
	default:
		t.Fatal("event should be buffered")
	}
}

func TestChannelNotifier_DropsWhenFull(t *testing.T) {
	n := NewChannelNotifier(2, NopLogger{})

	// No listener drains; emitting past capacity must not block.
	for i := 0; i < 10; i++ {
		n.Emit(EventSetupRolledBack, map[string]any{"n": i})
	}

	require.Len(t, n.Events(), 2, "only the buffered events survive")
	first := <-n.Events()
	assert.Equal(t, 0, first.Payload["n"], "oldest events are kept, newest dropped")
}

func TestChannelNotifier_DefaultCapacity(t *testing.T) {
	n := NewChannelNotifier(0, NopLogger{})
	assert.Equal(t, 64, cap(n.events))
}

func TestChannelNotifier_UniqueEventIDs(t *testing.T) {
	n := NewChannelNotifier(4, NopLogger{})
	n.Emit(EventSetupCompleted, nil)
	n.Emit(EventSetupCompleted, nil)

	a := <-n.Events()
	b := <-n.Events()
	assert.NotEqual(t, a.ID, b.ID)
}
