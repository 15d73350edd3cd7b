package messaging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

func syncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(Config{AsyncMode: false})
}

func TestEventBus_DeliversToTypeSubscribers(t *testing.T) {
	bus := syncBus()

	var received []shared.EventType
	err := bus.Subscribe(shared.EventCourseAdded, func(e shared.Event) error {
		received = append(received, e.EventType())
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(shared.NewCourseAddedEvent("MAT101", "Matematik", 1)))
	require.NoError(t, bus.Publish(shared.NewStudentEnrolledEvent("1001", "Ayşe", "10-A")))

	assert.Equal(t, []shared.EventType{shared.EventCourseAdded}, received,
		"type subscriber must only see its own event type")
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := syncBus()

	count := 0
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		count++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewCourseAddedEvent("MAT101", "Matematik", 1)))
	require.NoError(t, bus.Publish(shared.NewGradesRecordedEvent("1001", "MAT101", nil, "")))

	assert.Equal(t, 2, count)
}

func TestEventBus_SyncModePropagatesHandlerError(t *testing.T) {
	bus := syncBus()

	boom := errors.New("boom")
	require.NoError(t, bus.Subscribe(shared.EventCourseAdded, func(e shared.Event) error {
		return boom
	}))

	err := bus.Publish(shared.NewCourseAddedEvent("MAT101", "Matematik", 1))
	assert.ErrorIs(t, err, boom)
}

func TestEventBus_ClosedRejectsPublish(t *testing.T) {
	bus := syncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewCourseAddedEvent("MAT101", "Matematik", 1))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventCourseAdded, func(e shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)
}
