package notification

import (
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyslot/easyslot/internal/entities"
	"github.com/easyslot/easyslot/internal/events"
)

type fakeSender struct {
	mu       sync.Mutex
	subjects []string
	bodies   []string
}

func (f *fakeSender) Send(subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subjects)
}

func testAppointmentSpec() entities.AppointmentSpec {
	return entities.AppointmentSpec{
		Email:     "user@example.com",
		Location:  "Toronto",
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func Test_NotifyAvailable_ShouldNeverBeThrottled(t *testing.T) {
	sender := &fakeSender{}
	service, err := NewService(nil, time.Hour, false, sender)
	require.NoError(t, err)

	slot := entities.SlotResult{City: "Toronto", Date: "2026-09-15", Time: "09:00"}
	service.NotifyAvailable(slot)
	service.NotifyAvailable(slot)
	service.NotifyAvailable(slot)

	assert.Equal(t, 3, sender.count())
	assert.Contains(t, sender.bodies[0], "Toronto")
	assert.Contains(t, sender.bodies[0], "2026-09-15")
}

func Test_NotifyAvailable_WhenAutoBooked_ShouldSaySo(t *testing.T) {
	sender := &fakeSender{}
	service, err := NewService(nil, time.Hour, false, sender)
	require.NoError(t, err)

	service.NotifyAvailable(entities.SlotResult{City: "Toronto", Date: "2026-09-15",
		Time: "09:00", AutoBooked: true})

	require.Equal(t, 1, sender.count())
	assert.Contains(t, sender.bodies[0], "AUTOMATICALLY BOOKED")
}

func Test_NotifyError_ShouldRespectThrottleInterval(t *testing.T) {
	sender := &fakeSender{}
	service, err := NewService(nil, 100*time.Millisecond, false, sender)
	require.NoError(t, err)

	spec := testAppointmentSpec()
	service.NotifyError("navigation failed", spec)
	service.NotifyError("navigation failed", spec)
	assert.Equal(t, 1, sender.count())

	time.Sleep(150 * time.Millisecond)
	service.NotifyError("navigation failed", spec)
	assert.Equal(t, 2, sender.count())
}

func Test_NotifyError_BodyCarriesSearchDetailsNotExceptionDumps(t *testing.T) {
	sender := &fakeSender{}
	service, err := NewService(nil, time.Hour, false, sender)
	require.NoError(t, err)

	service.NotifyError("login failed", testAppointmentSpec())

	require.Equal(t, 1, sender.count())
	assert.Contains(t, sender.bodies[0], "user@example.com")
	assert.Contains(t, sender.bodies[0], "Toronto")
	assert.Contains(t, sender.bodies[0], "2026-09-01 ~ 2026-12-31")
}

func Test_NotifyDebug_SharesErrorCooldown(t *testing.T) {
	sender := &fakeSender{}
	service, err := NewService(nil, time.Hour, false, sender)
	require.NoError(t, err)

	service.NotifyError("something broke", testAppointmentSpec())
	service.NotifyDebug("debug capture", "details")

	assert.Equal(t, 1, sender.count())
}

func Test_NotifyStartup_InDebugMode_ShouldStaySilent(t *testing.T) {
	sender := &fakeSender{}
	service, err := NewService(nil, time.Hour, true, sender)
	require.NoError(t, err)

	service.NotifyStartup(testAppointmentSpec())
	service.NotifyFatal("worker stopped", testAppointmentSpec())

	assert.Equal(t, 0, sender.count())
}

func Test_NotifyFatal_ShouldDescribeStoppedMonitoring(t *testing.T) {
	sender := &fakeSender{}
	service, err := NewService(nil, time.Hour, false, sender)
	require.NoError(t, err)

	service.NotifyFatal("failed to start monitoring", testAppointmentSpec())

	require.Equal(t, 1, sender.count())
	assert.Contains(t, sender.subjects[0], "Stopped")
	assert.Contains(t, sender.bodies[0], "user@example.com")
	assert.Contains(t, sender.bodies[0], "failed to start monitoring")
}

func Test_NotifyStartup_ShouldDescribeSearchCriteria(t *testing.T) {
	sender := &fakeSender{}
	service, err := NewService(nil, time.Hour, false, sender)
	require.NoError(t, err)

	spec := testAppointmentSpec()
	spec.IVRNumber = "12345"
	service.NotifyStartup(spec)

	require.Equal(t, 1, sender.count())
	assert.Contains(t, sender.bodies[0], "Toronto")
	assert.Contains(t, sender.bodies[0], "12345")
}

func Test_Service_OnSlotFoundEvent_ShouldNotify(t *testing.T) {
	sender := &fakeSender{}
	bus := EventBus.New()
	_, err := NewService(bus, time.Hour, false, sender)
	require.NoError(t, err)

	bus.Publish(events.SlotFoundTopic, events.SlotFound{
		Email: "user@example.com",
		Slot:  entities.SlotResult{City: "Toronto", Date: "2026-09-15", Time: "09:00"},
	})
	bus.WaitAsync()

	assert.Equal(t, 1, sender.count())
}

func Test_Service_ShouldFanOutToEverySender(t *testing.T) {
	first, second := &fakeSender{}, &fakeSender{}
	service, err := NewService(nil, time.Hour, false, first, second)
	require.NoError(t, err)

	service.NotifyAvailable(entities.SlotResult{City: "Toronto", Date: "2026-09-15", Time: "09:00"})

	assert.Equal(t, 1, first.count())
	assert.Equal(t, 1, second.count())
}

func Test_Throttle_AllowsDistinctKeysIndependently(t *testing.T) {
	throttle := NewThrottle(time.Hour)

	assert.True(t, throttle.Allow("first"))
	assert.False(t, throttle.Allow("first"))
	assert.True(t, throttle.Allow("second"))
}
