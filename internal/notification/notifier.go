// Package notification delivers alerts about found slots and monitoring
// problems. Delivery is best-effort: transport failures are logged, never
// propagated to the scheduler.
package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"

	"github.com/easyslot/easyslot/internal/entities"
	"github.com/easyslot/easyslot/internal/events"
	"github.com/easyslot/easyslot/internal/logger"
	"github.com/easyslot/easyslot/internal/metrics"
)

// Sender is one delivery transport for a (subject, body) notification.
type Sender interface {
	Send(subject, body string) error
}

const errorThrottleKey = "error_notification"

// DefaultThrottleInterval is the minimum gap between debug/error
// notifications when no interval is configured.
const DefaultThrottleInterval = 5 * time.Minute

// Service fans notifications out to every configured sender. Availability
// notifications are never throttled; debug/error notifications share one
// cooldown; startup and fatal notifications are silent in debug mode.
type Service struct {
	senders   []Sender
	throttle  *Throttle
	debugMode bool
}

func NewService(bus EventBus.Bus, throttleInterval time.Duration, debugMode bool, senders ...Sender) (*Service, error) {
	if throttleInterval <= 0 {
		throttleInterval = DefaultThrottleInterval
	}
	s := &Service{
		senders:   senders,
		throttle:  NewThrottle(throttleInterval),
		debugMode: debugMode,
	}
	if bus != nil {
		if err := bus.Subscribe(events.SlotFoundTopic, s.onSlotFound); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Service) send(subject, body string) {
	for _, sender := range s.senders {
		if err := sender.Send(subject, body); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeNotification).
				Errorf("failed to send notification %q: %v", subject, err)
			continue
		}
		metrics.NotificationsCounter.Inc()
	}
}

func (s *Service) onSlotFound(event events.SlotFound) {
	s.NotifyAvailable(event.Slot)
}

// NotifyAvailable announces one open slot. Sent every cycle the slot is
// seen: missing a real opening costs more than a duplicate alert.
func (s *Service) NotifyAvailable(slot entities.SlotResult) {
	var body strings.Builder
	body.WriteString("EasySlot found an available appointment:\n\n")
	fmt.Fprintf(&body, "Location: %s\n", slot.City)
	fmt.Fprintf(&body, "Date: %s\n", slot.Date)
	fmt.Fprintf(&body, "Time: %s\n\n", slot.Time)
	if slot.AutoBooked {
		body.WriteString("Status: AUTOMATICALLY BOOKED!\n")
	} else {
		body.WriteString("Status: Available (not booked)\n")
	}

	s.send("Available Appointment Found!", body.String())
	log.Info("sent notification about available appointment")
}

// NotifyError reports a cycle failure, at most once per throttle interval.
// The message carries the search criteria but never exception detail.
func (s *Service) NotifyError(reason string, spec entities.AppointmentSpec) {
	if !s.throttle.Allow(errorThrottleKey) {
		log.Infof("error notification suppressed by throttle: %v", reason)
		return
	}

	var body strings.Builder
	body.WriteString("EasySlot encountered an error while searching for appointments:\n\n")
	fmt.Fprintf(&body, "Error: %s\n\n", reason)
	body.WriteString("Search Details:\n")
	fmt.Fprintf(&body, "User: %s\n", spec.Email)
	fmt.Fprintf(&body, "Location: %s\n", spec.Location)
	fmt.Fprintf(&body, "Date Range: %s\n\n", spec.DateRange())
	body.WriteString("The system will continue trying. You will be notified of any further updates.")

	s.send("EasySlot Error", body.String())
}

// NotifyDebug delivers a debug-artifact summary, sharing the error cooldown.
func (s *Service) NotifyDebug(subject, body string) {
	if !s.throttle.Allow(errorThrottleKey) {
		log.Info("debug notification suppressed by throttle")
		return
	}
	s.send(subject, body)
}

// NotifyStartup announces the monitoring criteria. Silent in debug mode,
// which is meant as a local troubleshooting path.
func (s *Service) NotifyStartup(spec entities.AppointmentSpec) {
	if s.debugMode {
		return
	}

	var body strings.Builder
	body.WriteString("EasySlot has started searching for appointments with the following criteria:\n\n")
	fmt.Fprintf(&body, "User: %s\n", spec.Email)
	fmt.Fprintf(&body, "Location: %s\n", spec.Location)
	fmt.Fprintf(&body, "Date Range: %s\n", spec.DateRange())
	if spec.IVRNumber != "" {
		fmt.Fprintf(&body, "IVR Number: %s\n", spec.IVRNumber)
	}
	body.WriteString("\nYou will be notified when available appointments are found.")

	s.send("EasySlot Search Started", body.String())
	log.Info("sent startup notification")
}

// NotifyFatal reports a failure that stops a worker. Silent in debug mode.
func (s *Service) NotifyFatal(reason string, spec entities.AppointmentSpec) {
	if s.debugMode {
		return
	}

	var body strings.Builder
	fmt.Fprintf(&body, "EasySlot stopped monitoring for %s:\n\n", spec.Email)
	fmt.Fprintf(&body, "Reason: %s\n", reason)

	s.send("EasySlot Stopped", body.String())
}
