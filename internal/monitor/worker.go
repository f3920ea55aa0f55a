// Package monitor runs the periodic check cycle for every configured user:
// acquire a session, navigate, scan, persist the outcome and alert.
package monitor

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/easyslot/easyslot/internal/browser"
	"github.com/easyslot/easyslot/internal/entities"
	"github.com/easyslot/easyslot/internal/events"
	"github.com/easyslot/easyslot/internal/logger"
	"github.com/easyslot/easyslot/internal/metrics"
	"github.com/easyslot/easyslot/internal/navigation"
	"github.com/easyslot/easyslot/internal/notification"
	"github.com/easyslot/easyslot/internal/state"
)

// Worker monitors one user's appointment search. Run blocks until the
// context is cancelled; every cycle outcome lands in the state store.
type Worker struct {
	spec     entities.AppointmentSpec
	registry *browser.Registry
	store    *state.Store
	notifier *notification.Service
	bus      EventBus.Bus
	checker  SlotChecker
	debug    navigation.DebugSink

	checkInterval      time.Duration
	errorRetryInterval time.Duration
}

type WorkerOption func(*Worker)

// WithChecker replaces the production site checker, used by tests.
func WithChecker(checker SlotChecker) WorkerOption {
	return func(w *Worker) { w.checker = checker }
}

// WithDebugSink captures failure artifacts for errors that surface at the
// cycle boundary, outside the navigator's own capture sites.
func WithDebugSink(sink navigation.DebugSink) WorkerOption {
	return func(w *Worker) { w.debug = sink }
}

func NewWorker(spec entities.AppointmentSpec, registry *browser.Registry, store *state.Store,
	notifier *notification.Service, bus EventBus.Bus, checker SlotChecker,
	checkInterval, errorRetryInterval time.Duration, opts ...WorkerOption) *Worker {

	w := &Worker{
		spec:               spec,
		registry:           registry,
		store:              store,
		notifier:           notifier,
		bus:                bus,
		checker:            checker,
		checkInterval:      checkInterval,
		errorRetryInterval: errorRetryInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Worker) Run(ctx context.Context) {
	email := w.spec.Email
	log.Infof("starting monitoring for %v: location=%v, dates=%v",
		email, w.spec.Location, w.spec.DateRange())

	w.store.Update(email, entities.StatusStarting, w.spec.DateRange(), w.spec.Location,
		false, "Monitoring started")
	w.notifier.NotifyStartup(w.spec)

	for {
		interval, booked := w.runCycle()
		if booked {
			log.Infof("appointment booked for %v, monitoring complete", email)
			w.stop("Appointment booked, monitoring complete", "booked")
			return
		}

		select {
		case <-ctx.Done():
			w.stop("Monitoring stopped", "shutdown")
			return
		case <-time.After(interval):
		}
	}
}

// runCycle performs one check and returns how long to sleep before the next
// one, plus whether a slot was auto-booked and the worker is done. Busy
// rejections keep the normal interval; real errors back off.
func (w *Worker) runCycle() (time.Duration, bool) {
	email := w.spec.Email
	started := time.Now()
	defer func() {
		metrics.CheckCycleDuration.Observe(time.Since(started).Seconds())
	}()

	w.store.Update(email, entities.StatusChecking, w.spec.DateRange(), w.spec.Location,
		false, "Checking for available appointments")

	driver, err := w.registry.Acquire(email)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBrowser).
			Errorf("failed to acquire browser session for %v: %v", email, err)
		w.store.Update(email, entities.StatusError, w.spec.DateRange(), w.spec.Location,
			false, "Browser session unavailable")
		w.notifier.NotifyError("browser session unavailable", w.spec)
		metrics.CheckCyclesCounter.WithLabelValues("error").Inc()
		return w.errorRetryInterval, false
	}

	slots, err := w.checker.Check(driver, w.spec)

	switch {
	case errors.Is(err, navigation.ErrSystemBusy):
		// A transient server-side rejection, not worth an alert or a
		// longer backoff.
		log.Warnf("system busy for %v, retrying next cycle", email)
		w.store.Update(email, entities.StatusUnavailable, w.spec.DateRange(), w.spec.Location,
			false, "System busy, will retry")
		metrics.CheckCyclesCounter.WithLabelValues("busy").Inc()
		return w.checkInterval, false

	case errors.Is(err, navigation.ErrLoginFailed) || errors.Is(err, navigation.ErrLoginRequired):
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeNavigation).
			Errorf("login failed for %v: %v", email, err)
		w.store.UpdateLogin(email, false)
		w.notifier.NotifyError("login failed", w.spec)
		// A fresh session next cycle tends to clear sticky login state.
		w.registry.Close(email)
		metrics.CheckCyclesCounter.WithLabelValues("login_failed").Inc()
		return w.errorRetryInterval, false

	case err != nil:
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeNavigation).
			Errorf("check cycle failed for %v: %v", email, err)
		if w.debug != nil {
			w.debug.Capture(driver, "monitor_error")
		}
		w.store.Update(email, entities.StatusError, w.spec.DateRange(), w.spec.Location,
			false, "Error during check: "+err.Error())
		// Exception detail stays in logs and state; the alert is generic.
		w.notifier.NotifyError("Error occurred during monitoring", w.spec)
		metrics.CheckCyclesCounter.WithLabelValues("error").Inc()
		return w.errorRetryInterval, false
	}

	if len(slots) > 0 {
		log.Infof("found %v available slots for %v", len(slots), email)
		w.store.Update(email, entities.StatusAvailable, w.spec.DateRange(), w.spec.Location,
			true, "Available appointments found")
		metrics.SlotsFoundCounter.Add(float64(len(slots)))
		for _, slot := range slots {
			w.bus.Publish(events.SlotFoundTopic, events.SlotFound{Email: email, Slot: slot})
		}
		metrics.CheckCyclesCounter.WithLabelValues("available").Inc()
		booked := lo.SomeBy(slots, func(s entities.SlotResult) bool { return s.AutoBooked })
		return w.checkInterval, booked
	}

	log.Infof("no available slots for %v", email)
	w.store.Update(email, entities.StatusUnavailable, w.spec.DateRange(), w.spec.Location,
		false, "No appointments available")
	metrics.CheckCyclesCounter.WithLabelValues("unavailable").Inc()

	return w.checkInterval, false
}

func (w *Worker) stop(note, reason string) {
	email := w.spec.Email
	log.Infof("stopping monitoring for %v: %v", email, reason)
	w.store.Update(email, entities.StatusStopped, w.spec.DateRange(), w.spec.Location,
		false, note)
	w.registry.Close(email)
	w.bus.Publish(events.WorkerStoppedTopic, events.WorkerStopped{Email: email, Reason: reason})
}
