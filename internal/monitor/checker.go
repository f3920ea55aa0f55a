package monitor

import (
	log "github.com/sirupsen/logrus"

	"github.com/easyslot/easyslot/internal/browser"
	"github.com/easyslot/easyslot/internal/entities"
	"github.com/easyslot/easyslot/internal/navigation"
	"github.com/easyslot/easyslot/internal/scanner"
)

// SlotChecker runs one full check cycle on a live session: reach the
// reschedule page and enumerate open slots.
type SlotChecker interface {
	Check(driver browser.Driver, spec entities.AppointmentSpec) ([]entities.SlotResult, error)
}

// siteChecker is the production checker: navigation state machine plus slot
// scanner against the real site.
type siteChecker struct {
	baseURL     string
	busyMarkers []string
	debug       navigation.DebugSink
}

func NewSiteChecker(baseURL string, busyMarkers []string, debug navigation.DebugSink) SlotChecker {
	if baseURL == "" {
		baseURL = navigation.DefaultBaseURL
	}
	return &siteChecker{baseURL: baseURL, busyMarkers: busyMarkers, debug: debug}
}

func (c *siteChecker) Check(driver browser.Driver, spec entities.AppointmentSpec) ([]entities.SlotResult, error) {

	opts := []navigation.Option{navigation.WithBaseURL(c.baseURL)}
	if len(c.busyMarkers) > 0 {
		opts = append(opts, navigation.WithBusyMarkers(c.busyMarkers))
	}
	if c.debug != nil {
		opts = append(opts, navigation.WithDebugSink(c.debug))
	}

	nav := navigation.New(driver, spec, opts...)
	if err := nav.ToReschedulePage(); err != nil {
		return nil, err
	}

	sc := scanner.New(driver, spec, nav.Detector())
	slots, err := sc.Scan()
	if err != nil {
		return nil, err
	}

	if spec.AutoBook && len(slots) > 0 {
		booked, err := sc.Book()
		if err != nil {
			log.Errorf("auto-booking failed, slot reported as available only: %v", err)
		} else if booked {
			slots[len(slots)-1].AutoBooked = true
		}
	}

	return slots, nil
}
