package tests

import (
	"sync"

	"github.com/easyslot/easyslot/internal/browser"
	"github.com/easyslot/easyslot/internal/entities"
	"github.com/easyslot/easyslot/internal/monitor"
	"github.com/easyslot/easyslot/internal/navigation"
	"github.com/easyslot/easyslot/internal/scanner"
)

// recordingSender captures every notification handed to it.
type recordingSender struct {
	mu       sync.Mutex
	subjects []string
	bodies   []string
}

func (s *recordingSender) Send(subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = append(s.subjects, subject)
	s.bodies = append(s.bodies, body)
	return nil
}

func (s *recordingSender) snapshot() ([]string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.subjects...), append([]string(nil), s.bodies...)
}

func (s *recordingSender) received(subject string) bool {
	subjects, _ := s.snapshot()
	for _, got := range subjects {
		if got == subject {
			return true
		}
	}
	return false
}

// scaledChecker is the production navigation+scanner composition with wait
// scaling so scripted-site cycles finish in milliseconds.
type scaledChecker struct {
	baseURL string
	scale   float64
}

var _ monitor.SlotChecker = (*scaledChecker)(nil)

func (c *scaledChecker) Check(driver browser.Driver, spec entities.AppointmentSpec) ([]entities.SlotResult, error) {
	nav := navigation.New(driver, spec,
		navigation.WithBaseURL(c.baseURL),
		navigation.WithWaitScale(c.scale))
	if err := nav.ToReschedulePage(); err != nil {
		return nil, err
	}
	return scanner.New(driver, spec, nav.Detector(), scanner.WithWaitScale(c.scale)).Scan()
}
