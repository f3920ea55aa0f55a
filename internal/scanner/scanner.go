// Package scanner enumerates open appointment slots once the navigation
// machine has parked the session on the reschedule page.
package scanner

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/easyslot/easyslot/internal/browser"
	"github.com/easyslot/easyslot/internal/entities"
	"github.com/easyslot/easyslot/internal/navigation"
)

var (
	locFacilitySelect  = browser.ID("appointments_consulate_appointment_facility_id")
	locDateInput       = browser.ID("appointments_consulate_appointment_date")
	locCalendar        = browser.ClassName("ui-datepicker-calendar")
	locSelectableDates = browser.CSS(".ui-datepicker-calendar td:not(.ui-datepicker-unselectable) a")
	locTimeSelect      = browser.ID("appointments_consulate_appointment_time")
	locSubmitButton    = browser.ID("appointments_submit")
	locConfirmation    = browser.ClassName("confirmation-page")
)

const dateLayout = "2006-01-02"

// Scanner reads the reschedule page for one user: select the location, open
// the date picker, walk every selectable date and collect its time options.
type Scanner struct {
	driver browser.Driver
	spec   entities.AppointmentSpec
	busy   *navigation.BusyDetector

	settleDelay time.Duration
	waitScale   float64
}

type Option func(*Scanner)

// WithWaitScale shrinks bounded waits and settle delays, mirroring the
// navigator option of the same name.
func WithWaitScale(scale float64) Option {
	return func(s *Scanner) { s.waitScale = scale }
}

func New(driver browser.Driver, spec entities.AppointmentSpec, busy *navigation.BusyDetector, opts ...Option) *Scanner {
	s := &Scanner{
		driver:      driver,
		spec:        spec,
		busy:        busy,
		settleDelay: time.Second,
		waitScale:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) wait(base time.Duration) time.Duration {
	return time.Duration(float64(base) * s.waitScale)
}

func (s *Scanner) settle() {
	time.Sleep(time.Duration(float64(s.settleDelay) * s.waitScale))
}

// Scan walks the reschedule page and returns one SlotResult per open time.
// A busy rejection after selecting the location or opening the date picker
// aborts the scan with navigation.ErrSystemBusy; a busy rejection on an
// individual date only skips that date.
func (s *Scanner) Scan() ([]entities.SlotResult, error) {
	if _, err := browser.WaitFor(s.driver, locFacilitySelect, s.wait(10*time.Second)); err != nil {
		return nil, errors.Wrap(err, "location selector not present")
	}

	if err := s.selectLocation(); err != nil {
		return nil, err
	}
	if s.busy.Detect(s.driver) {
		log.Warn("busy rejection after selecting location, will retry next cycle")
		return nil, navigation.ErrSystemBusy
	}

	if err := s.openDatePicker(); err != nil {
		if s.busy.Detect(s.driver) {
			log.Warn("busy rejection after opening date picker, will retry next cycle")
			return nil, navigation.ErrSystemBusy
		}
		return nil, err
	}

	dates, err := s.driver.FindElements(locSelectableDates)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list selectable dates")
	}
	if len(dates) == 0 {
		log.Info("no selectable dates found")
		return nil, nil
	}
	log.Infof("found %v selectable dates", len(dates))

	var results []entities.SlotResult
	for _, date := range dates {
		slots, err := s.scanDate(date)
		if errors.Is(err, navigation.ErrSystemBusy) {
			log.Warn("busy rejection while scanning a date, trying next date")
			continue
		}
		if err != nil {
			log.Errorf("error scanning date: %v", err)
			continue
		}
		results = append(results, slots...)
	}
	return results, nil
}

func (s *Scanner) selectLocation() error {
	selector, err := s.driver.FindElement(locFacilitySelect)
	if err != nil {
		return errors.Wrap(err, "location selector not found")
	}

	options, err := selector.FindElements(browser.TagName("option"))
	if err != nil {
		return errors.Wrap(err, "failed to list location options")
	}

	for _, option := range options {
		text, err := option.Text()
		if err != nil {
			continue
		}
		if containsLocation(text, s.spec.Location) {
			if err = option.Click(); err != nil {
				return errors.Wrap(err, "failed to select location")
			}
			log.Infof("selected location: %v", s.spec.Location)
			s.settle()
			return nil
		}
	}
	return errors.Errorf("location %q not present in selector", s.spec.Location)
}

func (s *Scanner) openDatePicker() error {
	dateInput, err := browser.WaitFor(s.driver, locDateInput, s.wait(10*time.Second))
	if err != nil {
		return errors.Wrap(err, "date input not present")
	}
	if err = dateInput.Click(); err != nil {
		return errors.Wrap(err, "failed to open date picker")
	}
	if _, err = browser.WaitFor(s.driver, locCalendar, s.wait(10*time.Second)); err != nil {
		return errors.Wrap(err, "calendar did not appear")
	}
	return nil
}

// scanDate clicks one candidate date and emits a SlotResult per real time
// option, skipping the leading placeholder.
func (s *Scanner) scanDate(date browser.Element) ([]entities.SlotResult, error) {
	dateText, err := date.Attribute("data-date")
	if err != nil || dateText == "" {
		if dateText, err = date.Text(); err != nil {
			return nil, errors.Wrap(err, "failed to read date label")
		}
	}

	if parsed, parseErr := time.Parse(dateLayout, dateText); parseErr == nil && !s.spec.DateInRange(parsed) {
		log.Infof("date %v outside configured range, skipping", dateText)
		return nil, nil
	}

	log.Infof("checking date: %v", dateText)
	if err = date.Click(); err != nil {
		return nil, errors.Wrap(err, "failed to click date")
	}
	s.settle()

	if s.busy.Detect(s.driver) {
		return nil, navigation.ErrSystemBusy
	}

	timeSelect, err := browser.WaitFor(s.driver, locTimeSelect, s.wait(10*time.Second))
	if err != nil {
		if s.busy.Detect(s.driver) {
			return nil, navigation.ErrSystemBusy
		}
		return nil, errors.Wrap(err, "time selector not present")
	}

	options, err := timeSelect.FindElements(browser.TagName("option"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list time options")
	}

	var slots []entities.SlotResult
	for i, option := range options {
		if i == 0 {
			continue // placeholder option
		}
		text, err := option.Text()
		if err != nil {
			continue
		}
		log.Infof("found available time: %v", text)
		slots = append(slots, entities.SlotResult{
			City: s.spec.Location,
			Date: dateText,
			Time: text,
		})
	}
	return slots, nil
}

// Book selects the first real time option for the currently clicked date and
// submits, waiting for the confirmation page.
func (s *Scanner) Book() (bool, error) {
	timeSelect, err := s.driver.FindElement(locTimeSelect)
	if err != nil {
		return false, errors.Wrap(err, "time selector not found")
	}

	options, err := timeSelect.FindElements(browser.TagName("option"))
	if err != nil || len(options) < 2 {
		return false, nil
	}
	if err = options[1].Click(); err != nil {
		return false, errors.Wrap(err, "failed to select time option")
	}

	submit, err := s.driver.FindElement(locSubmitButton)
	if err != nil {
		return false, errors.Wrap(err, "submit button not found")
	}
	if err = submit.Click(); err != nil {
		return false, errors.Wrap(err, "failed to submit booking")
	}

	if _, err = browser.WaitFor(s.driver, locConfirmation, s.wait(10*time.Second)); err != nil {
		return false, errors.Wrap(err, "confirmation page not reached")
	}
	log.Info("appointment booked successfully")
	return true, nil
}

// containsLocation is a case-sensitive substring match against the option's
// visible text.
func containsLocation(optionText, location string) bool {
	return location != "" && strings.Contains(strings.TrimSpace(optionText), location)
}
