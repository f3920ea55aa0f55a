// Package navigation drives the external booking site through its login,
// card-selection and reschedule flows. The site changes often and fails in
// partial ways, so every step works with bounded waits, ordered fallback
// probes and a one-shot re-login recovery per cycle.
package navigation

import (
	"time"

	"github.com/pkg/errors"

	"github.com/easyslot/easyslot/internal/browser"
	"github.com/easyslot/easyslot/internal/entities"
)

// DefaultBaseURL is the booking site entry point.
const DefaultBaseURL = "https://ais.usvisa-info.com/en-ca/niv"

const postLoginURLPart = "/groups/"

var (
	// ErrSystemBusy marks the transient inline "system is busy" rejection.
	// It is a "try later" outcome for the current cycle, not a failure.
	ErrSystemBusy = errors.New("system is busy")

	// ErrLoginFailed marks a login sequence that could not be completed.
	ErrLoginFailed = errors.New("login failed")

	// ErrLoginRequired marks a silent return to the login form after the
	// per-cycle re-login budget was spent.
	ErrLoginRequired = errors.New("login form detected")
)

// Site landmarks. The marker phrases of the busy detector are configurable;
// these selectors track the site's current markup.
var (
	locSignInForm       = browser.ID("sign_in_form")
	locEmailField       = browser.ID("user_email")
	locPasswordField    = browser.ID("user_password")
	locConsentCheckbox  = browser.ID("policy_confirmed")
	locSignInButton     = browser.CSS("input.button.primary[name='commit']")
	locDownArrow        = browser.ClassName("down-arrow")
	locHeader           = browser.ID("header")
	locApplicationCard  = browser.ClassName("application")
	locAccordion        = browser.ClassName("accordion")
	locAccordionTitles  = browser.CSS(".accordion-item a.accordion-title")
	locAccordionContent = browser.Locator{Strategy: browser.ByXPath,
		Value: "//div[contains(@class, 'accordion-content') and .//a[contains(text(), 'Reschedule')]]"}
	locCardContinueButton = browser.CSS("a.button.primary.small")
	locRescheduleLink     = browser.CSS("a.button.small.primary")
	locFacilitySelect     = browser.ID("appointments_consulate_appointment_facility_id")
)

const (
	continueLinkText      = "Continue"
	reschedulePhrase      = "Reschedule Appointment"
	ivrLabelPrefix        = "IVR Account Number: "
	defaultSettleDelay    = 500 * time.Millisecond
	defaultPageLoadSettle = 2 * time.Second
)

// DebugSink receives failure contexts worth capturing (screenshot, page
// source) for later inspection.
type DebugSink interface {
	Capture(driver browser.Driver, prefix string)
}

type noopSink struct{}

func (noopSink) Capture(browser.Driver, string) {}

// Navigator is the navigation state machine for one session. It is not safe
// for concurrent use; one worker drives one navigator.
type Navigator struct {
	driver browser.Driver
	spec   entities.AppointmentSpec

	baseURL     string
	busy        *BusyDetector
	debug       DebugSink
	settleDelay time.Duration
	pageSettle  time.Duration
	waitScale   float64

	reloggedIn bool
}

type Option func(*Navigator)

func WithBaseURL(url string) Option {
	return func(n *Navigator) { n.baseURL = url }
}

func WithBusyMarkers(markers []string) Option {
	return func(n *Navigator) { n.busy = NewBusyDetector(markers) }
}

func WithDebugSink(sink DebugSink) Option {
	return func(n *Navigator) { n.debug = sink }
}

// WithWaitScale shrinks every bounded wait and settle delay by the given
// factor. Tests use this to keep timeout paths fast.
func WithWaitScale(scale float64) Option {
	return func(n *Navigator) { n.waitScale = scale }
}

func New(driver browser.Driver, spec entities.AppointmentSpec, opts ...Option) *Navigator {
	n := &Navigator{
		driver:      driver,
		spec:        spec,
		baseURL:     DefaultBaseURL,
		busy:        NewBusyDetector(nil),
		debug:       noopSink{},
		settleDelay: defaultSettleDelay,
		pageSettle:  defaultPageLoadSettle,
		waitScale:   1,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Busy reports whether the current page shows a busy-marker rejection.
func (n *Navigator) Busy() bool {
	return n.busy.Detect(n.driver)
}

// Detector exposes the configured busy detector so the slot scanner can
// consult the same marker set.
func (n *Navigator) Detector() *BusyDetector {
	return n.busy
}

func (n *Navigator) wait(base time.Duration) time.Duration {
	return time.Duration(float64(base) * n.waitScale)
}

func (n *Navigator) settle() {
	time.Sleep(time.Duration(float64(n.settleDelay) * n.waitScale))
}

func (n *Navigator) settlePageLoad() {
	time.Sleep(time.Duration(float64(n.pageSettle) * n.waitScale))
}

// reloginOnce performs the single re-login recovery a cycle is allowed. A
// second detection in the same cycle is a hard failure.
func (n *Navigator) reloginOnce() error {
	if n.reloggedIn {
		return errors.Wrap(ErrLoginRequired, "login form detected twice in one cycle")
	}
	n.reloggedIn = true
	return n.Login()
}

func (n *Navigator) loginFormPresent() bool {
	_, err := n.driver.FindElement(locSignInForm)
	return err == nil
}
