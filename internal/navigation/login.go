package navigation

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/easyslot/easyslot/internal/browser"
)

// Login runs the full login sequence: the optional "important information"
// interstitial, the credential form, the optional consent checkbox, and the
// post-login URL check.
func (n *Navigator) Login() error {
	log.Infof("navigating to login page for %v", n.spec.Email)

	if err := n.driver.Get(n.baseURL + "/users/sign_in"); err != nil {
		return errors.Wrap(err, "failed to load login page")
	}

	n.handleInterstitial()

	if err := n.fillLoginForm(); err != nil {
		n.debug.Capture(n.driver, "login_error")
		return err
	}

	if err := browser.WaitURLContains(n.driver, postLoginURLPart, n.wait(10*time.Second)); err != nil {
		n.debug.Capture(n.driver, "login_error")
		return errors.Wrap(ErrLoginFailed, "post-login page not reached")
	}

	log.Info("login successful")
	return nil
}

// handleInterstitial dismisses the "important information" overlay when it
// shows up. Best effort: missing the overlay, or even its landmark, is not a
// failure.
func (n *Navigator) handleInterstitial() {
	arrow, err := browser.WaitFor(n.driver, locDownArrow, n.wait(5*time.Second))
	if err == nil {
		if err = arrow.Click(); err == nil {
			log.Info("dismissed important information page")
			return
		}
		log.Infof("failed to click down arrow: %v", err)
		return
	}

	if _, err = n.driver.FindElement(locHeader); err == nil {
		log.Info("already past important information page")
		return
	}
	log.Info("important information page not found, proceeding")
}

func (n *Navigator) fillLoginForm() error {
	form := func(loc browser.Locator) (browser.Element, error) {
		return browser.WaitFor(n.driver, loc, n.wait(5*time.Second))
	}

	if _, err := form(locSignInForm); err != nil {
		return errors.Wrap(ErrLoginFailed, "login form not present")
	}

	emailField, err := form(locEmailField)
	if err != nil {
		return errors.Wrap(ErrLoginFailed, "email field not present")
	}
	if err = emailField.Clear(); err != nil {
		return errors.Wrap(err, "failed to clear email field")
	}
	if err = emailField.SendKeys(n.spec.Email); err != nil {
		return errors.Wrap(err, "failed to fill email field")
	}

	passwordField, err := form(locPasswordField)
	if err != nil {
		return errors.Wrap(ErrLoginFailed, "password field not present")
	}
	if err = passwordField.Clear(); err != nil {
		return errors.Wrap(err, "failed to clear password field")
	}
	if err = passwordField.SendKeys(n.spec.Password); err != nil {
		return errors.Wrap(err, "failed to fill password field")
	}

	n.handleConsentCheckbox()

	submit, err := form(locSignInButton)
	if err != nil {
		return errors.Wrap(ErrLoginFailed, "sign-in button not present")
	}
	if err = submit.Click(); err != nil {
		return errors.Wrap(err, "failed to click sign-in button")
	}
	log.Info("submitted login form")
	return nil
}

// handleConsentCheckbox ticks the privacy policy checkbox when present.
// Never fatal: the site drops and re-adds this control regularly.
func (n *Navigator) handleConsentCheckbox() {
	checkbox, err := n.driver.FindElement(locConsentCheckbox)
	if err != nil {
		log.Info("consent checkbox not found, possibly not needed")
		return
	}

	selected, err := checkbox.Selected()
	if err != nil || selected {
		return
	}

	if err = checkbox.ScrollIntoView(); err == nil {
		n.settle()
	}
	if err = checkbox.Click(); err != nil {
		log.Infof("failed to tick consent checkbox: %v", err)
		return
	}
	log.Info("consent checkbox selected")
}
