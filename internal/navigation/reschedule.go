package navigation

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/easyslot/easyslot/internal/browser"
)

// ToReschedulePage moves the session from wherever it currently is to the
// reschedule page, logging in on the way when needed. One silent return to
// the login form is recovered per cycle; a second one fails the cycle.
func (n *Navigator) ToReschedulePage() error {
	n.reloggedIn = false

	url, err := n.driver.CurrentURL()
	if err != nil {
		return errors.Wrap(err, "failed to read current url")
	}
	log.Infof("current url: %v", url)

	if n.onReschedulePage(url) {
		log.Info("already on reschedule page")
		return nil
	}

	// A fresh session, or one silently bounced back to the login form.
	if url == "" || strings.Contains(url, "/users/sign_in") || n.loginFormPresent() {
		if err = n.Login(); err != nil {
			return err
		}
		if url, err = n.driver.CurrentURL(); err != nil {
			return errors.Wrap(err, "failed to read url after login")
		}
	}

	if strings.Contains(url, postLoginURLPart) || strings.Contains(url, "/schedule") {
		if err = n.selectCardAndContinue(); err != nil {
			return err
		}
	}

	if err = n.openRescheduleAccordion(); err != nil {
		if !n.loginFormPresent() {
			n.debug.Capture(n.driver, "reschedule_action_error")
			return err
		}
		log.Info("login form detected during reschedule step, re-logging in")
		if err = n.reloginOnce(); err != nil {
			return err
		}
		if err = n.selectCardAndContinue(); err != nil {
			return err
		}
		if err = n.openRescheduleAccordion(); err != nil {
			n.debug.Capture(n.driver, "reschedule_action_error")
			return err
		}
	}

	if _, err = browser.WaitFor(n.driver, locFacilitySelect, n.wait(10*time.Second)); err != nil {
		n.debug.Capture(n.driver, "navigate_error")
		return errors.Wrap(err, "reschedule page not reached")
	}

	log.Info("successfully navigated to reschedule page")
	return nil
}

func (n *Navigator) onReschedulePage(url string) bool {
	lowered := strings.ToLower(url)
	if strings.Contains(lowered, "reschedule") {
		return true
	}
	if !strings.Contains(lowered, "appointment") {
		return false
	}
	source, err := n.driver.PageSource()
	return err == nil && strings.Contains(source, "appointments_consulate_appointment_facility_id")
}

// selectCardAndContinue picks the matching appointment card on the group
// page and clicks through its continue affordance.
func (n *Navigator) selectCardAndContinue() error {
	card, err := n.findAppointmentCard()
	if errors.Is(err, ErrLoginRequired) {
		if err = n.reloginOnce(); err != nil {
			return err
		}
		if card, err = n.findAppointmentCard(); err != nil {
			n.debug.Capture(n.driver, "no_matching_card_after_relogin")
			return errors.Wrapf(err, "no appointment card for IVR account %v after re-login", n.spec.IVRNumber)
		}
	} else if err != nil {
		n.debug.Capture(n.driver, "no_matching_card")
		return errors.Wrapf(err, "no appointment card for IVR account %v", n.spec.IVRNumber)
	}

	button, err := n.continueButtonOf(card)
	if err != nil {
		return err
	}

	// Enabled/visible state lags layout, so scroll first and let it settle.
	if err = button.ScrollIntoView(); err == nil {
		n.settle()
	}
	if err = button.Click(); err != nil {
		return errors.Wrap(err, "failed to click continue button")
	}
	log.Info("clicked continue button")
	n.settlePageLoad()
	return nil
}

func (n *Navigator) continueButtonOf(card browser.Element) (browser.Element, error) {
	button, method, err := firstOf(
		probe{"card button selector", func() (browser.Element, error) {
			return card.FindElement(locCardContinueButton)
		}},
		probe{"card link text", func() (browser.Element, error) {
			return card.FindElement(browser.LinkText(continueLinkText))
		}},
		probe{"page link text", func() (browser.Element, error) {
			return n.driver.FindElement(browser.LinkText(continueLinkText))
		}},
		probe{"first card link", func() (browser.Element, error) {
			return card.FindElement(browser.TagName("a"))
		}},
	)
	if err != nil {
		return nil, errors.New("unable to find continue button")
	}
	log.Infof("found continue button by %v", method)
	return button, nil
}

// openRescheduleAccordion expands the accordion item labeled with the
// reschedule phrase and clicks the link revealed inside it.
func (n *Navigator) openRescheduleAccordion() error {
	log.Info("finding reschedule option")

	if _, err := browser.WaitFor(n.driver, locAccordion, n.wait(10*time.Second)); err != nil {
		return errors.Wrap(err, "accordion not present")
	}

	items, err := n.driver.FindElements(locAccordionTitles)
	if err != nil {
		return errors.Wrap(err, "failed to list accordion items")
	}

	for _, item := range items {
		text, err := item.Text()
		if err != nil || !strings.Contains(text, reschedulePhrase) {
			continue
		}

		if err = item.ScrollIntoView(); err == nil {
			n.settle()
		}
		if err = item.Click(); err != nil {
			return errors.Wrap(err, "failed to expand reschedule accordion")
		}
		log.Info("expanded reschedule accordion")

		content, err := browser.WaitFor(n.driver, locAccordionContent, n.wait(10*time.Second))
		if err != nil {
			return errors.Wrap(err, "accordion content not visible")
		}

		link, err := content.FindElement(locRescheduleLink)
		if err != nil {
			return errors.Wrap(err, "reschedule link not found in accordion content")
		}

		if err = link.ScrollIntoView(); err == nil {
			n.settle()
		}
		if err = link.Click(); err != nil {
			return errors.Wrap(err, "failed to click reschedule link")
		}
		log.Info("clicked reschedule link")
		return nil
	}

	return errors.New("reschedule option not found")
}
