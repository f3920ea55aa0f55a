package navigation

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/easyslot/easyslot/internal/browser"
)

// findAppointmentCard returns the appointment card whose text carries the
// configured IVR account number. With no matching card it falls back to a
// generic continue affordance, tried in a fixed preference order.
func (n *Navigator) findAppointmentCard() (browser.Element, error) {
	log.Infof("finding appointment card for IVR account: %v", n.spec.IVRNumber)

	if _, err := browser.WaitFor(n.driver, locApplicationCard, n.wait(20*time.Second)); err == nil {
		cards, err := n.driver.FindElements(locApplicationCard)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list appointment cards")
		}
		log.Infof("found %v appointment cards", len(cards))

		for _, card := range cards {
			text, err := card.Text()
			if err != nil {
				continue
			}
			if strings.Contains(text, ivrLabelPrefix+n.spec.IVRNumber) {
				log.Info("found card with matching IVR account number")
				return card, nil
			}
		}
		log.Info("no card matched the IVR account, falling back to continue link")
	} else {
		log.Info("appointment cards not present, falling back to continue link")
	}

	return n.findContinueAffordance()
}

// findContinueAffordance walks the continue-link fallback chain: exact link
// text, partial link text, styled button selector, then a scan of every link
// for the exact trimmed text.
func (n *Navigator) findContinueAffordance() (browser.Element, error) {
	element, method, err := firstOf(
		probe{"link text", func() (browser.Element, error) {
			return n.driver.FindElement(browser.LinkText(continueLinkText))
		}},
		probe{"partial link text", func() (browser.Element, error) {
			return n.driver.FindElement(browser.PartialLinkText(continueLinkText))
		}},
		probe{"button selector", func() (browser.Element, error) {
			button, err := n.driver.FindElement(locCardContinueButton)
			if err != nil {
				return nil, err
			}
			text, err := button.Text()
			if err != nil || !strings.Contains(text, continueLinkText) {
				return nil, errors.New("styled button is not a continue link")
			}
			return button, nil
		}},
		probe{"link scan", func() (browser.Element, error) {
			links, err := n.driver.FindElements(browser.TagName("a"))
			if err != nil {
				return nil, err
			}
			for _, link := range links {
				if text, err := link.Text(); err == nil && strings.TrimSpace(text) == continueLinkText {
					return link, nil
				}
			}
			return nil, errors.New("no link with exact continue text")
		}},
	)
	if err == nil {
		log.Infof("found continue affordance by %v", method)
		return element, nil
	}

	// A login form here means the session expired mid-flow.
	if n.loginFormPresent() {
		return nil, errors.Wrap(ErrLoginRequired, "login form shown instead of appointment cards")
	}

	n.debug.Capture(n.driver, "continue_search_failed")
	return nil, errors.New("unable to find appointment card or continue link")
}
