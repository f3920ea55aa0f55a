package browser

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrWaitTimeout is returned when a bounded wait expires without the
// condition becoming true. Every wait in this package is bounded; nothing
// blocks indefinitely.
var ErrWaitTimeout = errors.New("wait timed out")

const pollInterval = 250 * time.Millisecond

// WaitFor polls for the presence of an element until timeout.
func WaitFor(d Driver, loc Locator, timeout time.Duration) (Element, error) {
	var element Element
	err := WaitCondition(timeout, func() bool {
		found, err := d.FindElement(loc)
		if err != nil {
			return false
		}
		element = found
		return true
	})
	if err != nil {
		return nil, errors.Wrapf(err, "element %q not present", loc.Value)
	}
	return element, nil
}

// WaitURLContains polls the current URL until it contains substr or timeout.
func WaitURLContains(d Driver, substr string, timeout time.Duration) error {
	err := WaitCondition(timeout, func() bool {
		url, err := d.CurrentURL()
		return err == nil && strings.Contains(url, substr)
	})
	return errors.Wrapf(err, "url did not reach %q", substr)
}

// WaitCondition polls check until it returns true or timeout elapses.
func WaitCondition(timeout time.Duration, check func() bool) error {
	deadline := time.Now().Add(timeout)
	for {
		if check() {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrWaitTimeout
		}
		time.Sleep(pollInterval)
	}
}
