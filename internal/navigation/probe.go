package navigation

import (
	"github.com/pkg/errors"

	"github.com/easyslot/easyslot/internal/browser"
)

// probe is one way of locating an element. Fallback chains are expressed as
// ordered probe lists evaluated until one yields an element.
type probe struct {
	name string
	find func() (browser.Element, error)
}

// firstOf runs probes in order and returns the first element found, together
// with the name of the winning probe.
func firstOf(probes ...probe) (browser.Element, string, error) {
	for _, p := range probes {
		element, err := p.find()
		if err == nil && element != nil {
			return element, p.name, nil
		}
	}
	return nil, "", errors.New("no probe yielded an element")
}
