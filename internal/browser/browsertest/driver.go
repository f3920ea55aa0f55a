// Package browsertest provides a scripted in-memory Driver for tests. Pages
// are plain locator→element tables; element clicks may mutate the driver to
// model navigation.
package browsertest

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/easyslot/easyslot/internal/browser"
)

// ErrNotFound is returned for locators without a stubbed element.
var ErrNotFound = errors.New("no such element")

// Driver is a scripted browser.Driver. Stub elements before use; FindElement
// returns the first stubbed element for a locator, FindElements returns all.
type Driver struct {
	mu sync.Mutex

	URL    string
	Source string
	Alive  bool

	elements map[browser.Locator][]browser.Element

	// GetFunc, when set, handles navigation; otherwise Get records the URL.
	GetFunc func(url string) error

	Quitted bool
}

func New() *Driver {
	return &Driver{
		Alive:    true,
		elements: make(map[browser.Locator][]browser.Element),
	}
}

// Stub registers elements for a locator, replacing earlier stubs.
func (d *Driver) Stub(loc browser.Locator, els ...browser.Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[loc] = els
}

// Clear removes the stub for a locator.
func (d *Driver) Clear(loc browser.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, loc)
}

func (d *Driver) Get(url string) error {
	if d.GetFunc != nil {
		return d.GetFunc(url)
	}
	d.URL = url
	return nil
}

func (d *Driver) CurrentURL() (string, error) {
	if !d.Alive {
		return "", errors.New("session is dead")
	}
	return d.URL, nil
}

func (d *Driver) Title() (string, error)      { return "stub page", nil }
func (d *Driver) PageSource() (string, error) { return d.Source, nil }
func (d *Driver) Refresh() error              { return nil }

func (d *Driver) Screenshot() ([]byte, error) { return []byte("png"), nil }

func (d *Driver) Quit() error {
	d.Quitted = true
	d.Alive = false
	return nil
}

func (d *Driver) FindElement(loc browser.Locator) (browser.Element, error) {
	els, err := d.FindElements(loc)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "locator %v %q", loc.Strategy, loc.Value)
	}
	return els[0], nil
}

func (d *Driver) FindElements(loc browser.Locator) ([]browser.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.elements[loc], nil
}

var _ browser.Driver = (*Driver)(nil)

// Element is a scripted browser.Element.
type Element struct {
	TextValue      string
	Attrs          map[string]string
	SelectedValue  bool
	DisplayedValue bool

	// ClickFunc runs on Click; nil means click succeeds silently.
	ClickFunc func() error

	// Typed accumulates SendKeys input.
	Typed string

	children map[browser.Locator][]browser.Element
}

func NewElement(text string) *Element {
	return &Element{TextValue: text, DisplayedValue: true}
}

func (e *Element) WithAttr(name, value string) *Element {
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	e.Attrs[name] = value
	return e
}

func (e *Element) OnClick(fn func() error) *Element {
	e.ClickFunc = fn
	return e
}

// StubChild registers nested elements reachable through this element.
func (e *Element) StubChild(loc browser.Locator, els ...browser.Element) *Element {
	if e.children == nil {
		e.children = map[browser.Locator][]browser.Element{}
	}
	e.children[loc] = els
	return e
}

func (e *Element) Text() (string, error) { return e.TextValue, nil }

func (e *Element) Click() error {
	if e.ClickFunc != nil {
		return e.ClickFunc()
	}
	return nil
}

func (e *Element) Clear() error {
	e.Typed = ""
	return nil
}

func (e *Element) SendKeys(text string) error {
	e.Typed += text
	return nil
}

func (e *Element) Attribute(name string) (string, error) {
	return e.Attrs[name], nil
}

func (e *Element) Selected() (bool, error)  { return e.SelectedValue, nil }
func (e *Element) Displayed() (bool, error) { return e.DisplayedValue, nil }
func (e *Element) ScrollIntoView() error    { return nil }

func (e *Element) FindElement(loc browser.Locator) (browser.Element, error) {
	els := e.children[loc]
	if len(els) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "locator %v %q", loc.Strategy, loc.Value)
	}
	return els[0], nil
}

func (e *Element) FindElements(loc browser.Locator) ([]browser.Element, error) {
	return e.children[loc], nil
}

var _ browser.Element = (*Element)(nil)
