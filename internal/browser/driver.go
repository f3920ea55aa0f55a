// Package browser wraps a remote browser-automation session behind a small
// Driver interface and owns the registry of live sessions, one per user key.
package browser

// Strategy is a W3C WebDriver element location strategy.
type Strategy string

const (
	ByCSS             Strategy = "css selector"
	ByLinkText        Strategy = "link text"
	ByPartialLinkText Strategy = "partial link text"
	ByTagName         Strategy = "tag name"
	ByXPath           Strategy = "xpath"
)

// Locator selects elements on the current page.
type Locator struct {
	Strategy Strategy
	Value    string
}

func CSS(selector string) Locator         { return Locator{ByCSS, selector} }
func ID(id string) Locator                { return Locator{ByCSS, "#" + id} }
func ClassName(name string) Locator       { return Locator{ByCSS, "." + name} }
func Name(name string) Locator            { return Locator{ByCSS, `[name="` + name + `"]`} }
func LinkText(text string) Locator        { return Locator{ByLinkText, text} }
func PartialLinkText(text string) Locator { return Locator{ByPartialLinkText, text} }
func TagName(tag string) Locator          { return Locator{ByTagName, tag} }

// Element is a handle to one element on the current page.
type Element interface {
	Text() (string, error)
	Click() error
	Clear() error
	SendKeys(text string) error
	Attribute(name string) (string, error)
	Selected() (bool, error)
	Displayed() (bool, error)
	ScrollIntoView() error
	FindElement(loc Locator) (Element, error)
	FindElements(loc Locator) ([]Element, error)
}

// Driver is the opaque browser-automation capability: navigate, find, click,
// read, screenshot. Implementations are not safe for concurrent use; a
// session is driven by exactly one worker at a time.
type Driver interface {
	Get(url string) error
	CurrentURL() (string, error)
	Title() (string, error)
	PageSource() (string, error)
	FindElement(loc Locator) (Element, error)
	FindElements(loc Locator) ([]Element, error)
	Refresh() error
	Screenshot() ([]byte, error)
	Quit() error
}
