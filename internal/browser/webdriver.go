package browser

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Options configure the remote WebDriver session created by Connect.
type Options struct {
	RemoteURL      string
	BrowserName    string
	Headless       bool
	BinaryLocation string
}

// elementKey is the W3C WebDriver element identifier property.
const elementKey = "element-6066-11e4-a52e-4f735466cecf"

// webDriver speaks the W3C WebDriver wire protocol against a local
// chromedriver/geckodriver endpoint.
type webDriver struct {
	client    *resty.Client
	sessionID string
}

// Connect opens a new session against the remote endpoint in opts.
func Connect(opts Options) (Driver, error) {
	if opts.RemoteURL == "" {
		return nil, errors.New("remote webdriver url is empty")
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.RemoteURL, "/")).
		SetTimeout(60 * time.Second)

	var out struct {
		Value struct {
			SessionID string `json:"sessionId"`
		} `json:"value"`
	}

	body := map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": buildCapabilities(opts),
		},
	}

	resp, err := client.R().SetBody(body).SetResult(&out).Post("/session")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create webdriver session")
	}
	if resp.IsError() {
		return nil, errors.Errorf("failed to create webdriver session: %s", resp.String())
	}
	if out.Value.SessionID == "" {
		return nil, errors.New("webdriver returned an empty session id")
	}

	return &webDriver{client: client, sessionID: out.Value.SessionID}, nil
}

func buildCapabilities(opts Options) map[string]any {
	name := opts.BrowserName
	if name == "" {
		name = "chrome"
	}

	args := []string{
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-gpu",
		"--disable-extensions",
		"--disable-notifications",
		"--window-size=1920,1080",
	}
	if opts.Headless {
		args = append(args, "--headless=new")
	}

	browserOptions := map[string]any{"args": args}
	if opts.BinaryLocation != "" {
		browserOptions["binary"] = opts.BinaryLocation
	}

	caps := map[string]any{"browserName": name}
	switch name {
	case "firefox":
		caps["moz:firefoxOptions"] = browserOptions
	case "MicrosoftEdge":
		caps["ms:edgeOptions"] = browserOptions
	default:
		caps["goog:chromeOptions"] = browserOptions
	}
	return caps
}

func (d *webDriver) do(method, path string, body any, value any) error {
	var out struct {
		Value json.RawMessage `json:"value"`
	}

	req := d.client.R().SetResult(&out).SetError(&out)
	if body != nil {
		req.SetBody(body)
	} else if method == resty.MethodPost {
		// chromedriver rejects POSTs without a JSON body.
		req.SetBody(map[string]any{})
	}

	resp, err := req.Execute(method, "/session/"+d.sessionID+path)
	if err != nil {
		return errors.Wrapf(err, "webdriver request %s %s failed", method, path)
	}
	if resp.IsError() {
		var wireErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(out.Value, &wireErr)
		return errors.Errorf("webdriver %s: %s", wireErr.Error, wireErr.Message)
	}
	if value != nil {
		if err = json.Unmarshal(out.Value, value); err != nil {
			return errors.Wrap(err, "failed to decode webdriver response")
		}
	}
	return nil
}

func (d *webDriver) Get(url string) error {
	return d.do(resty.MethodPost, "/url", map[string]string{"url": url}, nil)
}

func (d *webDriver) CurrentURL() (string, error) {
	var url string
	err := d.do(resty.MethodGet, "/url", nil, &url)
	return url, err
}

func (d *webDriver) Title() (string, error) {
	var title string
	err := d.do(resty.MethodGet, "/title", nil, &title)
	return title, err
}

func (d *webDriver) PageSource() (string, error) {
	var source string
	err := d.do(resty.MethodGet, "/source", nil, &source)
	return source, err
}

func (d *webDriver) Refresh() error {
	return d.do(resty.MethodPost, "/refresh", nil, nil)
}

func (d *webDriver) Screenshot() ([]byte, error) {
	var encoded string
	if err := d.do(resty.MethodGet, "/screenshot", nil, &encoded); err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(encoded)
}

func (d *webDriver) Quit() error {
	var out struct {
		Value json.RawMessage `json:"value"`
	}
	resp, err := d.client.R().SetResult(&out).Delete("/session/" + d.sessionID)
	if err != nil {
		return errors.Wrap(err, "failed to quit webdriver session")
	}
	if resp.IsError() {
		return errors.Errorf("failed to quit webdriver session: %s", resp.String())
	}
	return nil
}

func (d *webDriver) FindElement(loc Locator) (Element, error) {
	id, err := d.findElementID("/element", loc)
	if err != nil {
		return nil, err
	}
	return &webElement{driver: d, id: id}, nil
}

func (d *webDriver) FindElements(loc Locator) ([]Element, error) {
	return d.findElementList("/elements", loc)
}

func (d *webDriver) findElementID(path string, loc Locator) (string, error) {
	var ref map[string]string
	body := map[string]string{"using": string(loc.Strategy), "value": loc.Value}
	if err := d.do(resty.MethodPost, path, body, &ref); err != nil {
		return "", err
	}
	id, ok := ref[elementKey]
	if !ok {
		return "", errors.New("webdriver element response missing element id")
	}
	return id, nil
}

func (d *webDriver) findElementList(path string, loc Locator) ([]Element, error) {
	var refs []map[string]string
	body := map[string]string{"using": string(loc.Strategy), "value": loc.Value}
	if err := d.do(resty.MethodPost, path, body, &refs); err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(refs))
	for _, ref := range refs {
		if id, ok := ref[elementKey]; ok {
			elements = append(elements, &webElement{driver: d, id: id})
		}
	}
	return elements, nil
}

func (d *webDriver) executeScript(script string, args ...any) error {
	body := map[string]any{"script": script, "args": args}
	return d.do(resty.MethodPost, "/execute/sync", body, nil)
}

type webElement struct {
	driver *webDriver
	id     string
}

func (e *webElement) path(suffix string) string {
	return "/element/" + e.id + suffix
}

func (e *webElement) Text() (string, error) {
	var text string
	err := e.driver.do(resty.MethodGet, e.path("/text"), nil, &text)
	return text, err
}

func (e *webElement) Click() error {
	return e.driver.do(resty.MethodPost, e.path("/click"), nil, nil)
}

func (e *webElement) Clear() error {
	return e.driver.do(resty.MethodPost, e.path("/clear"), nil, nil)
}

func (e *webElement) SendKeys(text string) error {
	return e.driver.do(resty.MethodPost, e.path("/value"), map[string]string{"text": text}, nil)
}

func (e *webElement) Attribute(name string) (string, error) {
	var value *string
	err := e.driver.do(resty.MethodGet, e.path("/attribute/"+name), nil, &value)
	if err != nil || value == nil {
		return "", err
	}
	return *value, nil
}

func (e *webElement) Selected() (bool, error) {
	var selected bool
	err := e.driver.do(resty.MethodGet, e.path("/selected"), nil, &selected)
	return selected, err
}

func (e *webElement) Displayed() (bool, error) {
	var displayed bool
	err := e.driver.do(resty.MethodGet, e.path("/displayed"), nil, &displayed)
	return displayed, err
}

func (e *webElement) ScrollIntoView() error {
	ref := map[string]string{elementKey: e.id}
	return e.driver.executeScript("arguments[0].scrollIntoView({block: 'center'});", ref)
}

func (e *webElement) FindElement(loc Locator) (Element, error) {
	id, err := e.driver.findElementID(e.path("/element"), loc)
	if err != nil {
		return nil, err
	}
	return &webElement{driver: e.driver, id: id}, nil
}

func (e *webElement) FindElements(loc Locator) ([]Element, error) {
	return e.driver.findElementList(e.path("/elements"), loc)
}

var _ Driver = (*webDriver)(nil)
