package browser_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyslot/easyslot/internal/browser"
)

const elementKey = "element-6066-11e4-a52e-4f735466cecf"

// fakeWebDriver is a minimal wire-protocol endpoint backing one session.
func fakeWebDriver(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var requests []string

	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, value any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"value": value})
	}

	// Go 1.21's ServeMux has no "METHOD /path" patterns; dispatch on
	// r.Method here so the route table below keeps the 1.22+ notation.
	byPath := map[string]map[string]http.HandlerFunc{}
	handle := func(pattern string, h http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		if byPath[path] == nil {
			byPath[path] = map[string]http.HandlerFunc{}
			mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
				if hh, ok := byPath[path][r.Method]; ok {
					hh(w, r)
					return
				}
				http.NotFound(w, r)
			})
		}
		byPath[path][method] = h
	}

	handle("POST /session", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, "POST /session")
		write(w, map[string]string{"sessionId": "abc123"})
	})
	handle("POST /session/abc123/url", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		requests = append(requests, "navigate "+body["url"])
		write(w, nil)
	})
	handle("GET /session/abc123/url", func(w http.ResponseWriter, r *http.Request) {
		write(w, "https://example.com/en-ca/niv/groups/42")
	})
	handle("GET /session/abc123/source", func(w http.ResponseWriter, r *http.Request) {
		write(w, "<html><body>System is busy</body></html>")
	})
	handle("GET /session/abc123/screenshot", func(w http.ResponseWriter, r *http.Request) {
		write(w, base64.StdEncoding.EncodeToString([]byte("fake-png")))
	})
	handle("POST /session/abc123/element", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["value"] == "#missing" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			write(w, map[string]string{"error": "no such element", "message": "not found"})
			return
		}
		write(w, map[string]string{elementKey: "el-1"})
	})
	handle("GET /session/abc123/element/el-1/text", func(w http.ResponseWriter, r *http.Request) {
		write(w, "Continue")
	})
	handle("GET /session/abc123/element/el-1/attribute/href", func(w http.ResponseWriter, r *http.Request) {
		write(w, "/schedule/42/continue")
	})
	handle("POST /session/abc123/element/el-1/click", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, "click el-1")
		write(w, nil)
	})
	handle("DELETE /session/abc123", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, "DELETE /session")
		write(w, nil)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &requests
}

func Test_Connect_WhenEndpointResponds_ShouldOpenSession(t *testing.T) {
	server, requests := fakeWebDriver(t)

	driver, err := browser.Connect(browser.Options{RemoteURL: server.URL, Headless: true})

	require.NoError(t, err)
	require.NotNil(t, driver)
	assert.Contains(t, *requests, "POST /session")
}

func Test_Connect_WhenURLEmpty_ShouldFail(t *testing.T) {
	_, err := browser.Connect(browser.Options{})
	assert.Error(t, err)
}

func Test_WebDriver_NavigationAndReads(t *testing.T) {
	server, requests := fakeWebDriver(t)
	driver, err := browser.Connect(browser.Options{RemoteURL: server.URL})
	require.NoError(t, err)

	require.NoError(t, driver.Get("https://example.com"))
	assert.Contains(t, *requests, "navigate https://example.com")

	url, err := driver.CurrentURL()
	require.NoError(t, err)
	assert.Contains(t, url, "/groups/")

	source, err := driver.PageSource()
	require.NoError(t, err)
	assert.Contains(t, source, "System is busy")

	png, err := driver.Screenshot()
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png"), png)
}

func Test_WebDriver_ElementLookupAndInteraction(t *testing.T) {
	server, requests := fakeWebDriver(t)
	driver, err := browser.Connect(browser.Options{RemoteURL: server.URL})
	require.NoError(t, err)

	element, err := driver.FindElement(browser.LinkText("Continue"))
	require.NoError(t, err)

	text, err := element.Text()
	require.NoError(t, err)
	assert.Equal(t, "Continue", text)

	href, err := element.Attribute("href")
	require.NoError(t, err)
	assert.Equal(t, "/schedule/42/continue", href)

	require.NoError(t, element.Click())
	assert.Contains(t, *requests, "click el-1")
}

func Test_WebDriver_WhenElementMissing_ShouldReturnWireError(t *testing.T) {
	server, _ := fakeWebDriver(t)
	driver, err := browser.Connect(browser.Options{RemoteURL: server.URL})
	require.NoError(t, err)

	_, err = driver.FindElement(browser.CSS("#missing"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such element")
}

func Test_WebDriver_Quit_ShouldDeleteSession(t *testing.T) {
	server, requests := fakeWebDriver(t)
	driver, err := browser.Connect(browser.Options{RemoteURL: server.URL})
	require.NoError(t, err)

	require.NoError(t, driver.Quit())
	assert.Contains(t, *requests, "DELETE /session")
}
