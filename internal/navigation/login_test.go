package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyslot/easyslot/internal/browser/browsertest"
	"github.com/easyslot/easyslot/internal/entities"
)

const testBaseURL = "https://site.test/en-ca/niv"

func testSpec() entities.AppointmentSpec {
	return entities.AppointmentSpec{
		Email:    "user@example.com",
		Password: "secret",
		Location: "Toronto",
	}
}

func testNavigator(driver *browsertest.Driver) *Navigator {
	return New(driver, testSpec(), WithBaseURL(testBaseURL), WithWaitScale(0.001))
}

// stubLoginForm installs a working credential form whose submit button moves
// the session to the post-login group page.
func stubLoginForm(driver *browsertest.Driver) (email, password *browsertest.Element) {
	email = browsertest.NewElement("")
	password = browsertest.NewElement("")

	driver.Stub(locSignInForm, browsertest.NewElement("form"))
	driver.Stub(locEmailField, email)
	driver.Stub(locPasswordField, password)
	driver.Stub(locSignInButton, browsertest.NewElement("Sign In").OnClick(func() error {
		driver.URL = testBaseURL + "/groups/42"
		return nil
	}))
	return email, password
}

func Test_Login_WhenFormSubmits_ShouldReachGroupPage(t *testing.T) {
	driver := browsertest.New()
	email, password := stubLoginForm(driver)
	nav := testNavigator(driver)

	err := nav.Login()

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email.Typed)
	assert.Equal(t, "secret", password.Typed)
	assert.Contains(t, driver.URL, "/groups/")
}

func Test_Login_WhenFormMissing_ShouldFailWithLoginError(t *testing.T) {
	driver := browsertest.New()
	nav := testNavigator(driver)

	err := nav.Login()

	assert.ErrorIs(t, err, ErrLoginFailed)
}

func Test_Login_WhenSubmitDoesNotNavigate_ShouldFailWithLoginError(t *testing.T) {
	driver := browsertest.New()
	stubLoginForm(driver)
	driver.Stub(locSignInButton, browsertest.NewElement("Sign In")) // click goes nowhere
	nav := testNavigator(driver)

	err := nav.Login()

	assert.ErrorIs(t, err, ErrLoginFailed)
}

func Test_Login_WhenInterstitialShown_ShouldDismissIt(t *testing.T) {
	driver := browsertest.New()
	stubLoginForm(driver)

	dismissed := false
	driver.Stub(locDownArrow, browsertest.NewElement("").OnClick(func() error {
		dismissed = true
		return nil
	}))
	nav := testNavigator(driver)

	err := nav.Login()

	require.NoError(t, err)
	assert.True(t, dismissed)
}

func Test_Login_WhenConsentCheckboxPresent_ShouldTickIt(t *testing.T) {
	driver := browsertest.New()
	stubLoginForm(driver)

	ticked := false
	driver.Stub(locConsentCheckbox, browsertest.NewElement("").OnClick(func() error {
		ticked = true
		return nil
	}))
	nav := testNavigator(driver)

	err := nav.Login()

	require.NoError(t, err)
	assert.True(t, ticked)
}

func Test_Login_WhenConsentCheckboxAlreadySelected_ShouldNotClickIt(t *testing.T) {
	driver := browsertest.New()
	stubLoginForm(driver)

	checkbox := browsertest.NewElement("").OnClick(func() error {
		t.Fatal("selected checkbox must not be clicked")
		return nil
	})
	checkbox.SelectedValue = true
	driver.Stub(locConsentCheckbox, checkbox)
	nav := testNavigator(driver)

	err := nav.Login()

	require.NoError(t, err)
}

func Test_Login_CapturesDebugArtifactsOnFailure(t *testing.T) {
	driver := browsertest.New()
	sink := &captureSink{}
	nav := New(driver, testSpec(), WithBaseURL(testBaseURL), WithWaitScale(0.001), WithDebugSink(sink))

	err := nav.Login()

	require.Error(t, err)
	assert.Contains(t, sink.prefixes, "login_error")
}
