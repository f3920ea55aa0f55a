package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyslot/easyslot/internal/browser/browsertest"
)

// stubGroupToReschedule scripts a session parked on the group page with a
// working path to the reschedule form.
func stubGroupToReschedule(driver *browsertest.Driver) {
	driver.URL = testBaseURL + "/groups/42"

	card := browsertest.NewElement("Applicant\nIVR Account Number: 222").
		StubChild(locCardContinueButton, browsertest.NewElement("Continue"))
	driver.Stub(locApplicationCard, card)

	accordionTitle := browsertest.NewElement("Reschedule Appointment")
	content := browsertest.NewElement("").
		StubChild(locRescheduleLink, browsertest.NewElement("Reschedule Appointment"))

	driver.Stub(locAccordion, browsertest.NewElement(""))
	driver.Stub(locAccordionTitles, accordionTitle)
	driver.Stub(locAccordionContent, content)
	driver.Stub(locFacilitySelect, browsertest.NewElement(""))
}

func Test_ToReschedulePage_WhenAlreadyThere_ShouldDoNothing(t *testing.T) {
	driver := browsertest.New()
	driver.URL = testBaseURL + "/schedule/42/appointment/reschedule"
	nav := testNavigator(driver)

	err := nav.ToReschedulePage()

	assert.NoError(t, err)
}

func Test_ToReschedulePage_WhenAppointmentPageHasFacilitySelect_ShouldShortCircuit(t *testing.T) {
	driver := browsertest.New()
	driver.URL = testBaseURL + "/schedule/42/appointment"
	driver.Source = `<select id="appointments_consulate_appointment_facility_id"></select>`
	nav := testNavigator(driver)

	err := nav.ToReschedulePage()

	assert.NoError(t, err)
}

func Test_ToReschedulePage_FromGroupPage_ShouldWalkCardAndAccordion(t *testing.T) {
	driver := browsertest.New()
	stubGroupToReschedule(driver)

	spec := testSpec()
	spec.IVRNumber = "222"
	nav := New(driver, spec, WithBaseURL(testBaseURL), WithWaitScale(0.001))

	err := nav.ToReschedulePage()

	assert.NoError(t, err)
}

func Test_ToReschedulePage_FromFreshSession_ShouldLoginFirst(t *testing.T) {
	driver := browsertest.New()
	email, _ := stubLoginForm(driver)
	// After the submit click moves the URL, the rest of the flow needs the
	// group page scripted too.
	driver.Stub(locSignInButton, browsertest.NewElement("Sign In").OnClick(func() error {
		driver.URL = testBaseURL + "/groups/42"
		driver.Clear(locSignInForm)
		stubGroupToReschedule(driver)
		return nil
	}))

	spec := testSpec()
	spec.IVRNumber = "222"
	nav := New(driver, spec, WithBaseURL(testBaseURL), WithWaitScale(0.001))

	err := nav.ToReschedulePage()

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email.Typed)
}

func Test_ToReschedulePage_WhenRescheduleOptionMissing_ShouldCaptureAndFail(t *testing.T) {
	driver := browsertest.New()
	stubGroupToReschedule(driver)
	driver.Stub(locAccordionTitles, browsertest.NewElement("Cancel Appointment"))

	sink := &captureSink{}
	spec := testSpec()
	spec.IVRNumber = "222"
	nav := New(driver, spec, WithBaseURL(testBaseURL), WithWaitScale(0.001), WithDebugSink(sink))

	err := nav.ToReschedulePage()

	require.Error(t, err)
	assert.Contains(t, sink.prefixes, "reschedule_action_error")
}
