package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_BusyDetector_WhenMarkerInPageText_ShouldDetect(t *testing.T) {
	detector := NewBusyDetector(nil)

	assert.True(t, detector.DetectInSource("<html><body>The SYSTEM IS BUSY right now</body></html>"))
	assert.True(t, detector.DetectInSource("<p>Please try again later.</p>"))
}

func Test_BusyDetector_WhenMarkerOnlyInAlertRegion_ShouldDetect(t *testing.T) {
	detector := NewBusyDetector([]string{"completely custom phrase"})

	source := `<html><body>
		<div class="content">All good here</div>
		<div class="alert">Completely Custom Phrase</div>
	</body></html>`

	assert.True(t, detector.DetectInSource(source))
}

func Test_BusyDetector_WhenNoMarker_ShouldNotDetect(t *testing.T) {
	detector := NewBusyDetector(nil)

	source := `<html><body>
		<div class="error-message">Your password is incorrect</div>
		<select id="appointments_consulate_appointment_facility_id"></select>
	</body></html>`

	assert.False(t, detector.DetectInSource(source))
}

func Test_BusyDetector_WhenCustomMarkers_ShouldReplaceDefaults(t *testing.T) {
	detector := NewBusyDetector([]string{"maintenance window"})

	assert.True(t, detector.DetectInSource("scheduled MAINTENANCE WINDOW in progress"))
	assert.False(t, detector.DetectInSource("system is busy"))
}
