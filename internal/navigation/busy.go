package navigation

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/easyslot/easyslot/internal/browser"
)

// DefaultBusyMarkers are the phrases the site currently uses for its inline
// "try again later" rejection. They are a starting point, not an oracle:
// the marker set is configurable because the site's wording drifts.
var DefaultBusyMarkers = []string{
	"system is busy",
	"please try again later",
	"system busy",
	"try again later",
}

// BusyDetector scans the page for busy-marker phrases, case-insensitive,
// across the full page text and inside dedicated error/alert regions.
type BusyDetector struct {
	markers []string
}

func NewBusyDetector(markers []string) *BusyDetector {
	if len(markers) == 0 {
		markers = DefaultBusyMarkers
	}
	lowered := make([]string, len(markers))
	for i, marker := range markers {
		lowered[i] = strings.ToLower(marker)
	}
	return &BusyDetector{markers: lowered}
}

// Detect reports whether the current page shows a busy rejection. Read
// failures count as not busy so a flaky read never masks a real error.
func (b *BusyDetector) Detect(driver browser.Driver) bool {
	source, err := driver.PageSource()
	if err != nil {
		log.Debugf("failed to read page source for busy check: %v", err)
		return false
	}
	return b.DetectInSource(source)
}

// DetectInSource runs the marker scan over raw page source.
func (b *BusyDetector) DetectInSource(source string) bool {
	lowered := strings.ToLower(source)
	for _, marker := range b.markers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return false
	}

	busy := false
	doc.Find(".error-message, .alert").Each(func(_ int, region *goquery.Selection) {
		text := strings.ToLower(region.Text())
		for _, marker := range b.markers {
			if strings.Contains(text, marker) {
				busy = true
			}
		}
	})
	return busy
}
