package monitor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/easyslot/easyslot/internal/browser"
	"github.com/easyslot/easyslot/internal/entities"
)

// DebugNotifier is the notification surface the artifact saver needs.
type DebugNotifier interface {
	NotifyDebug(subject, body string)
}

// ArtifactSaver captures screenshots and page source on navigation failures.
// Captures are best-effort and never fail the cycle that triggered them.
type ArtifactSaver struct {
	dir               string
	saveScreenshots   bool
	saveHTML          bool
	sendNotifications bool
	notifier          DebugNotifier
}

func NewArtifactSaver(dir string, saveScreenshots, saveHTML, sendNotifications bool,
	notifier DebugNotifier) (*ArtifactSaver, error) {

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &ArtifactSaver{
		dir:               dir,
		saveScreenshots:   saveScreenshots,
		saveHTML:          saveHTML,
		sendNotifications: sendNotifications,
		notifier:          notifier,
	}, nil
}

func (a *ArtifactSaver) Capture(driver browser.Driver, prefix string) {
	artifact := entities.DebugArtifact{
		Timestamp: time.Now().Format("20060102_150405"),
		Prefix:    prefix,
	}
	artifact.URL, _ = driver.CurrentURL()

	if a.saveScreenshots {
		if png, err := driver.Screenshot(); err != nil {
			log.Errorf("failed to take debug screenshot: %v", err)
		} else {
			path := filepath.Join(a.dir, fmt.Sprintf("%s_%s.png", prefix, artifact.Timestamp))
			if err = os.WriteFile(path, png, 0644); err != nil {
				log.Errorf("failed to save debug screenshot: %v", err)
			} else {
				artifact.ScreenshotPath = path
			}
		}
	}

	if a.saveHTML {
		if source, err := driver.PageSource(); err != nil {
			log.Errorf("failed to read page source for debug: %v", err)
		} else {
			path := filepath.Join(a.dir, fmt.Sprintf("%s_%s.html", prefix, artifact.Timestamp))
			if err = os.WriteFile(path, []byte(source), 0644); err != nil {
				log.Errorf("failed to save debug page source: %v", err)
			} else {
				artifact.PageSourcePath = path
			}
		}
	}

	log.Infof("captured debug artifacts: prefix=%v, url=%v, screenshot=%v, source=%v",
		artifact.Prefix, artifact.URL, artifact.ScreenshotPath, artifact.PageSourcePath)

	if a.sendNotifications && a.notifier != nil {
		body := fmt.Sprintf("Debug capture %q at %s\n\nURL: %s\nScreenshot: %s\nPage source: %s",
			artifact.Prefix, artifact.Timestamp, artifact.URL,
			artifact.ScreenshotPath, artifact.PageSourcePath)
		a.notifier.NotifyDebug("EasySlot Debug Capture", body)
	}
}

// PurgeArtifacts removes every stored capture. Called at startup so each run
// begins with a clean artifact directory.
func PurgeArtifacts(dir string) error {
	for _, pattern := range []string{"*.png", "*.html"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		for _, match := range matches {
			if err := os.Remove(match); err != nil {
				log.Errorf("failed to remove debug artifact %v: %v", match, err)
				continue
			}
		}
		if len(matches) > 0 {
			log.Infof("purged %v debug artifacts matching %v", len(matches), pattern)
		}
	}
	return nil
}
