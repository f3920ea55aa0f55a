package monitor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyslot/easyslot/internal/browser/browsertest"
)

type fakeDebugNotifier struct {
	subjects []string
}

func (f *fakeDebugNotifier) NotifyDebug(subject, _ string) {
	f.subjects = append(f.subjects, subject)
}

func Test_ArtifactSaver_Capture_ShouldWriteScreenshotAndSource(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewArtifactSaver(dir, true, true, false, nil)
	require.NoError(t, err)

	driver := browsertest.New()
	driver.URL = "https://example.com/users/sign_in"
	driver.Source = "<html><body>login page</body></html>"

	saver.Capture(driver, "login_error")

	pngs, err := filepath.Glob(filepath.Join(dir, "login_error_*.png"))
	require.NoError(t, err)
	assert.Len(t, pngs, 1)

	htmls, err := filepath.Glob(filepath.Join(dir, "login_error_*.html"))
	require.NoError(t, err)
	require.Len(t, htmls, 1)

	content, err := os.ReadFile(htmls[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "login page")
}

func Test_ArtifactSaver_WhenCapturesDisabled_ShouldWriteNothing(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewArtifactSaver(dir, false, false, false, nil)
	require.NoError(t, err)

	saver.Capture(browsertest.New(), "login_error")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func Test_ArtifactSaver_WhenNotificationsEnabled_ShouldNotify(t *testing.T) {
	notifier := &fakeDebugNotifier{}
	saver, err := NewArtifactSaver(t.TempDir(), true, true, true, notifier)
	require.NoError(t, err)

	saver.Capture(browsertest.New(), "navigate_error")

	assert.Len(t, notifier.subjects, 1)
}

func Test_PurgeArtifacts_ShouldRemoveOnlyCaptures(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.html", "keep.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	require.NoError(t, PurgeArtifacts(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.json", entries[0].Name())
}
