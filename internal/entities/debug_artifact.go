package entities

// DebugArtifact describes the files captured for one failure context when
// debug mode is enabled.
type DebugArtifact struct {
	Timestamp      string
	Prefix         string
	ScreenshotPath string
	PageSourcePath string
	URL            string
}
