package config

type DebugConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ArtifactDir       string `mapstructure:"artifact_dir"`
	SaveScreenshots   bool   `mapstructure:"save_screenshots"`
	SaveHTML          bool   `mapstructure:"save_html"`
	SendNotifications bool   `mapstructure:"send_notifications"`
}

func (config *DebugConfig) applyDefaults() {
	if config.ArtifactDir == "" {
		config.ArtifactDir = "./data/debug"
	}
}
