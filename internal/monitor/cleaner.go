package monitor

import (
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// ArtifactCleaner purges debug artifacts nightly so a long-running deployment
// does not fill the disk with captures.
type ArtifactCleaner struct {
	dir  string
	cron *cron.Cron
}

func NewArtifactCleaner(dir string) (*ArtifactCleaner, error) {

	ac := &ArtifactCleaner{
		dir:  dir,
		cron: cron.New(),
	}

	_, err := ac.cron.AddFunc("0 0 * * *", ac.purge)
	if err != nil {
		return nil, err
	}

	ac.cron.Start()
	log.Infof("artifact cleaner started for directory: %v", dir)
	return ac, nil
}

func (ac *ArtifactCleaner) Stop() {
	ac.cron.Stop()
}

func (ac *ArtifactCleaner) purge() {
	if err := PurgeArtifacts(ac.dir); err != nil {
		log.Errorf("failed to purge debug artifacts: %v", err)
	}
}
