// Package jobs holds the scheduled background work of the API process.
package jobs

import (
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/kvstore"
)

// StoreSweeperJob periodically purges expired OTP and rate-limit entries
// from the key-value store so stale state never accumulates.
type StoreSweeperJob struct {
	store kvstore.Store
	cron  *cron.Cron
}

func NewStoreSweeperJob(store kvstore.Store) *StoreSweeperJob {
	return &StoreSweeperJob{store: store, cron: cron.New()}
}

// Start schedules the sweep every five minutes.
func (j *StoreSweeperJob) Start() error {
	_, err := j.cron.AddFunc("@every 5m", func() {
		j.store.Purge()
		log.Debug("kvstore sweep completed")
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	log.Info("kvstore sweeper started (every 5m)")
	return nil
}

// Stop halts the sweeper.
func (j *StoreSweeperJob) Stop() {
	j.cron.Stop()
	log.Info("kvstore sweeper stopped")
}
