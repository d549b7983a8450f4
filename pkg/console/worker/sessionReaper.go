package worker

import (
	"time"

	"github.com/gantry-io/gantry/pkg/console/store"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

type sessionReaper struct {
	store         *store.Store
	retentionDays int
	clock         clockwork.Clock
}

func NewSessionReaper(
	store *store.Store,
	retentionDays int,
) sessionReaper {
	return sessionReaper{
		store:         store,
		retentionDays: retentionDays,
		clock:         clockwork.NewRealClock(),
	}
}

func (s *sessionReaper) Run() {
	for {
		s.reap()
		s.clock.Sleep(12 * time.Hour)
	}
}

func (s *sessionReaper) reap() {
	if s.retentionDays <= 0 {
		return
	}

	cutoff := s.clock.Now().Add(-time.Duration(s.retentionDays) * 24 * time.Hour).Unix()
	deleted, err := s.store.DeleteSessionsBefore(cutoff)
	if err != nil {
		logrus.Errorf("cannot delete old sessions: %s", err)
		return
	}

	if deleted > 0 {
		logrus.Infof("deleted %d sessions not used in %d days", deleted, s.retentionDays)
	}
}
