package poster

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultRetention = 5 * time.Minute
	DefaultInterval  = 60 * time.Second
)

// Sweeper 定期删除目录中过期的临时文件。失败只记录日志，不影响请求。
type Sweeper struct {
	dir       string
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	log       logrus.FieldLogger
}

func NewSweeper(dir string, retention, interval time.Duration, log logrus.FieldLogger) *Sweeper {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sweeper{
		dir:       dir,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		log:       log.WithField("component", "poster_sweeper"),
	}
}

// Run sweeps once immediately and then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.Sweep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep removes regular files older than the retention window, re-listing
// the directory on every pass. It returns how many files were removed.
func (s *Sweeper) Sweep() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.WithField("error", err).Debug("poster sweep skipped")
		return 0
	}
	cutoff := s.now().Add(-s.retention)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			if !os.IsNotExist(err) {
				s.log.WithFields(logrus.Fields{"file": entry.Name(), "error": err}).Warn("poster sweep remove failed")
			}
			continue
		}
		removed++
	}
	if removed > 0 {
		s.log.WithField("removed", removed).Debug("poster sweep")
	}
	return removed
}
