package services

import (
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/amaumene/testenv/pkg/config"
	"github.com/amaumene/testenv/pkg/models"
	"github.com/amaumene/testenv/pkg/repository"
)

// RunService records resolved configurations and answers history queries
type RunService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewRunService(repo repository.Repository) *RunService {
	return &RunService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// HistoryFilter narrows a history query. Device wins over Platform.
type HistoryFilter struct {
	Device   string
	Platform string
	Limit    int
}

// RunStats summarizes a set of runs
type RunStats struct {
	Total      int
	Cloud      int
	RealDevice int
	ByPlatform map[string]int
	ByDevice   map[string]int
}

// Record stores the capabilities cfg resolved to.
func (s *RunService) Record(cfg *config.Config) (*models.RunRecord, error) {
	clean := cfg.Sanitized()
	run := &models.RunRecord{
		BuildNumber: cfg.BuildNumber,
		JobNumber:   cfg.JobNumber,
		Device:      cfg.Device.String(),
		Platform:    string(cfg.Platform()),
		Sauce:       cfg.Sauce,
		RealDevice:  cfg.RealDevice,
		Caps:        clean.Caps,
		CreatedAt:   s.now(),
	}
	run.GenerateID()

	if err := s.repo.SaveRun(run); err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}

	log.WithFields(cfg.Fields()).WithField("run", run.Label()).Info("Recorded test run")
	return run, nil
}

// History returns matching runs, most recent first.
func (s *RunService) History(filter HistoryFilter) ([]*models.RunRecord, error) {
	var (
		runs []*models.RunRecord
		err  error
	)

	switch {
	case filter.Device != "":
		runs, err = s.repo.FindRunsByDevice(filter.Device)
	case filter.Platform != "":
		runs, err = s.repo.FindRunsByPlatform(filter.Platform)
	default:
		runs, err = s.repo.FindRuns(filter.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	if filter.Limit > 0 && len(runs) > filter.Limit {
		runs = runs[:filter.Limit]
	}
	return runs, nil
}

// Prune removes runs older than maxAge.
func (s *RunService) Prune(maxAge time.Duration) (int, error) {
	cutoff := s.now().Add(-maxAge)
	removed, err := s.repo.PruneBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}

	log.WithFields(log.Fields{
		"removed": removed,
		"cutoff":  cutoff.Format(time.RFC3339),
	}).Info("Pruned run history")
	return removed, nil
}

func Stats(runs []*models.RunRecord) RunStats {
	stats := RunStats{
		Total:      len(runs),
		ByPlatform: make(map[string]int),
		ByDevice:   make(map[string]int),
	}
	for _, run := range runs {
		stats.ByPlatform[run.Platform]++
		stats.ByDevice[run.Device]++
		if run.Sauce {
			stats.Cloud++
		}
		if run.RealDevice {
			stats.RealDevice++
		}
	}
	return stats
}

// SortedKeys returns the keys of a count map ordered by count, then name.
func SortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
