package repository

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/bolthold"

	apperrors "github.com/amaumene/testenv/pkg/errors"
	"github.com/amaumene/testenv/pkg/models"
)

const defaultFilePermissions os.FileMode = 0o666

// Repository defines the interface for run history access
type Repository interface {
	SaveRun(run *models.RunRecord) error
	GetRun(id string) (*models.RunRecord, error)
	FindRuns(limit int) ([]*models.RunRecord, error)
	FindRunsByDevice(device string) ([]*models.RunRecord, error)
	FindRunsByPlatform(platform string) ([]*models.RunRecord, error)
	PruneBefore(cutoff time.Time) (int, error)
	RemoveRun(id string) error
	Close() error
}

// BoltRepository implements Repository using BoltDB
type BoltRepository struct {
	store *bolthold.Store
}

// Open opens (or creates) the run history database at path.
func Open(path string) (*BoltRepository, error) {
	store, err := bolthold.Open(path, defaultFilePermissions, nil)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return NewBoltRepository(store), nil
}

func NewBoltRepository(store *bolthold.Store) *BoltRepository {
	return &BoltRepository{store: store}
}

func (r *BoltRepository) Store() *bolthold.Store {
	return r.store
}

func (r *BoltRepository) SaveRun(run *models.RunRecord) error {
	if run.ID == "" {
		run.GenerateID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if err := r.store.Upsert(run.ID, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func (r *BoltRepository) GetRun(id string) (*models.RunRecord, error) {
	var run models.RunRecord
	if err := r.store.Get(id, &run); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, apperrors.NewConfigError("get run", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// FindRuns returns the most recent runs first. limit <= 0 returns all.
func (r *BoltRepository) FindRuns(limit int) ([]*models.RunRecord, error) {
	query := (&bolthold.Query{}).SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var runs []*models.RunRecord
	if err := r.store.Find(&runs, query); err != nil {
		return nil, fmt.Errorf("failed to find runs: %w", err)
	}
	return runs, nil
}

func (r *BoltRepository) FindRunsByDevice(device string) ([]*models.RunRecord, error) {
	var runs []*models.RunRecord
	query := bolthold.Where("Device").Eq(device).SortBy("CreatedAt").Reverse()
	if err := r.store.Find(&runs, query); err != nil {
		return nil, fmt.Errorf("failed to find runs for device %s: %w", device, err)
	}
	return runs, nil
}

func (r *BoltRepository) FindRunsByPlatform(platform string) ([]*models.RunRecord, error) {
	var runs []*models.RunRecord
	query := bolthold.Where("Platform").Eq(platform).SortBy("CreatedAt").Reverse()
	if err := r.store.Find(&runs, query); err != nil {
		return nil, fmt.Errorf("failed to find runs for platform %s: %w", platform, err)
	}
	return runs, nil
}

// PruneBefore removes runs created before cutoff and returns how many went.
func (r *BoltRepository) PruneBefore(cutoff time.Time) (int, error) {
	var stale []*models.RunRecord
	query := bolthold.Where("CreatedAt").Lt(cutoff)
	if err := r.store.Find(&stale, query); err != nil {
		return 0, fmt.Errorf("failed to find stale runs: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := r.store.DeleteMatching(&models.RunRecord{}, query); err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return len(stale), nil
}

func (r *BoltRepository) RemoveRun(id string) error {
	if err := r.store.Delete(id, &models.RunRecord{}); err != nil {
		return fmt.Errorf("failed to remove run: %w", err)
	}
	return nil
}

func (r *BoltRepository) Close() error {
	return r.store.Close()
}
