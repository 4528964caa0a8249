package track

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one complete pass over a single video.
type Run struct {
	gorm.Model

	RunID string `gorm:"uniqueIndex"`
	Video string

	FPS        float64
	FrameCount int
	Threshold  int

	SampleCount int
}

// Position is one tracked centroid belonging to a Run.
type Position struct {
	gorm.Model

	RunRef uint `gorm:"index"`

	Frame int
	Time  float64
	X     int
	Y     int
}

// Store keeps run history in a local sqlite database. It is entirely
// optional; the CSV output is the primary record.
type Store struct {
	db *gorm.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Run{}, &Position{}); err != nil {
		return nil, err
	}
	log.Infof("Run store opened at %v", path)
	return &Store{db: db}, nil
}

// SaveRun persists a completed run and its samples in a single transaction.
// Nothing is written until the run has finished, so a failed save leaves no
// partial rows behind.
func (s *Store) SaveRun(run *Run, samples []Sample) error {
	run.SampleCount = len(samples)
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		if len(samples) == 0 {
			return nil
		}
		positions := make([]Position, 0, len(samples))
		for _, smp := range samples {
			positions = append(positions, Position{
				RunRef: run.ID,
				Frame:  smp.Frame,
				Time:   smp.Time,
				X:      smp.X,
				Y:      smp.Y,
			})
		}
		return tx.CreateInBatches(positions, 500).Error
	})
}

// RecentRuns returns up to n runs, newest first.
func (s *Store) RecentRuns(n int) ([]Run, error) {
	var runs []Run
	if err := s.db.Order("id desc").Limit(n).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// Positions returns the stored samples of a run in frame order.
func (s *Store) Positions(runRef uint) ([]Position, error) {
	var ps []Position
	if err := s.db.Where("run_ref = ?", runRef).Order("frame").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}
