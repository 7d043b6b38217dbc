package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"quant_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists run history and archived trades.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance at the given path.
func NewStorage(dbPath string) (*Storage, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.SimulationRun{}, &domain.BenchmarkRun{}, &domain.ArchivedTrade{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// ======================================================================================
// Simulation Run Operations
// ======================================================================================

// SaveSimulationRun persists a simulation report.
func (s *Storage) SaveSimulationRun(run *domain.SimulationRun) error {
	return s.db.Create(run).Error
}

// GetSimulationRun retrieves a simulation run by id.
func (s *Storage) GetSimulationRun(runID string) (*domain.SimulationRun, error) {
	var run domain.SimulationRun
	err := s.db.First(&run, "run_id = ?", runID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &run, err
}

// RecentSimulationRuns returns the newest runs first.
func (s *Storage) RecentSimulationRuns(limit int) ([]domain.SimulationRun, error) {
	var runs []domain.SimulationRun
	err := s.db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// ======================================================================================
// Benchmark Run Operations
// ======================================================================================

// SaveBenchmarkRun persists a benchmark report.
func (s *Storage) SaveBenchmarkRun(run *domain.BenchmarkRun) error {
	return s.db.Create(run).Error
}

// GetBenchmarkRun retrieves a benchmark run by id.
func (s *Storage) GetBenchmarkRun(runID string) (*domain.BenchmarkRun, error) {
	var run domain.BenchmarkRun
	err := s.db.First(&run, "run_id = ?", runID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &run, err
}

// RecentBenchmarkRuns returns the newest runs first.
func (s *Storage) RecentBenchmarkRuns(limit int) ([]domain.BenchmarkRun, error) {
	var runs []domain.BenchmarkRun
	err := s.db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// ======================================================================================
// Trade Archive Operations
// ======================================================================================

// ArchiveTrades stores a run's drained trades.
func (s *Storage) ArchiveTrades(runID string, trades []domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	rows := make([]domain.ArchivedTrade, 0, len(trades))
	for _, tr := range trades {
		rows = append(rows, domain.ArchivedTrade{
			RunID:       runID,
			TradeID:     tr.ID,
			BuyOrderID:  tr.BuyOrderID,
			SellOrderID: tr.SellOrderID,
			Price:       tr.Price,
			Quantity:    tr.Quantity,
			Timestamp:   tr.Timestamp,
		})
	}
	return s.db.CreateInBatches(rows, 500).Error
}

// TradesForRun returns a run's archived trades in execution order.
func (s *Storage) TradesForRun(runID string) ([]domain.ArchivedTrade, error) {
	var rows []domain.ArchivedTrade
	err := s.db.Where("run_id = ?", runID).Order("trade_id ASC").Find(&rows).Error
	return rows, err
}

// DeleteSimulationRun removes a run and its archived trades.
func (s *Storage) DeleteSimulationRun(runID string) error {
	if err := s.db.Where("run_id = ?", runID).Delete(&domain.ArchivedTrade{}).Error; err != nil {
		return err
	}
	return s.db.Where("run_id = ?", runID).Delete(&domain.SimulationRun{}).Error
}
