// Package store persists the three portfolio collections (holdings,
// funds, snapshot history) to the database. Each collection is written
// wholesale, mirroring the copy-on-write semantics of the engine; the
// data set is a personal portfolio, small by construction.
package store

import (
	"log"

	"gorm.io/gorm"

	"github.com/etf-portfolio/backend/internal/models"
	"github.com/etf-portfolio/backend/internal/portfolio"
)

const fundsRowID = 1

// GormStore is the gorm-backed implementation of portfolio.Store.
type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Load reads the persisted state. Malformed rows degrade to safe
// defaults (empty collections, nil ticker maps); a broken database
// must never prevent the session from starting.
func (s *GormStore) Load() portfolio.State {
	state := portfolio.State{}

	var holdings []models.Holding
	if err := s.db.Order("purchase_date ASC").Find(&holdings).Error; err != nil {
		log.Printf("Failed to load holdings, starting empty: %v", err)
	} else {
		state.Holdings = holdings
	}

	var funds models.FundsRecord
	if err := s.db.First(&funds, fundsRowID).Error; err == nil {
		state.Funds = models.Funds{Cash: funds.Cash, Assets: funds.Assets}
	}

	var records []models.SnapshotRecord
	if err := s.db.Order("timestamp ASC").Find(&records).Error; err != nil {
		log.Printf("Failed to load snapshot history, starting empty: %v", err)
	} else {
		state.History = make([]models.Snapshot, 0, len(records))
		for _, r := range records {
			state.History = append(state.History, r.ToSnapshot())
		}
	}

	return state
}

// SaveHoldings replaces the holdings table with the given list.
func (s *GormStore) SaveHoldings(holdings []models.Holding) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Holding{}).Error; err != nil {
			return err
		}
		if len(holdings) == 0 {
			return nil
		}
		return tx.Create(&holdings).Error
	})
}

// SaveFunds upserts the single funds row.
func (s *GormStore) SaveFunds(funds models.Funds) error {
	record := models.FundsRecord{ID: fundsRowID, Cash: funds.Cash, Assets: funds.Assets}
	return s.db.Save(&record).Error
}

// SaveHistory replaces the snapshot table with the given series.
func (s *GormStore) SaveHistory(history []models.Snapshot) error {
	records := make([]models.SnapshotRecord, 0, len(history))
	for _, snap := range history {
		records = append(records, models.NewSnapshotRecord(snap))
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SnapshotRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}
