package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tranche_go/internal/domain"
)

// InMemoryDSN keeps the audit trail process-local: nothing survives a
// restart.
const InMemoryDSN = ":memory:"

// BlockRecord mirrors one ledger entry. Monetary values are stored as
// decimal strings to avoid float drift in the database.
type BlockRecord struct {
	SequenceNumber int64     `gorm:"primaryKey"`
	TxID           string    `gorm:"index"`
	Timestamp      time.Time
	TrancheName    string `gorm:"index"`
	UnitAmount     int64
	TotalPrice     string
	Kind           string
	LiquidityAfter string
	YieldRate      string
	CashFlowShare  string
}

// TransactionRecord mirrors one trade record. RowID preserves append
// order for last-N queries.
type TransactionRecord struct {
	RowID          uint   `gorm:"primaryKey"`
	ID             string `gorm:"uniqueIndex"`
	Timestamp      time.Time
	Kind           string
	Source         string `gorm:"index"`
	TrancheName    string `gorm:"index"`
	UnitAmount     int64
	TotalPrice     string
	LiquidityAfter string
}

// AuditStore mirrors every appended block and transaction into sqlite
// and serves the history queries the presentation layer reads.
type AuditStore struct {
	db *gorm.DB
}

// NewAuditStore opens a sqlite database at the given DSN. Use
// InMemoryDSN for a store scoped to the process lifetime.
func NewAuditStore(dsn string) (*AuditStore, error) {
	if dsn == "" {
		dsn = InMemoryDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	if err := db.AutoMigrate(&BlockRecord{}, &TransactionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate audit database: %w", err)
	}

	return &AuditStore{db: db}, nil
}

// RecordBlock appends one ledger entry.
func (s *AuditStore) RecordBlock(block domain.Block) error {
	rec := BlockRecord{
		SequenceNumber: block.SequenceNumber,
		TxID:           block.TxID.String(),
		Timestamp:      block.Timestamp,
		TrancheName:    block.TrancheName,
		UnitAmount:     block.UnitAmount,
		TotalPrice:     block.TotalPrice.String(),
		Kind:           string(block.Kind),
		LiquidityAfter: block.LiquidityAfter.String(),
		YieldRate:      block.YieldRate.String(),
		CashFlowShare:  block.CashFlowShare.String(),
	}
	return s.db.Create(&rec).Error
}

// RecordTransaction appends one trade record.
func (s *AuditStore) RecordTransaction(tx domain.Transaction) error {
	rec := TransactionRecord{
		ID:             tx.ID.String(),
		Timestamp:      tx.Timestamp,
		Kind:           string(tx.Kind),
		Source:         string(tx.Source),
		TrancheName:    tx.TrancheName,
		UnitAmount:     tx.UnitAmount,
		TotalPrice:     tx.TotalPrice.String(),
		LiquidityAfter: tx.LiquidityAfter.String(),
	}
	return s.db.Create(&rec).Error
}

// LastBlocks returns the newest n blocks, oldest first.
func (s *AuditStore) LastBlocks(n int) ([]domain.Block, error) {
	var recs []BlockRecord
	err := s.db.Order("sequence_number DESC").Limit(n).Find(&recs).Error
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].SequenceNumber < recs[j].SequenceNumber
	})

	blocks := make([]domain.Block, 0, len(recs))
	for _, rec := range recs {
		block, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// LastTransactions returns the newest n transactions, oldest first.
func (s *AuditStore) LastTransactions(n int) ([]domain.Transaction, error) {
	var recs []TransactionRecord
	err := s.db.Order("row_id DESC").Limit(n).Find(&recs).Error
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].RowID < recs[j].RowID
	})

	txs := make([]domain.Transaction, 0, len(recs))
	for _, rec := range recs {
		tx, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// BlockCount returns the number of recorded blocks.
func (s *AuditStore) BlockCount() (int64, error) {
	var count int64
	err := s.db.Model(&BlockRecord{}).Count(&count).Error
	return count, err
}

// BlockCountByTranche returns recorded block counts keyed by tranche name.
func (s *AuditStore) BlockCountByTranche() (map[string]int64, error) {
	var rows []struct {
		TrancheName string
		Count       int64
	}
	err := s.db.Model(&BlockRecord{}).
		Select("tranche_name, count(*) as count").
		Group("tranche_name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.TrancheName] = row.Count
	}
	return result, nil
}

func (r BlockRecord) toDomain() (domain.Block, error) {
	txID, err := uuid.Parse(r.TxID)
	if err != nil {
		return domain.Block{}, fmt.Errorf("block %d: bad tx id: %w", r.SequenceNumber, err)
	}

	fields, err := parseDecimals(r.TotalPrice, r.LiquidityAfter, r.YieldRate, r.CashFlowShare)
	if err != nil {
		return domain.Block{}, fmt.Errorf("block %d: %w", r.SequenceNumber, err)
	}

	return domain.Block{
		SequenceNumber: r.SequenceNumber,
		TxID:           txID,
		Timestamp:      r.Timestamp,
		TrancheName:    r.TrancheName,
		UnitAmount:     r.UnitAmount,
		TotalPrice:     fields[0],
		Kind:           domain.TradeKind(r.Kind),
		LiquidityAfter: fields[1],
		YieldRate:      fields[2],
		CashFlowShare:  fields[3],
	}, nil
}

func (r TransactionRecord) toDomain() (domain.Transaction, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %s: bad id: %w", r.ID, err)
	}

	fields, err := parseDecimals(r.TotalPrice, r.LiquidityAfter)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", r.ID, err)
	}

	return domain.Transaction{
		ID:             id,
		Timestamp:      r.Timestamp,
		Kind:           domain.TradeKind(r.Kind),
		Source:         domain.TradeSource(r.Source),
		TrancheName:    r.TrancheName,
		UnitAmount:     r.UnitAmount,
		TotalPrice:     fields[0],
		LiquidityAfter: fields[1],
	}, nil
}

func parseDecimals(values ...string) ([]decimal.Decimal, error) {
	result := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("bad decimal %q: %w", v, err)
		}
		result = append(result, d)
	}
	return result, nil
}
