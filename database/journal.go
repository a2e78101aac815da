package database

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment record not found")

// PaymentJournal stores every payment that reached the ledger together with
// its last known outcome.
type PaymentJournal interface {
	Record(ctx context.Context, rec *models.PaymentRecord) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, round uint64, reason string) error
	Get(ctx context.Context, id uuid.UUID) (*models.PaymentRecord, error)
	ListByStatus(ctx context.Context, status models.PaymentStatus) ([]models.PaymentRecord, error)
	ListBySender(ctx context.Context, sender string) ([]models.PaymentRecord, error)
}

type GormJournal struct {
	db *gorm.DB
}

func NewGormJournal(db *gorm.DB) *GormJournal {
	return &GormJournal{db: db}
}

func (j *GormJournal) Record(ctx context.Context, rec *models.PaymentRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return j.db.WithContext(ctx).Create(rec).Error
}

func (j *GormJournal) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, round uint64, reason string) error {
	updates := map[string]interface{}{
		"status":          status,
		"confirmed_round": round,
	}
	if reason != "" {
		updates["failure_reason"] = reason
	}
	res := j.db.WithContext(ctx).Model(&models.PaymentRecord{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (j *GormJournal) Get(ctx context.Context, id uuid.UUID) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	err := j.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (j *GormJournal) ListByStatus(ctx context.Context, status models.PaymentStatus) ([]models.PaymentRecord, error) {
	var recs []models.PaymentRecord
	err := j.db.WithContext(ctx).Where("status = ?", status).Order("created_at asc").Find(&recs).Error
	return recs, err
}

func (j *GormJournal) ListBySender(ctx context.Context, sender string) ([]models.PaymentRecord, error) {
	var recs []models.PaymentRecord
	err := j.db.WithContext(ctx).Where("sender = ?", sender).Order("created_at desc").Find(&recs).Error
	return recs, err
}

// MemoryJournal is used when no database is configured and in tests.
type MemoryJournal struct {
	mu      sync.RWMutex
	records map[uuid.UUID]models.PaymentRecord
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{records: make(map[uuid.UUID]models.PaymentRecord)}
}

func (j *MemoryJournal) Record(_ context.Context, rec *models.PaymentRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	j.mu.Lock()
	j.records[rec.ID] = *rec
	j.mu.Unlock()
	return nil
}

func (j *MemoryJournal) UpdateStatus(_ context.Context, id uuid.UUID, status models.PaymentStatus, round uint64, reason string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	rec, ok := j.records[id]
	if !ok {
		return ErrPaymentNotFound
	}
	rec.Status = status
	rec.ConfirmedRound = round
	if reason != "" {
		rec.FailureReason = &reason
	}
	rec.UpdatedAt = time.Now()
	j.records[id] = rec
	return nil
}

func (j *MemoryJournal) Get(_ context.Context, id uuid.UUID) (*models.PaymentRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rec, ok := j.records[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return &rec, nil
}

func (j *MemoryJournal) ListByStatus(_ context.Context, status models.PaymentStatus) ([]models.PaymentRecord, error) {
	recs := j.filter(func(r models.PaymentRecord) bool { return r.Status == status })
	sort.SliceStable(recs, func(a, b int) bool { return recs[a].CreatedAt.Before(recs[b].CreatedAt) })
	return recs, nil
}

func (j *MemoryJournal) ListBySender(_ context.Context, sender string) ([]models.PaymentRecord, error) {
	recs := j.filter(func(r models.PaymentRecord) bool { return r.Sender == sender })
	sort.SliceStable(recs, func(a, b int) bool { return recs[a].CreatedAt.After(recs[b].CreatedAt) })
	return recs, nil
}

func (j *MemoryJournal) filter(keep func(models.PaymentRecord) bool) []models.PaymentRecord {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]models.PaymentRecord, 0)
	for _, r := range j.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
