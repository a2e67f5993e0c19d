package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"telegram-referral-bot/internal/domain"
	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
)

// memCodeRepo is a small in-memory implementation used by unit tests.
type memCodeRepo struct {
	mu      sync.RWMutex
	store   map[int64]*model.ReferralCode
	nextID  int64
	addErr  error // used by tests to simulate store failures
	listErr error
}

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{store: make(map[int64]*model.ReferralCode), nextID: 1}
}

func (m *memCodeRepo) Add(ctx context.Context, tx repository.Tx, value string) (int64, error) {
	if m.addErr != nil {
		return 0, m.addErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.store {
		if c.Value == value {
			return 0, domain.ErrAlreadyExists
		}
	}
	id := m.nextID
	m.nextID++
	m.store[id] = &model.ReferralCode{ID: id, Value: value}
	return id, nil
}

func (m *memCodeRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.ReferralCode, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.ReferralCode, 0, len(m.store))
	for _, c := range m.store {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCodeRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

func (m *memCodeRepo) DeleteByValue(ctx context.Context, tx repository.Tx, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.store {
		if c.Value == value {
			delete(m.store, id)
			return true, nil
		}
	}
	return false, nil
}

func (m *memCodeRepo) IncrementUsage(ctx context.Context, tx repository.Tx, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.store[id]; ok {
		c.UsageCount++
	}
	return nil
}

func (m *memCodeRepo) Exists(ctx context.Context, tx repository.Tx, value string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.Value == value {
			return true, nil
		}
	}
	return false, nil
}

// memActivityRepo keeps the append-only ledger in memory. The clock is
// injectable so window tests can move time.
type memActivityRepo struct {
	mu      sync.RWMutex
	records []model.ActivityRecord
	now     func() time.Time
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{now: time.Now}
}

func (m *memActivityRepo) Record(ctx context.Context, tx repository.Tx, rec *model.ActivityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.Timestamp = m.now()
	rec.ID = int64(len(m.records) + 1)
	m.records = append(m.records, *rec)
	return nil
}

func (m *memActivityRepo) HasAdded(ctx context.Context, tx repository.Tx, userID int64, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.records {
		if r.UserID == userID && r.Action == model.ActionAdd && r.ReferralCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memActivityRepo) HasRecentGet(ctx context.Context, tx repository.Tx, userID int64, window time.Duration) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cutoff := m.now().Add(-window)
	for _, r := range m.records {
		if r.UserID == userID && r.Action == model.ActionGet && r.Timestamp.After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memActivityRepo) CountByAction(ctx context.Context, tx repository.Tx, action model.Action) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cnt := 0
	for _, r := range m.records {
		if r.Action == action {
			cnt++
		}
	}
	return cnt, nil
}

// memTxManager runs the callback without a real transaction; the mem repos
// are already atomic per call.
type memTxManager struct{}

func (memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}
