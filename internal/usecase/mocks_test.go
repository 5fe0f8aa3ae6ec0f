//go:build !integration

package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"realty-subscription/internal/domain"
	"realty-subscription/internal/domain/model"
	"realty-subscription/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- Mock TransactionManager ----

// MockTxManager runs the callback without a real transaction; the in-memory
// repositories below accept the nil handle.
type MockTxManager struct{}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// ---- Mock Locker ----

type MockLocker struct {
	mu       sync.Mutex
	Held     map[string]bool
	FailNext bool
}

func NewMockLocker() *MockLocker { return &MockLocker{Held: make(map[string]bool)} }

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext || m.Held[key] {
		return "", domain.ErrVerifyInFlight
	}
	m.Held[key] = true
	return "token-" + key, nil
}

func (m *MockLocker) Unlock(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Held, key)
	return nil
}

// ---- In-memory PaymentRepository ----

type MemPaymentRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.PaymentRecord
	SaveErr error // simulate store failures
}

func NewMemPaymentRepo() *MemPaymentRepo {
	return &MemPaymentRepo{store: make(map[string]*model.PaymentRecord)}
}

func (m *MemPaymentRepo) Save(ctx context.Context, _ repository.Tx, p *model.PaymentRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MemPaymentRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.PaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemPaymentRepo) ListPending(ctx context.Context) ([]*model.PaymentRecord, error) {
	return m.list(model.PaymentStatusPending, func(a, b *model.PaymentRecord) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	}), nil
}

func (m *MemPaymentRepo) ListFailed(ctx context.Context) ([]*model.PaymentRecord, error) {
	return m.list(model.PaymentStatusFailed, func(a, b *model.PaymentRecord) bool {
		if a.FailedAt == nil || b.FailedAt == nil {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.FailedAt.After(*b.FailedAt)
	}), nil
}

func (m *MemPaymentRepo) ListBySubscriber(ctx context.Context, subscriberID string) ([]*model.PaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*model.PaymentRecord{}
	for _, p := range m.store {
		if p.SubscriberID == subscriberID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemPaymentRepo) list(status model.PaymentStatus, less func(a, b *model.PaymentRecord) bool) []*model.PaymentRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*model.PaymentRecord{}
	for _, p := range m.store {
		if p.Status == status {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ---- In-memory SubscriptionRepository ----

type MemSubscriptionRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.SubscriptionRecord
	SaveErr error
}

func NewMemSubscriptionRepo() *MemSubscriptionRepo {
	return &MemSubscriptionRepo{store: make(map[string]*model.SubscriptionRecord)}
}

func (m *MemSubscriptionRepo) Save(ctx context.Context, _ repository.Tx, s *model.SubscriptionRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.SubscriberID] = &cp
	return nil
}

func (m *MemSubscriptionRepo) FindBySubscriber(ctx context.Context, _ repository.Tx, subscriberID string) (*model.SubscriptionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[subscriberID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemSubscriptionRepo) ListExpired(ctx context.Context, now time.Time) ([]*model.SubscriptionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*model.SubscriptionRecord{}
	for _, s := range m.store {
		if s.CurrentPeriodEnd.Before(now) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentPeriodEnd.Before(out[j].CurrentPeriodEnd) })
	return out, nil
}

func (m *MemSubscriptionRepo) ListExpiringWithin(ctx context.Context, now time.Time, window time.Duration) ([]*model.SubscriptionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	until := now.Add(window)
	out := []*model.SubscriptionRecord{}
	for _, s := range m.store {
		if s.CurrentPeriodEnd.After(now) && !s.CurrentPeriodEnd.After(until) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentPeriodEnd.Before(out[j].CurrentPeriodEnd) })
	return out, nil
}

// ---- In-memory ReferralRepository ----

type MemReferralRepo struct {
	mu    sync.RWMutex
	store map[string]*model.ReferralRecord // by referee id
}

func NewMemReferralRepo() *MemReferralRepo {
	return &MemReferralRepo{store: make(map[string]*model.ReferralRecord)}
}

func (m *MemReferralRepo) Save(ctx context.Context, r *model.ReferralRecord) (*model.ReferralRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.store[r.RefereeID]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *r
	m.store[r.RefereeID] = &cp
	out := cp
	return &out, nil
}

func (m *MemReferralRepo) FindByReferee(ctx context.Context, refereeID string) (*model.ReferralRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.store[refereeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemReferralRepo) CountByReferrer(ctx context.Context, referrerID string) (int, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	agents, providers := 0, 0
	for _, r := range m.store {
		if r.ReferrerID != referrerID {
			continue
		}
		if r.RefereeKind == model.RefereeKindAgent {
			agents++
		} else {
			providers++
		}
	}
	return agents, providers, nil
}

func (m *MemReferralRepo) ListByReferrer(ctx context.Context, referrerID string, kind model.RefereeKind) ([]*model.ReferralRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*model.ReferralRecord{}
	for _, r := range m.store {
		if r.ReferrerID == referrerID && r.RefereeKind == kind {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
