package calls

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests. The mutex gives it the same
// one-winner FinishTerminal semantics as the Postgres conditional UPDATE.
type MemoryStore struct {
	mu    sync.Mutex
	calls map[string]*Call
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{calls: make(map[string]*Call)}
}

func (s *MemoryStore) Create(ctx context.Context, c Call) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := c
	s.calls[c.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[id]
	if !ok {
		return Call{}, ErrCallNotFound
	}
	return *c, nil
}

func (s *MemoryStore) GetByProviderCallID(ctx context.Context, providerCallID string) (Call, error) {
	if providerCallID == "" {
		return Call{}, ErrCallNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c.ProviderCallID == providerCallID {
			return *c, nil
		}
	}
	return Call{}, ErrCallNotFound
}

func (s *MemoryStore) MarkRinging(ctx context.Context, id, providerCallID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[id]
	if !ok || c.Status != StatusInitiating {
		return ErrCallNotFound
	}
	c.Status = StatusRinging
	c.ProviderCallID = providerCallID
	c.UpdatedAt = at
	return nil
}

func (s *MemoryStore) MarkConnecting(ctx context.Context, id, legCallID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[id]
	if !ok || !c.Status.Routable() {
		return false, nil
	}
	c.Status = StatusConnecting
	c.LegCallID = legCallID
	c.UpdatedAt = at
	return true, nil
}

func (s *MemoryStore) FindRoutableByClientPhone(ctx context.Context, normalizedPhone string) (Call, error) {
	if normalizedPhone == "" {
		return Call{}, ErrCallNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *Call
	for _, c := range s.calls {
		if !c.Status.Routable() || NormalizePhone(c.ClientPhone) != normalizedPhone {
			continue
		}
		if best == nil || c.CreatedAt.After(best.CreatedAt) {
			best = c
		}
	}
	if best == nil {
		return Call{}, ErrCallNotFound
	}
	return *best, nil
}

func (s *MemoryStore) FinishTerminal(ctx context.Context, id string, upd TerminalUpdate) (Call, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[id]
	if !ok {
		return Call{}, false, ErrCallNotFound
	}
	if c.Status.Terminal() {
		return *c, false, nil
	}
	c.Status = upd.Status
	c.DurationSeconds = upd.DurationSeconds
	c.BilledMinutes = upd.BilledMinutes
	c.TotalCostPaise = upd.TotalCostPaise
	c.FailureDetail = upd.FailureDetail
	ended := upd.EndedAt
	c.EndedAt = &ended
	c.UpdatedAt = upd.EndedAt
	return *c, true, nil
}

func (s *MemoryStore) SetRating(ctx context.Context, id string, rating int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[id]
	if !ok || c.Status != StatusCompleted || c.Rating != 0 {
		return false, nil
	}
	c.Rating = rating
	return true, nil
}

func (s *MemoryStore) ListByClient(ctx context.Context, clientID string) ([]Call, error) {
	return s.list(func(c *Call) bool { return c.ClientID == clientID }, 0)
}

func (s *MemoryStore) ListByAdvocate(ctx context.Context, advocateID string) ([]Call, error) {
	return s.list(func(c *Call) bool { return c.AdvocateID == advocateID }, 0)
}

func (s *MemoryStore) ListAll(ctx context.Context, limit int) ([]Call, error) {
	return s.list(func(*Call) bool { return true }, limit)
}

func (s *MemoryStore) CountAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.calls)), nil
}

func (s *MemoryStore) CompletedStats(ctx context.Context) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count, revenue int64
	for _, c := range s.calls {
		if c.Status == StatusCompleted {
			count++
			revenue += c.TotalCostPaise
		}
	}
	return count, revenue, nil
}

func (s *MemoryStore) AdvocateStats(ctx context.Context, advocateID string) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count, revenue int64
	for _, c := range s.calls {
		if c.AdvocateID == advocateID && c.Status == StatusCompleted {
			count++
			revenue += c.TotalCostPaise
		}
	}
	return count, revenue, nil
}

func (s *MemoryStore) list(match func(*Call) bool, limit int) ([]Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if match(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
