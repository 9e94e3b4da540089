package service

import (
	"context"
	"sync"

	"vamo_backend/internal/model"

	"github.com/google/uuid"
)

// Snapshot is the full dashboard state for one user, the server-side twin
// of the client's reactive store.
type Snapshot struct {
	Challenge *model.Challenge
	Evidence  []*model.Evidence
	Leads     []*model.Lead
	Customers []*model.PotentialCustomer
}

// SnapshotService serves aggregated state through a read-through cache
// keyed by user id. The cache is never the source of truth: every mutating
// action invalidates the owner's entry and the next read rebuilds it from
// the database.
type SnapshotService struct {
	challenges *ChallengeService
	evidence   *EvidenceService
	leads      *LeadService
	customers  *CustomerService

	mu    sync.RWMutex
	cache map[uuid.UUID]*Snapshot
	gen   map[uuid.UUID]uint64
}

func NewSnapshotService(challenges *ChallengeService, evidence *EvidenceService, leads *LeadService, customers *CustomerService) *SnapshotService {
	return &SnapshotService{
		challenges: challenges,
		evidence:   evidence,
		leads:      leads,
		customers:  customers,
		cache:      make(map[uuid.UUID]*Snapshot),
		gen:        make(map[uuid.UUID]uint64),
	}
}

func (s *SnapshotService) Get(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	s.mu.RLock()
	cached, ok := s.cache[userID]
	gen := s.gen[userID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	challenge, err := s.challenges.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	evidence, err := s.evidence.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	leads, err := s.leads.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Challenge: challenge,
		Evidence:  evidence,
		Leads:     leads,
		Customers: customers,
	}

	// Store only if no invalidation happened while we were reading: a
	// mutation racing this rebuild would otherwise pin a stale snapshot.
	s.mu.Lock()
	if s.gen[userID] == gen {
		s.cache[userID] = snap
	}
	s.mu.Unlock()

	return snap, nil
}

// Invalidate drops the cached snapshot after a mutation.
func (s *SnapshotService) Invalidate(userID uuid.UUID) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.gen[userID]++
	s.mu.Unlock()
}
