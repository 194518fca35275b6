package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"glossary-backend/application/ports"
	"glossary-backend/domain/entities"
)

// TermStore is the in-process volatile backend. It is process-local state
// and must never be shared across instances; horizontal scaling requires
// the Cosmos backend.
//
// The mutex guards the slice for Go memory safety only. The duplicate-name
// check-then-act window between FindDuplicateName and Create spans two
// calls and stays open here exactly as it does on the remote backend.
type TermStore struct {
	mu     sync.RWMutex
	terms  []*entities.Term
	logger *zap.Logger
}

// NewTermStore creates an empty in-memory store.
func NewTermStore(logger *zap.Logger) *TermStore {
	return &TermStore{logger: logger}
}

// Initialize is a no-op; there is nothing to provision.
func (s *TermStore) Initialize(_ context.Context) error {
	return nil
}

// List returns all terms ordered by name under Japanese collation.
func (s *TermStore) List(_ context.Context) ([]*entities.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Term, 0, len(s.terms))
	for _, t := range s.terms {
		out = append(out, t.Clone())
	}
	entities.SortByName(out)
	return out, nil
}

// Get returns the term with the given id, or nil.
func (s *TermStore) Get(_ context.Context, id string) (*entities.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.terms {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return nil, nil
}

// FindDuplicateName returns the first term whose name matches
// case-insensitively, or nil.
func (s *TermStore) FindDuplicateName(_ context.Context, name string) (*entities.Term, error) {
	needle := entities.NormalizeName(name)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.terms {
		if entities.NormalizeName(t.Name) == needle {
			return t.Clone(), nil
		}
	}
	return nil, nil
}

// Create appends a fresh term and returns it.
func (s *TermStore) Create(_ context.Context, name string) (*entities.Term, error) {
	term := entities.NewTerm(name)

	s.mu.Lock()
	s.terms = append(s.terms, term)
	s.mu.Unlock()

	return term.Clone(), nil
}

// Update overwrites description and category in place. Returns nil for an
// unknown id.
func (s *TermStore) Update(_ context.Context, id string, input ports.UpdateTermInput) (*entities.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.terms {
		if t.ID == id {
			t.ApplyUpdate(input.Description, input.Category)
			return t.Clone(), nil
		}
	}
	return nil, nil
}

// Delete removes the term and reports whether it existed.
func (s *TermStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.terms {
		if t.ID == id {
			s.terms = append(s.terms[:i], s.terms[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Search filters terms by a case-insensitive substring match over name or
// description. A blank query returns the full sorted list.
func (s *TermStore) Search(ctx context.Context, query string) ([]*entities.Term, error) {
	if entities.NormalizeName(query) == "" {
		return s.List(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entities.Term
	for _, t := range s.terms {
		if t.Matches(query) {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}
