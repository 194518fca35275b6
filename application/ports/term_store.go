package ports

import (
	"context"

	"glossary-backend/domain/entities"
)

// UpdateTermInput carries the two mutable fields of a term. Both are
// overwritten wholesale; there is no partial merge.
type UpdateTermInput struct {
	Description string
	Category    string
}

// TermStore is the persistence abstraction for glossary terms. The remote
// (Cosmos) and volatile (in-memory) implementations are interchangeable;
// callers never branch on which one they hold.
//
// Absence is a sentinel, not an error: Get and Update return a nil term and
// Delete returns false for an unknown id.
type TermStore interface {
	// Initialize provisions backend resources. Implementations that need
	// no provisioning return nil.
	Initialize(ctx context.Context) error

	// List returns all live terms ordered by name, ascending, under
	// Japanese collation.
	List(ctx context.Context) ([]*entities.Term, error)

	// Get returns the term with the given id, or nil if absent.
	Get(ctx context.Context, id string) (*entities.Term, error)

	// FindDuplicateName performs a case-insensitive exact-match lookup and
	// returns the first match, or nil. It is a pre-check only; the storage
	// engine enforces no uniqueness constraint.
	FindDuplicateName(ctx context.Context, name string) (*entities.Term, error)

	// Create persists a new term with the given name, empty description
	// and category, and returns it.
	Create(ctx context.Context, name string) (*entities.Term, error)

	// Update overwrites description and category, refreshes updatedAt and
	// forces isAIGenerated to false. Returns nil if the id does not exist.
	Update(ctx context.Context, id string, input UpdateTermInput) (*entities.Term, error)

	// Delete removes the term and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// Search returns terms whose name or description contains the query,
	// case-insensitively. A blank query is equivalent to List.
	Search(ctx context.Context, query string) ([]*entities.Term, error)
}
