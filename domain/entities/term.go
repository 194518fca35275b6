package entities

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"glossary-backend/pkg/utils"
)

// TypeTerm is the record discriminator stored alongside every term. The
// container may hold other entity kinds in the future; queries filter on it.
const TypeTerm = "term"

// Term is a single glossary entry. The ID doubles as the Cosmos partition
// key, so it must never change after creation.
type Term struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	IsAIGenerated bool   `json:"isAIGenerated"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
	Type          string `json:"type"`
}

// NewTerm builds a fresh term with a generated ID, empty description and
// category, and both timestamps set to now.
func NewTerm(name string) *Term {
	now := utils.NowRFC3339()
	return &Term{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Type:      TypeTerm,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyUpdate overwrites description and category wholesale and refreshes
// UpdatedAt. Any explicit edit collapses the record to human-confirmed.
func (t *Term) ApplyUpdate(description, category string) {
	t.Description = strings.TrimSpace(description)
	t.Category = category
	t.IsAIGenerated = false
	t.UpdatedAt = utils.NowRFC3339()
}

// NormalizeName produces the canonical form used for case-insensitive
// duplicate detection.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Matches reports whether the term matches a case-insensitive substring
// query over name or description.
func (t *Term) Matches(query string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Name), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

// Clone returns a copy so that store internals are never aliased by callers.
func (t *Term) Clone() *Term {
	c := *t
	return &c
}

var nameCollator = collate.New(language.Japanese)

// SortByName orders terms ascending by name under Japanese collation, so
// kana entries sort the way a Japanese reader expects.
func SortByName(terms []*Term) {
	sort.SliceStable(terms, func(i, j int) bool {
		return nameCollator.CompareString(terms[i].Name, terms[j].Name) < 0
	})
}
