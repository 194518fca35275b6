package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTerm(t *testing.T) {
	term := NewTerm("  キャッシュ  ")

	require.NotNil(t, term)
	assert.NotEmpty(t, term.ID)
	assert.Equal(t, "キャッシュ", term.Name)
	assert.Equal(t, TypeTerm, term.Type)
	assert.False(t, term.IsAIGenerated)
	assert.Equal(t, term.CreatedAt, term.UpdatedAt)

	created, err := time.Parse(time.RFC3339, term.CreatedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), created, 5*time.Second)
}

func TestNewTerm_UniqueIDs(t *testing.T) {
	a := NewTerm("a")
	b := NewTerm("a")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestApplyUpdate(t *testing.T) {
	term := NewTerm("API")
	term.IsAIGenerated = true
	term.CreatedAt = "2020-01-01T00:00:00Z"
	term.UpdatedAt = term.CreatedAt

	term.ApplyUpdate("  アプリケーション間の接続仕様。  ", "ネットワーク")

	assert.Equal(t, "アプリケーション間の接続仕様。", term.Description)
	assert.Equal(t, "ネットワーク", term.Category)
	assert.False(t, term.IsAIGenerated, "manual edits reset the AI flag")
	assert.Equal(t, "2020-01-01T00:00:00Z", term.CreatedAt)
	assert.NotEqual(t, term.CreatedAt, term.UpdatedAt)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "api", NormalizeName("  API  "))
	assert.Equal(t, "キャッシュ", NormalizeName("キャッシュ"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestMatches(t *testing.T) {
	term := NewTerm("キャッシュ")
	term.Description = "一時的なデータ保存領域"
	term.Category = "Infrastructure"

	assert.True(t, term.Matches("キャッシュ"))
	assert.True(t, term.Matches("保存"))
	assert.True(t, term.Matches("  "), "blank query matches everything")
	assert.False(t, term.Matches("データベース"))
}

func TestClone(t *testing.T) {
	orig := NewTerm("DNS")
	clone := orig.Clone()

	require.NotSame(t, orig, clone)
	assert.Equal(t, orig, clone)

	clone.Description = "changed"
	assert.Empty(t, orig.Description)
}

func TestSortByName_JapaneseCollation(t *testing.T) {
	terms := []*Term{
		NewTerm("うさぎ"),
		NewTerm("さくら"),
		NewTerm("あり"),
	}

	SortByName(terms)

	names := []string{terms[0].Name, terms[1].Name, terms[2].Name}
	assert.Equal(t, []string{"あり", "うさぎ", "さくら"}, names)
}
