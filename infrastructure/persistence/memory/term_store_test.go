package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"glossary-backend/application/ports"
)

func newTestStore(t *testing.T) *TermStore {
	t.Helper()
	return NewTermStore(zap.NewNop())
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Create(ctx, "キャッシュ")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "キャッシュ", got.Name)
	assert.Equal(t, "term", got.Type)
}

func TestGet_Unknown(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	got, err := store.Get(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestList_SortedByJapaneseName(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, name := range []string{"さくら", "あり", "うさぎ"} {
		_, err := store.Create(ctx, name)
		require.NoError(t, err)
	}

	terms, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 3)
	assert.Equal(t, "あり", terms[0].Name)
	assert.Equal(t, "うさぎ", terms[1].Name)
	assert.Equal(t, "さくら", terms[2].Name)
}

func TestFindDuplicateName_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Create(ctx, "API")
	require.NoError(t, err)

	dup, err := store.FindDuplicateName(ctx, "  api ")
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, created.ID, dup.ID)

	none, err := store.FindDuplicateName(ctx, "DNS")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Create(ctx, "DNS")
	require.NoError(t, err)

	updated, err := store.Update(ctx, created.ID, ports.UpdateTermInput{
		Description: "名前解決の仕組み。",
		Category:    "ネットワーク",
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "名前解決の仕組み。", updated.Description)
	assert.Equal(t, "ネットワーク", updated.Category)
	assert.False(t, updated.IsAIGenerated)

	// Unknown ids come back nil without an error.
	missing, err := store.Update(ctx, "no-such-id", ports.UpdateTermInput{})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Create(ctx, "VPN")
	require.NoError(t, err)

	deleted, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	again, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, again)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	cache, err := store.Create(ctx, "キャッシュ")
	require.NoError(t, err)
	_, err = store.Update(ctx, cache.ID, ports.UpdateTermInput{Description: "一時的なデータ保存領域"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "DNS")
	require.NoError(t, err)

	byName, err := store.Search(ctx, "キャッシュ")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, cache.ID, byName[0].ID)

	byDescription, err := store.Search(ctx, "保存")
	require.NoError(t, err)
	require.Len(t, byDescription, 1)

	all, err := store.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := store.Search(ctx, "存在しない")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClone_IsolatesCallers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Create(ctx, "HTTP")
	require.NoError(t, err)
	created.Name = "mutated"

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "HTTP", got.Name)
}
