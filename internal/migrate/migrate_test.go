package migrate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store/local"
)

func testKV(t *testing.T) *local.KV {
	t.Helper()

	db, err := local.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, local.Migrate(db))
	return local.NewKV(db)
}

func TestStateRoundTrip(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	st, err := loadState(ctx, kv)
	require.NoError(t, err)
	assert.Empty(t, st.Completed)

	st.Completed[StepCategories] = true
	st.Stats.Categories = 3
	require.NoError(t, saveState(ctx, kv, st))

	reloaded, err := loadState(ctx, kv)
	require.NoError(t, err)
	assert.True(t, reloaded.Completed[StepCategories])
	assert.False(t, reloaded.Completed[StepPosts])
	assert.Equal(t, 3, reloaded.Stats.Categories)
}

func TestStatusOf(t *testing.T) {
	st := &state{Completed: map[string]bool{}}
	status := statusOf(st, false)
	assert.False(t, status.Completed)
	assert.True(t, status.InProgress)

	for _, step := range stepOrder {
		st.Completed[step] = true
	}
	status = statusOf(st, true)
	assert.True(t, status.Completed)
	assert.False(t, status.InProgress)
}

func TestHasMigratableData(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	m := New(kv, nil)
	ok, err := m.HasMigratableData(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty store should have nothing to migrate")

	require.NoError(t, local.SaveCollection(ctx, kv, local.KeyCategories, []model.Category{
		{ID: "category_1", Name: "Tech", Slug: "tech"},
	}))

	ok, err = m.HasMigratableData(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}
