package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leandrodaf/midisteno/internal/hand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "layouts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func calibrated(t *testing.T) hand.Layout {
	t.Helper()
	l, err := hand.NewLayout([]int{5, 4, 3, 2, 1, 0}, []int{6, 7, 8, 9, 10, 11})
	require.NoError(t, err)
	return l
}

func TestLayoutMissing(t *testing.T) {
	s := openStore(t)
	_, found, err := s.Layout(context.Background(), "pad")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveAndReplaceLayout(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.SaveLayout(ctx, "pad", hand.DefaultLayout()))
	require.NoError(t, s.SaveLayout(ctx, "pad", calibrated(t)))

	got, found, err := s.Layout(ctx, "pad")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, calibrated(t), got)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "pad", all[0].Device)
	assert.False(t, all[0].UpdatedAt.IsZero())
}

func TestDeleteLayout(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.SaveLayout(ctx, "pad", calibrated(t)))

	existed, err := s.DeleteLayout(ctx, "pad")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.DeleteLayout(ctx, "pad")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestDeviceStoreIsScoped(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	a, b := s.For("a"), s.For("b")

	require.NoError(t, a.SaveLayout(ctx, calibrated(t)))

	_, found, err := b.LoadLayout(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	got, found, err := a.LoadLayout(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, calibrated(t), got)
}

func TestCorruptRowIsReported(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO hand_layouts (device, left_keys, right_keys, updated_at) VALUES ('pad', '1,2', '3', 'x')`)
	require.NoError(t, err)

	_, _, err = s.Layout(ctx, "pad")
	assert.ErrorIs(t, err, hand.ErrLayoutSize)
}
