package screen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderDefaultsWhenFileMissing(t *testing.T) {
	h := NewHolder(filepath.Join(t.TempDir(), "none.json"), nil)
	assert.Equal(t, DefaultConfig(), h.Snapshot())
}

func TestHolderLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"enableImage":false,"enableText":true,"price":250,"time":15}`), 0o644))

	h := NewHolder(path, nil)
	cfg := h.Snapshot()
	assert.False(t, cfg.EnableImage)
	assert.Equal(t, 250, cfg.Price)
}

func TestApplyMergesPersistsAndNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.json")
	var notified []Config
	h := NewHolder(path, func(c Config) { notified = append(notified, c) })

	price := 300
	got := h.Apply(Update{Price: &price})
	assert.Equal(t, 300, got.Price)
	assert.True(t, got.EnableImage, "untouched fields keep their value")
	require.Len(t, notified, 1)

	// persisted file seeds the next holder
	h2 := NewHolder(path, nil)
	assert.Equal(t, 300, h2.Snapshot().Price)
}
