package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	testStore(t, NewFile(path, quietLogger()))
}

func TestFile_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.jsonl")

	s := NewFile(path, quietLogger())
	added, err := s.AddPurchase(ctx, mustPurchase(t, "05/12/2023", "43.210,12", "0,00645778", "279,03"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"command":"settings"`)
	assert.Contains(t, lines[1], `"amount":0.00645778`)
	assert.Contains(t, lines[1], `"price":43210.12`)

	// no temporary file is left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	reopened := NewFile(path, quietLogger())
	got, err := reopened.Purchase(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, added.Amount.Equal(got.Amount))
}

func TestFile_SettingsCreatesLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	_, err := NewFile(path, quietLogger()).Settings(context.Background())
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFile_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"command":"sell"}`+"\n"), 0o600))

	_, err := NewFile(path, quietLogger()).Purchases(context.Background())
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "l.jsonl"), "", quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	_, err = Open(context.Background(), "", "", quietLogger())
	assert.Error(t, err)
}
