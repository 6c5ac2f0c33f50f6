package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFileLayout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tradebook.yaml")

	s, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, NewProfile("alice")))
	require.NoError(t, s.Save(ctx, "alice", sampleTrades()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Contains(t, raw, "users")
	assert.Contains(t, raw, "trades")

	trades, ok := raw["trades"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, trades["alice"], 3)
}

func TestFileCorruptDocument(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tradebook.yaml")

	s, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "alice", sampleTrades()))

	garbage := []byte("users: [\n  - {{{not yaml")
	require.NoError(t, os.WriteFile(path, garbage, 0o644))

	_, err = s.Load(ctx, "alice")
	assert.True(t, errors.Is(err, ErrStorage))

	err = s.Save(ctx, "alice", nil)
	assert.True(t, errors.Is(err, ErrStorage))

	// A failed save must not touch what is on disk.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, garbage, data)

	_, err = NewFile(path)
	assert.True(t, errors.Is(err, ErrStorage))
}

func TestFileBadAmountIsStorageError(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tradebook.yaml")

	doc := `
users:
  - username: alice
    initial_balance: "0"
    currency: $
trades:
  alice:
    - id: X
      date: "2024-01-01T00:00:00Z"
      pair: EUR_USD
      type: Profit
      amount: lots
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := NewFile(path)
	require.NoError(t, err)

	_, err = s.Load(context.Background(), "alice")
	assert.True(t, errors.Is(err, ErrStorage))

	p, err := s.FindByIdentity(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "$", p.Currency)
}
