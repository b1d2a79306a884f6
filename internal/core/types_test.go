package core

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSim struct{ seed int64 }

func (s *stubSim) Name() string           { return "stub" }
func (s *stubSim) Seed() int64            { return s.seed }
func (s *stubSim) Reset(seed int64) error { s.seed = seed; return nil }
func (s *stubSim) Step() bool             { return false }
func (s *stubSim) Snapshot() Snapshot     { return Snapshot{} }

func TestRegistry(t *testing.T) {
	Register("", func(map[string]string, *slog.Logger) (Sim, error) { return nil, nil })
	Register("nil-factory", nil)
	Register("zz-stub", func(map[string]string, *slog.Logger) (Sim, error) { return &stubSim{seed: 3}, nil })
	t.Cleanup(func() { delete(sims, "zz-stub") })

	assert.NotContains(t, Sims(), "")
	assert.NotContains(t, Sims(), "nil-factory")
	assert.Contains(t, Names(), "zz-stub")

	s, err := New("zz-stub", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Seed())

	_, err = New("missing", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownSim)
}
