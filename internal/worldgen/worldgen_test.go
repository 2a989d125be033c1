package worldgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("the same seed reproduces the same world", func(t *testing.T) {
		cfg := GenConfig{Seed: 42, NumKingdoms: 12, GameStart: start}
		a := Generate(cfg)
		b := Generate(cfg)

		require.Len(t, a, 12)
		for i := range a {
			require.Equal(t, a[i].ID, b[i].ID)
			require.Equal(t, a[i].Name, b[i].Name)
			require.Equal(t, a[i].Race, b[i].Race)
			require.Equal(t, a[i].Resources, b[i].Resources)
		}
	})

	t.Run("different seeds diverge", func(t *testing.T) {
		a := Generate(GenConfig{Seed: 1, NumKingdoms: 8, GameStart: start})
		b := Generate(GenConfig{Seed: 2, NumKingdoms: 8, GameStart: start})
		require.NotEqual(t, a[0].ID, b[0].ID)
	})

	t.Run("starting states are playable", func(t *testing.T) {
		for _, k := range Generate(GenConfig{Seed: 7, NumKingdoms: 20, GameStart: start}) {
			require.NotEmpty(t, k.Name)
			require.Greater(t, k.Resources.Land, int64(0))
			require.Greater(t, k.Resources.Gold, int64(0))
			require.Equal(t, int64(50), k.Resources.Turns)
			require.NotEmpty(t, k.Army)
			require.Greater(t, k.Focus.MaxPoints, 0)
			require.GreaterOrEqual(t, k.QuarryPct, 10.0)
			require.Equal(t, start, k.CreatedAt)
		}
	})

	t.Run("names never collide", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, k := range Generate(GenConfig{Seed: 99, NumKingdoms: 50, GameStart: start}) {
			require.False(t, seen[k.Name], "duplicate name %q", k.Name)
			seen[k.Name] = true
		}
	})

	t.Run("ids never collide", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, k := range Generate(GenConfig{Seed: 99, NumKingdoms: 50, GameStart: start}) {
			require.False(t, seen[k.ID.String()])
			seen[k.ID.String()] = true
		}
	})

	t.Run("a non-positive count falls back to the default", func(t *testing.T) {
		ks := Generate(GenConfig{Seed: 5, NumKingdoms: 0, GameStart: start})
		require.Len(t, ks, DefaultGenConfig().NumKingdoms)
	})
}
