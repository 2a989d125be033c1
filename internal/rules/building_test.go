package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateBRT(t *testing.T) {
	t.Run("table endpoints", func(t *testing.T) {
		require.Equal(t, 4, CalculateBRT(4), "below 5%% allocation the floor tier applies")
		require.Equal(t, 4, CalculateBRT(0))
		require.Equal(t, 31, CalculateBRT(100))
	})

	t.Run("breakpoints are inclusive at the lower bound", func(t *testing.T) {
		require.Equal(t, 6, CalculateBRT(5))
		require.Equal(t, 8, CalculateBRT(10))
		require.Equal(t, 20, CalculateBRT(50))
		require.Equal(t, 20, CalculateBRT(59.9))
		require.Equal(t, 22, CalculateBRT(60))
		require.Equal(t, 30, CalculateBRT(95))
	})

	t.Run("monotonic non-decreasing across the whole range", func(t *testing.T) {
		prev := CalculateBRT(0)
		for pct := 0.5; pct <= 100; pct += 0.5 {
			cur := CalculateBRT(pct)
			require.GreaterOrEqual(t, cur, prev, "BRT dipped at %.1f%%", pct)
			prev = cur
		}
	})
}

func TestCalculateBuildTurns(t *testing.T) {
	require.Equal(t, 0, CalculateBuildTurns(0, 20))
	require.Equal(t, 1, CalculateBuildTurns(20, 20))
	require.Equal(t, 2, CalculateBuildTurns(21, 20), "remainders round up to a full turn")
	require.Equal(t, 5, CalculateBuildTurns(100, 20))
	require.Equal(t, 25, CalculateBuildTurns(100, 4), "non-positive rates fall back to the floor tier")
	require.Equal(t, 25, CalculateBuildTurns(100, 0))
}

func TestGetBuildEfficiencyWarning(t *testing.T) {
	t.Run("an even order draws no warning", func(t *testing.T) {
		eff := GetBuildEfficiencyWarning(100, 20)
		require.Equal(t, 5, eff.Turns)
		require.Zero(t, eff.Wasted)
		require.Empty(t, eff.Warning)
	})

	t.Run("a ragged order flags the wasted capacity", func(t *testing.T) {
		eff := GetBuildEfficiencyWarning(101, 20)
		require.Equal(t, 6, eff.Turns)
		require.Equal(t, int64(19), eff.Wasted)
		require.NotEmpty(t, eff.Warning)
	})

	t.Run("empty orders are silent", func(t *testing.T) {
		eff := GetBuildEfficiencyWarning(0, 20)
		require.Zero(t, eff.Turns)
		require.Empty(t, eff.Warning)
	})
}
