package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateDetectionRate(t *testing.T) {
	t.Run("always within zero and the cap", func(t *testing.T) {
		counts := []int64{0, 50, 100, 1000, 100000}
		for _, att := range counts {
			for _, def := range counts {
				for _, ar := range AllRaces() {
					rate := CalculateDetectionRate(att, ar, def, RaceHuman)
					require.GreaterOrEqual(t, rate, 0.0)
					require.LessOrEqual(t, rate, 0.95)
				}
			}
		}
	})

	t.Run("symmetric forces detect at exactly one half", func(t *testing.T) {
		rate := CalculateDetectionRate(500, RaceHuman, 500, RaceHuman)
		require.Equal(t, 0.5, rate)
	})

	t.Run("below the minimum force nothing is detectable", func(t *testing.T) {
		require.Zero(t, CalculateDetectionRate(99, RaceHuman, 10000, RaceHuman))
		require.Zero(t, CalculateDetectionRate(100, RaceHuman, 0, RaceHuman))
	})

	t.Run("racial effectiveness shifts the odds", func(t *testing.T) {
		// Centaur scum at 1.15 effectiveness slip past an equal human
		// defense more often than human scum would.
		centaur := CalculateDetectionRate(500, RaceCentaur, 500, RaceHuman)
		human := CalculateDetectionRate(500, RaceHuman, 500, RaceHuman)
		require.Less(t, centaur, human)

		goblin := CalculateDetectionRate(500, RaceGoblin, 500, RaceHuman)
		require.Greater(t, goblin, human, "goblin scum at 0.90 are easier to catch")
	})

	t.Run("outnumbered defense never detects past the cap", func(t *testing.T) {
		rate := CalculateDetectionRate(100, RaceHuman, 1000000, RaceHuman)
		require.Equal(t, 0.95, rate)
	})
}

func TestCalculateOptimalScumCount(t *testing.T) {
	t.Run("the answer actually reaches the target detection", func(t *testing.T) {
		enemy := int64(1000)
		count := CalculateOptimalScumCount(enemy, RaceHuman, RaceHuman, 0.85)
		rate := CalculateDetectionRate(enemy, RaceHuman, count, RaceHuman)
		require.GreaterOrEqual(t, rate, 0.85)
	})

	t.Run("out-of-range targets fall back to the default", func(t *testing.T) {
		def := CalculateOptimalScumCount(1000, RaceHuman, RaceHuman, 0)
		explicit := CalculateOptimalScumCount(1000, RaceHuman, RaceHuman, 0.85)
		require.Equal(t, explicit, def)
	})

	t.Run("floored at the global minimum", func(t *testing.T) {
		require.Equal(t, int64(MinScumCount), CalculateOptimalScumCount(1, RaceHuman, RaceHuman, 0.5))
		require.Equal(t, int64(MinScumCount), CalculateOptimalScumCount(0, RaceHuman, RaceHuman, 0.85))
	})

	t.Run("effective races need fewer bodies", func(t *testing.T) {
		centaur := CalculateOptimalScumCount(10000, RaceHuman, RaceCentaur, 0.85)
		human := CalculateOptimalScumCount(10000, RaceHuman, RaceHuman, 0.85)
		require.Less(t, centaur, human)
	})
}

func TestCalculateScumCasualties(t *testing.T) {
	t.Run("elite operatives die less than green recruits", func(t *testing.T) {
		green := CalculateScumCasualties(1000, ScumGreen, OpSteal, RaceHuman)
		elite := CalculateScumCasualties(1000, ScumElite, OpSteal, RaceHuman)
		require.Equal(t, int64(50), green, "midpoint of 2-8%%")
		require.Equal(t, int64(25), elite, "midpoint of 1-4%%")
	})

	t.Run("riskier operations bleed more", func(t *testing.T) {
		scout := CalculateScumCasualties(1000, ScumGreen, OpScout, RaceHuman)
		burn := CalculateScumCasualties(1000, ScumGreen, OpBurn, RaceHuman)
		require.Less(t, scout, burn)
	})

	t.Run("vampire survival discount", func(t *testing.T) {
		vampire := CalculateScumCasualties(1000, ScumGreen, OpSteal, RaceVampire)
		human := CalculateScumCasualties(1000, ScumGreen, OpSteal, RaceHuman)
		require.Less(t, vampire, human)
	})

	t.Run("never exceeds the committed force", func(t *testing.T) {
		require.LessOrEqual(t, CalculateScumCasualties(5, ScumGreen, OpBurn, RaceGoblin), int64(5))
		require.Zero(t, CalculateScumCasualties(0, ScumGreen, OpBurn, RaceGoblin))
	})
}

func TestCalculateProtectionLevels(t *testing.T) {
	t.Run("threat tiers scale the recommendation", func(t *testing.T) {
		low := CalculateProtectionLevels(10000, ThreatLow, RaceHuman)
		med := CalculateProtectionLevels(10000, ThreatMedium, RaceHuman)
		high := CalculateProtectionLevels(10000, ThreatHigh, RaceHuman)

		require.Equal(t, int64(1000), low.Recommended)
		require.Equal(t, int64(4000), med.Recommended)
		require.Equal(t, int64(8000), high.Recommended)
	})

	t.Run("optimal carries a twenty percent buffer", func(t *testing.T) {
		p := CalculateProtectionLevels(10000, ThreatMedium, RaceHuman)
		require.Equal(t, int64(4800), p.Optimal)
	})

	t.Run("minimum never drops below the global floor", func(t *testing.T) {
		p := CalculateProtectionLevels(500, ThreatLow, RaceHuman)
		require.Equal(t, int64(MinScumCount), p.Minimum)
		require.GreaterOrEqual(t, p.Recommended, p.Minimum)
	})

	t.Run("large kingdoms floor at ten percent of land", func(t *testing.T) {
		p := CalculateProtectionLevels(50000, ThreatLow, RaceHuman)
		require.Equal(t, int64(5000), p.Minimum)
	})
}

func TestCalculateLayeredDefense(t *testing.T) {
	t.Run("small kingdoms peak at an even split", func(t *testing.T) {
		d := CalculateLayeredDefense(10000, 500, 500)
		require.Equal(t, 1.0, d.Effectiveness)
	})

	t.Run("large kingdoms peak military-light", func(t *testing.T) {
		d := CalculateLayeredDefense(30000, 400, 600)
		require.Equal(t, 1.0, d.Effectiveness)

		even := CalculateLayeredDefense(30000, 500, 500)
		require.Less(t, even.Effectiveness, 1.0)
	})

	t.Run("effectiveness falls off linearly and floors at zero", func(t *testing.T) {
		all := CalculateLayeredDefense(10000, 1000, 0)
		require.Equal(t, 0.0, all.Effectiveness)
	})

	t.Run("empty defense scores nothing", func(t *testing.T) {
		require.Equal(t, LayeredDefense{}, CalculateLayeredDefense(10000, 0, 0))
	})
}

func TestOperationTurnCost(t *testing.T) {
	require.Equal(t, 1, OperationTurnCost(OpScout))
	require.Equal(t, 2, OperationTurnCost(OpSteal))
	require.Equal(t, 3, OperationTurnCost(OpSabotage))
	require.Equal(t, 3, OperationTurnCost(OpBurn))
}

func TestParseOperation(t *testing.T) {
	for _, op := range []Operation{OpScout, OpSteal, OpSabotage, OpBurn} {
		require.Equal(t, op, ParseOperation(op.String()))
	}
	require.Equal(t, OpScout, ParseOperation("nonsense"))
}
