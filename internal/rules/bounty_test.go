package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateBountyValue(t *testing.T) {
	t.Run("land claim is thirty percent", func(t *testing.T) {
		reward := CalculateBountyValue(BountyTarget{Land: 10000, Structures: 5000, BuildRatio: 25}, 20)
		require.Equal(t, int64(3000), reward.LandGained)
	})

	t.Run("structure gains carry the bonus but cap at what exists", func(t *testing.T) {
		// 10000 * 25/100 * 1.2 = 3000 base, capped by the 2000 standing.
		reward := CalculateBountyValue(BountyTarget{Land: 10000, Structures: 2000, BuildRatio: 25}, 20)
		require.Equal(t, int64(2000), reward.StructuresGained)

		uncapped := CalculateBountyValue(BountyTarget{Land: 10000, Structures: 5000, BuildRatio: 25}, 20)
		require.Equal(t, int64(3000), uncapped.StructuresGained)
	})

	t.Run("turn savings follow the hunter build rate", func(t *testing.T) {
		bare := BountyTarget{Land: 10000, Structures: 0, BuildRatio: 0}
		require.Equal(t, 12.0, CalculateBountyValue(bare, 8).TurnSavings)
		require.Equal(t, 8.0, CalculateBountyValue(bare, 16).TurnSavings)
		require.Equal(t, 5.0, CalculateBountyValue(bare, 24).TurnSavings)
		require.Equal(t, 3.0, CalculateBountyValue(bare, 31).TurnSavings)
	})

	t.Run("total value sums land, structures, and savings", func(t *testing.T) {
		reward := CalculateBountyValue(BountyTarget{Land: 10000, Structures: 5000, BuildRatio: 25}, 20)
		expected := float64(reward.LandGained) + float64(reward.StructuresGained) + reward.TurnSavings
		require.Equal(t, expected, reward.TotalValue)
	})

	t.Run("worthless targets price at zero", func(t *testing.T) {
		require.Equal(t, BountyReward{}, CalculateBountyValue(BountyTarget{Land: 0}, 20))
	})
}

func TestCalculateSharedKillBenefit(t *testing.T) {
	target := BountyTarget{Land: 10000, Structures: 3000, BuildRatio: 25}

	t.Run("warrior finishing blow is a flat fifteen percent", func(t *testing.T) {
		shared := CalculateSharedKillBenefit(target, 20)
		require.Equal(t, int64(1500), shared.WarriorLand)
	})

	t.Run("sorcerer prices the burned-down remnant", func(t *testing.T) {
		shared := CalculateSharedKillBenefit(target, 20)
		solo := CalculateBountyValue(target, 20)
		require.Less(t, shared.SorcererReward.LandGained, solo.LandGained,
			"the 5%% remnant shrinks the sorcerer's claim")
	})

	t.Run("combined turns are fixed", func(t *testing.T) {
		shared := CalculateSharedKillBenefit(target, 20)
		require.Equal(t, 16, shared.CombinedTurns, "12 sorcery + 4 finishing blow")
		require.Greater(t, shared.CombinedEfficiency, 0.0)
	})
}

func TestCalculateTithingExhaustionThreshold(t *testing.T) {
	require.Equal(t, TithingBelowWindow, CalculateTithingExhaustionThreshold(10999))
	require.Equal(t, TithingInWindow, CalculateTithingExhaustionThreshold(11000))
	require.Equal(t, TithingInWindow, CalculateTithingExhaustionThreshold(13000))
	require.Equal(t, TithingInWindow, CalculateTithingExhaustionThreshold(15000))
	require.Equal(t, TithingAboveWindow, CalculateTithingExhaustionThreshold(15001))
}

func TestAssessBountyEnvironment(t *testing.T) {
	t.Run("two of three guilds engaged is safe", func(t *testing.T) {
		require.False(t, AssessBountyEnvironment(0).Safe)
		require.False(t, AssessBountyEnvironment(1).Safe)
		require.True(t, AssessBountyEnvironment(2).Safe)
		require.True(t, AssessBountyEnvironment(3).Safe)
	})

	t.Run("inputs clamp to the guild count", func(t *testing.T) {
		env := AssessBountyEnvironment(10)
		require.Equal(t, 3, env.GuildsEngaged)
		env = AssessBountyEnvironment(-2)
		require.Equal(t, 0, env.GuildsEngaged)
	})

	t.Run("every assessment carries a recommendation", func(t *testing.T) {
		require.NotEmpty(t, AssessBountyEnvironment(0).Recommendation)
		require.NotEmpty(t, AssessBountyEnvironment(3).Recommendation)
	})
}
