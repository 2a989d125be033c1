package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateFaithLevel(t *testing.T) {
	cases := []struct {
		points int64
		level  int
	}{
		{0, 0},
		{9, 0},
		{10, 1},
		{49, 1},
		{50, 2},
		{199, 2},
		{200, 3},
		{499, 3},
		{500, 4},
		{999, 4},
		{1000, 5},
		{50000, 5},
	}
	for _, tc := range cases {
		require.Equal(t, tc.level, CalculateFaithLevel(tc.points),
			"points=%d", tc.points)
	}
}

func TestGetFaithBonuses(t *testing.T) {
	t.Run("each alignment grants its own stats", func(t *testing.T) {
		require.Contains(t, GetFaithBonuses(AlignmentRadiance, 0), "healing")
		require.Contains(t, GetFaithBonuses(AlignmentRadiance, 0), "defense")
		require.Contains(t, GetFaithBonuses(AlignmentShadow, 0), "scum")
		require.Contains(t, GetFaithBonuses(AlignmentShadow, 0), "offense")
		require.Contains(t, GetFaithBonuses(AlignmentWild, 0), "income")
		require.Contains(t, GetFaithBonuses(AlignmentWild, 0), "regen")
	})

	t.Run("bonuses scale with faith level", func(t *testing.T) {
		base := GetFaithBonuses(AlignmentRadiance, 0)["healing"]
		boosted := GetFaithBonuses(AlignmentRadiance, 5)["healing"]
		require.InDelta(t, base*1.5, boosted, 0.0001, "level 5 scales by 1 + 5*0.1")
	})

	t.Run("neutral grants nothing", func(t *testing.T) {
		require.Empty(t, GetFaithBonuses(AlignmentNeutral, 5))
	})

	t.Run("level is clamped to the valid range", func(t *testing.T) {
		require.Equal(t,
			GetFaithBonuses(AlignmentWild, MaxFaithLevel),
			GetFaithBonuses(AlignmentWild, 99))
		require.Equal(t,
			GetFaithBonuses(AlignmentWild, 0),
			GetFaithBonuses(AlignmentWild, -3))
	})
}

func TestCanUseFaithAlignment(t *testing.T) {
	t.Run("compatible races pass", func(t *testing.T) {
		require.True(t, CanUseFaithAlignment(RaceHuman, AlignmentRadiance).CanUse)
		require.True(t, CanUseFaithAlignment(RaceVampire, AlignmentShadow).CanUse)
		require.True(t, CanUseFaithAlignment(RaceFae, AlignmentWild).CanUse)
	})

	t.Run("incompatible races fail with a reason", func(t *testing.T) {
		check := CanUseFaithAlignment(RaceGoblin, AlignmentRadiance)
		require.False(t, check.CanUse)
		require.NotEmpty(t, check.Reason)
	})

	t.Run("centaur and sidhe sit on two allowlists", func(t *testing.T) {
		for _, race := range []Race{RaceCentaur, RaceSidhe} {
			require.True(t, CanUseFaithAlignment(race, AlignmentRadiance).CanUse)
			require.True(t, CanUseFaithAlignment(race, AlignmentWild).CanUse)
			require.False(t, CanUseFaithAlignment(race, AlignmentShadow).CanUse)
		}
	})

	t.Run("neutral accepts everyone", func(t *testing.T) {
		for _, race := range AllRaces() {
			require.True(t, CanUseFaithAlignment(race, AlignmentNeutral).CanUse)
		}
	})
}

func TestParseAlignment(t *testing.T) {
	require.Equal(t, AlignmentShadow, ParseAlignment("Shadow"))
	require.Equal(t, AlignmentNeutral, ParseAlignment("chaos"))
	for _, a := range []Alignment{AlignmentNeutral, AlignmentRadiance, AlignmentShadow, AlignmentWild} {
		require.Equal(t, a, ParseAlignment(a.String()))
	}
}
