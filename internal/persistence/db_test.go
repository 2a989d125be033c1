package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/berrik/realmwar/internal/kingdom"
	"github.com/berrik/realmwar/internal/orchestrator"
	"github.com/berrik/realmwar/internal/rules"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleKingdom() *kingdom.Kingdom {
	return &kingdom.Kingdom{
		ID:   uuid.New(),
		Name: "Thornreach",
		Race: rules.RaceDwarven,
		Resources: kingdom.Resources{
			Gold:       150000,
			Population: 40000,
			Land:       4000,
			Turns:      50,
		},
		Army:       rules.Army{"soldier": 1000, "knight": 120},
		Forts:      8,
		Structures: 1000,
		QuarryPct:  40,
		ScumCount:  300,
		ScumTier:   rules.ScumElite,
		Faith:      kingdom.FaithState{Alignment: rules.AlignmentRadiance, FaithPoints: 55},
		Focus: kingdom.FocusState{
			Points:    20,
			MaxPoints: 50,
			RegenRate: 2,
			ActiveEffects: []rules.FocusEffect{
				{EffectType: rules.EffectCombatFocusBonus, EnhancedValue: 1.2, Duration: 5, AppliedAt: 3},
			},
		},
		AmbushActive: true,
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestKingdomRoundTrip(t *testing.T) {
	db := openTestDB(t)
	k := sampleKingdom()

	require.NoError(t, db.SaveKingdom(k))

	loaded, err := db.Kingdom(k.ID)
	require.NoError(t, err)
	require.Equal(t, k.Name, loaded.Name)
	require.Equal(t, k.Race, loaded.Race)
	require.Equal(t, k.Resources, loaded.Resources)
	require.Equal(t, k.Army, loaded.Army)
	require.Equal(t, k.Forts, loaded.Forts)
	require.Equal(t, k.QuarryPct, loaded.QuarryPct)
	require.Equal(t, k.ScumTier, loaded.ScumTier)
	require.Equal(t, k.Faith, loaded.Faith)
	require.Equal(t, k.Focus, loaded.Focus)
	require.True(t, loaded.AmbushActive)
	require.True(t, k.CreatedAt.Equal(loaded.CreatedAt))
}

func TestKingdomUpsert(t *testing.T) {
	db := openTestDB(t)
	k := sampleKingdom()
	require.NoError(t, db.SaveKingdom(k))

	k.Resources.Gold = 999
	require.NoError(t, db.SaveKingdom(k))

	loaded, err := db.Kingdom(k.ID)
	require.NoError(t, err)
	require.Equal(t, int64(999), loaded.Resources.Gold)

	all, err := db.Kingdoms()
	require.NoError(t, err)
	require.Len(t, all, 1, "upserts never duplicate rows")
}

func TestKingdomNotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Kingdom(uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestKingdomsOrdering(t *testing.T) {
	db := openTestDB(t)

	small := sampleKingdom()
	small.Resources.Land = 1000
	big := sampleKingdom()
	big.ID = uuid.New()
	big.Resources.Land = 9000

	require.NoError(t, db.SaveKingdoms([]*kingdom.Kingdom{small, big}))
	require.True(t, db.HasKingdoms())

	all, err := db.Kingdoms()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, big.ID, all[0].ID, "largest landholders list first")
}

func TestEvents(t *testing.T) {
	db := openTestDB(t)

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, db.AppendEvent(orchestrator.Event{
			Turn:        i,
			Description: "something happened",
			Category:    "combat",
		}))
	}

	events, err := db.RecentEvents(3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, int64(5), events[0].Turn, "newest first")
	require.Equal(t, int64(3), events[2].Turn)
}

func TestMeta(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveMeta("seed", "42"))
	v, err := db.GetMeta("seed")
	require.NoError(t, err)
	require.Equal(t, "42", v)

	require.NoError(t, db.SaveMeta("seed", "43"))
	v, err = db.GetMeta("seed")
	require.NoError(t, err)
	require.Equal(t, "43", v, "meta keys overwrite")

	_, err = db.GetMeta("missing")
	require.Error(t, err)
}
