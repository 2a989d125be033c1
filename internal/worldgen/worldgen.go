// Package worldgen bootstraps a demo world: a roster of starting
// kingdoms generated deterministically from a seed. Land quality is
// drawn from layered simplex noise so starting positions vary without
// being uniform random, and the same seed always reproduces the same
// world.
package worldgen

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/berrik/realmwar/internal/kingdom"
	"github.com/berrik/realmwar/internal/rules"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Seed        int64 // Random seed (0 = time-based)
	NumKingdoms int
	GameStart   time.Time
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:        0,
		NumKingdoms: 12,
		GameStart:   time.Now(),
	}
}

// Starting-state bands. Noise shifts each kingdom inside the band.
const (
	baseLand   = 5000
	landSpread = 4000
	baseGold   = 200000
	goldSpread = 100000
	baseScum   = 300
	scumSpread = 400
)

var namePrefixes = []string{
	"Ash", "Black", "Crow", "Dun", "Ember", "Frost", "Gold", "High",
	"Iron", "Moss", "North", "Oak", "Raven", "Stone", "Thorn", "Winter",
}

var nameSuffixes = []string{
	"fell", "gard", "hold", "mere", "moor", "reach", "spire", "vale", "watch", "wick",
}

// Generate creates the starting kingdom roster. Deterministic for a
// given seed.
func Generate(cfg GenConfig) []*kingdom.Kingdom {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.NumKingdoms <= 0 {
		cfg.NumKingdoms = DefaultGenConfig().NumKingdoms
	}

	rng := rand.New(rand.NewSource(seed))
	landNoise := opensimplex.NewNormalized(seed)
	wealthNoise := opensimplex.NewNormalized(seed + 1)

	// UUIDs derive from the seeded rng so world generation stays
	// reproducible end to end.
	idSource := rand.New(rand.NewSource(seed + 2))

	races := rules.AllRaces()
	used := make(map[string]bool)

	kingdoms := make([]*kingdom.Kingdom, 0, cfg.NumKingdoms)
	for i := 0; i < cfg.NumKingdoms; i++ {
		// Sample each kingdom at its own point on the noise fields.
		x := float64(i) * 0.37
		landQuality := landNoise.Eval2(x, 0)
		wealth := wealthNoise.Eval2(x, 1)

		land := int64(baseLand + math.Floor(landQuality*landSpread))
		gold := int64(baseGold + math.Floor(wealth*goldSpread))
		scum := int64(baseScum + math.Floor(landQuality*scumSpread))

		race := races[rng.Intn(len(races))]

		k := &kingdom.Kingdom{
			ID:   randomUUID(idSource),
			Name: kingdomName(rng, used),
			Race: race,
			Resources: kingdom.Resources{
				Gold:       gold,
				Population: land * 10,
				Land:       land,
				Turns:      50,
			},
			Army: rules.Army{
				"peasant": land / 2,
				"soldier": land / 4,
				"archer":  land / 8,
				"pikeman": land / 10,
			},
			Forts:      int(land / 500),
			Structures: land / 4,
			QuarryPct:  10 + rng.Float64()*40,
			ScumCount:  scum,
			ScumTier:   rules.ScumGreen,
			Focus: kingdom.FocusState{
				Points:    rules.CalculateMaxFocusPoints(race, 50) / 2,
				MaxPoints: rules.CalculateMaxFocusPoints(race, 50),
				RegenRate: rules.CalculateFocusGeneration(race, 2),
			},
			CreatedAt: cfg.GameStart,
		}
		kingdoms = append(kingdoms, k)
	}
	return kingdoms
}

// kingdomName produces a unique two-part name, numbering collisions.
func kingdomName(rng *rand.Rand, used map[string]bool) string {
	for attempt := 0; attempt < 50; attempt++ {
		name := namePrefixes[rng.Intn(len(namePrefixes))] + nameSuffixes[rng.Intn(len(nameSuffixes))]
		if !used[name] {
			used[name] = true
			return name
		}
	}
	name := fmt.Sprintf("%s%s-%d",
		namePrefixes[rng.Intn(len(namePrefixes))],
		nameSuffixes[rng.Intn(len(nameSuffixes))],
		len(used))
	used[name] = true
	return name
}

// randomUUID builds a v4-shaped UUID from the seeded rng instead of
// crypto/rand, keeping generation reproducible.
func randomUUID(rng *rand.Rand) uuid.UUID {
	var b [16]byte
	for i := range b {
		b[i] = byte(rng.Intn(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return uuid.New()
	}
	return id
}
