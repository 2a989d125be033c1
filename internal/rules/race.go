// Package rules implements the deterministic game-rules engines: age,
// building, combat resolution, espionage, faith and focus, and bounty
// valuation. Every function is a pure computation over its inputs; the
// only randomness is a single draw from an injected entropy source in
// combat land-gain sampling. Unknown race, alignment, or ability
// identifiers never error — they resolve to the documented Human or
// neutral default so callers decide whether to reject the action.
package rules

import "strings"

// Race identifies a kingdom's race. Races are pure lookup keys into
// per-race modifier tables; gameplay never branches on race outside
// those tables.
type Race uint8

const (
	RaceHuman Race = iota
	RaceDwarven
	RaceGoblin
	RaceDroben
	RaceElemental
	RaceCentaur
	RaceVampire
	RaceSidhe
	RaceFae
	RaceUndead
)

// String returns the canonical race name.
func (r Race) String() string {
	switch r {
	case RaceHuman:
		return "Human"
	case RaceDwarven:
		return "Dwarven"
	case RaceGoblin:
		return "Goblin"
	case RaceDroben:
		return "Droben"
	case RaceElemental:
		return "Elemental"
	case RaceCentaur:
		return "Centaur"
	case RaceVampire:
		return "Vampire"
	case RaceSidhe:
		return "Sidhe"
	case RaceFae:
		return "Fae"
	case RaceUndead:
		return "Undead"
	default:
		return "Human"
	}
}

// ParseRace maps a race identifier to its enum value. Lookup is
// case-insensitive; unrecognized identifiers resolve to Human, the
// documented baseline.
func ParseRace(name string) Race {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "human":
		return RaceHuman
	case "dwarven", "dwarf":
		return RaceDwarven
	case "goblin":
		return RaceGoblin
	case "droben":
		return RaceDroben
	case "elemental":
		return RaceElemental
	case "centaur":
		return RaceCentaur
	case "vampire":
		return RaceVampire
	case "sidhe":
		return RaceSidhe
	case "fae":
		return RaceFae
	case "undead":
		return RaceUndead
	default:
		return RaceHuman
	}
}

// AllRaces lists every race in enum order. Used by table-driven
// callers (world generation, CLI reports).
func AllRaces() []Race {
	return []Race{
		RaceHuman, RaceDwarven, RaceGoblin, RaceDroben, RaceElemental,
		RaceCentaur, RaceVampire, RaceSidhe, RaceFae, RaceUndead,
	}
}
