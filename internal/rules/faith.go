// Faith engine — alignment compatibility and level-scaled bonuses.
// Faith points accrue outside the engine; levels are derived from
// fixed point thresholds.
package rules

import (
	"fmt"
	"strings"
)

// Alignment enumerates the faith alignments a kingdom can follow.
type Alignment uint8

const (
	AlignmentNeutral Alignment = iota
	AlignmentRadiance
	AlignmentShadow
	AlignmentWild
)

// String returns the alignment key.
func (a Alignment) String() string {
	switch a {
	case AlignmentRadiance:
		return "radiance"
	case AlignmentShadow:
		return "shadow"
	case AlignmentWild:
		return "wild"
	default:
		return "neutral"
	}
}

// ParseAlignment maps an alignment key to its enum value. Unknown keys
// resolve to neutral, which grants nothing.
func ParseAlignment(key string) Alignment {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "radiance":
		return AlignmentRadiance
	case "shadow":
		return AlignmentShadow
	case "wild":
		return AlignmentWild
	default:
		return AlignmentNeutral
	}
}

// Faith level thresholds. Points at or above a threshold reach that
// level; below 10 points is level 0.
var faithLevelThresholds = [...]int64{10, 50, 200, 500, 1000}

// MaxFaithLevel is the highest attainable faith level.
const MaxFaithLevel = 5

// CalculateFaithLevel maps accumulated faith points to a level 0–5.
func CalculateFaithLevel(points int64) int {
	level := 0
	for _, threshold := range faithLevelThresholds {
		if points >= threshold {
			level++
		}
	}
	return level
}

// FaithBonuses are the fractional bonuses an alignment grants, keyed
// by the stat they modify.
type FaithBonuses map[string]float64

// GetFaithBonuses returns the alignment's base bonuses scaled by
// 1 + level*0.1. Neutral or unknown alignments yield an empty set.
func GetFaithBonuses(alignment Alignment, level int) FaithBonuses {
	if level < 0 {
		level = 0
	}
	if level > MaxFaithLevel {
		level = MaxFaithLevel
	}
	scale := 1 + float64(level)*0.1

	var base FaithBonuses
	switch alignment {
	case AlignmentRadiance:
		base = FaithBonuses{"healing": 0.10, "defense": 0.05}
	case AlignmentShadow:
		base = FaithBonuses{"scum": 0.10, "offense": 0.05}
	case AlignmentWild:
		base = FaithBonuses{"income": 0.08, "regen": 0.07}
	default:
		return FaithBonuses{}
	}

	out := make(FaithBonuses, len(base))
	for stat, bonus := range base {
		out[stat] = bonus * scale
	}
	return out
}

// alignmentRaces is the fixed compatible-race allowlist per alignment.
func alignmentRaces(alignment Alignment) []Race {
	switch alignment {
	case AlignmentRadiance:
		return []Race{RaceHuman, RaceDwarven, RaceCentaur, RaceSidhe}
	case AlignmentShadow:
		return []Race{RaceGoblin, RaceVampire, RaceUndead, RaceDroben}
	case AlignmentWild:
		return []Race{RaceFae, RaceCentaur, RaceSidhe, RaceElemental}
	default:
		return nil
	}
}

// AlignmentCheck is the structured result of an alignment selection.
type AlignmentCheck struct {
	CanUse bool   `json:"can_use"`
	Reason string `json:"reason,omitempty"`
}

// CanUseFaithAlignment checks the race against the alignment's
// allowlist. Incompatible selections fail with a descriptive reason;
// they never silently default.
func CanUseFaithAlignment(race Race, alignment Alignment) AlignmentCheck {
	if alignment == AlignmentNeutral {
		return AlignmentCheck{CanUse: true}
	}
	for _, allowed := range alignmentRaces(alignment) {
		if race == allowed {
			return AlignmentCheck{CanUse: true}
		}
	}
	return AlignmentCheck{
		CanUse: false,
		Reason: fmt.Sprintf("the %s alignment does not accept %s kingdoms", alignment, race),
	}
}
