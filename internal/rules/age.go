// Age engine — maps elapsed game time to an age phase and its
// economic, combat, and racial modifiers. The age is always derived
// from the fixed game start time; it is never persisted as
// authoritative state.
package rules

import (
	"math"
	"time"
)

// AgePhase is one of the three phases a game passes through.
type AgePhase uint8

const (
	AgeEarly AgePhase = iota
	AgeMiddle
	AgeLate
)

// String returns the age phase name.
func (a AgePhase) String() string {
	switch a {
	case AgeEarly:
		return "early"
	case AgeMiddle:
		return "middle"
	case AgeLate:
		return "late"
	default:
		return "early"
	}
}

// Game timeline constants. A game runs exactly 1008 hours; the phase
// is selected by comparing the elapsed fraction against the two
// thresholds. Boundaries are inclusive-lower: a fraction exactly at a
// threshold belongs to the next age.
const (
	GameDuration       = 1008 * time.Hour
	middleAgeThreshold = 0.25
	lateAgeThreshold   = 0.67
)

// Transition warning bands over remaining time in the current age.
const (
	warnApproachingWindow = 72 * time.Hour
	warnImminentWindow    = 24 * time.Hour
)

// AgeStatus describes the derived age state at a point in time.
type AgeStatus struct {
	CurrentAge    AgePhase      `json:"current_age"`
	AgeStartTime  time.Time     `json:"age_start_time"`
	AgeEndTime    time.Time     `json:"age_end_time"`
	AgeDuration   time.Duration `json:"age_duration"`
	RemainingTime time.Duration `json:"remaining_time"`
}

// CalculateCurrentAge derives the age status from the game start time
// and the current time. Before game start the clock reads as early
// age with the full phase remaining; past the game end everything is
// late age with nothing remaining.
func CalculateCurrentAge(gameStart, now time.Time) AgeStatus {
	elapsed := now.Sub(gameStart)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > GameDuration {
		elapsed = GameDuration
	}
	fraction := float64(elapsed) / float64(GameDuration)

	middleAt := gameStart.Add(time.Duration(middleAgeThreshold * float64(GameDuration)))
	lateAt := gameStart.Add(time.Duration(lateAgeThreshold * float64(GameDuration)))
	gameEnd := gameStart.Add(GameDuration)

	var status AgeStatus
	switch {
	case fraction < middleAgeThreshold:
		status = AgeStatus{
			CurrentAge:   AgeEarly,
			AgeStartTime: gameStart,
			AgeEndTime:   middleAt,
		}
	case fraction < lateAgeThreshold:
		status = AgeStatus{
			CurrentAge:   AgeMiddle,
			AgeStartTime: middleAt,
			AgeEndTime:   lateAt,
		}
	default:
		status = AgeStatus{
			CurrentAge:   AgeLate,
			AgeStartTime: lateAt,
			AgeEndTime:   gameEnd,
		}
	}

	status.AgeDuration = status.AgeEndTime.Sub(status.AgeStartTime)
	status.RemainingTime = status.AgeEndTime.Sub(gameStart.Add(elapsed))
	if status.RemainingTime < 0 {
		status.RemainingTime = 0
	}
	return status
}

// AgeEffects holds the fixed economic and combat multipliers for an
// age phase.
type AgeEffects struct {
	BuildingCost float64 `json:"building_cost"`
	TrainingCost float64 `json:"training_cost"`
	Income       float64 `json:"income"`
	Offense      float64 `json:"offense"`
	Defense      float64 `json:"defense"`
}

// CalculateAgeEffects returns the multiplier set for an age. Early
// favors growth and defense; late favors aggression and cheap war.
func CalculateAgeEffects(age AgePhase) AgeEffects {
	switch age {
	case AgeEarly:
		return AgeEffects{BuildingCost: 0.8, TrainingCost: 1.0, Income: 1.2, Offense: 0.9, Defense: 1.1}
	case AgeMiddle:
		return AgeEffects{BuildingCost: 1.0, TrainingCost: 1.0, Income: 1.0, Offense: 1.0, Defense: 1.0}
	case AgeLate:
		return AgeEffects{BuildingCost: 1.2, TrainingCost: 0.8, Income: 0.9, Offense: 1.2, Defense: 0.9}
	default:
		return AgeEffects{BuildingCost: 1.0, TrainingCost: 1.0, Income: 1.0, Offense: 1.0, Defense: 1.0}
	}
}

// RacialModifiers are the per-race, per-age ability triggers. Outside
// a race's active age every field is exactly 1.0 — never negative,
// never omitted.
type RacialModifiers struct {
	Combat float64 `json:"combat"`
	Summon float64 `json:"summon"`
	Income float64 `json:"income"`
}

// CalculateRacialModifiers looks up the racial-ability trigger table
// by race and age.
func CalculateRacialModifiers(race Race, age AgePhase) RacialModifiers {
	m := RacialModifiers{Combat: 1.0, Summon: 1.0, Income: 1.0}
	switch {
	case race == RaceGoblin && age == AgeMiddle:
		m.Combat = 1.5
	case race == RaceDroben && age == AgeLate:
		m.Summon = 1.25
	case race == RaceSidhe && age == AgeEarly:
		m.Income = 1.2
	}
	return m
}

// CalculateAgeBasedCost applies an age multiplier to a base cost.
// Costs round up so the charge is a deterministic whole amount.
func CalculateAgeBasedCost(base int64, multiplier float64) int64 {
	if base <= 0 {
		return 0
	}
	return int64(math.Ceil(float64(base) * multiplier))
}

// CalculateAgeBasedIncome applies an age multiplier to a base income.
// Income rounds down; the rounding direction deliberately differs from
// costs.
func CalculateAgeBasedIncome(base int64, multiplier float64) int64 {
	if base <= 0 {
		return 0
	}
	return int64(math.Floor(float64(base) * multiplier))
}

// WarningLevel classifies how close the current age is to ending.
type WarningLevel uint8

const (
	WarningNone WarningLevel = iota
	WarningApproaching
	WarningImminent
)

// String returns the warning level name.
func (w WarningLevel) String() string {
	switch w {
	case WarningApproaching:
		return "approaching"
	case WarningImminent:
		return "imminent"
	default:
		return "none"
	}
}

// TransitionWarning describes an upcoming age transition.
type TransitionWarning struct {
	Level   WarningLevel `json:"level"`
	NextAge AgePhase     `json:"next_age"`
	// FinalAge is set when there is no next age; the game itself is
	// ending instead.
	FinalAge bool `json:"final_age"`
}

// GetAgeTransitionWarning classifies the remaining time in the current
// age: none above 72h, approaching at 72h or less, imminent at 24h or
// less.
func GetAgeTransitionWarning(status AgeStatus) TransitionWarning {
	w := TransitionWarning{Level: WarningNone}
	switch status.CurrentAge {
	case AgeEarly:
		w.NextAge = AgeMiddle
	case AgeMiddle:
		w.NextAge = AgeLate
	default:
		w.NextAge = AgeLate
		w.FinalAge = true
	}
	switch {
	case status.RemainingTime <= warnImminentWindow:
		w.Level = WarningImminent
	case status.RemainingTime <= warnApproachingWindow:
		w.Level = WarningApproaching
	}
	return w
}
