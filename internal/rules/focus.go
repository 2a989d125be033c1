// Focus engine — the regenerating ability-point economy. Focus points
// are a per-kingdom currency distinct from gold and turns, spent on
// timed boosts. The engine prices and shapes effects; accrual, spend,
// and expiry are applied by the orchestrator.
package rules

import (
	"fmt"
	"math"
	"strings"
)

// AbilityType enumerates the focus abilities a kingdom can spend
// points on.
type AbilityType uint8

const (
	AbilityEnhancedRacial AbilityType = iota
	AbilitySpellPowerBoost
	AbilityCombatFocus
	AbilityEconomicFocus
	AbilityEmergencyAction
)

// String returns the ability key.
func (a AbilityType) String() string {
	switch a {
	case AbilityEnhancedRacial:
		return "enhanced_racial_ability"
	case AbilitySpellPowerBoost:
		return "spell_power_boost"
	case AbilityCombatFocus:
		return "combat_focus"
	case AbilityEconomicFocus:
		return "economic_focus"
	case AbilityEmergencyAction:
		return "emergency_action"
	default:
		return "enhanced_racial_ability"
	}
}

// ParseAbilityType maps an ability key to its enum value. Unknown keys
// resolve to the enhanced racial ability.
func ParseAbilityType(key string) AbilityType {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "spell_power_boost":
		return AbilitySpellPowerBoost
	case "combat_focus":
		return AbilityCombatFocus
	case "economic_focus":
		return AbilityEconomicFocus
	case "emergency_action":
		return AbilityEmergencyAction
	default:
		return AbilityEnhancedRacial
	}
}

// EffectType enumerates the timed boosts a focus spend produces.
type EffectType uint8

const (
	EffectRacialAbilityBoost EffectType = iota
	EffectSpellPowerBoost
	EffectCombatFocusBonus
	EffectEconomicFocusBonus
)

// String returns the effect key.
func (e EffectType) String() string {
	switch e {
	case EffectRacialAbilityBoost:
		return "racial_ability_boost"
	case EffectSpellPowerBoost:
		return "spell_power_boost"
	case EffectCombatFocusBonus:
		return "combat_focus_bonus"
	case EffectEconomicFocusBonus:
		return "economic_focus_bonus"
	default:
		return "racial_ability_boost"
	}
}

// FocusEffectDuration is how long every focus effect lasts, in turns.
// The caller timestamps the effect on application and expires it by
// comparing elapsed turns to this constant.
const FocusEffectDuration = 5

// focusMultiplier is the per-race modifier on focus generation and
// capacity.
func focusMultiplier(race Race) float64 {
	switch race {
	case RaceVampire:
		return 1.2
	case RaceSidhe:
		return 1.15
	case RaceElemental:
		return 1.1
	default:
		return 1.0
	}
}

// CalculateFocusGeneration applies the racial multiplier to a base
// regeneration rate, floored.
func CalculateFocusGeneration(race Race, baseRate int) int {
	if baseRate <= 0 {
		return 0
	}
	return int(math.Floor(float64(baseRate) * focusMultiplier(race)))
}

// CalculateMaxFocusPoints applies the racial multiplier to a base
// point cap, floored.
func CalculateMaxFocusPoints(race Race, baseCap int) int {
	if baseCap <= 0 {
		return 0
	}
	return int(math.Floor(float64(baseCap) * focusMultiplier(race)))
}

// AbilityCost returns the fixed focus-point price of an ability.
func AbilityCost(ability AbilityType) int {
	switch ability {
	case AbilityEnhancedRacial:
		return 10
	case AbilitySpellPowerBoost:
		return 15
	case AbilityCombatFocus:
		return 8
	case AbilityEconomicFocus:
		return 6
	case AbilityEmergencyAction:
		return 20
	default:
		return 10
	}
}

// AbilityCheck is the structured result of a focus-ability
// precondition check.
type AbilityCheck struct {
	CanUse bool   `json:"can_use"`
	Cost   int    `json:"cost"`
	Reason string `json:"reason,omitempty"`
}

// CanUseFocusAbility reports whether the kingdom's focus balance
// covers the ability's cost.
func CanUseFocusAbility(ability AbilityType, currentPoints int) AbilityCheck {
	cost := AbilityCost(ability)
	if currentPoints >= cost {
		return AbilityCheck{CanUse: true, Cost: cost}
	}
	return AbilityCheck{
		CanUse: false,
		Cost:   cost,
		Reason: fmt.Sprintf("%s costs %d focus points, %d available", ability, cost, currentPoints),
	}
}

// FocusEffect is a timed boost produced by a focus spend. AppliedAt is
// the turn counter value the caller stamps on application.
type FocusEffect struct {
	EffectType    EffectType `json:"effect_type"`
	EnhancedValue float64    `json:"enhanced_value"`
	Duration      int        `json:"duration"`
	AppliedAt     int64      `json:"applied_at"`
}

// ApplyFocusEffect shapes an effect from its type and base value:
// multiplicative boosts for racial and spell effects, additive
// percentage bonuses for combat and economic focus. Every effect
// carries the fixed five-turn duration.
func ApplyFocusEffect(effectType EffectType, baseValue float64) FocusEffect {
	effect := FocusEffect{EffectType: effectType, Duration: FocusEffectDuration}
	switch effectType {
	case EffectRacialAbilityBoost:
		effect.EnhancedValue = baseValue * 1.5
	case EffectSpellPowerBoost:
		effect.EnhancedValue = baseValue * 1.3
	case EffectCombatFocusBonus:
		effect.EnhancedValue = baseValue * 1.20
	case EffectEconomicFocusBonus:
		effect.EnhancedValue = baseValue * 1.15
	default:
		effect.EnhancedValue = baseValue
	}
	return effect
}

// Expired reports whether the effect has run out given the current
// turn counter.
func (e FocusEffect) Expired(currentTurn int64) bool {
	return currentTurn-e.AppliedAt >= int64(e.Duration)
}
