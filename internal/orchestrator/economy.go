// Construction, summoning, focus spends, and alignment selection.
package orchestrator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/berrik/realmwar/internal/rules"
)

// Base gold price of one structure before age multipliers.
const baseStructureCost = 50

// Emergency actions convert focus into banked turns on the spot.
const emergencyActionTurns = 2

// BuildOutcome is the orchestrated result of a construction order.
type BuildOutcome struct {
	Resolved   bool                  `json:"resolved"`
	Reason     string                `json:"reason,omitempty"`
	BRT        int                   `json:"brt,omitempty"`
	Turns      int                   `json:"turns,omitempty"`
	GoldCost   int64                 `json:"gold_cost,omitempty"`
	Efficiency rules.BuildEfficiency `json:"efficiency,omitempty"`
}

// Build resolves a construction order: prices it from the kingdom's
// quarry allocation and the current age, charges turns and gold, and
// adds the structures.
func (o *Orchestrator) Build(id uuid.UUID, count int64) (BuildOutcome, error) {
	if count <= 0 {
		return BuildOutcome{Reason: "nothing to build"}, nil
	}

	l := o.lockFor(id)
	l.Lock()
	defer l.Unlock()

	k, err := o.store.Kingdom(id)
	if err != nil {
		return BuildOutcome{}, fmt.Errorf("load kingdom: %w", err)
	}

	age := o.Age()
	effects := rules.CalculateAgeEffects(age.CurrentAge)

	brt := rules.CalculateBRT(k.QuarryPct)
	turns := rules.CalculateBuildTurns(count, brt)
	goldCost := rules.CalculateAgeBasedCost(count*baseStructureCost, effects.BuildingCost)

	if k.Resources.Turns < int64(turns) {
		return BuildOutcome{
			Reason: fmt.Sprintf("building %d structures takes %d turns, %d available", count, turns, k.Resources.Turns),
		}, nil
	}
	if k.Resources.Gold < goldCost {
		return BuildOutcome{
			Reason: fmt.Sprintf("building %d structures costs %d gold, %d available", count, goldCost, k.Resources.Gold),
		}, nil
	}

	k.Resources.Turns -= int64(turns)
	k.Resources.Gold -= goldCost
	k.Structures += count
	k.Resources.Clamp()

	if err := o.store.SaveKingdom(k); err != nil {
		return BuildOutcome{}, fmt.Errorf("save kingdom: %w", err)
	}

	o.event("economy", "%s built %d structures over %d turns", k.Name, count, turns)

	return BuildOutcome{
		Resolved:   true,
		BRT:        brt,
		Turns:      turns,
		GoldCost:   goldCost,
		Efficiency: rules.GetBuildEfficiencyWarning(count, brt),
	}, nil
}

// SummonOutcome is the orchestrated result of a troop summon.
type SummonOutcome struct {
	Resolved bool   `json:"resolved"`
	Reason   string `json:"reason,omitempty"`
	Troops   int64  `json:"troops,omitempty"`
	GoldCost int64  `json:"gold_cost,omitempty"`
}

// SummonTroops sizes a summon from the kingdom's networth and adds the
// troops. The racial summon trigger applies during its active age, and
// training cost scales with the age.
func (o *Orchestrator) SummonTroops(id uuid.UUID, cashMultiplier float64, guildhallBonus int64) (SummonOutcome, error) {
	l := o.lockFor(id)
	l.Lock()
	defer l.Unlock()

	k, err := o.store.Kingdom(id)
	if err != nil {
		return SummonOutcome{}, fmt.Errorf("load kingdom: %w", err)
	}

	age := o.Age()
	effects := rules.CalculateAgeEffects(age.CurrentAge)
	racial := rules.CalculateRacialModifiers(k.Race, age.CurrentAge)

	troops := rules.CalculateCombatSummonTroops(k.Race, k.Networth(), cashMultiplier, guildhallBonus)
	troops = int64(float64(troops) * racial.Summon)
	if troops <= 0 {
		return SummonOutcome{Reason: "networth too low to summon troops"}, nil
	}

	goldCost := rules.CalculateAgeBasedCost(troops*10, effects.TrainingCost)
	if k.Resources.Gold < goldCost {
		return SummonOutcome{
			Reason: fmt.Sprintf("summoning %d troops costs %d gold, %d available", troops, goldCost, k.Resources.Gold),
		}, nil
	}
	if k.Resources.Turns < 1 {
		return SummonOutcome{Reason: "summoning takes a turn, none available"}, nil
	}

	k.Resources.Gold -= goldCost
	k.Resources.Turns--
	k.Army["summoned"] += troops
	k.Resources.Clamp()

	if err := o.store.SaveKingdom(k); err != nil {
		return SummonOutcome{}, fmt.Errorf("save kingdom: %w", err)
	}

	o.event("economy", "%s summoned %d troops", k.Name, troops)

	return SummonOutcome{Resolved: true, Troops: troops, GoldCost: goldCost}, nil
}

// FocusOutcome is the orchestrated result of a focus-ability spend.
type FocusOutcome struct {
	Resolved bool               `json:"resolved"`
	Reason   string             `json:"reason,omitempty"`
	Cost     int                `json:"cost,omitempty"`
	Effect   *rules.FocusEffect `json:"effect,omitempty"`
	// TurnsGranted is set for emergency actions, which convert focus
	// straight into turns instead of a timed effect.
	TurnsGranted int64 `json:"turns_granted,omitempty"`
}

// abilityEffect maps an ability to the effect it produces and the base
// value the effect enhances.
func abilityEffect(ability rules.AbilityType) (rules.EffectType, float64) {
	switch ability {
	case rules.AbilitySpellPowerBoost:
		return rules.EffectSpellPowerBoost, 1.0
	case rules.AbilityCombatFocus:
		return rules.EffectCombatFocusBonus, 1.0
	case rules.AbilityEconomicFocus:
		return rules.EffectEconomicFocusBonus, 1.0
	default:
		return rules.EffectRacialAbilityBoost, 1.0
	}
}

// UseFocusAbility spends focus points on an ability. Timed abilities
// stamp an active effect with the current turn; emergency actions bank
// turns immediately.
func (o *Orchestrator) UseFocusAbility(id uuid.UUID, ability rules.AbilityType) (FocusOutcome, error) {
	l := o.lockFor(id)
	l.Lock()
	defer l.Unlock()

	k, err := o.store.Kingdom(id)
	if err != nil {
		return FocusOutcome{}, fmt.Errorf("load kingdom: %w", err)
	}

	check := rules.CanUseFocusAbility(ability, k.Focus.Points)
	if !check.CanUse {
		return FocusOutcome{Reason: check.Reason, Cost: check.Cost}, nil
	}

	k.Focus.Points -= check.Cost

	out := FocusOutcome{Resolved: true, Cost: check.Cost}
	if ability == rules.AbilityEmergencyAction {
		granted := int64(emergencyActionTurns)
		k.Resources.Turns += granted
		if k.Resources.Turns > MaxBankedTurns {
			k.Resources.Turns = MaxBankedTurns
		}
		out.TurnsGranted = granted
	} else {
		effectType, base := abilityEffect(ability)
		effect := rules.ApplyFocusEffect(effectType, base)
		o.mu.Lock()
		effect.AppliedAt = o.turn
		o.mu.Unlock()
		k.Focus.ActiveEffects = append(k.Focus.ActiveEffects, effect)
		out.Effect = &effect
	}

	if err := o.store.SaveKingdom(k); err != nil {
		return FocusOutcome{}, fmt.Errorf("save kingdom: %w", err)
	}

	o.event("faith", "%s spent %d focus on %s", k.Name, check.Cost, ability)
	return out, nil
}

// AlignmentOutcome is the orchestrated result of an alignment
// selection.
type AlignmentOutcome struct {
	Resolved bool   `json:"resolved"`
	Reason   string `json:"reason,omitempty"`
}

// ChooseAlignment sets a kingdom's faith alignment if its race is on
// the alignment's allowlist. Accumulated faith points carry over.
func (o *Orchestrator) ChooseAlignment(id uuid.UUID, alignment rules.Alignment) (AlignmentOutcome, error) {
	l := o.lockFor(id)
	l.Lock()
	defer l.Unlock()

	k, err := o.store.Kingdom(id)
	if err != nil {
		return AlignmentOutcome{}, fmt.Errorf("load kingdom: %w", err)
	}

	check := rules.CanUseFaithAlignment(k.Race, alignment)
	if !check.CanUse {
		return AlignmentOutcome{Reason: check.Reason}, nil
	}

	k.Faith.Alignment = alignment
	if err := o.store.SaveKingdom(k); err != nil {
		return AlignmentOutcome{}, fmt.Errorf("save kingdom: %w", err)
	}

	o.event("faith", "%s now follows the %s alignment", k.Name, alignment)
	return AlignmentOutcome{Resolved: true}, nil
}
