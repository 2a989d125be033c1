// Attack resolution: engine results applied to two kingdoms under a
// pair lock.
package orchestrator

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/berrik/realmwar/internal/rules"
)

// AttackOutcome is the orchestrated result of one attack request.
// Refusals carry Resolved=false and a reason; resolved attacks carry
// the engine result and the applied turn cost.
type AttackOutcome struct {
	Resolved bool               `json:"resolved"`
	Reason   string             `json:"reason,omitempty"`
	Warning  string             `json:"warning,omitempty"`
	TurnCost int                `json:"turn_cost,omitempty"`
	Result   rules.CombatResult `json:"result,omitempty"`
}

// ResolveAttack resolves one attack by the attacker's full standing
// army. Precondition failures (bad attack type, war declaration
// required, insufficient turns) come back as structured refusals, not
// errors; errors are reserved for store failures.
func (o *Orchestrator) ResolveAttack(attackerID, defenderID uuid.UUID, attackType rules.AttackType) (AttackOutcome, error) {
	if attackerID == defenderID {
		return AttackOutcome{Reason: "a kingdom cannot attack itself"}, nil
	}

	unlock := o.lockPair(attackerID, defenderID)
	defer unlock()

	attacker, err := o.store.Kingdom(attackerID)
	if err != nil {
		return AttackOutcome{}, fmt.Errorf("load attacker: %w", err)
	}
	defender, err := o.store.Kingdom(defenderID)
	if err != nil {
		return AttackOutcome{}, fmt.Errorf("load defender: %w", err)
	}

	validation := rules.ValidateAttackType(attackType, rules.HasPeasants(attacker.Army))
	if !validation.Valid {
		return AttackOutcome{Reason: validation.Warning}, nil
	}

	prior, atWar := o.priorAttacks(attackerID, defenderID)
	if rules.RequiresWarDeclaration(prior) && !atWar {
		return AttackOutcome{
			Reason: fmt.Sprintf("%d prior attacks on this target; declare war to continue", prior),
		}, nil
	}

	age := o.Age()
	effects := rules.CalculateAgeEffects(age.CurrentAge)
	racial := rules.CalculateRacialModifiers(attacker.Race, age.CurrentAge)

	offense := attacker.OffensePower(effects, racial)
	defense := defender.DefensePower(effects)

	turnCost := rules.CalculateTurnCost(offense, defense)
	if attacker.Resources.Turns < int64(turnCost) {
		return AttackOutcome{
			Reason: fmt.Sprintf("attack costs %d turns, %d available", turnCost, attacker.Resources.Turns),
		}, nil
	}

	result := rules.CalculateCombatResult(rules.CombatRequest{
		AttackType:      attackType,
		AttackerOffense: offense,
		DefenderDefense: defense,
		DefenderForts:   defender.Forts,
		DefenderAmbush:  defender.AmbushActive,
		TargetTotalLand: defender.Resources.Land,
	}, o.src)

	attacker.Resources.Turns -= int64(turnCost)
	applyArmyLosses(attacker.Army, result.AttackerLosses, offense)
	applyArmyLosses(defender.Army, result.DefenderLosses, defense)

	attacker.Resources.Land += result.LandGained
	attacker.Resources.Gold += result.GoldLooted
	defender.Resources.Land -= result.LandGained
	defender.Resources.Gold -= result.GoldLooted
	defender.Structures -= result.StructuresDestroyed
	if defender.Structures < 0 {
		defender.Structures = 0
	}

	// An ambush stance is spent by the attack it negates.
	defender.AmbushActive = false

	attacker.Resources.Clamp()
	defender.Resources.Clamp()

	if err := o.store.SaveKingdom(attacker); err != nil {
		return AttackOutcome{}, fmt.Errorf("save attacker: %w", err)
	}
	if err := o.store.SaveKingdom(defender); err != nil {
		return AttackOutcome{}, fmt.Errorf("save defender: %w", err)
	}

	o.recordAttack(attackerID, defenderID)
	o.event("combat", "%s attacked %s: %s, %d acres taken",
		attacker.Name, defender.Name, result.Tier, result.LandGained)

	return AttackOutcome{
		Resolved: true,
		Warning:  validation.Warning,
		TurnCost: turnCost,
		Result:   result,
	}, nil
}

// SetAmbush arms or disarms a kingdom's ambush stance.
func (o *Orchestrator) SetAmbush(id uuid.UUID, active bool) error {
	l := o.lockFor(id)
	l.Lock()
	defer l.Unlock()

	k, err := o.store.Kingdom(id)
	if err != nil {
		return fmt.Errorf("load kingdom: %w", err)
	}
	k.AmbushActive = active
	return o.store.SaveKingdom(k)
}

// applyArmyLosses distributes power-unit losses proportionally across
// the army's unit counts. Power totals and unit counts live on
// different scales; the loss fraction bridges them.
func applyArmyLosses(army rules.Army, losses int64, totalPower float64) {
	if losses <= 0 || totalPower <= 0 {
		return
	}
	fraction := float64(losses) / totalPower
	if fraction > 1 {
		fraction = 1
	}
	for unit, count := range army {
		if count <= 0 {
			continue
		}
		dead := int64(math.Floor(float64(count) * fraction))
		army[unit] = count - dead
	}
}
