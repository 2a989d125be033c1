// Scum operation resolution.
package orchestrator

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/berrik/realmwar/internal/rules"
)

// Per-operation yield rates. Detected operations still land but yield
// far less and bleed twice the scum.
const (
	stealRate           = 0.10
	stealRateDetected   = 0.02
	burnRate            = 0.05
	sabotageRate        = 0.10
	detectedCasualtyMul = 2
)

// EspionageOutcome is the orchestrated result of a scum operation.
type EspionageOutcome struct {
	Resolved  bool                    `json:"resolved"`
	Reason    string                  `json:"reason,omitempty"`
	Detection float64                 `json:"detection"`
	Operation rules.ThieveryOperation `json:"operation,omitempty"`
}

// ResolveEspionage runs one scum operation from attacker against
// defender. The operation needs the minimum scum force and its turn
// cost banked; anything short comes back as a structured refusal.
func (o *Orchestrator) ResolveEspionage(attackerID, defenderID uuid.UUID, op rules.Operation) (EspionageOutcome, error) {
	if attackerID == defenderID {
		return EspionageOutcome{Reason: "a kingdom cannot run operations on itself"}, nil
	}

	unlock := o.lockPair(attackerID, defenderID)
	defer unlock()

	attacker, err := o.store.Kingdom(attackerID)
	if err != nil {
		return EspionageOutcome{}, fmt.Errorf("load attacker: %w", err)
	}
	defender, err := o.store.Kingdom(defenderID)
	if err != nil {
		return EspionageOutcome{}, fmt.Errorf("load defender: %w", err)
	}

	if attacker.ScumCount < rules.MinScumCount {
		return EspionageOutcome{
			Reason: fmt.Sprintf("operations need at least %d scum, %d trained", rules.MinScumCount, attacker.ScumCount),
		}, nil
	}

	turnCost := rules.OperationTurnCost(op)
	if attacker.Resources.Turns < int64(turnCost) {
		return EspionageOutcome{
			Reason: fmt.Sprintf("%s costs %d turns, %d available", op, turnCost, attacker.Resources.Turns),
		}, nil
	}

	detection := rules.CalculateDetectionRate(attacker.ScumCount, attacker.Race, defender.ScumCount, defender.Race)
	detected := o.src.Float() < detection

	casualties := rules.CalculateScumCasualties(attacker.ScumCount, attacker.ScumTier, op, attacker.Race)
	if detected {
		casualties *= detectedCasualtyMul
		if casualties > attacker.ScumCount {
			casualties = attacker.ScumCount
		}
	}

	result := rules.ThieveryOperation{
		Type:       op,
		TurnCost:   turnCost,
		Casualties: casualties,
		Detected:   detected,
	}

	switch op {
	case rules.OpScout:
		result.Intel = fmt.Sprintf("%s holds %d acres, %d structures, %d troops, %d scum",
			defender.Name, defender.Resources.Land, defender.Structures,
			rules.TotalUnits(defender.Army), defender.ScumCount)
	case rules.OpSteal:
		rate := stealRate
		if detected {
			rate = stealRateDetected
		}
		result.GoldStolen = int64(math.Floor(float64(defender.Resources.Gold) * rate))
		attacker.Resources.Gold += result.GoldStolen
		defender.Resources.Gold -= result.GoldStolen
	case rules.OpSabotage:
		if !detected {
			result.CasualtiesInflicted = int64(math.Floor(float64(attacker.ScumCount) * sabotageRate))
			applyArmyLosses(defender.Army, result.CasualtiesInflicted, rules.DefensePower(defender.Army))
		}
	case rules.OpBurn:
		if !detected {
			result.StructuresBurned = int64(math.Floor(float64(defender.Structures) * burnRate))
			defender.Structures -= result.StructuresBurned
		}
	}

	attacker.Resources.Turns -= int64(turnCost)
	attacker.ScumCount -= casualties
	if attacker.ScumCount < 0 {
		attacker.ScumCount = 0
	}

	attacker.Resources.Clamp()
	defender.Resources.Clamp()

	if err := o.store.SaveKingdom(attacker); err != nil {
		return EspionageOutcome{}, fmt.Errorf("save attacker: %w", err)
	}
	if err := o.store.SaveKingdom(defender); err != nil {
		return EspionageOutcome{}, fmt.Errorf("save defender: %w", err)
	}

	o.event("espionage", "%s ran a %s operation against %s (detected=%t)",
		attacker.Name, op, defender.Name, detected)

	return EspionageOutcome{Resolved: true, Detection: detection, Operation: result}, nil
}
