// Combat resolution engine — resolves one attack into a result tier,
// casualties, and spoils. Offense/defense totals, fort counts, and the
// ambush flag arrive from the caller; the single random draw (land
// gain sampling) comes from an injected entropy source.
package rules

import (
	"math"

	"github.com/berrik/realmwar/internal/entropy"
)

// AttackType enumerates the ways a kingdom can commit an attack.
type AttackType uint8

const (
	FullAttack AttackType = iota
	ControlledStrike
	GuerillaRaid
	MobAssault
	AmbushAttack
)

// String returns the attack type key.
func (t AttackType) String() string {
	switch t {
	case FullAttack:
		return "full_attack"
	case ControlledStrike:
		return "controlled_strike"
	case GuerillaRaid:
		return "guerilla_raid"
	case MobAssault:
		return "mob_assault"
	case AmbushAttack:
		return "ambush"
	default:
		return "full_attack"
	}
}

// ParseAttackType maps an attack-type key to its enum value. Unknown
// keys resolve to a full attack.
func ParseAttackType(key string) AttackType {
	switch key {
	case "controlled_strike":
		return ControlledStrike
	case "guerilla_raid":
		return GuerillaRaid
	case "mob_assault":
		return MobAssault
	case "ambush":
		return AmbushAttack
	default:
		return FullAttack
	}
}

// ResultTier is the narrated outcome band of a resolved attack.
type ResultTier uint8

const (
	TierFailed ResultTier = iota
	TierGoodFight
	TierWithEase
)

// String returns the tier name used in narration.
func (t ResultTier) String() string {
	switch t {
	case TierWithEase:
		return "with_ease"
	case TierGoodFight:
		return "good_fight"
	default:
		return "failed"
	}
}

// Combat constants. Tier boundaries and loss/spoil rates are hard
// game-balance numbers; the land-gain bands are sampled uniformly.
const (
	baseTurnCost     = 4
	easyTargetCost   = 6
	hardTargetCost   = 8
	easyTargetRatio  = 2.0
	hardTargetRatio  = 0.5
	withEaseRatio    = 2.0
	goodFightRatio   = 1.2
	ambushNegation   = 0.95 // fraction of attacker offense negated
	goldPerLand      = 1000
	structurePerLand = 0.10

	withEaseLandMin  = 0.070
	withEaseLandMax  = 0.0735
	goodFightLandMin = 0.0679
	goodFightLandMax = 0.070

	// Default land-gain percentage for a controlled strike (CS1).
	ControlledStrikeDefaultPct = 0.0735

	// Attacks on the same target past this count require a declared war.
	warDeclarationThreshold = 3
)

// CalculateTurnCost prices an attack in turns from the power ratio.
// Overwhelming a far weaker target costs 6 rather than the base 4 to
// discourage farming, and striking a far stronger target costs 8.
// Ratios of exactly 0.5 or 2.0 both price at the base cost.
func CalculateTurnCost(attackerPower, defenderPower float64) int {
	if defenderPower <= 0 {
		return easyTargetCost
	}
	if attackerPower <= 0 {
		return hardTargetCost
	}
	ratio := attackerPower / defenderPower
	switch {
	case ratio > easyTargetRatio:
		return easyTargetCost
	case ratio < hardTargetRatio:
		return hardTargetCost
	default:
		return baseTurnCost
	}
}

// RequiresWarDeclaration reports whether another attack on the same
// target is allowed without a declared war.
func RequiresWarDeclaration(priorAttackCount int) bool {
	return priorAttackCount >= warDeclarationThreshold
}

// AttackValidation is the structured outcome of validating an attack
// type against the committed army.
type AttackValidation struct {
	Valid   bool   `json:"valid"`
	Warning string `json:"warning,omitempty"`
}

// ValidateAttackType checks an attack type against the committed
// army. Mob assaults are invalid without peasants; guerilla raids and
// mob assaults carry an advisory warning even when valid.
func ValidateAttackType(attackType AttackType, hasPeasants bool) AttackValidation {
	switch attackType {
	case MobAssault:
		if !hasPeasants {
			return AttackValidation{Valid: false, Warning: "mob assault requires peasants in the committed army"}
		}
		return AttackValidation{Valid: true, Warning: "mob assault places committed peasants at risk"}
	case GuerillaRaid:
		return AttackValidation{Valid: true, Warning: "guerilla raids trade spoils for deniability"}
	default:
		return AttackValidation{Valid: true}
	}
}

// CombatRequest is one attack to resolve.
type CombatRequest struct {
	AttackType       AttackType `json:"attack_type"`
	AttackerOffense  float64    `json:"attacker_offense"`
	DefenderDefense  float64    `json:"defender_defense"`
	DefenderForts    int        `json:"defender_forts"`
	DefenderAmbush   bool       `json:"defender_ambush"`
	TargetTotalLand  int64      `json:"target_total_land"`
	// ControlledStrikePct overrides the sampled land-gain percentage
	// for controlled strikes. Zero means the CS1 default.
	ControlledStrikePct float64 `json:"controlled_strike_pct,omitempty"`
}

// CombatResult is the resolved outcome the orchestrator applies.
type CombatResult struct {
	Tier                ResultTier `json:"tier"`
	Success             bool       `json:"success"`
	Ratio               float64    `json:"ratio"`
	LandGained          int64      `json:"land_gained"`
	GoldLooted          int64      `json:"gold_looted"`
	StructuresDestroyed int64      `json:"structures_destroyed"`
	AttackerLosses      int64      `json:"attacker_losses"`
	DefenderLosses      int64      `json:"defender_losses"`
}

// CalculateCombatResult resolves one attack. An active defender
// ambush negates 95% of incoming offense before the ratio is taken.
// The tier thresholds are inclusive at the lower bound: a ratio of
// exactly 2.0 resolves with ease and exactly 1.2 is a good fight.
func CalculateCombatResult(req CombatRequest, src entropy.Source) CombatResult {
	offense := req.AttackerOffense
	if offense < 0 {
		offense = 0
	}
	if req.DefenderAmbush {
		offense *= 1 - ambushNegation
	}

	var ratio float64
	if req.DefenderDefense <= 0 {
		// Undefended target resolves as an overwhelming win.
		ratio = withEaseRatio
		if offense <= 0 {
			ratio = 0
		}
	} else {
		ratio = offense / req.DefenderDefense
	}

	res := CombatResult{Ratio: ratio}

	var attackerLossPct, defenderLossPct, landMin, landMax float64
	switch {
	case ratio >= withEaseRatio:
		res.Tier = TierWithEase
		res.Success = true
		attackerLossPct, defenderLossPct = 0.05, 0.20
		landMin, landMax = withEaseLandMin, withEaseLandMax
	case ratio >= goodFightRatio:
		res.Tier = TierGoodFight
		res.Success = true
		attackerLossPct, defenderLossPct = 0.15, 0.15
		landMin, landMax = goodFightLandMin, goodFightLandMax
	default:
		res.Tier = TierFailed
		attackerLossPct, defenderLossPct = 0.25, 0.05
	}

	res.AttackerLosses = int64(math.Floor(req.AttackerOffense * attackerLossPct))
	res.DefenderLosses = int64(math.Floor(req.DefenderDefense * defenderLossPct))

	if res.Success && req.TargetTotalLand > 0 {
		var pct float64
		if req.AttackType == ControlledStrike {
			pct = req.ControlledStrikePct
			if pct <= 0 {
				pct = ControlledStrikeDefaultPct
			}
		} else {
			pct = landMin + src.Float()*(landMax-landMin)
		}
		res.LandGained = int64(math.Floor(float64(req.TargetTotalLand) * pct))
		res.GoldLooted = res.LandGained * goldPerLand
		res.StructuresDestroyed = int64(math.Floor(float64(res.LandGained) * structurePerLand))
	}

	return res
}

// summonRate is the per-race combat summon rate applied to networth.
func summonRate(race Race) float64 {
	switch race {
	case RaceDroben:
		return 0.0304
	case RaceVampire:
		return 0.0290
	case RaceElemental:
		return 0.0284
	case RaceGoblin, RaceDwarven:
		return 0.0275
	case RaceUndead:
		return 0.0270
	case RaceSidhe:
		return 0.0265
	case RaceCentaur:
		return 0.0260
	case RaceFae:
		return 0.0255
	default:
		return 0.0250
	}
}

// CalculateCombatSummonTroops sizes a troop summon from networth. The
// cash multiplier and guildhall bonus default to 1 and 0.
func CalculateCombatSummonTroops(race Race, networth int64, cashMultiplier float64, guildhallBonus int64) int64 {
	if cashMultiplier <= 0 {
		cashMultiplier = 1
	}
	base := float64(networth)*cashMultiplier + float64(guildhallBonus)
	if base <= 0 {
		return 0
	}
	return int64(math.Floor(base * summonRate(race)))
}

// CalculateOptimalArmyReduction returns the recommended post-attack
// army size. An army that won with ease was overcommitted and shrinks
// to 75%; good fights and failures keep the force intact.
func CalculateOptimalArmyReduction(armySize int64, tier ResultTier) int64 {
	if armySize <= 0 {
		return 0
	}
	if tier == TierWithEase {
		return int64(math.Floor(float64(armySize) * 0.75))
	}
	return armySize
}

// fortValue is the per-race defensive value of a single fort.
func fortValue(race Race) float64 {
	switch race {
	case RaceDwarven:
		return 300
	case RaceGoblin:
		return 285
	case RaceUndead:
		return 275
	case RaceDroben:
		return 270
	case RaceVampire:
		return 265
	case RaceElemental:
		return 260
	case RaceCentaur:
		return 255
	default:
		return 250
	}
}

// CalculateFortDefense totals the defensive contribution of forts.
func CalculateFortDefense(race Race, fortCount int) float64 {
	if fortCount <= 0 {
		return 0
	}
	return float64(fortCount) * fortValue(race)
}

// PlateWarrior is one participant in a pass-the-plate chain attack.
type PlateWarrior struct {
	Name         string `json:"name"`
	LandCapacity int64  `json:"land_capacity"`
}

// PlateResult is the outcome of a pass-the-plate simulation.
type PlateResult struct {
	LandGained int64   `json:"land_gained"`
	Turns      int     `json:"turns"`
	Efficiency float64 `json:"efficiency"`
}

// CalculatePassThePlateEfficiency simulates sequential attackers each
// claiming up to their capacity from a shared depleting land pool.
// The pool state is local to the call. Each warrior that actually
// claims land spends one turn; the chain stops when the pool empties
// or the warriors run out.
func CalculatePassThePlateEfficiency(warriors []PlateWarrior, totalLand int64) PlateResult {
	var res PlateResult
	pool := totalLand
	for _, w := range warriors {
		if pool <= 0 {
			break
		}
		claim := w.LandCapacity
		if claim <= 0 {
			continue
		}
		if claim > pool {
			claim = pool
		}
		pool -= claim
		res.LandGained += claim
		res.Turns++
	}
	if res.Turns > 0 {
		res.Efficiency = float64(res.LandGained) / float64(res.Turns)
	}
	return res
}
