// Espionage engine — detection, casualties, and defensive sizing for
// scum (thievery) operations between two kingdoms.
package rules

import "math"

// Operation enumerates the scum operation types.
type Operation uint8

const (
	OpScout Operation = iota
	OpSteal
	OpSabotage
	OpBurn
)

// String returns the operation key.
func (o Operation) String() string {
	switch o {
	case OpScout:
		return "scout"
	case OpSteal:
		return "steal"
	case OpSabotage:
		return "sabotage"
	case OpBurn:
		return "burn"
	default:
		return "scout"
	}
}

// ParseOperation maps an operation key to its enum value. Unknown keys
// resolve to a scout, the lowest-risk operation.
func ParseOperation(key string) Operation {
	switch key {
	case "steal":
		return OpSteal
	case "sabotage":
		return OpSabotage
	case "burn":
		return OpBurn
	default:
		return OpScout
	}
}

// ScumTier distinguishes green recruits from elite operatives.
type ScumTier uint8

const (
	ScumGreen ScumTier = iota
	ScumElite
)

// String returns the tier name.
func (t ScumTier) String() string {
	if t == ScumElite {
		return "elite"
	}
	return "green"
}

// ThreatLevel classifies how exposed a kingdom is to scum operations.
type ThreatLevel uint8

const (
	ThreatLow ThreatLevel = iota
	ThreatMedium
	ThreatHigh
)

// String returns the threat level name.
func (t ThreatLevel) String() string {
	switch t {
	case ThreatMedium:
		return "medium"
	case ThreatHigh:
		return "high"
	default:
		return "low"
	}
}

// Espionage constants.
const (
	// MinScumCount is the global floor below which a scum force cannot
	// mount or detect operations.
	MinScumCount = 100

	// Detection can never be certain.
	maxDetectionRate = 0.95

	// Layered-defense size threshold. Below it the optimal split is
	// 50/50 military/scum; at or above it the optimum shifts to 40/60.
	// This is a deliberate balance decision, not an artifact.
	layeredDefenseLandThreshold = 20000
)

// scumEffectiveness is the per-race multiplier applied to raw scum
// counts when scoring detection.
func scumEffectiveness(race Race) float64 {
	switch race {
	case RaceCentaur:
		return 1.15
	case RaceVampire:
		return 1.10
	case RaceSidhe:
		return 1.05
	case RaceGoblin:
		return 0.90
	default:
		return 1.0
	}
}

// scumSurvival is the per-race casualty multiplier. Below 1.0 fewer
// scum die; above 1.0 more do.
func scumSurvival(race Race) float64 {
	switch race {
	case RaceVampire:
		return 0.8
	case RaceUndead:
		return 0.9
	case RaceGoblin:
		return 1.2
	default:
		return 1.0
	}
}

// operationRisk scales casualty rates by how dangerous the operation is.
func operationRisk(op Operation) float64 {
	switch op {
	case OpScout:
		return 0.5
	case OpSteal:
		return 1.0
	case OpSabotage:
		return 1.2
	case OpBurn:
		return 1.5
	default:
		return 1.0
	}
}

// CalculateDetectionRate returns the probability that the defender
// detects an incoming operation. Zero when the attacker's force is
// below the minimum threshold; otherwise the race-scaled count ratio
// clamped to [0, 0.95]. Equal counts at equal effectiveness give
// exactly 0.5 by symmetry.
func CalculateDetectionRate(attackerScum int64, attackerRace Race, defenderScum int64, defenderRace Race) float64 {
	if attackerScum < MinScumCount {
		return 0
	}
	if defenderScum <= 0 {
		return 0
	}
	attEff := float64(attackerScum) * scumEffectiveness(attackerRace)
	defEff := float64(defenderScum) * scumEffectiveness(defenderRace)
	rate := defEff / (attEff + defEff)
	if rate < 0 {
		return 0
	}
	if rate > maxDetectionRate {
		return maxDetectionRate
	}
	return rate
}

// CalculateOptimalScumCount inverts the detection formula: the force a
// defender needs to detect the given enemy at the target probability.
// A zero or out-of-range target means the documented 0.85 default.
// The answer is floored at the global minimum.
func CalculateOptimalScumCount(enemyScum int64, enemyRace, myRace Race, targetDetection float64) int64 {
	if targetDetection <= 0 || targetDetection >= 1 {
		targetDetection = 0.85
	}
	if targetDetection > maxDetectionRate {
		targetDetection = maxDetectionRate
	}
	enemyEff := float64(enemyScum) * scumEffectiveness(enemyRace)
	if enemyEff <= 0 {
		return MinScumCount
	}
	// d = myEff / (enemyEff + myEff)  =>  myEff = d*enemyEff / (1-d)
	needEff := targetDetection * enemyEff / (1 - targetDetection)
	count := int64(math.Ceil(needEff / scumEffectiveness(myRace)))
	if count < MinScumCount {
		return MinScumCount
	}
	return count
}

// Casualty base-rate ranges per scum tier. Elite ranges are always
// lower; the base rate is the midpoint of the range.
const (
	greenDeathRateMin = 0.02
	greenDeathRateMax = 0.08
	eliteDeathRateMin = 0.01
	eliteDeathRateMax = 0.04
)

// CalculateScumCasualties computes expected deaths for an operation:
// the tier midpoint rate scaled by operation risk and racial survival,
// floored, never exceeding the committed force.
func CalculateScumCasualties(scumCount int64, tier ScumTier, op Operation, race Race) int64 {
	if scumCount <= 0 {
		return 0
	}
	base := (greenDeathRateMin + greenDeathRateMax) / 2
	if tier == ScumElite {
		base = (eliteDeathRateMin + eliteDeathRateMax) / 2
	}
	deaths := int64(math.Floor(float64(scumCount) * base * operationRisk(op) * scumSurvival(race)))
	if deaths > scumCount {
		deaths = scumCount
	}
	return deaths
}

// ProtectionLevels recommends defensive scum counts for a land size
// and threat tier.
type ProtectionLevels struct {
	Recommended int64 `json:"recommended"`
	Minimum     int64 `json:"minimum"`
	Optimal     int64 `json:"optimal"`
}

// CalculateProtectionLevels sizes a defensive scum force: land times
// the threat-tier ratio, discounted by racial effectiveness. The
// minimum is the greater of the global floor and 10% of land; optimal
// adds a 20% buffer on the recommendation.
func CalculateProtectionLevels(land int64, threat ThreatLevel, race Race) ProtectionLevels {
	if land < 0 {
		land = 0
	}
	ratio := 0.1
	switch threat {
	case ThreatMedium:
		ratio = 0.4
	case ThreatHigh:
		ratio = 0.8
	}

	recommended := int64(math.Floor(float64(land) * ratio / scumEffectiveness(race)))
	minimum := int64(MinScumCount)
	if tenth := int64(math.Floor(float64(land) * 0.1)); tenth > minimum {
		minimum = tenth
	}
	if recommended < minimum {
		recommended = minimum
	}
	return ProtectionLevels{
		Recommended: recommended,
		Minimum:     minimum,
		Optimal:     int64(math.Floor(float64(recommended) * 1.2)),
	}
}

// LayeredDefense describes the military/scum split of a defense and
// how effective it is.
type LayeredDefense struct {
	MilitaryPct   float64 `json:"military_pct"`
	ScumPct       float64 `json:"scum_pct"`
	Effectiveness float64 `json:"effectiveness"`
}

// CalculateLayeredDefense scores a combined military and scum defense.
// Effectiveness peaks at a 50/50 split for kingdoms under the 20,000
// land threshold and at 40/60 military-heavy above it.
func CalculateLayeredDefense(land, militaryCount, scumCount int64) LayeredDefense {
	total := militaryCount + scumCount
	if total <= 0 {
		return LayeredDefense{}
	}
	militaryPct := float64(militaryCount) / float64(total)
	scumPct := float64(scumCount) / float64(total)

	idealMilitary := 0.5
	if land >= layeredDefenseLandThreshold {
		idealMilitary = 0.4
	}

	// Linear falloff from the ideal split; a perfect split scores 1.0.
	deviation := math.Abs(militaryPct - idealMilitary)
	effectiveness := 1.0 - deviation*2
	if effectiveness < 0 {
		effectiveness = 0
	}

	return LayeredDefense{
		MilitaryPct:   militaryPct,
		ScumPct:       scumPct,
		Effectiveness: effectiveness,
	}
}

// ThieveryOperation is a resolved scum operation: what it cost, who
// died, and what came back. The orchestrator composes it from the
// calculation functions above.
type ThieveryOperation struct {
	Type       Operation `json:"type"`
	TurnCost   int       `json:"turn_cost"`
	Casualties int64     `json:"casualties"`
	Detected   bool      `json:"detected"`
	// GoldStolen is set for steal operations.
	GoldStolen int64 `json:"gold_stolen,omitempty"`
	// CasualtiesInflicted is set for sabotage operations.
	CasualtiesInflicted int64 `json:"casualties_inflicted,omitempty"`
	// StructuresBurned is set for burn operations.
	StructuresBurned int64 `json:"structures_burned,omitempty"`
	// Intel is the narration for scout operations.
	Intel string `json:"intel,omitempty"`
}

// OperationTurnCost prices a scum operation in turns.
func OperationTurnCost(op Operation) int {
	switch op {
	case OpScout:
		return 1
	case OpSteal:
		return 2
	case OpSabotage:
		return 3
	case OpBurn:
		return 3
	default:
		return 1
	}
}
