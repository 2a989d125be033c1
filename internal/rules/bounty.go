// Bounty engine — values a kill opportunity in land, structure, and
// turn terms and screens strategic safety. Rankings are the caller's
// concern; this engine only prices a single target.
package rules

import "math"

// Bounty constants.
const (
	// sorceryKillRate is the fraction of the target's land the killer
	// claims.
	sorceryKillRate = 0.30

	// structureBonus is the markup on base structure gains.
	structureBonus = 1.2

	// Shared kills: the sorcerer burns the target down to 5% and the
	// warrior lands the finishing blow for a flat 15% land bonus.
	sharedKillRemnant = 0.05
	finishingBlowRate = 0.15

	// SorceryKillTurns is what a solo sorcery kill costs the hunter;
	// FinishingBlowTurns is the warrior's share of a split kill.
	SorceryKillTurns   = 12
	FinishingBlowTurns = 4

	// Tithing exhaustion window in acres.
	tithingWindowLow  = 11000
	tithingWindowHigh = 15000

	// Guild engagement level at which the bounty environment is safe.
	safeGuildCount  = 2
	majorGuildCount = 3
)

// BountyTarget describes a kill opportunity.
type BountyTarget struct {
	Land       int64   `json:"land"`
	Structures int64   `json:"structures"`
	BuildRatio float64 `json:"build_ratio"` // structures per 100 land
}

// BountyReward is what a completed bounty yields.
type BountyReward struct {
	LandGained       int64   `json:"land_gained"`
	StructuresGained int64   `json:"structures_gained"`
	TurnSavings      float64 `json:"turn_savings"`
	TotalValue       float64 `json:"total_value"`
}

// buildRateTurnSavings maps the hunter's build rate to the turns a
// captured structure base saves them.
func buildRateTurnSavings(hunterBuildRate int) float64 {
	switch {
	case hunterBuildRate <= 8:
		return 12
	case hunterBuildRate <= 16:
		return 8
	case hunterBuildRate <= 24:
		return 5
	default:
		return 3
	}
}

// CalculateBountyValue prices a kill: 30% of the target's land, the
// build-ratio structure base with a 20% bonus (capped at what the
// target actually has), and turn savings from the hunter's build rate
// plus half a turn per structure.
func CalculateBountyValue(target BountyTarget, hunterBuildRate int) BountyReward {
	if target.Land <= 0 {
		return BountyReward{}
	}

	landGained := int64(math.Floor(float64(target.Land) * sorceryKillRate))

	structuresGained := int64(math.Floor(float64(target.Land) * target.BuildRatio / 100 * structureBonus))
	if structuresGained < 0 {
		structuresGained = 0
	}
	if target.Structures >= 0 && structuresGained > target.Structures {
		structuresGained = target.Structures
	}

	turnSavings := buildRateTurnSavings(hunterBuildRate) + float64(structuresGained)*0.5

	return BountyReward{
		LandGained:       landGained,
		StructuresGained: structuresGained,
		TurnSavings:      turnSavings,
		TotalValue:       float64(landGained) + float64(structuresGained) + turnSavings,
	}
}

// SharedKillBenefit is the reward split of a two-party kill.
type SharedKillBenefit struct {
	SorcererReward     BountyReward `json:"sorcerer_reward"`
	WarriorLand        int64        `json:"warrior_land"`
	CombinedTurns      int          `json:"combined_turns"`
	CombinedEfficiency float64      `json:"combined_efficiency"`
}

// CalculateSharedKillBenefit splits a kill between the sorcerer, who
// reduces the target to 5% and claims the bulk, and the warrior, who
// finishes it for a flat 15% land bonus. Efficiency is combined value
// over combined turns.
func CalculateSharedKillBenefit(target BountyTarget, hunterBuildRate int) SharedKillBenefit {
	burned := BountyTarget{
		Land:       int64(math.Floor(float64(target.Land) * (1 - sharedKillRemnant))),
		Structures: target.Structures,
		BuildRatio: target.BuildRatio,
	}
	sorcerer := CalculateBountyValue(burned, hunterBuildRate)
	warriorLand := int64(math.Floor(float64(target.Land) * finishingBlowRate))

	turns := SorceryKillTurns + FinishingBlowTurns
	combined := sorcerer.TotalValue + float64(warriorLand)

	return SharedKillBenefit{
		SorcererReward:     sorcerer,
		WarriorLand:        warriorLand,
		CombinedTurns:      turns,
		CombinedEfficiency: combined / float64(turns),
	}
}

// TithingBand classifies a target against the tithing exhaustion
// window.
type TithingBand uint8

const (
	TithingBelowWindow TithingBand = iota
	TithingInWindow
	TithingAboveWindow
)

// String returns the band name.
func (b TithingBand) String() string {
	switch b {
	case TithingInWindow:
		return "in_window"
	case TithingAboveWindow:
		return "above_window"
	default:
		return "below_window"
	}
}

// CalculateTithingExhaustionThreshold classifies a target's land
// against the 11,000–15,000 acre exhaustion window. Targets inside
// the window have tithed out and make the richest bounties.
func CalculateTithingExhaustionThreshold(targetLand int64) TithingBand {
	switch {
	case targetLand < tithingWindowLow:
		return TithingBelowWindow
	case targetLand <= tithingWindowHigh:
		return TithingInWindow
	default:
		return TithingAboveWindow
	}
}

// BountyEnvironment is the strategic-safety screen for bounty hunting.
type BountyEnvironment struct {
	Safe           bool   `json:"safe"`
	GuildsEngaged  int    `json:"guilds_engaged"`
	Recommendation string `json:"recommendation"`
}

// AssessBountyEnvironment judges whether the political climate allows
// bounty hunting: safe once two of the three major guilds are engaged
// elsewhere.
func AssessBountyEnvironment(guildsEngaged int) BountyEnvironment {
	if guildsEngaged < 0 {
		guildsEngaged = 0
	}
	if guildsEngaged > majorGuildCount {
		guildsEngaged = majorGuildCount
	}
	env := BountyEnvironment{GuildsEngaged: guildsEngaged}
	if guildsEngaged >= safeGuildCount {
		env.Safe = true
		env.Recommendation = "major guilds are engaged; bounty hunting carries low reprisal risk"
	} else {
		env.Recommendation = "too few guilds engaged; expect reprisals on bounty claims"
	}
	return env
}
