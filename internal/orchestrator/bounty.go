// Bounty board: every rival priced and ranked by turn efficiency.
package orchestrator

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/berrik/realmwar/internal/rules"
)

// BountyListing is one priced target on the bounty board.
type BountyListing struct {
	TargetID   uuid.UUID          `json:"target_id"`
	TargetName string             `json:"target_name"`
	Reward     rules.BountyReward `json:"reward"`
	Tithing    rules.TithingBand  `json:"tithing"`
	Efficiency float64            `json:"efficiency"`
}

// BountyBoard prices every rival kingdom for the hunter and ranks the
// listings by reward per turn, best first. The strategic-safety
// assessment rides along so callers can refuse unsafe hunts.
func (o *Orchestrator) BountyBoard(hunterID uuid.UUID, guildsEngaged int) ([]BountyListing, rules.BountyEnvironment, error) {
	hunter, err := o.store.Kingdom(hunterID)
	if err != nil {
		return nil, rules.BountyEnvironment{}, fmt.Errorf("load hunter: %w", err)
	}

	all, err := o.store.Kingdoms()
	if err != nil {
		return nil, rules.BountyEnvironment{}, fmt.Errorf("list kingdoms: %w", err)
	}

	hunterBRT := rules.CalculateBRT(hunter.QuarryPct)

	var listings []BountyListing
	for _, target := range all {
		if target.ID == hunterID {
			continue
		}
		reward := rules.CalculateBountyValue(rules.BountyTarget{
			Land:       target.Resources.Land,
			Structures: target.Structures,
			BuildRatio: target.BuildRatio(),
		}, hunterBRT)

		shared := rules.CalculateSharedKillBenefit(rules.BountyTarget{
			Land:       target.Resources.Land,
			Structures: target.Structures,
			BuildRatio: target.BuildRatio(),
		}, hunterBRT)

		listings = append(listings, BountyListing{
			TargetID:   target.ID,
			TargetName: target.Name,
			Reward:     reward,
			Tithing:    rules.CalculateTithingExhaustionThreshold(target.Resources.Land),
			Efficiency: shared.CombinedEfficiency,
		})
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Efficiency > listings[j].Efficiency
	})

	return listings, rules.AssessBountyEnvironment(guildsEngaged), nil
}

// ClaimOutcome is the orchestrated result of one bounty claim.
type ClaimOutcome struct {
	Resolved bool               `json:"resolved"`
	Reason   string             `json:"reason,omitempty"`
	TurnCost int                `json:"turn_cost,omitempty"`
	Reward   rules.BountyReward `json:"reward,omitempty"`
}

// ClaimBounty executes a solo sorcery kill on the target: the hunter
// spends the full kill-turn cost and claims the priced land and
// structure base. Unsafe political climates and turn shortfalls come
// back as structured refusals, not errors.
func (o *Orchestrator) ClaimBounty(hunterID, targetID uuid.UUID, guildsEngaged int) (ClaimOutcome, error) {
	if hunterID == targetID {
		return ClaimOutcome{Reason: "a kingdom cannot claim a bounty on itself"}, nil
	}

	env := rules.AssessBountyEnvironment(guildsEngaged)
	if !env.Safe {
		return ClaimOutcome{Reason: env.Recommendation}, nil
	}

	unlock := o.lockPair(hunterID, targetID)
	defer unlock()

	hunter, err := o.store.Kingdom(hunterID)
	if err != nil {
		return ClaimOutcome{}, fmt.Errorf("load hunter: %w", err)
	}
	target, err := o.store.Kingdom(targetID)
	if err != nil {
		return ClaimOutcome{}, fmt.Errorf("load target: %w", err)
	}

	reward := rules.CalculateBountyValue(rules.BountyTarget{
		Land:       target.Resources.Land,
		Structures: target.Structures,
		BuildRatio: target.BuildRatio(),
	}, rules.CalculateBRT(hunter.QuarryPct))
	if reward.LandGained <= 0 {
		return ClaimOutcome{Reason: "target holds no land worth claiming"}, nil
	}

	if hunter.Resources.Turns < rules.SorceryKillTurns {
		return ClaimOutcome{
			Reason: fmt.Sprintf("a sorcery kill costs %d turns, %d available",
				rules.SorceryKillTurns, hunter.Resources.Turns),
		}, nil
	}

	hunter.Resources.Turns -= rules.SorceryKillTurns
	hunter.Resources.Land += reward.LandGained
	hunter.Structures += reward.StructuresGained
	target.Resources.Land -= reward.LandGained
	target.Structures -= reward.StructuresGained
	if target.Structures < 0 {
		target.Structures = 0
	}

	hunter.Resources.Clamp()
	target.Resources.Clamp()

	if err := o.store.SaveKingdom(hunter); err != nil {
		return ClaimOutcome{}, fmt.Errorf("save hunter: %w", err)
	}
	if err := o.store.SaveKingdom(target); err != nil {
		return ClaimOutcome{}, fmt.Errorf("save target: %w", err)
	}

	o.event("bounty", "%s claimed the bounty on %s: %d acres and %d structures seized",
		hunter.Name, target.Name, reward.LandGained, reward.StructuresGained)

	return ClaimOutcome{
		Resolved: true,
		TurnCost: rules.SorceryKillTurns,
		Reward:   reward,
	}, nil
}
