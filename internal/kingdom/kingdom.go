// Package kingdom defines the canonical kingdom state shape consumed
// by the rules engines and mutated by the orchestrator. This is the
// single authoritative state layout; display layers and stores adapt
// to it, never the other way around.
package kingdom

import (
	"time"

	"github.com/google/uuid"

	"github.com/berrik/realmwar/internal/rules"
)

// Resources are the four core kingdom pools. All values are clamped
// to zero or above on every mutation.
type Resources struct {
	Gold       int64 `json:"gold" db:"gold"`
	Population int64 `json:"population" db:"population"`
	Land       int64 `json:"land" db:"land"`
	Turns      int64 `json:"turns" db:"turns"`
}

// Clamp forces every pool to be non-negative.
func (r *Resources) Clamp() {
	if r.Gold < 0 {
		r.Gold = 0
	}
	if r.Population < 0 {
		r.Population = 0
	}
	if r.Land < 0 {
		r.Land = 0
	}
	if r.Turns < 0 {
		r.Turns = 0
	}
}

// FaithState tracks a kingdom's alignment and accumulated faith. The
// faith level is always derived from points, never stored.
type FaithState struct {
	Alignment   rules.Alignment `json:"alignment"`
	FaithPoints int64           `json:"faith_points"`
}

// Level returns the derived faith level.
func (f FaithState) Level() int {
	return rules.CalculateFaithLevel(f.FaithPoints)
}

// FocusState tracks the regenerating ability-point economy.
type FocusState struct {
	Points        int                 `json:"points"`
	MaxPoints     int                 `json:"max_points"`
	RegenRate     int                 `json:"regen_rate"`
	ActiveEffects []rules.FocusEffect `json:"active_effects,omitempty"`
}

// ExpireEffects drops effects that have run out at the given turn
// counter.
func (f *FocusState) ExpireEffects(currentTurn int64) {
	if len(f.ActiveEffects) == 0 {
		return
	}
	kept := f.ActiveEffects[:0]
	for _, e := range f.ActiveEffects {
		if !e.Expired(currentTurn) {
			kept = append(kept, e)
		}
	}
	f.ActiveEffects = kept
}

// Kingdom is the complete state of one kingdom.
type Kingdom struct {
	ID   uuid.UUID  `json:"id"`
	Name string     `json:"name"`
	Race rules.Race `json:"race"`

	Resources  Resources  `json:"resources"`
	Army       rules.Army `json:"army"`
	Forts      int        `json:"forts"`
	Structures int64      `json:"structures"`
	QuarryPct  float64    `json:"quarry_pct"`

	ScumCount int64          `json:"scum_count"`
	ScumTier  rules.ScumTier `json:"scum_tier"`

	Faith FaithState `json:"faith"`
	Focus FocusState `json:"focus"`

	// AmbushActive negates most incoming offense for the next
	// resolved attack against this kingdom.
	AmbushActive bool `json:"ambush_active"`

	CreatedAt time.Time `json:"created_at"`
}

// Copy returns a deep copy of the kingdom.
func (k *Kingdom) Copy() *Kingdom {
	out := *k
	out.Army = k.Army.Copy()
	if len(k.Focus.ActiveEffects) > 0 {
		effects := make([]rules.FocusEffect, len(k.Focus.ActiveEffects))
		copy(effects, k.Focus.ActiveEffects)
		out.Focus.ActiveEffects = effects
	}
	return &out
}

// Networth is the race-weighted valuation used to size troop summons
// and rank bounty targets: land carries most of the weight, gold and
// standing army the rest.
func (k *Kingdom) Networth() int64 {
	nw := k.Resources.Land*25 + k.Resources.Gold/100 + rules.TotalUnits(k.Army)*2
	if nw < 0 {
		return 0
	}
	return nw
}

// OffensePower totals the army's attack weights with age and racial
// modifiers applied.
func (k *Kingdom) OffensePower(effects rules.AgeEffects, racial rules.RacialModifiers) float64 {
	return rules.OffensePower(k.Army) * effects.Offense * racial.Combat
}

// DefensePower totals the army's defense weights, fort line included,
// with the age modifier applied.
func (k *Kingdom) DefensePower(effects rules.AgeEffects) float64 {
	base := rules.DefensePower(k.Army) + rules.CalculateFortDefense(k.Race, k.Forts)
	return base * effects.Defense
}

// BuildRatio is structures per 100 land, the shape bounty valuation
// ranks targets by.
func (k *Kingdom) BuildRatio() float64 {
	if k.Resources.Land <= 0 {
		return 0
	}
	return float64(k.Structures) / float64(k.Resources.Land) * 100
}
