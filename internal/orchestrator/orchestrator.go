// Package orchestrator applies pure engine results to persisted
// kingdom state. It owns everything the engines refuse to: the clock,
// the store, per-kingdom serialization, and the war ledger. Engines
// stay pure; this package is where their outputs become mutations.
package orchestrator

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/berrik/realmwar/internal/entropy"
	"github.com/berrik/realmwar/internal/kingdom"
	"github.com/berrik/realmwar/internal/rules"
)

// Turn economy constants.
const (
	// MaxBankedTurns caps how many unspent turns a kingdom can hold.
	MaxBankedTurns = 400

	// Base focus regeneration and cap before racial multipliers.
	baseFocusRegen = 2
	baseFocusCap   = 50

	// Base gold income per acre per turn before age and racial
	// multipliers.
	baseIncomePerLand = 2
)

// Event is a notable occurrence in the game, persisted for the event
// feed.
type Event struct {
	Turn        int64  `json:"turn" db:"turn"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
}

// Store is the persistence boundary the orchestrator writes through.
type Store interface {
	Kingdom(id uuid.UUID) (*kingdom.Kingdom, error)
	Kingdoms() ([]*kingdom.Kingdom, error)
	SaveKingdom(k *kingdom.Kingdom) error
	AppendEvent(e Event) error
}

// Orchestrator serializes actions per kingdom and applies engine
// results to the store.
type Orchestrator struct {
	store     Store
	src       entropy.Source
	gameStart time.Time
	now       func() time.Time

	mu      sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
	turn    int64
	attacks map[warKey]int
	wars    map[warKey]bool
}

type warKey struct {
	attacker uuid.UUID
	target   uuid.UUID
}

// New creates an orchestrator over the given store and entropy
// source.
func New(store Store, src entropy.Source, gameStart time.Time) *Orchestrator {
	return &Orchestrator{
		store:     store,
		src:       src,
		gameStart: gameStart,
		now:       time.Now,
		locks:     make(map[uuid.UUID]*sync.Mutex),
		attacks:   make(map[warKey]int),
		wars:      make(map[warKey]bool),
	}
}

// SetClock overrides the wall clock. Test hook.
func (o *Orchestrator) SetClock(now func() time.Time) {
	o.now = now
}

// Turn returns the current global turn counter.
func (o *Orchestrator) Turn() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.turn
}

// Age returns the derived age status for the running game.
func (o *Orchestrator) Age() rules.AgeStatus {
	return rules.CalculateCurrentAge(o.gameStart, o.now())
}

// GameStart returns the fixed game start time.
func (o *Orchestrator) GameStart() time.Time {
	return o.gameStart
}

// lockFor returns the mutex serializing actions for one kingdom.
func (o *Orchestrator) lockFor(id uuid.UUID) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.locks[id]
	if !ok {
		l = &sync.Mutex{}
		o.locks[id] = l
	}
	return l
}

// lockPair acquires both kingdoms' locks in a fixed order so two
// opposed actions can never deadlock. The returned func releases both.
func (o *Orchestrator) lockPair(a, b uuid.UUID) func() {
	first, second := a, b
	if b.String() < a.String() {
		first, second = b, a
	}
	fl, sl := o.lockFor(first), o.lockFor(second)
	fl.Lock()
	sl.Lock()
	return func() {
		sl.Unlock()
		fl.Unlock()
	}
}

// DeclareWar records a declared war from attacker on target and
// resets the prior-attack counter.
func (o *Orchestrator) DeclareWar(attacker, target uuid.UUID) error {
	o.mu.Lock()
	key := warKey{attacker: attacker, target: target}
	o.wars[key] = true
	o.attacks[key] = 0
	turn := o.turn
	o.mu.Unlock()

	return o.store.AppendEvent(Event{
		Turn:        turn,
		Description: "a war has been declared",
		Category:    "combat",
	})
}

// priorAttacks returns the undeclared attack count from attacker on
// target, and whether a war stands between them.
func (o *Orchestrator) priorAttacks(attacker, target uuid.UUID) (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	key := warKey{attacker: attacker, target: target}
	return o.attacks[key], o.wars[key]
}

func (o *Orchestrator) recordAttack(attacker, target uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attacks[warKey{attacker: attacker, target: target}]++
}

// Tick advances the global turn: every kingdom banks a turn, earns
// income, regenerates focus, accrues faith, and sheds expired focus
// effects.
func (o *Orchestrator) Tick() error {
	o.mu.Lock()
	o.turn++
	turn := o.turn
	o.mu.Unlock()

	kingdoms, err := o.store.Kingdoms()
	if err != nil {
		return fmt.Errorf("list kingdoms: %w", err)
	}

	age := o.Age()
	effects := rules.CalculateAgeEffects(age.CurrentAge)

	for _, snapshot := range kingdoms {
		unlock := o.lockFor(snapshot.ID)
		unlock.Lock()

		k, err := o.store.Kingdom(snapshot.ID)
		if err != nil {
			unlock.Unlock()
			return fmt.Errorf("load kingdom %s: %w", snapshot.ID, err)
		}

		if k.Resources.Turns < MaxBankedTurns {
			k.Resources.Turns++
		}

		racial := rules.CalculateRacialModifiers(k.Race, age.CurrentAge)
		income := rules.CalculateAgeBasedIncome(k.Resources.Land*baseIncomePerLand, effects.Income*racial.Income)
		if bonus, ok := rules.GetFaithBonuses(k.Faith.Alignment, k.Faith.Level())["income"]; ok {
			income += rules.CalculateAgeBasedIncome(income, bonus)
		}
		k.Resources.Gold += income

		regen := rules.CalculateFocusGeneration(k.Race, baseFocusRegen)
		cap := rules.CalculateMaxFocusPoints(k.Race, baseFocusCap)
		k.Focus.MaxPoints = cap
		k.Focus.RegenRate = regen
		k.Focus.Points += regen
		if k.Focus.Points > cap {
			k.Focus.Points = cap
		}
		k.Focus.ExpireEffects(turn)

		if k.Faith.Alignment != rules.AlignmentNeutral {
			k.Faith.FaithPoints++
		}

		k.Resources.Clamp()
		if err := o.store.SaveKingdom(k); err != nil {
			unlock.Unlock()
			return fmt.Errorf("save kingdom %s: %w", k.ID, err)
		}
		unlock.Unlock()
	}
	return nil
}

// event appends an event row, tagging it with the current turn.
func (o *Orchestrator) event(category, format string, args ...any) {
	o.mu.Lock()
	turn := o.turn
	o.mu.Unlock()
	// Event persistence failures never fail the action that produced
	// them; the action already committed.
	_ = o.store.AppendEvent(Event{
		Turn:        turn,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	})
}
