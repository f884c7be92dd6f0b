package powerups

import (
	"errors"
	"fmt"

	"github.com/cbodonnell/breedadventure/pkg/game/constants"
	"github.com/cbodonnell/breedadventure/pkg/game/types"
)

var (
	// ErrUnsupported is returned for kinds that have no effect in this mode.
	ErrUnsupported = errors.New("power-up not supported in this mode")
	ErrNotActive   = errors.New("power-ups require an active game")
	ErrEmpty       = errors.New("no power-ups of this kind left")
	// ErrTimerNotRunning is returned by extra time outside a running countdown.
	ErrTimerNotRunning = errors.New("timer is not running")
	ErrNoChallenge     = errors.New("no current challenge")
)

// TimeExtender is the part of the countdown extra time needs.
type TimeExtender interface {
	IsRunning() bool
	AddTime(seconds int) bool
}

// RewardPolicy picks which kind a streak reward grants.
type RewardPolicy interface {
	Next(inventory types.Inventory) types.PowerUpKind
}

// RoundRobinPolicy alternates between the effective kinds.
type RoundRobinPolicy struct {
	next int
}

func (p *RoundRobinPolicy) Next(_ types.Inventory) types.PowerUpKind {
	kinds := EffectiveKinds()
	kind := kinds[p.next%len(kinds)]
	p.next++
	return kind
}

// EffectiveKinds returns the kinds that do something in this mode.
func EffectiveKinds() []types.PowerUpKind {
	return []types.PowerUpKind{types.PowerUpExtraTime, types.PowerUpSkip}
}

// IsEffective is total over the closed set of kinds.
func IsEffective(kind types.PowerUpKind) bool {
	switch kind {
	case types.PowerUpExtraTime, types.PowerUpSkip:
		return true
	case types.PowerUpHint, types.PowerUpFiftyFifty, types.PowerUpTimeFreeze:
		return false
	default:
		return false
	}
}

// StartingInventory returns the default seed inventory.
func StartingInventory() types.Inventory {
	inv := types.Inventory{}
	for _, kind := range types.AllPowerUpKinds() {
		inv[kind] = 0
	}
	inv[types.PowerUpExtraTime] = constants.StartingExtraTime
	inv[types.PowerUpSkip] = constants.StartingSkip
	return inv
}

// Economy owns the power-up inventory of one session.
type Economy struct {
	inventory    types.Inventory
	starting     types.Inventory
	extraSeconds int
	rewardStreak int
	policy       RewardPolicy
}

type NewEconomyOptions struct {
	Starting         types.Inventory
	ExtraTimeSeconds int
	RewardStreak     int
	Policy           RewardPolicy
}

func NewEconomy(opts NewEconomyOptions) *Economy {
	if opts.Starting == nil {
		opts.Starting = StartingInventory()
	}
	if opts.ExtraTimeSeconds <= 0 {
		opts.ExtraTimeSeconds = constants.ExtraTimeSeconds
	}
	if opts.RewardStreak <= 0 {
		opts.RewardStreak = constants.PowerUpRewardStreak
	}
	if opts.Policy == nil {
		opts.Policy = &RoundRobinPolicy{}
	}
	return &Economy{
		inventory:    opts.Starting.Copy(),
		starting:     opts.Starting.Copy(),
		extraSeconds: opts.ExtraTimeSeconds,
		rewardStreak: opts.RewardStreak,
		policy:       opts.Policy,
	}
}

// Inventory returns a copy of the current counts.
func (e *Economy) Inventory() types.Inventory {
	return e.inventory.Copy()
}

func (e *Economy) ExtraTimeSeconds() int {
	return e.extraSeconds
}

func (e *Economy) CanUse(kind types.PowerUpKind, active bool) bool {
	return e.check(kind, active) == nil
}

func (e *Economy) check(kind types.PowerUpKind, active bool) error {
	if !IsEffective(kind) {
		return ErrUnsupported
	}
	if !active {
		return ErrNotActive
	}
	if e.inventory[kind] <= 0 {
		return ErrEmpty
	}
	return nil
}

// ApplyExtraTime spends one extra time and extends the countdown.
func (e *Economy) ApplyExtraTime(timer TimeExtender) error {
	if err := e.check(types.PowerUpExtraTime, true); err != nil {
		return err
	}
	if !timer.IsRunning() {
		return ErrTimerNotRunning
	}
	if !timer.AddTime(e.extraSeconds) {
		return fmt.Errorf("failed to extend timer: %w", ErrTimerNotRunning)
	}
	e.inventory[types.PowerUpExtraTime]--
	return nil
}

// ApplySkip spends one skip. The caller marks the label used and moves on.
func (e *Economy) ApplySkip(hasChallenge bool) error {
	if err := e.check(types.PowerUpSkip, true); err != nil {
		return err
	}
	if !hasChallenge {
		return ErrNoChallenge
	}
	e.inventory[types.PowerUpSkip]--
	return nil
}

// Reward grants one power-up on every rewardStreak-th consecutive correct answer.
func (e *Economy) Reward(consecutiveCorrect int) (types.PowerUpKind, bool) {
	if consecutiveCorrect <= 0 || consecutiveCorrect%e.rewardStreak != 0 {
		return "", false
	}
	kind := e.policy.Next(e.inventory.Copy())
	e.inventory[kind]++
	return kind, true
}

func (e *Economy) Reset() {
	e.inventory = e.starting.Copy()
}
