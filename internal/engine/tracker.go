package engine

import (
	"sync"

	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/shopspring/decimal"
)

// Op names the kind of change a Tracker committed.
type Op string

const (
	OpTransaction Op = "transaction"
	OpConnect     Op = "connect"
	OpGoals       Op = "goals"
	OpCategory    Op = "category"
	OpBonus       Op = "bonus"
	OpReset       Op = "reset"
)

// Change is handed to observers after every commit.
type Change struct {
	Op     Op
	Before model.UserFinancialState
	After  model.UserFinancialState
	// Tx is set for OpTransaction only.
	Tx *model.Transaction
}

// Observer is called with the tracker lock held, in commit order. It must not
// call back into the Tracker.
type Observer func(Change)

// Tracker is the single owner of one UserFinancialState. Every mutation goes
// through the pure reducer and is committed under one lock, so readers never
// see a partial update no matter how many goroutines drive it.
type Tracker struct {
	mu        sync.Mutex
	state     model.UserFinancialState
	observers []Observer
}

// NewTracker seeds a tracker with a restored copy of seed.
func NewTracker(seed model.UserFinancialState) *Tracker {
	return &Tracker{state: Restore(seed)}
}

// Observe registers fn for future commits.
func (t *Tracker) Observe(fn Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// State returns a deep copy of the current state.
func (t *Tracker) State() model.UserFinancialState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Apply runs ApplyTransaction against the owned state.
func (t *Tracker) Apply(tx model.Transaction) (model.UserFinancialState, error) {
	return t.commit(OpTransaction, &tx, func(s model.UserFinancialState) (model.UserFinancialState, error) {
		return ApplyTransaction(s, tx)
	})
}

// Connect runs ConnectBankAccount against the owned state.
func (t *Tracker) Connect(balance decimal.Decimal) model.UserFinancialState {
	s, _ := t.commit(OpConnect, nil, func(s model.UserFinancialState) (model.UserFinancialState, error) {
		return ConnectBankAccount(s, balance), nil
	})
	return s
}

// SetGoals replaces the goal thresholds.
func (t *Tracker) SetGoals(goals model.Goals) model.UserFinancialState {
	s, _ := t.commit(OpGoals, nil, func(s model.UserFinancialState) (model.UserFinancialState, error) {
		return SetGoals(s, goals), nil
	})
	return s
}

// AddCategory starts tracking a new spending bucket.
func (t *Tracker) AddCategory(name string) (model.UserFinancialState, error) {
	return t.commit(OpCategory, nil, func(s model.UserFinancialState) (model.UserFinancialState, error) {
		return AddCategory(s, name)
	})
}

// Bonus applies an out-of-band reward.
func (t *Tracker) Bonus(b Bonus) (model.UserFinancialState, error) {
	return t.commit(OpBonus, nil, func(s model.UserFinancialState) (model.UserFinancialState, error) {
		return ApplyBonus(s, b)
	})
}

// Reset clears every financial field. Settings live outside the state and
// are unaffected.
func (t *Tracker) Reset() model.UserFinancialState {
	s, _ := t.commit(OpReset, nil, func(model.UserFinancialState) (model.UserFinancialState, error) {
		return ResetState(), nil
	})
	return s
}

func (t *Tracker) commit(op Op, tx *model.Transaction, fn func(model.UserFinancialState) (model.UserFinancialState, error)) (model.UserFinancialState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	before := t.state
	after, err := fn(before)
	if err != nil {
		return before.Clone(), err
	}
	t.state = after

	if len(t.observers) > 0 {
		ch := Change{Op: op, Before: before.Clone(), After: after.Clone(), Tx: tx}
		for _, obs := range t.observers {
			obs(ch)
		}
	}
	return after.Clone(), nil
}
