package bookingclient

import (
	"context"
	"errors"
	"slices"
	"sync"
)

type SlotLister interface {
	Slots(ctx context.Context, scopeID, date string) (Slots, error)
	Book(ctx context.Context, scopeID string, req BookRequest) (Created, error)
}

type pickerState struct {
	generation uint64
	date       string
	slots      []string
}

// SlotPicker keeps the latest slot list per scope. Loads may overlap; only the most recently
// started load for a scope is allowed to replace its list.
type SlotPicker struct {
	client SlotLister
	mu     sync.Mutex
	scopes map[string]*pickerState
}

func NewSlotPicker(client SlotLister) *SlotPicker {
	return &SlotPicker{
		client: client,
		scopes: make(map[string]*pickerState),
	}
}

// Load fetches the slots of date and stores them unless a newer Load for the same scope was
// started meanwhile, in which case ErrSuperseded is returned and the stored list is untouched.
func (p *SlotPicker) Load(ctx context.Context, scopeID, date string) ([]string, error) {
	p.mu.Lock()
	state, ok := p.scopes[scopeID]
	if !ok {
		state = &pickerState{}
		p.scopes[scopeID] = state
	}

	state.generation++
	generation := state.generation
	p.mu.Unlock()

	res, err := p.client.Slots(ctx, scopeID, date)

	p.mu.Lock()
	defer p.mu.Unlock()

	if state.generation != generation {
		return nil, ErrSuperseded
	}

	if err != nil {
		return nil, err
	}

	state.date = date
	state.slots = slices.Clone(res.Slots)

	return slices.Clone(state.slots), nil
}

// Current returns the stored list for a scope and the date it belongs to.
func (p *SlotPicker) Current(scopeID string) (string, []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, ok := p.scopes[scopeID]
	if !ok {
		return "", nil
	}

	return state.date, slices.Clone(state.slots)
}

// Book books req.Date/req.Time. When someone else took the slot first the list for that date is
// reloaded so the caller can offer the remaining times; the SlotTaken error is still returned.
func (p *SlotPicker) Book(ctx context.Context, scopeID string, req BookRequest) (Created, error) {
	created, err := p.client.Book(ctx, scopeID, req)
	if !errors.Is(err, ErrSlotTaken) {
		return created, err
	}

	if _, loadErr := p.Load(ctx, scopeID, req.Date); loadErr != nil && !errors.Is(loadErr, ErrSuperseded) {
		return created, errors.Join(err, loadErr)
	}

	return created, err
}
