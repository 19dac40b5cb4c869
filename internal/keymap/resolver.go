package keymap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
)

// ErrKeyConflict is returned when one key is bound to two different actions.
var ErrKeyConflict = errors.New("key bound to more than one action")

// Resolver maps key strings to actions.
type Resolver struct {
	actions map[string]Action
	keys    map[Action][]string // in binding order
}

// NewResolver indexes bindings. The same key may appear in several bindings
// only if they share an action.
func NewResolver(bindings []Binding) (*Resolver, error) {
	r := &Resolver{
		actions: make(map[string]Action),
		keys:    make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			if prev, ok := r.actions[k]; ok && prev != b.Action {
				return nil, fmt.Errorf("%w: %q (%s, %s)", ErrKeyConflict, k, prev, b.Action)
			}
			r.actions[k] = b.Action
		}
		r.keys[b.Action] = lo.Uniq(append(r.keys[b.Action], b.Keys...))
	}
	return r, nil
}

// Default returns the resolver for Bindings.
var Default = sync.OnceValue(func() *Resolver {
	r, err := NewResolver(Bindings)
	if err != nil {
		panic(err)
	}
	return r
})

// Resolve returns the action bound to key.
func (r *Resolver) Resolve(key string) (Action, bool) {
	a, ok := r.actions[key]
	return a, ok
}

// KeysFor returns the keys bound to action, nil if none.
func (r *Resolver) KeysFor(action Action) []string {
	return r.keys[action]
}
