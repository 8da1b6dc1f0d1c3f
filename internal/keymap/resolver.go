package keymap

import (
	"slices"
	"strings"
)

// Resolver maps key strings to actions for one set of contexts.
type Resolver struct {
	byKey    map[string]Action
	byAction map[Action][]string
}

// NewResolver indexes bindings. A key bound twice resolves to the later
// binding.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		byKey:    make(map[string]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			r.byKey[key] = b.Action
			if !slices.Contains(r.byAction[b.Action], key) {
				r.byAction[b.Action] = append(r.byAction[b.Action], key)
			}
		}
	}
	return r
}

// ForContexts builds a resolver from the bindings of the given contexts.
func ForContexts(contexts ...string) *Resolver {
	var bindings []Binding
	for _, c := range contexts {
		bindings = append(bindings, ByContext(c)...)
	}
	return NewResolver(bindings)
}

// Resolve returns the action bound to key, or "" if none.
func (r *Resolver) Resolve(key string) Action {
	return r.byKey[key]
}

// KeysFor returns the keys bound to an action in binding order.
func (r *Resolver) KeysFor(action Action) []string {
	return slices.Clone(r.byAction[action])
}

// Hint returns the first key bound to action as shown in status lines,
// or "" when the action is unbound.
func (r *Resolver) Hint(action Action) string {
	keys := r.byAction[action]
	if len(keys) == 0 {
		return ""
	}
	return DisplayKey(keys[0])
}

// DisplayKey renders a key string for humans.
func DisplayKey(key string) string {
	switch key {
	case " ":
		return "space"
	case "pgup":
		return "PgUp"
	case "pgdown":
		return "PgDn"
	}
	return strings.ReplaceAll(key, "ctrl+", "^")
}
