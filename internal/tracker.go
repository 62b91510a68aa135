package internal

import "sync"

// currentScopes records, per goroutine, the scope whose render is
// running. A render executes on whichever goroutine drains the loop,
// so the registry is keyed by goroutine id rather than held on a
// runtime.
var currentScopes sync.Map // gid -> *Scope

type Tracker struct{}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) RunWithScope(scope *Scope, fn func()) {
	gid := getGID()

	prev, hadPrev := currentScopes.Load(gid)
	currentScopes.Store(gid, scope)
	defer func() {
		if hadPrev {
			currentScopes.Store(gid, prev)
		} else {
			currentScopes.Delete(gid)
		}
	}()

	fn()
}

func (t *Tracker) CurrentScope() *Scope {
	return currentScope()
}

func currentScope() *Scope {
	if s, ok := currentScopes.Load(getGID()); ok {
		return s.(*Scope)
	}

	return nil
}
