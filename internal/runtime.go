package internal

type Runtime struct {
	loop    *Loop
	tracker *Tracker
}

func NewRuntime() *Runtime {
	return &Runtime{
		loop:    NewLoop(),
		tracker: NewTracker(),
	}
}

func (r *Runtime) Loop() *Loop {
	return r.loop
}

func (r *Runtime) CurrentScope() *Scope {
	return r.tracker.CurrentScope()
}

// CurrentLoop returns the loop of the scope being rendered, falling
// back to the calling goroutine's runtime when no render is running.
func CurrentLoop() *Loop {
	if s := currentScope(); s != nil {
		return s.runtime.loop
	}

	return GetRuntime().Loop()
}
