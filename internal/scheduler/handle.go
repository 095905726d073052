package scheduler

// Handle controls one scheduled job.
type Handle struct {
	engine *Engine
	job    *job
}

func (h *Handle) Name() string {
	return h.job.name
}

// Cancel stops future firings. A run already in progress finishes; no new
// run starts once Cancel returns. Cancel is safe to call from inside the
// job itself and more than once.
func (h *Handle) Cancel() {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	h.job.cancelled = true
}

func (h *Handle) Cancelled() bool {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	return h.job.cancelled
}
