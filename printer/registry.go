package printer

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry is the process-wide cache of connection handlers, one per
// physical endpoint. Opening a serial line or socket is expensive and
// the device must see a single coherent session, so handlers are reused
// across requests until config drift or shutdown.
//
// The request loop is single-threaded, but the registry is guarded by a
// mutex so it stays correct if ever shared: at most one live transport
// exists per resource key either way.
type Registry struct {
	mu       sync.Mutex
	handlers map[string]*Handler
	settle   time.Duration
	log      *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		handlers: make(map[string]*Handler),
		settle:   defaultSettleDelay,
		log:      log,
	}
}

// SetSettleDelay overrides the reconnect settle delay for handlers
// created from now on.
func (r *Registry) SetSettleDelay(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settle = d
}

// Get returns the connected handler for the endpoint the config
// describes. A cached handler with a drifted config (same endpoint,
// different settings) is closed and replaced.
func (r *Registry) Get(config Config) (*Handler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := config.ResourceKey()
	if h, ok := r.handlers[key]; ok {
		if h.config != config {
			r.log.Info("connection config drift, replacing handler",
				zap.String("printer", key))
			h.Close()
			delete(r.handlers, key)
		} else {
			if err := h.ConnectIfNeeded(); err != nil {
				return nil, err
			}
			return h, nil
		}
	}

	h := NewHandler(config, r.log)
	h.settleDelay = r.settle
	if err := h.ConnectIfNeeded(); err != nil {
		return nil, err
	}
	r.handlers[key] = h
	return h, nil
}

// CloseAll closes every cached handler, swallowing individual close
// failures, and empties the cache. Called once at process shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, h := range r.handlers {
		h.Close()
		delete(r.handlers, key)
	}
}

// Len returns the number of cached handlers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}

// PrintJob executes every task of a job in order against one handler.
// A transport fault aborts the job, force-closes the handler (so the
// next request reconnects cleanly) and is surfaced to the caller. There
// is no partial-success reporting: a job either fully completes or
// reports one fault.
func (r *Registry) PrintJob(config Config, profile Profile, tasks []Task) error {
	h, err := r.Get(config)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if err := h.ProcessTask(task, profile); err != nil {
			h.Close()
			return err
		}
	}
	return nil
}

// CheckStatus queries the endpoint's real-time status. When the first
// query degrades with a fault, the handler is reconnected once and the
// query repeated; the degraded record stands if that fails too.
func (r *Registry) CheckStatus(config Config) (StatusData, error) {
	h, err := r.Get(config)
	if err != nil {
		return StatusData{}, err
	}

	status := h.QueryStatus()
	if status.Degraded() {
		if err := h.Reconnect(); err == nil {
			status = h.QueryStatus()
		}
	}
	return status, nil
}
