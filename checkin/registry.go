package checkin

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks live device sessions by id. Sessions are in-memory only:
// a device that navigates away simply abandons its session (any in-flight
// write still completes at the store).
type Registry struct {
	mu     sync.Mutex
	flows  map[string]*Flow
	svc    Services
	prefix string
	strict bool
}

// NewRegistry constructs a Registry producing flows over the given services.
func NewRegistry(svc Services, prefix string, strict bool) *Registry {
	return &Registry{
		flows:  make(map[string]*Flow),
		svc:    svc,
		prefix: prefix,
		strict: strict,
	}
}

// CreateCheckin starts a new check-in flow and returns its session id.
func (r *Registry) CreateCheckin() (string, *Flow) {
	f := NewCheckinFlow(r.svc, r.prefix)
	return r.add(f), f
}

// CreateEvent starts a new attendance-scanning flow for the given event.
func (r *Registry) CreateEvent(eventID int64) (string, *Flow) {
	f := NewEventFlow(r.svc, r.prefix, eventID, r.strict)
	return r.add(f), f
}

func (r *Registry) add(f *Flow) string {
	id := uuid.New().String()
	r.mu.Lock()
	r.flows[id] = f
	r.mu.Unlock()
	return id
}

// Get returns the flow for a session id.
func (r *Registry) Get(id string) (*Flow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[id]
	return f, ok
}

// Remove discards a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.flows, id)
	r.mu.Unlock()
}
