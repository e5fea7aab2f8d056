// Package rooms tracks which rooms are monitored. Readings for
// unmonitored rooms never reach the alert pipeline.
package rooms

import (
	"sync"

	"github.com/spf13/viper"
)

// Registry holds the monitored-room set. Rooms are monitored by
// default; only opt-outs are recorded.
type Registry struct {
	mu          sync.RWMutex
	unmonitored map[string]struct{}
}

// NewRegistry creates a registry with the given unmonitored room ids.
func NewRegistry(unmonitored []string) *Registry {
	m := make(map[string]struct{}, len(unmonitored))
	for _, id := range unmonitored {
		if id != "" {
			m[id] = struct{}{}
		}
	}
	return &Registry{unmonitored: m}
}

// FromConfig builds a registry seeded from the rooms.unmonitored list.
func FromConfig(v *viper.Viper) *Registry {
	return NewRegistry(v.GetStringSlice("rooms.unmonitored"))
}

// IsRoomMonitored reports whether alerts should be evaluated for the
// room. Unknown rooms are monitored.
func (r *Registry) IsRoomMonitored(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, off := r.unmonitored[roomID]
	return !off
}

// SetMonitored toggles monitoring for a room at runtime.
func (r *Registry) SetMonitored(roomID string, monitored bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if monitored {
		delete(r.unmonitored, roomID)
	} else {
		r.unmonitored[roomID] = struct{}{}
	}
}
