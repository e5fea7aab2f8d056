// Package directory resolves user ids to display names for alert
// presentation.
package directory

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
)

// Static is a config-seeded user directory. Lookups never block, so it
// ignores the context beyond the method signature contract.
type Static struct {
	names map[string]string
}

// FromConfig builds a directory from the directory.users map
// (user id to display name).
func FromConfig(v *viper.Viper) *Static {
	return &Static{names: v.GetStringMapString("directory.users")}
}

// NewStatic builds a directory from an explicit map. The map is not
// copied; callers must not mutate it afterwards.
func NewStatic(names map[string]string) *Static {
	if names == nil {
		names = map[string]string{}
	}
	return &Static{names: names}
}

// GetUserProfile returns the display name for a user id. Unknown ids
// are an error so callers can decide their own fallback.
func (s *Static) GetUserProfile(_ context.Context, userID string) (string, error) {
	name, ok := s.names[userID]
	if !ok {
		return "", fmt.Errorf("unknown user %q", userID)
	}
	return name, nil
}
