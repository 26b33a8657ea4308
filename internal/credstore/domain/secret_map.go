package domain

import (
	"encoding/json"
	"slices"
)

// SecretMap maps secret names to opaque JSON values. It only exists in memory for the
// duration of one read-modify-write cycle.
type SecretMap map[string]json.RawMessage

// Names returns the secret names in lexical order.
func (m SecretMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
