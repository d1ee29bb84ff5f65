package config

import (
	"fmt"

	"github.com/kilianp07/waterlog/core/instantiate"
)

// TypeConfig names a registered type and the flat member map it is built
// from. Values are kept as strings; the instantiation engine converts them.
type TypeConfig struct {
	Type    string            `json:"type"`
	Members map[string]string `json:"members"`
}

// Spec converts the entry for the instantiation engine.
func (t TypeConfig) Spec() instantiate.Spec {
	return instantiate.Spec{Type: t.Type, Members: t.Members}
}

// Validate checks that a type is named.
func (t TypeConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("type is required")
	}
	return nil
}
