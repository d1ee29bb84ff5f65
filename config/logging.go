package config

import (
	"errors"
	"fmt"
)

// LogConfig describes one log and the components attached to it.
type LogConfig struct {
	// Name identifies the log; a name is generated when empty.
	Name       string       `json:"name"`
	Disabled   bool         `json:"disabled"`
	DefaultTag string       `json:"default_tag"`
	Formatter  *TypeConfig  `json:"formatter"`
	Filters    []TypeConfig `json:"filters"`
	Listeners  []TypeConfig `json:"listeners"`
	Sinks      []TypeConfig `json:"sinks"`
}

// SetDefaults fills empty member maps.
func (c *LogConfig) SetDefaults() {
	fill := func(list []TypeConfig) {
		for i := range list {
			if list[i].Members == nil {
				list[i].Members = map[string]string{}
			}
		}
	}
	fill(c.Filters)
	fill(c.Listeners)
	fill(c.Sinks)
	if c.Formatter != nil && c.Formatter.Members == nil {
		c.Formatter.Members = map[string]string{}
	}
}

// Validate checks that every entry names a type.
func (c LogConfig) Validate() error {
	var errs []error
	if c.Formatter != nil {
		if err := c.Formatter.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("formatter: %w", err))
		}
	}
	check := func(section string, list []TypeConfig) {
		for i, t := range list {
			if err := t.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", section, i, err))
			}
		}
	}
	check("filters", c.Filters)
	check("listeners", c.Listeners)
	check("sinks", c.Sinks)
	return errors.Join(errs...)
}
