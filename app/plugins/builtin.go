// Package plugins assembles the registry of configurable types.
package plugins

import (
	"github.com/kilianp07/waterlog/core/filter"
	"github.com/kilianp07/waterlog/core/instantiate"
	"github.com/kilianp07/waterlog/infra/formatter"
	"github.com/kilianp07/waterlog/infra/listeners"
)

// Builtin registers the filters, formatters, listeners and sinks shipped
// with waterlog.
func Builtin(r *instantiate.Registry) error {
	for _, fn := range []RegisterFunc{filter.Register, formatter.Register, listeners.Register} {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
