package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/waterlog/app/plugins"
	"github.com/kilianp07/waterlog/core/instantiate"
)

var typesCmd = &cobra.Command{
	Use:   "types [name...]",
	Short: "Describe the configurable types",
	RunE:  runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, args []string) error {
	reg, err := plugins.NewRegistry()
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = reg.Names()
	}
	out := cmd.OutOrStdout()
	for _, n := range names {
		d, ok := reg.Lookup(n)
		if !ok {
			return &instantiate.TypeResolutionError{TypeName: n}
		}
		if err := describe(out, d); err != nil {
			return err
		}
	}
	return nil
}

func describe(w io.Writer, d instantiate.TypeDescriptor) error {
	var sb strings.Builder
	sb.WriteString(d.Name + "\n")
	for _, c := range d.Constructors {
		fmt.Fprintf(&sb, "  new(%s)\n", params(c.Params))
	}
	for _, m := range d.Members {
		fmt.Fprintf(&sb, "  %s %s %s\n", m.Name, m.Kind, m.Type)
	}
	for _, b := range d.Behaviors {
		fmt.Fprintf(&sb, "  %s(%s)\n", b.Name, params(b.Params))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func params(ps []instantiate.Param) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, p.Name+" "+p.Type.String())
	}
	return strings.Join(parts, ", ")
}
