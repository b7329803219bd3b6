package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/unitgate/internal/engine"
	"github.com/roach88/unitgate/internal/unit"
)

// SuiteInfo is the JSON payload of the list command.
type SuiteInfo struct {
	Units  []UnitInfo            `json:"units"`
	Cycles []engine.CycleWarning `json:"cycles,omitempty"`
}

// UnitInfo describes a suite unit and its declared requirements.
type UnitInfo struct {
	Identity   string            `json:"identity"`
	Operations []string          `json:"operations"`
	Requires   []RequirementInfo `json:"requires,omitempty"`
}

// RequirementInfo describes one requirement of a unit.
type RequirementInfo struct {
	Target string `json:"target"`
	NeedOK bool   `json:"need_ok"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List the units of the suite",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.Suite == nil {
				return NewExitError(ExitCommandError, "no suite configured")
			}
			units := rootOpts.Suite()
			info := SuiteInfo{Units: describe(units), Cycles: engine.AnalyzeCycles(units)}
			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success(info)
			}
			return writeUnitList(cmd, info)
		},
	}
}

func describe(units []unit.Unit) []UnitInfo {
	infos := make([]UnitInfo, 0, len(units))
	for _, u := range units {
		info := UnitInfo{Identity: unit.IdentityOf(u), Operations: []string{}}
		for _, op := range unit.Operations(u) {
			info.Operations = append(info.Operations, op.Name)
		}
		for _, r := range u.Requirements() {
			info.Requires = append(info.Requires, RequirementInfo{Target: r.Target, NeedOK: r.NeedOK})
		}
		infos = append(infos, info)
	}
	return infos
}

func writeUnitList(cmd *cobra.Command, suite SuiteInfo) error {
	w := cmd.OutOrStdout()
	for _, info := range suite.Units {
		fmt.Fprintf(w, "%s (%d operations)\n", info.Identity, len(info.Operations))
		for _, r := range info.Requires {
			gate := "attempted"
			if r.NeedOK {
				gate = "passed"
			}
			fmt.Fprintf(w, "  requires %s (%s)\n", r.Target, gate)
		}
	}
	for _, c := range suite.Cycles {
		level := "info"
		if c.Gated {
			level = "warning"
		}
		fmt.Fprintf(w, "%s: %s\n", level, c.Message)
	}
	_, err := fmt.Fprintf(w, "%d units\n", len(suite.Units))
	return err
}
