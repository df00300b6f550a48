package command

import (
	"flag"
	"fmt"

	"github.com/mitchellh/cli"
	"github.com/mitchellh/colorstring"

	"github.com/farukkavlak/miniform/internal/engine"
	"github.com/farukkavlak/miniform/internal/plans"
)

// PlanCommand implements `miniform plan [--out file]`: it computes the
// plan against the persisted state and prints it, optionally writing it
// out in the plan file format planfile.go describes.
type PlanCommand struct {
	Meta
}

func (c *PlanCommand) Run(args []string) int {
	var outPath string
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.StringVar(&outPath, "out", "", "write the plan to this file")
	if err := fs.Parse(args); err != nil {
		return cli.RunResultHelp
	}

	e := engine.New(c.workingDir(), c.store(), c.Registry)
	actions, err := e.Plan()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}

	printPlan(c.Ui, c.colorize(), actions)

	if outPath != "" {
		if err := writePlanFile(outPath, c.workingDir(), actions); err != nil {
			c.Ui.Error(fmt.Sprintf("Error: %s", err))
			return 1
		}
		c.Ui.Output(fmt.Sprintf("\nSaved the plan to: %s", outPath))
	}
	return 0
}

func (c *PlanCommand) Help() string {
	return "Usage: miniform plan [--out=FILE]\n\n  Shows the actions miniform would take to reconcile configuration with state."
}

func (c *PlanCommand) Synopsis() string {
	return "Show changes required by the current configuration"
}

func printPlan(ui cli.Ui, colorize *colorstring.Colorize, actions []plans.PlanAction) {
	if len(actions) == 0 {
		ui.Output("No changes. Your infrastructure matches the configuration.")
		return
	}
	for _, a := range actions {
		ui.Output(colorize.Color(planLine(a)))
	}
}

func planLine(a plans.PlanAction) string {
	addr := a.Address().String()
	switch a.Action {
	case plans.Create:
		return fmt.Sprintf("  [green]+[reset] %s will be created", addr)
	case plans.Update:
		return fmt.Sprintf("  [yellow]~[reset] %s will be updated in-place (%d attribute(s) changed)", addr, len(a.Changes))
	case plans.Delete:
		return fmt.Sprintf("  [red]-[reset] %s will be destroyed", addr)
	default:
		return fmt.Sprintf("    %s has no changes", addr)
	}
}
