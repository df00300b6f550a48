package command

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/farukkavlak/miniform/internal/engine"
)

// ApplyCommand implements `miniform apply [plan-file] [-y|--yes]`. A plan
// file argument is validated (see validatePlanFile) but the plan itself
// is always recomputed live against current state before executing,
// since apply plans and applies within the same invocation by
// construction.
type ApplyCommand struct {
	Meta
}

func (c *ApplyCommand) Run(args []string) int {
	var autoApprove bool
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.BoolVar(&autoApprove, "y", false, "skip interactive approval")
	fs.BoolVar(&autoApprove, "yes", false, "skip interactive approval")
	if err := fs.Parse(args); err != nil {
		return cli.RunResultHelp
	}

	if planPath := fs.Arg(0); planPath != "" {
		if _, err := readPlanFile(planPath); err != nil {
			c.Ui.Error(fmt.Sprintf("Error: %s", err))
			return 1
		}
	}

	e := engine.New(c.workingDir(), c.store(), c.Registry)

	actions, err := e.Plan()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}
	printPlan(c.Ui, c.colorize(), actions)

	if !autoApprove {
		answer, err := c.Ui.Ask("\nDo you want to perform these actions?\n  Only 'yes' will be accepted to approve.\n\n  Enter a value:")
		if err != nil || !strings.EqualFold(strings.TrimSpace(answer), "yes") {
			c.Ui.Output("\nApply cancelled.")
			return 1
		}
	}

	outputs, err := e.Apply(c.CommandContext())
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}

	if len(outputs) > 0 {
		c.Ui.Output("\nOutputs:\n")
		names := make([]string, 0, len(outputs))
		for k := range outputs {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			c.Ui.Output(fmt.Sprintf("%s = %s", k, formatValue(outputs[k])))
		}
	}
	return 0
}

func (c *ApplyCommand) Help() string {
	return "Usage: miniform apply [plan-file] [-y|--yes]\n\n  Reconciles configuration with state, applying the computed plan."
}

func (c *ApplyCommand) Synopsis() string {
	return "Create or update infrastructure"
}
