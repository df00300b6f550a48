package command

import (
	"fmt"

	"github.com/farukkavlak/miniform/internal/engine"
)

// ValidateCommand implements `miniform validate [path]`: it loads the
// root module (and every module it transitively references) and checks
// the resulting dependency graph for cycles, without making any provider
// calls.
type ValidateCommand struct {
	Meta
}

func (c *ValidateCommand) Run(args []string) int {
	dir := c.workingDir()
	if len(args) > 0 {
		dir = args[0]
	}

	e := engine.New(dir, c.store(), c.Registry)
	if err := e.Validate(); err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}

	c.Ui.Output("Success! The configuration is valid.")
	return 0
}

func (c *ValidateCommand) Help() string {
	return "Usage: miniform validate [path]\n\n  Loads the configuration tree and checks it for structural errors and dependency cycles."
}

func (c *ValidateCommand) Synopsis() string {
	return "Check whether the configuration is valid"
}
