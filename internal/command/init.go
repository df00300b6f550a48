package command

import (
	"fmt"

	"github.com/farukkavlak/miniform/internal/engine"
)

// InitCommand implements `miniform init`: it validates that the root
// module loads and creates the state directory if it does not yet exist.
// There are no providers to install and no backend to configure -- both
// are out of this engine's scope -- so init has nothing else to do.
type InitCommand struct {
	Meta
}

func (c *InitCommand) Run(args []string) int {
	if err := ensureStateDir(c.statePath()); err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}

	e := engine.New(c.workingDir(), c.store(), c.Registry)
	if err := e.Validate(); err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}

	c.Ui.Output(fmt.Sprintf("miniform has been initialized in %s", c.workingDir()))
	return 0
}

func (c *InitCommand) Help() string {
	return "Usage: miniform init\n\n  Validates the root module and prepares the state directory."
}

func (c *InitCommand) Synopsis() string {
	return "Prepare the working directory"
}
