// Package command implements miniform's CLI surface: one struct per
// subcommand, each embedding [Meta] for the services they all share -- a
// [Meta] struct carrying the colorized [cli.Ui] and working directory,
// one cli.Command implementation per subcommand, registered by name in
// cmd/miniform -- trimmed to the handful of flags and services this
// engine's surface actually needs.
package command

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mitchellh/cli"
	"github.com/mitchellh/colorstring"

	"github.com/farukkavlak/miniform/internal/providers"
	"github.com/farukkavlak/miniform/internal/states"
)

// Meta holds the flags and services every subcommand is built from.
type Meta struct {
	Ui    cli.Ui
	Color bool

	WorkingDir string
	StatePath  string

	Registry *providers.Registry
}

// CommandContext returns the context a command's engine calls run under.
// There is no cancellation source wired up from the CLI today; this
// exists so commands and the engine agree on the signature a future
// cancellation source (checked at layer boundaries) would hang off of.
func (m *Meta) CommandContext() context.Context {
	return context.Background()
}

func (m *Meta) workingDir() string {
	if m.WorkingDir != "" {
		return m.WorkingDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (m *Meta) statePath() string {
	if m.StatePath != "" {
		return m.StatePath
	}
	return states.DefaultPath(m.workingDir())
}

func (m *Meta) store() *states.Store {
	return states.NewStore(m.statePath())
}

func (m *Meta) colorize() *colorstring.Colorize {
	return &colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !m.Color,
		Reset:   true,
	}
}

// NewBasicUI returns the preconfigured [cli.Ui] cmd/miniform wires up as
// the primary Ui.
func NewBasicUI() cli.Ui {
	return &cli.BasicUi{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Reader:      os.Stdin,
	}
}

// ensureStateDir creates the directory a state path lives in, matching
// `init`'s documented behavior of creating .miniform/ if it is absent.
func ensureStateDir(statePath string) error {
	return os.MkdirAll(filepath.Dir(statePath), 0o755)
}
