package main

import (
	"github.com/mitchellh/cli"

	"github.com/farukkavlak/miniform/internal/command"
	"github.com/farukkavlak/miniform/internal/providers"
)

// commands is the mapping of every available miniform subcommand, built
// once in main with the working directory and provider registry every
// command shares.
var commands map[string]cli.CommandFactory

// Ui is the cli.Ui used for communicating to the outside world.
var Ui cli.Ui

func initCommands(workingDir string, registry *providers.Registry) {
	meta := command.Meta{
		Ui:         Ui,
		Color:      true,
		WorkingDir: workingDir,
		Registry:   registry,
	}

	commands = map[string]cli.CommandFactory{
		"init": func() (cli.Command, error) {
			return &command.InitCommand{Meta: meta}, nil
		},
		"validate": func() (cli.Command, error) {
			return &command.ValidateCommand{Meta: meta}, nil
		},
		"plan": func() (cli.Command, error) {
			return &command.PlanCommand{Meta: meta}, nil
		},
		"graph": func() (cli.Command, error) {
			return &command.GraphCommand{Meta: meta}, nil
		},
		"apply": func() (cli.Command, error) {
			return &command.ApplyCommand{Meta: meta}, nil
		},
		"output": func() (cli.Command, error) {
			return &command.OutputCommand{Meta: meta}, nil
		},
		"state list": func() (cli.Command, error) {
			return &command.StateListCommand{Meta: meta}, nil
		},
		"state show": func() (cli.Command, error) {
			return &command.StateShowCommand{Meta: meta}, nil
		},
		"state mv": func() (cli.Command, error) {
			return &command.StateMvCommand{Meta: meta}, nil
		},
		"state rm": func() (cli.Command, error) {
			return &command.StateRmCommand{Meta: meta}, nil
		},
	}
}

// primaryCommands lists the main workflow commands in typical workflow
// order. helpFunc does not use it; -help lists commands alphabetically.
var primaryCommands = []string{"init", "validate", "plan", "apply", "output", "graph"}

// helpFunc returns mitchellh/cli's basic help formatter for "miniform",
// which lists all commands in one alphabetical list with no grouping.
func helpFunc(commands map[string]cli.CommandFactory) cli.HelpFunc {
	return func(commandsArg map[string]cli.CommandFactory) string {
		return cli.BasicHelpFunc("miniform")(commandsArg)
	}
}
