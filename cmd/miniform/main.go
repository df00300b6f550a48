package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/cli"

	"github.com/farukkavlak/miniform/internal/command"
	"github.com/farukkavlak/miniform/internal/providers"
	"github.com/farukkavlak/miniform/internal/providers/local"
)

func init() {
	Ui = command.NewBasicUI()
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	wd, err := os.Getwd()
	if err != nil {
		Ui.Error(fmt.Sprintf("Could not determine working directory: %s", err))
		return 1
	}

	registry := providers.NewRegistry()
	if err := registry.Register(local.New()); err != nil {
		Ui.Error(fmt.Sprintf("Could not register built-in providers: %s", err))
		return 1
	}

	initCommands(wd, registry)

	args := os.Args[1:]

	c := &cli.CLI{
		Args:       args,
		Commands:   commands,
		Name:       "miniform",
		HelpFunc:   helpFunc(commands),
		HelpWriter: os.Stdout,
	}

	exitCode, err := c.Run()
	if err != nil {
		Ui.Error(fmt.Sprintf("Error executing CLI: %s", err))
		return 1
	}

	return exitCode
}
