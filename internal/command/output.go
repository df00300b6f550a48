package command

import (
	"encoding/json"
	"flag"
	"fmt"
	"sort"

	"github.com/mitchellh/cli"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/farukkavlak/miniform/internal/engine"
)

// OutputCommand implements `miniform output [name] [--json]`: it evaluates
// the root module's outputs against the persisted state, without planning
// or applying anything.
type OutputCommand struct {
	Meta
}

func (c *OutputCommand) Run(args []string) int {
	var jsonOut bool
	fs := flag.NewFlagSet("output", flag.ContinueOnError)
	fs.BoolVar(&jsonOut, "json", false, "show output in JSON format")
	if err := fs.Parse(args); err != nil {
		return cli.RunResultHelp
	}

	e := engine.New(c.workingDir(), c.store(), c.Registry)
	outputs, err := e.Outputs()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}

	name := fs.Arg(0)
	if name != "" {
		v, ok := outputs[name]
		if !ok {
			c.Ui.Error(fmt.Sprintf("Error: output %q not found", name))
			return 1
		}
		if jsonOut {
			c.Ui.Output(ctyToJSONString(v))
		} else {
			c.Ui.Output(formatValue(v))
		}
		return 0
	}

	if jsonOut {
		raw := make(map[string]json.RawMessage, len(outputs))
		for k, v := range outputs {
			data, err := ctyjson.Marshal(v, v.Type())
			if err != nil {
				c.Ui.Error(fmt.Sprintf("Error: %s", err))
				return 1
			}
			raw[k] = data
		}
		data, err := json.MarshalIndent(raw, "", "  ")
		if err != nil {
			c.Ui.Error(fmt.Sprintf("Error: %s", err))
			return 1
		}
		c.Ui.Output(string(data))
		return 0
	}

	if len(outputs) == 0 {
		c.Ui.Output("No outputs found.")
		return 0
	}
	names := make([]string, 0, len(outputs))
	for k := range outputs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		c.Ui.Output(fmt.Sprintf("%s = %s", k, formatValue(outputs[k])))
	}
	return 0
}

func ctyToJSONString(v cty.Value) string {
	if v == cty.NilVal {
		return "null"
	}
	data, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "null"
	}
	return string(data)
}

func (c *OutputCommand) Help() string {
	return "Usage: miniform output [name] [--json]\n\n  Reads an output value from the current state."
}

func (c *OutputCommand) Synopsis() string {
	return "Show output values"
}
