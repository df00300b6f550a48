package command

import (
	"fmt"
	"sort"

	"github.com/farukkavlak/miniform/internal/addrs"
)

// StateListCommand implements `miniform state list`: every resource
// address currently recorded in state, sorted.
type StateListCommand struct {
	Meta
}

func (c *StateListCommand) Run(args []string) int {
	st, err := c.store().Read()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}
	names := make([]string, 0, len(st.Resources))
	for k := range st.Resources {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, n := range names {
		c.Ui.Output(n)
	}
	return 0
}

func (c *StateListCommand) Help() string {
	return "Usage: miniform state list\n\n  Lists resource addresses tracked in the current state."
}

func (c *StateListCommand) Synopsis() string {
	return "List resources in state"
}

// StateShowCommand implements `miniform state show ADDRESS`: the stored
// id and attributes of one resource record.
type StateShowCommand struct {
	Meta
}

func (c *StateShowCommand) Run(args []string) int {
	if len(args) != 1 {
		c.Ui.Error("Error: exactly one resource address is required")
		return 1
	}
	addr, err := addrs.Parse(args[0])
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}
	st, err := c.store().Read()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}
	res, ok := st.Get(addr)
	if !ok {
		c.Ui.Error(fmt.Sprintf("Error: no resource found at %s", addr.String()))
		return 1
	}

	c.Ui.Output(fmt.Sprintf("# %s", addr.String()))
	c.Ui.Output(fmt.Sprintf("id = %s", res.ID))
	names := make([]string, 0, len(res.Attributes))
	for k := range res.Attributes {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		c.Ui.Output(fmt.Sprintf("%s = %s", k, formatValue(res.Attributes[k].Value)))
	}
	return 0
}

func (c *StateShowCommand) Help() string {
	return "Usage: miniform state show ADDRESS\n\n  Shows the stored attributes of one resource."
}

func (c *StateShowCommand) Synopsis() string {
	return "Show a resource in state"
}

// StateMvCommand implements `miniform state mv SRC DST`: rewrites one
// resource record's address in place, for renames that don't correspond
// to creating or destroying anything.
type StateMvCommand struct {
	Meta
}

func (c *StateMvCommand) Run(args []string) int {
	if len(args) != 2 {
		c.Ui.Error("Error: exactly two resource addresses are required (source, destination)")
		return 1
	}
	src, err := addrs.Parse(args[0])
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}
	dst, err := addrs.Parse(args[1])
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}

	store := c.store()
	st, err := store.Read()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}
	res, ok := st.Get(src)
	if !ok {
		c.Ui.Error(fmt.Sprintf("Error: no resource found at %s", src.String()))
		return 1
	}
	st.Delete(src)
	st.Put(dst, res)
	if err := store.Write(st); err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}
	c.Ui.Output(fmt.Sprintf("Moved %s to %s", src.String(), dst.String()))
	return 0
}

func (c *StateMvCommand) Help() string {
	return "Usage: miniform state mv SOURCE DESTINATION\n\n  Renames a resource's address in state without touching the real resource."
}

func (c *StateMvCommand) Synopsis() string {
	return "Move a resource to a new address in state"
}

// StateRmCommand implements `miniform state rm ADDRESS`: removes a
// resource record from state without deleting the real resource it backs.
type StateRmCommand struct {
	Meta
}

func (c *StateRmCommand) Run(args []string) int {
	if len(args) != 1 {
		c.Ui.Error("Error: exactly one resource address is required")
		return 1
	}
	addr, err := addrs.Parse(args[0])
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}

	store := c.store()
	st, err := store.Read()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}
	if _, ok := st.Get(addr); !ok {
		c.Ui.Error(fmt.Sprintf("Error: no resource found at %s", addr.String()))
		return 1
	}
	st.Delete(addr)
	if err := store.Write(st); err != nil {
		c.Ui.Error(fmt.Sprintf("Error: %s", err))
		return 1
	}
	c.Ui.Output(fmt.Sprintf("Removed %s from state", addr.String()))
	return 0
}

func (c *StateRmCommand) Help() string {
	return "Usage: miniform state rm ADDRESS\n\n  Removes a resource from state without destroying it."
}

func (c *StateRmCommand) Synopsis() string {
	return "Remove a resource from state"
}
