package ipset

import (
	"fmt"
	"strings"
)

// Command is the kind of membership change to apply.
type Command uint8

const (
	CommandAdd Command = iota + 1
	CommandDelete
)

func (c Command) String() string {
	switch c {
	case CommandAdd:
		return "add"
	case CommandDelete:
		return "del"
	default:
		return fmt.Sprintf("command(%d)", uint8(c))
	}
}

// TolerateExisting reports whether the backend should treat an element that
// is already present as success. Only Add does; deleting a non-member is an
// error.
func (c Command) TolerateExisting() bool {
	return c == CommandAdd
}

func ParseCommand(s string) (Command, error) {
	switch strings.ToLower(s) {
	case "add":
		return CommandAdd, nil
	case "del", "delete":
		return CommandDelete, nil
	default:
		return 0, fmt.Errorf("unknown command: %s", s)
	}
}
