package process

import (
	"fmt"
)

// Command describes the child process to run. The child inherits the
// parent's environment and working directory.
type Command struct {
	Path string
	Args []string
}

// NewCommand creates a Command, copying args.
func NewCommand(path string, args []string) (Command, error) {
	if path == "" {
		return Command{}, fmt.Errorf("executable cannot be empty")
	}
	return Command{
		Path: path,
		Args: append([]string{}, args...),
	}, nil
}

// String describes the command for logs. Argument values are left out since
// they may carry credentials.
func (c Command) String() string {
	switch len(c.Args) {
	case 0:
		return c.Path
	case 1:
		return fmt.Sprintf("%s (1 arg)", c.Path)
	default:
		return fmt.Sprintf("%s (%d args)", c.Path, len(c.Args))
	}
}
