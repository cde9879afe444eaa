// Package builtincommand names every top-level subcommand the CLI
// recognizes, so command dispatch can tell a recognized verb from a typo
// before cobra ever sees it.
package builtincommand

import (
	"github.com/samber/lo"
)

type BuiltinCommand string

const (
	Plan        BuiltinCommand = "plan"
	Check       BuiltinCommand = "check"
	Materialize BuiltinCommand = "materialize"
	Snapshot    BuiltinCommand = "snapshot"
)

var BuiltinCommands = []BuiltinCommand{Plan, Check, Materialize, Snapshot}

func IsBuiltinCommand(args []string) bool {
	if len(args) > 1 {
		elems := lo.Map(BuiltinCommands, func(item BuiltinCommand, _ int) string {
			return string(item)
		})
		return lo.Contains(elems, args[1])
	}
	return false
}
