package launcher

// VerboseFlag enables diagnostics. It is consumed by the launcher and never
// forwarded to the platform executable.
const VerboseFlag = "--verbose"

// SplitVerbose reports whether VerboseFlag appears in args and returns the
// remaining arguments in their original order. Only the exact token counts;
// "--verbose=true" and "-v" belong to the child.
func SplitVerbose(args []string) (bool, []string) {
	verbose := false
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == VerboseFlag {
			verbose = true
			continue
		}
		rest = append(rest, arg)
	}
	return verbose, rest
}
