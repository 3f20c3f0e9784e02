package main

import (
	"os"
	"strings"

	"lista-cli/internal/cli"
)

// showCommand maps a pasted id to the command that shows it, or nil when s is not an id.
func showCommand(s string) []string {
	s = strings.TrimSpace(s)
	switch {
	case len(s) > len("task-") && strings.HasPrefix(s, "task-"):
		return []string{"tasks", "show"}
	case len(s) > len("list-") && strings.HasPrefix(s, "list-"):
		return []string{"lists", "show"}
	}
	return nil
}

// rewriteDirectLookupArgs turns `lista <id>` into `lista tasks show <id>` (or lists show).
// Cobra treats the first positional token as a subcommand, so argv is rewritten before
// parsing. Persistent flags may come first, so the first positional token is searched for.
func rewriteDirectLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value so an id is never swallowed.
	valueFlags := map[string]bool{
		"--dir":       true,
		"--workspace": true,
		"--format":    true,
		"--user":      true,
	}

	insert := func(i int, sub []string) []string {
		out := make([]string, 0, len(argv)+len(sub))
		out = append(out, argv[:i]...)
		out = append(out, sub...)
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) {
				if sub := showCommand(argv[i+1]); sub != nil {
					return insert(i+1, sub)
				}
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if sub := showCommand(a); sub != nil {
			return insert(i, sub)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
