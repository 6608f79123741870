// Package flagx contains helpers for reading a handful of flags out of the
// command line without owning it, so that the config layer can pick up -c
// while cobra or the main flag set parses everything else.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// ConfigFlags are the spellings accepted for the JSON config file path.
var ConfigFlags = []string{"-c", "-config", "--config"}

// FilterArgs returns the subset of args made of allowed flags and their values.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
//
// Scanning stops at a bare "--": whatever follows it is positional, so an
// upload of a file named "-c" is never mistaken for a config flag.
func FilterArgs(args []string, allowedFlags []string) []string {
	// Set of names we pass through, everything else is dropped
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = true
	}

	// Never nil, the result goes straight into flag.FlagSet.Parse
	filtered := []string{}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// End of options
		if arg == "--" {
			break
		}

		// Subcommands, file paths, blob ids and a lone "-" are not flags
		if len(arg) < 2 || arg[0] != '-' {
			continue
		}

		// Case 1: "--flag=value" or "-f=value", the value travels with the name
		if name, _, inline := strings.Cut(arg, "="); inline {
			if allowed[name] {
				filtered = append(filtered, arg)
			}
			continue
		}

		if !allowed[arg] {
			continue
		}
		filtered = append(filtered, arg)

		// Case 2: "-f value", the next token is the value unless it looks
		// like another flag (then the flag is left dangling and flag.Parse
		// reports it)
		if next := i + 1; next < len(args) && !strings.HasPrefix(args[next], "-") {
			filtered = append(filtered, args[next])
			i = next // value consumed
		}
	}

	return filtered
}

// JsonConfigPath extracts the config file path from args. The last
// occurrence wins; an empty string means no file was requested.
func JsonConfigPath(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, ConfigFlags))

	return config
}

// JsonConfigFlags is JsonConfigPath over os.Args.
func JsonConfigFlags() string {
	return JsonConfigPath(os.Args[1:])
}
