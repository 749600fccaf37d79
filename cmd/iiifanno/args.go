package main

import (
	"strings"

	"github.com/aretw0/iiifanno/pkg/core"
	"github.com/spf13/cobra"
)

// shortAliases maps the two letter short flags, which pflag cannot parse,
// to their long names.
var shortAliases = map[string]string{
	"-if": "--input-file",
	"-of": "--output-file",
	"-od": "--output-directory",
	"-om": "--output-manifest",
}

// normalizeArgs rewrites two letter short flags ("-if x", "-if=x") to their
// long form. Arguments after "--" are left alone.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		name, value, hasValue := strings.Cut(arg, "=")
		long, ok := shortAliases[name]
		if !ok {
			out = append(out, arg)
			continue
		}
		if hasValue {
			out = append(out, long+"="+value)
		} else {
			out = append(out, long)
		}
	}
	return out
}

// requiredFlags lists the flags each command cannot run without, in the
// order they are reported.
var requiredFlags = map[string][]string{
	"check":   {"input-manifest"},
	"extract": {"input-manifest", "output-file"},
	"insert":  {"input-manifest", "input-file", "output-manifest"},
}

// checkRequired reports the first empty required flag of cmd. It runs
// before the config file or any input is read.
func checkRequired(cmd *cobra.Command) error {
	for _, name := range requiredFlags[cmd.Name()] {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Value.String() == "" {
			return &core.MissingArgumentError{Command: cmd.Name(), Flag: name}
		}
	}
	return nil
}
