// ABOUTME: Minimal flag parsing shared by the aloka commands
// ABOUTME: Accepts --name value and --name=value, everything else is positional

package main

import (
	"fmt"
	"strings"
)

// parseArgs splits args into named values and positional arguments. Only
// names listed in known are accepted.
func parseArgs(args []string, known ...string) (map[string]string, []string, error) {
	flags := make(map[string]string)
	var positional []string

	isKnown := func(name string) bool {
		for _, k := range known {
			if k == name {
				return true
			}
		}
		return false
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			positional = append(positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if !isKnown(name) {
			return nil, nil, fmt.Errorf("unknown flag: %s", arg)
		}
		if !hasValue {
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("--%s requires a value", name)
			}
			value = args[i+1]
			i++
		}
		flags[name] = value
	}

	return flags, positional, nil
}

// parseSwitch reads on/off style arguments
func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}
