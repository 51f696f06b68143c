package app

import (
	"fmt"
	"strconv"
	"strings"
)

type flagSpec struct {
	RequiresValue bool
}

type globalFlags struct {
	ConfigPath string
	OutputDir  string
	Model      string
	MaxFiles   int // -1 = not set
	Debug      bool
}

// splitGlobalFlags peels the global options off the argument list before
// command dispatch. Remaining args are returned in order.
func splitGlobalFlags(args []string) ([]string, globalFlags, error) {
	var out []string
	globals := globalFlags{MaxFiles: -1}

	takeValue := func(name string, i *int) (string, error) {
		arg := args[*i]
		if eq := strings.Index(arg, "="); eq >= 0 {
			value := arg[eq+1:]
			if strings.TrimSpace(value) == "" {
				return "", fmt.Errorf("missing value for --%s", name)
			}
			return value, nil
		}
		if *i+1 >= len(args) {
			return "", fmt.Errorf("missing value for --%s", name)
		}
		*i++
		value := args[*i]
		if strings.TrimSpace(value) == "" {
			return "", fmt.Errorf("missing value for --%s", name)
		}
		return value, nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		switch {
		case arg == "--config" || strings.HasPrefix(arg, "--config="):
			value, err := takeValue("config", &i)
			if err != nil {
				return nil, globals, err
			}
			globals.ConfigPath = value
		case arg == "--output-dir" || strings.HasPrefix(arg, "--output-dir="):
			value, err := takeValue("output-dir", &i)
			if err != nil {
				return nil, globals, err
			}
			globals.OutputDir = value
		case arg == "--model" || strings.HasPrefix(arg, "--model="):
			value, err := takeValue("model", &i)
			if err != nil {
				return nil, globals, err
			}
			globals.Model = value
		case arg == "--max-files" || strings.HasPrefix(arg, "--max-files="):
			value, err := takeValue("max-files", &i)
			if err != nil {
				return nil, globals, err
			}
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, globals, fmt.Errorf("invalid value for --max-files: %s", value)
			}
			globals.MaxFiles = n
		case arg == "--debug":
			globals.Debug = true
		default:
			out = append(out, arg)
		}
	}

	return out, globals, nil
}

// splitFlagArgs separates positional arguments from the flags a command's
// FlagSet knows about, so "repolearn analyze URL --max-files 5" parses the
// same as "repolearn analyze --max-files 5 URL".
func splitFlagArgs(args []string, spec map[string]flagSpec) ([]string, []string, error) {
	var positional []string
	var flagArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			if i+1 < len(args) {
				positional = append(positional, args[i+1:]...)
			}
			break
		}
		if strings.HasPrefix(arg, "-") {
			name := strings.TrimLeft(arg, "-")
			if name == "" {
				positional = append(positional, arg)
				continue
			}
			key := name
			if idx := strings.Index(name, "="); idx >= 0 {
				key = name[:idx]
			}
			if spec != nil {
				if f, ok := spec[key]; ok {
					flagArgs = append(flagArgs, arg)
					if f.RequiresValue && !strings.Contains(arg, "=") {
						if i+1 >= len(args) {
							return nil, nil, fmt.Errorf("missing value for --%s", key)
						}
						flagArgs = append(flagArgs, args[i+1])
						i++
					}
					continue
				}
			}
			return nil, nil, fmt.Errorf("unknown flag: %s", arg)
		}
		positional = append(positional, arg)
	}
	return positional, flagArgs, nil
}
