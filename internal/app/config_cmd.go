package app

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"repolearn/internal/config"
)

func configPath(globals globalFlags) string {
	if globals.ConfigPath != "" {
		return globals.ConfigPath
	}
	return config.DefaultFileName
}

// loadConfig loads the config file and folds the global-flag overrides on
// top. A missing or invalid file is fatal to the caller.
func loadConfig(globals globalFlags) (config.Config, error) {
	cfg, err := config.Load(configPath(globals))
	if err != nil {
		return config.Config{}, err
	}
	if globals.OutputDir != "" {
		cfg.Paths.OutputDir = globals.OutputDir
	}
	if globals.Model != "" {
		cfg.Models.DefaultModel = globals.Model
	}
	if globals.MaxFiles >= 0 {
		cfg.Analysis.MaxFiles = globals.MaxFiles
	}
	return cfg, nil
}

func historyPath(cfg config.Config) string {
	return filepath.Join(cfg.OutputDir(), ".repolearn", "history.db")
}

func runConfigCmd(args []string, globals globalFlags, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(errOut)
	save := fs.Bool("save", false, "Persist current settings back to the config file")
	_, flagArgs, err := splitFlagArgs(args, map[string]flagSpec{
		"save": {RequiresValue: false},
	})
	if err != nil {
		fmt.Fprintln(errOut, err.Error())
		return 2
	}
	if err := fs.Parse(flagArgs); err != nil {
		return 2
	}

	cfg, err := loadConfig(globals)
	if err != nil {
		fmt.Fprintf(errOut, "config error: %v\n", err)
		return 1
	}

	if *save {
		if err := cfg.Save(configPath(globals)); err != nil {
			fmt.Fprintf(errOut, "save config: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, "Configuration saved.")
	}

	encoded, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "render config: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Current configuration (%s):\n\n%s", configPath(globals), encoded)
	return 0
}
