package app

import "testing"

func TestSplitGlobalFlags(t *testing.T) {
	args, globals, err := splitGlobalFlags([]string{
		"--output-dir", "/tmp/out",
		"analyze",
		"--model=mistral:7b",
		"https://github.com/u/r",
		"--max-files", "5",
		"--debug",
	})
	if err != nil {
		t.Fatalf("splitGlobalFlags: %v", err)
	}

	if globals.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q", globals.OutputDir)
	}
	if globals.Model != "mistral:7b" {
		t.Errorf("Model = %q", globals.Model)
	}
	if globals.MaxFiles != 5 {
		t.Errorf("MaxFiles = %d", globals.MaxFiles)
	}
	if !globals.Debug {
		t.Errorf("Debug not set")
	}

	if len(args) != 2 || args[0] != "analyze" || args[1] != "https://github.com/u/r" {
		t.Errorf("remaining args = %v", args)
	}
}

func TestSplitGlobalFlagsDefaults(t *testing.T) {
	_, globals, err := splitGlobalFlags([]string{"list"})
	if err != nil {
		t.Fatal(err)
	}
	if globals.MaxFiles != -1 {
		t.Errorf("unset MaxFiles = %d, want -1", globals.MaxFiles)
	}
}

func TestSplitGlobalFlagsErrors(t *testing.T) {
	if _, _, err := splitGlobalFlags([]string{"--model"}); err == nil {
		t.Errorf("expected error for missing value")
	}
	if _, _, err := splitGlobalFlags([]string{"--max-files", "minus"}); err == nil {
		t.Errorf("expected error for non-numeric max-files")
	}
	if _, _, err := splitGlobalFlags([]string{"--max-files", "-3"}); err == nil {
		t.Errorf("expected error for negative max-files")
	}
}

func TestSplitFlagArgs(t *testing.T) {
	positional, flagArgs, err := splitFlagArgs(
		[]string{"https://github.com/u/r", "--output-file", "out.md", "--max-files=3"},
		map[string]flagSpec{
			"output-file": {RequiresValue: true},
			"max-files":   {RequiresValue: true},
		})
	if err != nil {
		t.Fatal(err)
	}
	if len(positional) != 1 || positional[0] != "https://github.com/u/r" {
		t.Errorf("positional = %v", positional)
	}
	if len(flagArgs) != 3 {
		t.Errorf("flagArgs = %v", flagArgs)
	}
}

func TestSplitFlagArgsUnknownFlag(t *testing.T) {
	if _, _, err := splitFlagArgs([]string{"--nope"}, map[string]flagSpec{}); err == nil {
		t.Errorf("expected error for unknown flag")
	}
}
