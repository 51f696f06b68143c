package app

import (
	"io"
	"os"
)

func writeUsage(w io.Writer) {
	useColor := shouldColorize(w)
	title := colorize(useColor, "repolearn - repository analysis CLI")
	usage := colorize(useColor, "Usage:")
	commands := colorize(useColor, "Commands:")

	io.WriteString(w, title+"\n\n")
	io.WriteString(w, usage+"\n")
	io.WriteString(w, "  repolearn [global options] <command> [options]\n\n")
	io.WriteString(w, colorize(useColor, "Global options:")+"\n")
	io.WriteString(w, "  --config <path>      Config file (default ./config.yaml)\n")
	io.WriteString(w, "  --output-dir <path>  Override paths.output_dir\n")
	io.WriteString(w, "  --model <name>       Override models.default_model\n")
	io.WriteString(w, "  --max-files <n>      Override analysis.max_files (0 = unlimited)\n")
	io.WriteString(w, "  --debug              Verbose logging on stderr\n\n")
	io.WriteString(w, "Version:\n")
	io.WriteString(w, "  repolearn version | repolearn --version | repolearn -v\n\n")
	io.WriteString(w, commands+"\n")
	io.WriteString(w, "  analyze         repolearn analyze <repository-url> [--output-file <path>] [--max-files <n>]\n")
	io.WriteString(w, "  config          repolearn config [--save]\n")
	io.WriteString(w, "  cleanup         repolearn cleanup [repo-name]\n")
	io.WriteString(w, "  list            repolearn list [--limit <n>]\n")
}

func shouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func colorize(enabled bool, text string) string {
	if !enabled {
		return text
	}
	const green = "\x1b[32m"
	const bold = "\x1b[1m"
	const reset = "\x1b[0m"
	return bold + green + text + reset
}
