package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the runner settings parsed from command line arguments and
// CPYVN_* environment fallbacks.
type Config struct {
	ProjectPath string        // project directory (holds project.json)
	EntryFile   string        // explicit entry script, when a .cvn file was given
	Timeout     time.Duration // 0 means no limit
	LogLevel    string        // debug, info, warn, error
	LogFile     string        // optional rotating log file
	Headless    bool
	Debug       bool // hotspot and timing overlays
	ShowHelp    bool
}

// ParseArgs parses the runner's arguments. Flags may appear before or
// after the project path; environment variables fill in flags that were
// left at their defaults.
func ParseArgs(args []string) (*Config, error) {
	reordered := reorderArgs(args)

	fs := flag.NewFlagSet("cpyvn-run", flag.ContinueOnError)

	config := &Config{}

	var timeoutSec int
	fs.IntVar(&timeoutSec, "timeout", 0, "exit after this many seconds")
	fs.IntVar(&timeoutSec, "t", 0, "exit after this many seconds (shorthand)")
	fs.StringVar(&config.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&config.LogLevel, "l", "info", "log level (shorthand)")
	fs.StringVar(&config.LogFile, "log-file", "", "also write logs to this rotating file")
	fs.BoolVar(&config.Headless, "headless", false, "run without a window")
	fs.BoolVar(&config.Debug, "debug", false, "draw hotspot and timing overlays")
	fs.BoolVar(&config.ShowHelp, "help", false, "show help")
	fs.BoolVar(&config.ShowHelp, "h", false, "show help (shorthand)")

	if err := fs.Parse(reordered); err != nil {
		return nil, err
	}

	if !config.Headless {
		if v := os.Getenv("CPYVN_HEADLESS"); v != "" {
			config.Headless = v == "1" || strings.EqualFold(v, "true")
		}
	}
	if !config.Debug {
		if v := os.Getenv("CPYVN_DEBUG"); v != "" {
			config.Debug = v == "1" || strings.EqualFold(v, "true")
		}
	}
	if timeoutSec == 0 {
		if v := os.Getenv("CPYVN_TIMEOUT"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				timeoutSec = n
			}
		}
	}
	if config.LogLevel == "info" {
		if v := os.Getenv("CPYVN_LOG_LEVEL"); v != "" {
			config.LogLevel = strings.ToLower(v)
		}
	}
	if config.LogFile == "" {
		config.LogFile = os.Getenv("CPYVN_LOG_FILE")
	}

	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	if fs.NArg() > 0 {
		path := fs.Arg(0)
		if strings.HasSuffix(strings.ToLower(path), ".cvn") {
			config.ProjectPath = filepath.Dir(path)
			config.EntryFile = filepath.Base(path)
		} else {
			config.ProjectPath = path
		}
	}

	return config, nil
}

// reorderArgs moves flags ahead of positional arguments so the flag
// package sees them regardless of where they were typed.
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) == 0 || arg[0] != '-' {
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		if strings.Contains(arg, "=") || isBoolFlag(arg) {
			continue
		}
		if i+1 < len(args) && (len(args[i+1]) == 0 || args[i+1][0] != '-') {
			i++
			flags = append(flags, args[i])
		}
	}

	return append(flags, positional...)
}

func isBoolFlag(arg string) bool {
	name := strings.TrimLeft(arg, "-")
	switch name {
	case "h", "help", "headless", "debug":
		return true
	}
	return false
}

// PrintHelp writes the runner usage text.
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `cpyvn-run - visual novel runner

Usage:
  cpyvn-run [options] [project-path]

Arguments:
  project-path    project directory containing project.json, or a .cvn
                  script to run directly (defaults to the current
                  directory)

Options:
  -t, --timeout <seconds>     exit after the given number of seconds
  -l, --log-level <level>     debug, info, warn, error (default: info)
  --log-file <path>           also write logs to this rotating file
  --headless                  run without opening a window
  --debug                     draw hotspot and timing overlays
  -h, --help                  show this help

Environment Variables:
  CPYVN_HEADLESS=1            enable headless mode
  CPYVN_DEBUG=1               enable debug overlays
  CPYVN_TIMEOUT=<seconds>     exit timeout
  CPYVN_LOG_LEVEL=<level>     log level
  CPYVN_LOG_FILE=<path>       rotating log file

Examples:
  cpyvn-run /path/to/project            run a project directory
  cpyvn-run /path/to/project/main.cvn   run one script directly
  cpyvn-run --timeout 10 demo           stop after ten seconds
  CPYVN_HEADLESS=1 cpyvn-run demo       headless via the environment
`)
}
