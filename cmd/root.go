// Package cmd implements the CLI command structure for todoctl.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/todoctl/internal/config"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams are the standard streams a command reads and writes.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the todoctl CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, std streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todoctl", flag.ContinueOnError)
	fs.SetOutput(std.err)
	fs.Usage = func() {
		printUsage(fs, std.err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, std.out)
		return nil
	}
	if *showVersion {
		return versionCommand(std)
	}

	// No args or a leading flag means the TUI.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, remainingArgs, std)
	case "stats":
		return statsCommand(ctx, cfg, remainingArgs, std)
	case "add":
		return addCommand(ctx, cfg, remainingArgs, std)
	case "edit":
		return editCommand(ctx, cfg, remainingArgs, std)
	case "toggle":
		return toggleCommand(ctx, cfg, remainingArgs, std)
	case "rm", "delete":
		return rmCommand(ctx, cfg, remainingArgs, std)
	case "chat":
		return chatCommand(ctx, cfg, remainingArgs, std)
	case "insights":
		return insightsCommand(ctx, cfg, remainingArgs, std)
	case "suggest":
		return suggestCommand(ctx, cfg, remainingArgs, std)
	case "render":
		return renderCommand(ctx, cfg, remainingArgs, std)
	case "doctor":
		return doctorCommand(ctx, cws, remainingArgs, std)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs, std)
	case "config":
		return configCommand(cws, remainingArgs, std)
	case "version":
		return versionCommand(std)
	case "help":
		printUsage(fs, std.out)
		return nil
	default:
		fmt.Fprintf(std.err, "Unknown command: %s\n", subcommand)
		printUsage(fs, std.err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// versionCommand prints version information.
func versionCommand(std streams) error {
	fmt.Fprintf(std.out, "todoctl version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todoctl - terminal client for the AI todo backend")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todoctl [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Launch terminal UI (default command)")
	fmt.Fprintln(w, "  ls                  List tasks")
	fmt.Fprintln(w, "  stats               Show task statistics")
	fmt.Fprintln(w, "  add <title>         Add a task")
	fmt.Fprintln(w, "  edit <id>           Edit a task")
	fmt.Fprintln(w, "  toggle <id>         Mark a task completed or pending")
	fmt.Fprintln(w, "  rm <id>             Delete a task")
	fmt.Fprintln(w, "  chat <message>      Send a message to the assistant")
	fmt.Fprintln(w, "  insights            Ask the assistant for productivity insights")
	fmt.Fprintln(w, "  suggest <goal>      Ask the assistant for task suggestions")
	fmt.Fprintln(w, "  render              Write the task list as an HTML fragment")
	fmt.Fprintln(w, "  doctor              Check config, backend and response schemas")
	fmt.Fprintln(w, "  tail                Tail the latest log file")
	fmt.Fprintln(w, "  config              Show effective configuration and sources")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -filter string")
	fmt.Fprintln(w, "        Filter: all, pending, completed, high")
	fmt.Fprintln(w, "  -html")
	fmt.Fprintln(w, "        Print an HTML fragment instead of text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add/Edit Options:")
	fmt.Fprintln(w, "  -title string        (edit only)")
	fmt.Fprintln(w, "  -description string")
	fmt.Fprintln(w, "  -priority string     low, medium, high")
	fmt.Fprintln(w, "  -due string          Due date, YYYY-MM-DD")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rm Options:")
	fmt.Fprintln(w, "  -y, -yes")
	fmt.Fprintln(w, "        Do not ask for confirmation")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, -follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
