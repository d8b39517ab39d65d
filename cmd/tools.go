package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/todoctl/internal/api"
	"github.com/nibzard/todoctl/internal/config"
	"github.com/nibzard/todoctl/internal/controller"
	"github.com/nibzard/todoctl/internal/logging"
	"github.com/nibzard/todoctl/internal/render"
	"github.com/nibzard/todoctl/internal/todo"
)

// renderCommand writes the task list as an HTML fragment.
func renderCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("todoctl render", flag.ContinueOnError)
	fs.SetOutput(std.err)
	filter := fs.String("filter", cfg.DefaultFilter, "Filter: all, pending, completed, high")
	output := fs.String("o", "", "Write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	f, err := todo.ParseFilter(*filter)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.load(ctx); err != nil {
		return err
	}
	if err := s.ctrl.Dispatch(ctx, controller.Event{Kind: controller.KindFilter, Filter: f}); err != nil {
		return err
	}
	snap := s.ctrl.Snapshot()
	fragment, err := render.HTML(snap.View, snap.Stats)
	if err != nil {
		return err
	}
	fragment += "\n"

	if *output == "" {
		fmt.Fprint(std.out, fragment)
		return nil
	}
	if dir := filepath.Dir(*output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := os.WriteFile(*output, []byte(fragment), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *output, err)
	}
	fmt.Fprintf(std.out, "Wrote %d tasks to %s\n", len(snap.View.Items), *output)
	return nil
}

// doctorCommand checks config, log directory, bundled schemas and backend
// reachability.
func doctorCommand(ctx context.Context, cws *config.ConfigWithSources, args []string, std streams) error {
	fs := flag.NewFlagSet("todoctl doctor", flag.ContinueOnError)
	fs.SetOutput(std.err)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := cws.Config
	out := std.out

	fmt.Fprintln(out, "todoctl doctor")
	fmt.Fprintln(out, "==============")
	fmt.Fprintln(out)

	allOK := true

	fmt.Fprintln(out, "Config:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(out, "  ⚠️  No config file (using defaults and environment)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(out, "  ✅ %s\n", f)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(out, "  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(out, "  ✅ Valid")
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Log directory: %s\n", cfg.LogDir)
	if info, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(out, "  ⚠️  Not found (will be created on first run)")
		} else {
			fmt.Fprintf(out, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(out, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(out, "  ✅ OK")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Response schemas:")
	if _, err := api.CompileSchemas(); err != nil {
		fmt.Fprintf(out, "  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(out, "  ✅ %d schemas compiled\n", len(api.SchemaNames()))
		if *verbose {
			for _, name := range api.SchemaNames() {
				fmt.Fprintf(out, "     - %s\n", name)
			}
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Backend: %s\n", cfg.BaseURL)
	if s, err := openSession(ctx, cfg, nil); err != nil {
		fmt.Fprintf(out, "  ❌ %v\n", err)
		allOK = false
	} else {
		if err := s.load(ctx); err != nil {
			fmt.Fprintf(out, "  ❌ %v (see %s)\n", err, s.runLog.LogPath)
			allOK = false
		} else {
			fmt.Fprintf(out, "  ✅ Reachable (%d tasks)\n", len(s.ctrl.Snapshot().Tasks))
		}
		s.Close()
	}
	fmt.Fprintln(out)

	if allOK {
		fmt.Fprintln(out, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(out, "⚠️  Some checks failed. todoctl may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// tailCommand tails the latest log file.
func tailCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("todoctl tail", flag.ContinueOnError)
	fs.SetOutput(std.err)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(std.out, "No log files found.")
		return nil
	}

	fmt.Fprintf(std.out, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(std.out, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(std.out)

	return logging.TailLog(ctx, std.out, logPath, *n, *follow)
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(cws *config.ConfigWithSources, args []string, std streams) error {
	fs := flag.NewFlagSet("todoctl config", flag.ContinueOnError)
	fs.SetOutput(std.err)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(std.out, config.ExampleConfig())
		return nil
	}

	if f := cws.GetConfigFile(); f != "" {
		fmt.Fprintf(std.out, "# config file: %s\n", f)
	}
	for _, field := range config.Fields() {
		fmt.Fprintf(std.out, "%-26s = %-32q # %s\n", field, cws.Config.Value(field), cws.Source(field))
	}
	return nil
}
