package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/todoctl/internal/config"
	"github.com/nibzard/todoctl/internal/controller"
	"github.com/nibzard/todoctl/internal/render"
	"github.com/nibzard/todoctl/internal/todo"
	"github.com/nibzard/todoctl/internal/ui"
)

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoctl tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	confirm := ui.NewConfirmer()
	s, err := openSession(ctx, cfg, confirm)
	if err != nil {
		return err
	}
	defer s.Close()
	return ui.RunTUI(ctx, s.ctrl, confirm)
}

// lsCommand prints the filtered task list.
func lsCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("todoctl ls", flag.ContinueOnError)
	fs.SetOutput(std.err)
	filter := fs.String("filter", cfg.DefaultFilter, "Filter: all, pending, completed, high")
	asHTML := fs.Bool("html", false, "Print an HTML fragment instead of text")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	// A bare positional argument is the filter: `todoctl ls pending`.
	if len(rest) == 1 {
		*filter = rest[0]
	} else if len(rest) > 1 {
		return fmt.Errorf("unexpected arguments: %v", rest[1:])
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
	if *asHTML {
		out, err := render.HTML(snap.View, snap.Stats)
		if err != nil {
			return err
		}
		fmt.Fprintln(std.out, out)
		return nil
	}
	fmt.Fprint(std.out, render.Text(snap.View, snap.Stats, stylesFor(std.out)))
	return nil
}

// statsCommand prints the completion statistics.
func statsCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	s, err := openSession(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.load(ctx); err != nil {
		return err
	}

	st := s.ctrl.Snapshot().Stats
	fmt.Fprintf(std.out, "Total:     %d\n", st.Total)
	fmt.Fprintf(std.out, "Completed: %d\n", st.Completed)
	fmt.Fprintf(std.out, "Pending:   %d\n", st.Pending)
	fmt.Fprintf(std.out, "Rate:      %d%%\n", st.Rate)
	return nil
}

// addCommand creates a task. The title is the positional arguments joined
// by spaces.
func addCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("todoctl add", flag.ContinueOnError)
	fs.SetOutput(std.err)
	description := fs.String("description", "", "Task description")
	priority := fs.String("priority", "", "Priority: low, medium, high")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("usage: todoctl add <title> [-priority p] [-due date] [-description text]")
	}
	p, err := todo.ParsePriority(*priority)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.dispatch(ctx, std.out, controller.Event{Kind: controller.KindCreate, NewTask: todo.NewTask{
		Title:       strings.Join(rest, " "),
		Description: *description,
		Priority:    p,
		DueDate:     *due,
	}})
}

// editCommand updates the fields given as flags and keeps the rest.
func editCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("todoctl edit", flag.ContinueOnError)
	fs.SetOutput(std.err)
	title := fs.String("title", "", "New title")
	description := fs.String("description", "", "New description")
	priority := fs.String("priority", "", "New priority: low, medium, high")
	due := fs.String("due", "", "New due date (YYYY-MM-DD), empty clears it")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: todoctl edit <id> [-title t] [-description d] [-priority p] [-due date]")
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	s, err := openSession(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.load(ctx); err != nil {
		return err
	}
	task, err := s.find(rest[0])
	if err != nil {
		return err
	}
	if err := s.ctrl.Dispatch(ctx, controller.Event{Kind: controller.KindEdit, ID: task.ID}); err != nil {
		return err
	}

	draft := s.ctrl.Snapshot().Draft
	if set["title"] {
		draft.Title = *title
	}
	if set["description"] {
		draft.Description = *description
	}
	if set["priority"] {
		p, err := todo.ParsePriority(*priority)
		if err != nil {
			return err
		}
		draft.Priority = p
	}
	if set["due"] {
		draft.DueDate = *due
	}
	return s.dispatch(ctx, std.out, controller.Event{Kind: controller.KindSave, Draft: draft})
}

// toggleCommand flips a task between pending and completed.
func toggleCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: todoctl toggle <id>")
	}
	s, err := openSession(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.load(ctx); err != nil {
		return err
	}
	task, err := s.find(args[0])
	if err != nil {
		return err
	}
	return s.dispatch(ctx, std.out, controller.Event{Kind: controller.KindToggle, ID: task.ID})
}

// rmCommand deletes a task after asking on the terminal.
func rmCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("todoctl rm", flag.ContinueOnError)
	fs.SetOutput(std.err)
	yes := fs.Bool("yes", false, "Do not ask for confirmation")
	fs.BoolVar(yes, "y", false, "Do not ask for confirmation")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: todoctl rm [-yes] <id>")
	}

	var confirm controller.Confirmer = newPromptConfirmer(std.in, std.out)
	if *yes {
		confirm = controller.AlwaysConfirm
	}
	s, err := openSession(ctx, cfg, confirm)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.load(ctx); err != nil {
		return err
	}
	task, err := s.find(rest[0])
	if err != nil {
		return err
	}

	since := s.lastNoteID()
	if err := s.dispatch(ctx, std.out, controller.Event{Kind: controller.KindDelete, ID: task.ID}); err != nil {
		return err
	}
	if s.lastNoteID() == since {
		fmt.Fprintln(std.out, "Cancelled.")
	}
	return nil
}

// parseArgs parses flags that may appear before or after positional
// arguments and returns the positional ones.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// stylesFor colors output only for terminals.
func stylesFor(w io.Writer) render.Styles {
	if ui.IsTTY(w) {
		return render.DefaultStyles()
	}
	return render.PlainStyles()
}
