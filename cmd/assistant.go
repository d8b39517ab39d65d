package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/todoctl/internal/config"
	"github.com/nibzard/todoctl/internal/controller"
	"github.com/nibzard/todoctl/internal/render"
)

// chatCommand sends one message and prints the exchange.
func chatCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("usage: todoctl chat <message>")
	}
	return assistantCommand(ctx, cfg, std, controller.Event{Kind: controller.KindChat, Text: text})
}

// insightsCommand asks for a summary of the current tasks.
func insightsCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return assistantCommand(ctx, cfg, std, controller.Event{Kind: controller.KindInsights})
}

// suggestCommand asks for tasks that serve a goal.
func suggestCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("todoctl suggest", flag.ContinueOnError)
	fs.SetOutput(std.err)
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	goal := strings.TrimSpace(strings.Join(rest, " "))
	if goal == "" {
		return fmt.Errorf("usage: todoctl suggest <goal>")
	}
	return assistantCommand(ctx, cfg, std, controller.Event{Kind: controller.KindSuggest, Text: goal})
}

// assistantCommand dispatches ev and prints the transcript entries it added.
func assistantCommand(ctx context.Context, cfg *config.Config, std streams, ev controller.Event) error {
	s, err := openSession(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	before := s.chat.Len()
	since := s.lastNoteID()
	if err := s.ctrl.Dispatch(ctx, ev); err != nil {
		return err
	}
	if added := s.chat.Messages()[before:]; len(added) > 0 {
		fmt.Fprint(std.out, render.ChatText(added, stylesFor(std.out)))
	}
	return s.report(std.out, since)
}
