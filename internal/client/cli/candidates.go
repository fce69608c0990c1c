package cli

import (
	"context"
	"errors"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/erpdesk/internal/client/export"
	"github.com/dmitrijs2005/erpdesk/internal/client/models"
)

var getOptionalText = GetOptionalText

func (a *App) Candidates(ctx context.Context, _ []string) error {
	list := a.pipeline.List(ctx)
	if len(list) == 0 {
		a.println("No candidates")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	defer w.Flush()

	_, _ = w.Write([]byte("ID\tNAME\tPOSITION\tSTAGE\tSTATUS\n"))
	for _, c := range list {
		_, _ = w.Write([]byte(strings.Join([]string{c.ID, c.Name, c.Position, string(c.Stage), c.Status}, "\t") + "\n"))
	}
	return nil
}

// Add prompts for a new applicant. It is the entry point of the recruitment
// list into the pipeline.
func (a *App) Add(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Candidate name", os.Stdout)
	if err != nil {
		return err
	}

	var c models.Candidate
	c.Name = name

	optional := []struct {
		prompt string
		dst    *string
	}{
		{"Position", &c.Position},
		{"Department", &c.Department},
		{"Email", &c.Email},
		{"Phone", &c.Phone},
		{"Experience", &c.Experience},
	}
	for _, f := range optional {
		if *f.dst, err = getOptionalText(a.reader, f.prompt, os.Stdout); err != nil {
			return err
		}
	}

	added, err := a.pipeline.Add(ctx, c)
	if err != nil {
		return err
	}
	a.printf("Added candidate %s\n", added.ID)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: show <id>")
		return nil
	}

	c, err := a.pipeline.Get(ctx, args[0])
	if err != nil {
		return err
	}

	a.printf("%s (%s)\n", c.Name, c.ID)
	a.printf("Position:   %s, %s\n", c.Position, c.Department)
	if c.Email != "" || c.Phone != "" {
		a.printf("Contact:    %s %s\n", c.Email, c.Phone)
	}
	if c.Experience != "" {
		a.printf("Experience: %s\n", c.Experience)
	}
	a.printf("Applied:    %s\n", c.AppliedDate)
	a.printf("Stage:      %s / %s\n", c.Stage, c.Status)
	a.println("History:")
	for _, h := range c.History {
		a.printf("  %s  %-11s %-12s %s\n", h.Date, h.Stage, h.Status, h.Note)
	}
	return nil
}

func (a *App) Stage(ctx context.Context, args []string) error {
	if len(args) != 2 {
		a.println("Usage: stage <id> <stage>")
		return nil
	}

	stage, err := models.ParseStage(args[1])
	if err != nil {
		return err
	}
	c, err := a.pipeline.ChangeStage(ctx, args[0], stage)
	if err != nil {
		return err
	}
	a.printf("%s is now at %s\n", c.Name, c.Stage)
	return nil
}

// Status takes the rest of the line as the status, so "In Review" needs no
// quoting.
func (a *App) Status(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.println("Usage: status <id> <status>")
		return nil
	}

	c, err := a.pipeline.ChangeStatus(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	a.printf("%s is now %s\n", c.Name, c.Status)
	return nil
}

func (a *App) Next(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: next <id>")
		return nil
	}

	before, err := a.pipeline.Get(ctx, args[0])
	if err != nil {
		return err
	}
	c, err := a.pipeline.MoveToNextStage(ctx, args[0])
	if err != nil {
		return err
	}

	if len(c.History) == len(before.History) {
		a.printf("%s is at %s; there is no next stage\n", c.Name, c.Stage)
		return nil
	}
	a.printf("%s moved to %s\n", c.Name, c.Stage)
	return nil
}

func (a *App) Export(ctx context.Context, _ []string) error {
	key, err := a.exporter.Export(ctx, a.pipeline.List(ctx))
	if errors.Is(err, export.ErrDisabled) {
		a.println("Export is not configured (set s3_bucket)")
		return nil
	}
	if err != nil {
		return err
	}
	a.printf("Exported to %s\n", key)
	return nil
}
