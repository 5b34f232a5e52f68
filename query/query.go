package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/revelaction/corpstat/feature"
	"github.com/revelaction/corpstat/render"
	"github.com/revelaction/corpstat/storage"
)

const (
	cmdGroups = "groups"
	cmdQuit   = "quit"
)

// Handler browses stored feature tables in a REPL.
type Handler struct {
	Repo     storage.TableReader
	Renderer *render.Renderer

	// tables read so far, by group
	tables map[string]feature.Table
}

func NewHandler(repo storage.TableReader, r *render.Renderer) *Handler {
	return &Handler{
		Repo:     repo,
		Renderer: r,
		tables:   map[string]feature.Table{},
	}
}

// command is one parsed REPL line.
type command struct {
	name  string // groups, quit or empty for a lookup
	group string
	file  string
}

func (h *Handler) Run(ctx context.Context) error {
	groups, err := h.Repo.Groups(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(h.Renderer.Out, "🔑 <group> [file], groups, 🔧 quit")

	history := []string{}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		in := prompt.Input("      🔖 ", h.completer(ctx, groups),
			prompt.OptionTitle("corpstat browse"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
		)

		cmd, err := parse(in)
		if err != nil {
			continue
		}

		if cmd.name == cmdQuit {
			return nil
		}

		history = append(history, in)

		if err := h.exec(ctx, cmd, groups); err != nil {
			fmt.Fprintf(h.Renderer.Out, "✍  %v\n", err)
		}
	}
}

// exec runs one parsed command against the repository.
func (h *Handler) exec(ctx context.Context, cmd command, groups []string) error {
	if cmd.name == cmdGroups {
		return h.Renderer.Groups(groups)
	}

	t, err := h.table(ctx, cmd.group)
	if err != nil {
		return err
	}

	if cmd.file == "" {
		return h.Renderer.Table(t)
	}

	row, ok := t.Row(cmd.file)
	if !ok {
		return fmt.Errorf("%s: no file %s", cmd.group, cmd.file)
	}

	return h.Renderer.Row(cmd.group, row)
}

func (h *Handler) table(ctx context.Context, group string) (feature.Table, error) {
	if t, ok := h.tables[group]; ok {
		return t, nil
	}

	t, err := h.Repo.Read(ctx, group)
	if err != nil {
		return feature.Table{}, err
	}

	h.tables[group] = t
	return t, nil
}

func (h *Handler) completer(ctx context.Context, groups []string) func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {
		befCursor := in.TextBeforeCursor()
		if befCursor == "" {
			return []prompt.Suggest{}
		}

		tokens := strings.Split(befCursor, " ")

		if len(tokens) == 1 {
			s := completeGroup(groups, tokens[0])
			for _, c := range []string{cmdGroups, cmdQuit} {
				if strings.HasPrefix(c, tokens[0]) {
					s = append(s, prompt.Suggest{Text: c, Description: "🔧"})
				}
			}
			return s
		}

		if len(tokens) == 2 {
			t, err := h.table(ctx, tokens[0])
			if err != nil {
				return []prompt.Suggest{}
			}
			return completeFile(t, tokens[1])
		}

		return []prompt.Suggest{}
	}
}

func completeGroup(groups []string, token string) []prompt.Suggest {
	s := []prompt.Suggest{}
	for _, g := range groups {
		if strings.HasPrefix(g, token) {
			s = append(s, prompt.Suggest{Text: g, Description: "🔖 " + g})
		}
	}
	return s
}

func completeFile(t feature.Table, token string) []prompt.Suggest {
	s := []prompt.Suggest{}
	for _, r := range t.Rows {
		if strings.HasPrefix(r.Filename, token) {
			s = append(s, prompt.Suggest{Text: r.Filename, Description: t.Group})
		}
	}
	return s
}

func parse(in string) (command, error) {
	tokens := strings.Fields(in)

	switch len(tokens) {
	case 0:
		return command{}, errors.New("empty input")
	case 1:
		if tokens[0] == cmdGroups || tokens[0] == cmdQuit {
			return command{name: tokens[0]}, nil
		}
		return command{group: tokens[0]}, nil
	case 2:
		return command{group: tokens[0], file: tokens[1]}, nil
	}

	return command{}, fmt.Errorf("expected <group> [file], got %q", in)
}
