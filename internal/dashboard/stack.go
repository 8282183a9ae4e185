package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/model"
)

// StackEditor edits tools.json.
type StackEditor struct {
	d   *Dashboard
	rec *Record[model.Tools]
}

func (e *StackEditor) Record() *Record[model.Tools] { return e.rec }

func (e *StackEditor) View() model.Tools { return e.rec.Store().CurrentView() }

func categoryAt(op string, t model.Tools, ci int) error {
	if ci < 0 || ci >= len(t) {
		return errs.NotFound(op, fmt.Sprintf("no stack category at %d", ci))
	}
	return nil
}

func (e *StackEditor) UpdateCategory(ci int, label, sub string) error {
	return e.rec.mutate("update stack category", func(t *model.Tools) error {
		if err := categoryAt("update stack category", *t, ci); err != nil {
			return err
		}
		(*t)[ci].Label = label
		(*t)[ci].Sub = sub
		return nil
	})
}

// SetTools replaces a category's tools from "name:icon" lines.
func (e *StackEditor) SetTools(ci int, lines string) error {
	return e.rec.mutate("set tools", func(t *model.Tools) error {
		if err := categoryAt("set tools", *t, ci); err != nil {
			return err
		}
		(*t)[ci].Tools = ParseTools(lines)
		return nil
	})
}

func (e *StackEditor) Save(ctx context.Context) error {
	return e.rec.publish(ctx, e.d.remote, "Update tech stack")
}

// ParseTools reads one tool per non-blank line as "name:icon". A missing
// icon defaults to the lowercased name plus ".svg"; the title is the name.
func ParseTools(lines string) []model.Tool {
	tools := []model.Tool{}
	for _, line := range strings.Split(lines, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, icon, _ := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		icon = strings.TrimSpace(icon)
		if icon == "" {
			icon = strings.ToLower(name) + ".svg"
		}
		tools = append(tools, model.Tool{Name: name, Icon: icon, Title: name})
	}
	return tools
}

// FormatTools is the inverse of ParseTools.
func FormatTools(tools []model.Tool) string {
	lines := make([]string, len(tools))
	for i, t := range tools {
		lines[i] = t.Name + ":" + t.Icon
	}
	return strings.Join(lines, "\n")
}
