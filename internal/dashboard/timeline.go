package dashboard

import (
	"context"
	"fmt"

	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/model"
)

// TimelineEditor edits timeline.json.
type TimelineEditor struct {
	d   *Dashboard
	rec *Record[model.Timeline]
}

func (e *TimelineEditor) Record() *Record[model.Timeline] { return e.rec }

func (e *TimelineEditor) View() model.Timeline { return e.rec.Store().CurrentView() }

func sectionAt(op string, t model.Timeline, si int) error {
	if si < 0 || si >= len(t) {
		return errs.NotFound(op, fmt.Sprintf("no timeline section at %d", si))
	}
	return nil
}

func itemAt(op string, t model.Timeline, si, ii int) error {
	if err := sectionAt(op, t, si); err != nil {
		return err
	}
	if ii < 0 || ii >= len(t[si].Items) {
		return errs.NotFound(op, fmt.Sprintf("no timeline entry at %d/%d", si, ii))
	}
	return nil
}

func (e *TimelineEditor) UpdateCategory(si int, category string) error {
	return e.rec.mutate("update timeline category", func(t *model.Timeline) error {
		if err := sectionAt("update timeline category", *t, si); err != nil {
			return err
		}
		(*t)[si].Category = category
		return nil
	})
}

func (e *TimelineEditor) UpdateItem(si, ii int, item model.TimelineItem) error {
	return e.rec.mutate("update timeline entry", func(t *model.Timeline) error {
		if err := itemAt("update timeline entry", *t, si, ii); err != nil {
			return err
		}
		(*t)[si].Items[ii] = item
		return nil
	})
}

// AddItem appends an empty entry to section si and returns its index.
func (e *TimelineEditor) AddItem(si int) (int, error) {
	var idx int
	err := e.rec.mutate("add timeline entry", func(t *model.Timeline) error {
		if err := sectionAt("add timeline entry", *t, si); err != nil {
			return err
		}
		(*t)[si].Items = append((*t)[si].Items, model.TimelineItem{})
		idx = len((*t)[si].Items) - 1
		return nil
	})
	return idx, err
}

func (e *TimelineEditor) RemoveItem(si, ii int) error {
	return e.rec.mutate("remove timeline entry", func(t *model.Timeline) error {
		if err := itemAt("remove timeline entry", *t, si, ii); err != nil {
			return err
		}
		items := (*t)[si].Items
		(*t)[si].Items = append(items[:ii], items[ii+1:]...)
		return nil
	})
}

func (e *TimelineEditor) Save(ctx context.Context) error {
	return e.rec.publish(ctx, e.d.remote, "Update timeline")
}
