// Package cards edits a blog, project or case study collection through its
// draft store.
package cards

import (
	"fmt"
	"strings"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/draft"
	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/google/uuid"
)

// NewID returns a time-ordered id that is unique in practice.
func NewID() model.CardID {
	return model.CardID(uuid.Must(uuid.NewV7()).String())
}

type Editor struct {
	store    *draft.Store[model.Collection]
	newID    func() model.CardID
	onChange func()
}

func New(store *draft.Store[model.Collection]) *Editor {
	return &Editor{store: store, newID: NewID}
}

// OnChange registers fn to run after every successful mutation.
func (e *Editor) OnChange(fn func()) {
	e.onChange = fn
}

func (e *Editor) Store() *draft.Store[model.Collection] {
	return e.store
}

func (e *Editor) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

// Create appends a card built from fields and returns its id. A missing or
// blank title is a validation error.
func (e *Editor) Create(fields model.CardFields) (model.CardID, error) {
	id := e.newID()
	if err := e.create(id, fields); err != nil {
		return "", err
	}
	return id, nil
}

// CreateWithID appends a card under a caller-chosen id. An id already in the
// collection is a conflict.
func (e *Editor) CreateWithID(id model.CardID, fields model.CardFields) error {
	if strings.TrimSpace(string(id)) == "" {
		return errs.Validation("create card", "id required")
	}
	return e.create(id, fields)
}

func (e *Editor) create(id model.CardID, fields model.CardFields) error {
	if !fields.HasTitle() {
		return errs.Validation("create card", config.ErrTitleRequired)
	}

	card := model.Card{ID: id}
	fields.Apply(&card)

	err := e.store.Mutate(func(c *model.Collection) error {
		if c.Index(id) >= 0 {
			return errs.Conflict("create card", fmt.Sprintf("card %s already exists", id))
		}
		*c = append(*c, card)
		return nil
	})
	if err != nil {
		return err
	}
	e.changed()
	return nil
}

// Update overwrites the supplied fields of card id.
func (e *Editor) Update(id model.CardID, fields model.CardFields) error {
	if fields.Title != nil && !fields.HasTitle() {
		return errs.Validation("update card", config.ErrTitleRequired)
	}

	err := e.store.Mutate(func(c *model.Collection) error {
		i := c.Index(id)
		if i < 0 {
			return errs.NotFound("update card", "no card with id "+string(id))
		}
		fields.Apply(&(*c)[i])
		return nil
	})
	if err != nil {
		return err
	}
	e.changed()
	return nil
}

// Delete removes card id. Deleting an absent id changes nothing and reports
// false.
func (e *Editor) Delete(id model.CardID) bool {
	if e.store.CurrentView().Index(id) < 0 {
		return false
	}

	removed := false
	e.store.Mutate(func(c *model.Collection) error {
		if i := c.Index(id); i >= 0 {
			*c = append((*c)[:i], (*c)[i+1:]...)
			removed = true
		}
		return nil
	})
	if removed {
		e.changed()
	}
	return removed
}

// List returns the current view in display order.
func (e *Editor) List() model.Collection {
	return e.store.CurrentView()
}

func (e *Editor) Get(id model.CardID) (model.Card, error) {
	c := e.store.CurrentView()
	if i := c.Index(id); i >= 0 {
		return c[i], nil
	}
	return model.Card{}, errs.NotFound("get card", "no card with id "+string(id))
}
