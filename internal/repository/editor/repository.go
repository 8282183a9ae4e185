// Package editor stores unpublished drafts so edits survive a restart of the
// server or a new folioctl invocation.
package editor

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// DraftId names a draft. The dashboard uses the content file name.
type DraftId string

type Draft struct {
	Id        DraftId
	Content   []byte
	UpdatedAt time.Time
}

var ErrDraftNotFound = errors.New("draft not found")

type Repository interface {
	// SaveDraft stores content under id. Empty content removes the draft.
	SaveDraft(id DraftId, content []byte) error
	GetDraft(id DraftId) (*Draft, error)
	DeleteDraft(id DraftId) error
}

var editorLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	editorLogger = l
}
