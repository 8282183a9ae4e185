package editor

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

type MemoryRepository struct {
	drafts sync.Map
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) SaveDraft(id DraftId, content []byte) error {
	if len(content) == 0 {
		r.drafts.Delete(id)
		return nil
	}

	r.drafts.Store(id, &Draft{
		Id:        id,
		Content:   slices.Clone(content),
		UpdatedAt: time.Now(),
	})
	return nil
}

func (r *MemoryRepository) GetDraft(id DraftId) (*Draft, error) {
	if draft, ok := r.drafts.Load(id); ok {
		d := *draft.(*Draft)
		d.Content = slices.Clone(d.Content)
		return &d, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
}

func (r *MemoryRepository) DeleteDraft(id DraftId) error {
	r.drafts.Delete(id)
	return nil
}
