package editor

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/util/compression"
)

// DBRepository keeps drafts in the drafts table, compressed.
type DBRepository struct {
	db         db.Db
	compressor compression.Compressor
}

func NewDBRepository(db db.Db, compressor compression.Compressor) *DBRepository {
	if compressor == nil {
		compressor = compression.None{}
	}
	return &DBRepository{
		db:         db,
		compressor: compressor,
	}
}

func (r *DBRepository) SaveDraft(id DraftId, content []byte) error {
	if len(content) == 0 {
		return r.DeleteDraft(id)
	}

	packed, err := r.compressor.Compress(content)
	if err != nil {
		return fmt.Errorf("error compressing draft %s: %w", id, err)
	}

	_, err = r.db.Exec(`
INSERT INTO drafts (id, content, updated_at) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		string(id), packed, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error saving draft %s: %w", id, err)
	}

	editorLogger.Debug().Str("draft_id", string(id)).Int("bytes", len(content)).Int("stored", len(packed)).Msg("Draft saved")
	return nil
}

func (r *DBRepository) GetDraft(id DraftId) (*Draft, error) {
	var packed []byte
	var updated time.Time
	err := r.db.QueryRow(`SELECT content, updated_at FROM drafts WHERE id = ?`, string(id)).Scan(&packed, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading draft %s: %w", id, err)
	}

	content, err := r.compressor.Decompress(packed)
	if err != nil {
		return nil, fmt.Errorf("error decompressing draft %s: %w", id, err)
	}

	return &Draft{Id: id, Content: content, UpdatedAt: updated}, nil
}

func (r *DBRepository) DeleteDraft(id DraftId) error {
	if _, err := r.db.Exec(`DELETE FROM drafts WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("error deleting draft %s: %w", id, err)
	}
	return nil
}
