package assets

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/debemdeboas/folio/internal/util"
)

// FSStore keeps images content-addressed under root, sharded two levels deep
// by the sha256 of their bytes: "a3/f2/a3f29d...png".
type FSStore struct {
	root      string
	urlPrefix string
}

func NewFSStore(root, urlPrefix string) (*FSStore, error) {
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating assets directory: %w", err)
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &FSStore{root: root, urlPrefix: urlPrefix}, nil
}

func (s *FSStore) Root() string { return s.root }

func shardKey(data []byte, ext string) string {
	hash := util.ContentHash(data)
	return path.Join(hash[:2], hash[2:4], hash+ext)
}

// Put writes data unless an identical image is already stored.
func (s *FSStore) Put(ctx context.Context, data []byte, ext, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := shardKey(data, ext)
	url := s.urlPrefix + key
	dst := filepath.Join(s.root, filepath.FromSlash(key))

	if _, err := os.Stat(dst); err == nil {
		assetsLogger.Debug().Str("key", key).Msg("Image already stored")
		return url, nil
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating shard directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing image: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("moving image into place: %w", err)
	}
	return url, nil
}
