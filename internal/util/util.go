// Package util provides content hashing and front matter parsing.
package util

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/gomarkdown/markdown"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/mmarkdown/mmark/v2/mast"
)

// FrontMatter is the TOML block at the top of an importable markdown file.
// The mmark title block supplies title and date; the remaining keys map onto
// card fields.
type FrontMatter struct {
	*mast.TitleData
	Consumed int `toml:"-"`

	CardID      string `toml:"id"`
	Tag         string `toml:"tag"`
	Sub         string `toml:"sub"`
	Description string `toml:"description"`
	Img         string `toml:"img"`
}

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// GitBlobSHA returns the object id git assigns to a blob with this content,
// which is the sha the contents API reports for a file.
func GitBlobSHA(content []byte) string {
	h := sha1.New()
	h.Write([]byte("blob " + strconv.Itoa(len(content)) + "\x00"))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func GetFrontMatter(md []byte) (*FrontMatter, error) {
	md = markdown.NormalizeNewlines(md)
	md = bytes.TrimLeft(md, "\n \t\r")

	delimiter := []byte(config.FrontMatterDelimiter)

	if len(md) < 2*len(delimiter) {
		return nil, fmt.Errorf("invalid front matter format")
	}

	first := bytes.Index(md[:len(delimiter)+1], delimiter)
	if first == -1 {
		return nil, fmt.Errorf("invalid front matter format")
	}

	second := bytes.Index(md[first+len(delimiter):], delimiter)
	if second == -1 {
		return nil, fmt.Errorf("invalid front matter format")
	}

	end := second + 2*len(delimiter) + 1
	if end > len(md) {
		return nil, fmt.Errorf("invalid front matter format")
	}

	info := &FrontMatter{
		TitleData: &mast.TitleData{},
	}

	if _, err := toml.Decode(string(md[len(delimiter):end-len(delimiter)-1]), info); err != nil {
		return nil, fmt.Errorf("failed to decode front matter: %w", err)
	}

	if info.Language == "" {
		info.Language = "en"
	}
	info.Consumed = end

	return info, nil
}

// Body returns md with the front matter removed.
func (f *FrontMatter) Body(md []byte) []byte {
	md = markdown.NormalizeNewlines(md)
	md = bytes.TrimLeft(md, "\n \t\r")
	if f.Consumed >= len(md) {
		return nil
	}
	return bytes.TrimLeft(md[f.Consumed:], "\n")
}
