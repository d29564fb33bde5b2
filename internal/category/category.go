// Package category assigns classification tokens and colors to scanned
// entries. Tokens are opaque to the tree and layout packages; only the
// display surfaces interpret them.
package category

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/lumipallolabs/dirmap/internal/model"
)

// Token classifies one entry for coloring
type Token string

const (
	// Dir marks directories
	Dir Token = "<dir>"
	// Plain marks files with no usable extension
	Plain Token = "<none>"
)

// maxExtLen caps how long an extension can be before the name is
// treated as having none ("backup.2024-01-01" is not an extension)
const maxExtLen = 5

// ForName derives the token for a single entry name. Files map to
// their lowercased extension, without the dot.
func ForName(name string, isDir bool) Token {
	if isDir {
		return Dir
	}
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 {
		// No dot, or a dotfile like .bashrc
		return Plain
	}
	ext := name[dot+1:]
	if ext == "" || len(ext) > maxExtLen {
		return Plain
	}
	return Token(strings.ToLower(ext))
}

// Annotate stamps every node of the tree with its token. Run once
// after the tree is built; nothing else writes node categories.
func Annotate(root *model.Node) {
	model.Walk(root, func(n *model.Node) {
		n.Category = string(ForName(n.Name, n.IsDir))
	})
}

// Sniff reports the MIME type of the file at path by reading its
// content. Used on demand for single entries (the info panel), never
// during a scan.
func Sniff(path string) (string, error) {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	return mime.String(), nil
}
