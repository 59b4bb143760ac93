package storage

import (
	"path/filepath"
	"strings"
	"time"

	strftime "github.com/ncruces/go-strftime"
)

// SuggestedName expands a strftime pattern such as "sermon-%Y-%m-%d.html"
// into a file name. Path separators are replaced and ".html" is added when
// the pattern has no extension.
func SuggestedName(format string, t time.Time) string {
	name := strftime.Format(format, t)
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(strings.TrimSpace(name))
	if name == "" {
		name = "untitled"
	}
	if filepath.Ext(name) == "" {
		name += ".html"
	}
	return name
}
