package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatBytes takes a byte count and returns its formatted form, example 5235745682 -> "5.2 GB"
func FormatBytes(b int64) string {
	const unit = 1000
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "kMGTPE"[exp])
}

// IsTorrentFile checks whether a path looks like a .torrent file
func IsTorrentFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".torrent")
}
