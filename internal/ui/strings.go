package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// truncate shortens a string to the given display width, adding an
// ellipsis if needed. Wide runes count as two cells.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || runewidth.StringWidth(value) <= limit {
		return value
	}
	if limit <= 3 {
		return runewidth.Truncate(value, limit, "")
	}
	return runewidth.Truncate(value, limit, "...")
}

// humanizeAgo formats an elapsed duration in Japanese ("12秒前").
func humanizeAgo(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < 5*time.Second:
		return "たった今"
	case d < time.Minute:
		return fmt.Sprintf("%d秒前", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%d分前", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d時間前", int(d.Hours()))
	default:
		return fmt.Sprintf("%d日前", int(d.Hours()/24))
	}
}

// singleLine folds multi-line product names ("アクリルスタンド\n井芹 仁菜")
// onto one line for lists.
func singleLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
