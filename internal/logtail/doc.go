// Package logtail reads the tail of stockboard's log file for the in-app
// diagnostics view.
//
// # Reading Log Files
//
// Read and ReadEntries stream the file once and keep only the newest values
// in a fixed window, so memory stays O(maxLines) however large the log has
// grown. ReadEntries parses while streaming; blank lines never take a slot.
//
// # Entries
//
// stockboard logs JSON through zap. Parse turns one line into an Entry with
// the timestamp, level and message pulled out and the remaining keys kept as
// sorted Fields. Lines that are not JSON (a panic trace, say) are kept as a
// message-only entry so nothing disappears from the view.
//
//	{"level":"warn","ts":"...","msg":"fetch failed","kind":"http_status","status":500}
//	  → 09:00:30 WARN  fetch failed kind=http_status status=500
//
// # Error Handling
//
// Read returns nil, nil for non-existent files. Other errors (permission
// denied, I/O errors) are returned wrapped. Parse never fails.
package logtail
