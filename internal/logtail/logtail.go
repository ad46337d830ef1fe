package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// maxLineBytes bounds one log line. A zap line with a long error message
// stays far below it.
const maxLineBytes = 1 << 20

// window keeps the last len(buf) values pushed into it.
type window[T any] struct {
	buf  []T
	next int
	full bool
}

func (w *window[T]) push(v T) {
	w.buf[w.next] = v
	w.next++
	if w.next == len(w.buf) {
		w.next = 0
		w.full = true
	}
}

// values returns the kept values, oldest first.
func (w *window[T]) values() []T {
	if !w.full {
		return append([]T(nil), w.buf[:w.next]...)
	}
	out := make([]T, 0, len(w.buf))
	out = append(out, w.buf[w.next:]...)
	return append(out, w.buf[:w.next]...)
}

// scan streams the log at path through keep and returns the last n values
// it accepted. A missing file reads as empty.
func scan[T any](path string, n int, keep func(line string) (T, bool)) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	w := &window[T]{buf: make([]T, n)}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if v, ok := keep(scanner.Text()); ok {
			w.push(v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}
	return w.values(), nil
}

// Read returns at most maxLines raw lines from the end of the log at path.
func Read(path string, maxLines int) ([]string, error) {
	return scan(path, maxLines, func(line string) (string, bool) {
		return line, true
	})
}
