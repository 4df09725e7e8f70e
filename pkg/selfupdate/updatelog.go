package selfupdate

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// UpdateLog appends timestamped lines to update.log so users can see what the
// detached worker did after it has exited.
type UpdateLog struct {
	file *os.File
	now  func() time.Time
}

// OpenLog creates (or reuses) update.log under env.Root.
func OpenLog(env Env) (*UpdateLog, error) {
	if err := os.MkdirAll(env.Root, 0o750); err != nil {
		return nil, fmt.Errorf("update log: ensure dir: %w", err)
	}
	f, err := os.OpenFile(env.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) // #nosec G304 -- fixed name under gamekit home
	if err != nil {
		return nil, fmt.Errorf("update log: open: %w", err)
	}
	return &UpdateLog{file: f, now: env.now}, nil
}

// Close releases the file handle.
func (l *UpdateLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line.
func (l *UpdateLog) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintf(l.file, "[%s] %s\n", l.now().UTC().Format(time.RFC3339), line)
}
