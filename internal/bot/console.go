package bot

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/foxseedlab/pipelinebot/internal/chat"
)

const consoleTimeLayout = "15:04:05"

// consoleLog writes one plain line per inbound message:
// "time - username - display name - chat id[ - label]".
type consoleLog struct {
	mu  sync.Mutex
	w   io.Writer
	loc *time.Location
	now func() time.Time
}

func newConsoleLog(w io.Writer, loc *time.Location) *consoleLog {
	if loc == nil {
		loc = time.Local
	}
	return &consoleLog{w: w, loc: loc, now: time.Now}
}

func (c *consoleLog) line(event chat.MessageEvent, label string) {
	username := event.Username
	if username == "" {
		username = consoleNoUsername
	}
	text := fmt.Sprintf("%s - %s - %s - %d", c.now().In(c.loc).Format(consoleTimeLayout), username, event.DisplayName, event.ChatID)
	if label != "" {
		text += " - " + label
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, text)
}
