package ui

import (
	"sync"
	"time"
)

// MessageTTL is how long a status message stays on the status line
const MessageTTL = 5 * time.Second

// Message represents a status message with timestamp
type Message struct {
	Text      string
	Timestamp time.Time
}

// StatusLine shows the document title, a modified flag and the latest
// message. It keeps the last messages for :messages.
type StatusLine struct {
	mu       sync.Mutex
	messages []Message
	maxSize  int
	now      func() time.Time
}

// NewStatusLine creates a status line keeping maxSize messages
func NewStatusLine(maxSize int) *StatusLine {
	return &StatusLine{maxSize: maxSize, now: time.Now}
}

// SetMessage shows text and adds it to the message history
func (sl *StatusLine) SetMessage(text string) {
	if text == "" {
		return
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.messages = append(sl.messages, Message{Text: text, Timestamp: sl.now()})
	if len(sl.messages) > sl.maxSize {
		sl.messages = sl.messages[len(sl.messages)-sl.maxSize:]
	}
}

// Current returns the latest message while it has not expired
func (sl *StatusLine) Current() string {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if len(sl.messages) == 0 {
		return ""
	}
	last := sl.messages[len(sl.messages)-1]
	if sl.now().Sub(last.Timestamp) > MessageTTL {
		return ""
	}
	return last.Text
}

// Messages returns all kept messages, newest first
func (sl *StatusLine) Messages() []Message {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	out := make([]Message, len(sl.messages))
	for i, m := range sl.messages {
		out[len(sl.messages)-1-i] = m
	}
	return out
}

// Render draws the status line on row y
func (sl *StatusLine) Render(screen *Screen, y int, mode string, modified bool) {
	w, _ := screen.Size()
	x := screen.DrawString(0, y, " "+mode+" ", screen.StatusModeStyle())
	if modified {
		x += screen.DrawString(x, y, " [+]", screen.StatusModifiedStyle())
	}
	x += screen.DrawString(x, y, " ", screen.StatusMessageStyle())
	x += screen.DrawStringLimited(x, y, sl.Current(), w-x, screen.StatusMessageStyle())
	screen.FillLine(x, y, screen.StatusMessageStyle())
}

// RenderHeader draws the document title on row y
func RenderHeader(screen *Screen, y int, title string) {
	w, _ := screen.Size()
	x := screen.DrawStringLimited(1, y, TruncateToWidthWithEllipsis(title, w-2), w-1, screen.HeaderStyle())
	screen.FillLine(x+1, y, screen.HeaderStyle())
}
