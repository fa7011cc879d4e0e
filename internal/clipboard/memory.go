package clipboard

import (
	"context"
	"sync"
)

// Memory is an in-process clipboard. Set replaces its whole content and
// signals one change.
type Memory struct {
	mu      sync.Mutex
	content Content
	notify  chan struct{}
}

// Content is everything a clipboard offers at once. Zero fields are absent.
type Content struct {
	Image []byte
	Files []string
	HTML  string
	RTF   string
	Text  string
}

func NewMemory() *Memory {
	return &Memory{notify: make(chan struct{}, 64)}
}

// Set replaces the board content and reports a change.
func (m *Memory) Set(c Content) {
	m.mu.Lock()
	m.content = c
	m.mu.Unlock()
	m.notify <- struct{}{}
}

// Content returns the current board.
func (m *Memory) Content() Content {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content
}

func (m *Memory) ReadImage(ctx context.Context) ([]byte, bool, error) {
	c := m.Content()
	return c.Image, len(c.Image) > 0, nil
}

func (m *Memory) ReadFiles(ctx context.Context) ([]string, bool, error) {
	c := m.Content()
	return c.Files, len(c.Files) > 0, nil
}

func (m *Memory) ReadHTML(ctx context.Context) (string, bool, error) {
	c := m.Content()
	return c.HTML, c.HTML != "", nil
}

func (m *Memory) ReadRTF(ctx context.Context) (string, bool, error) {
	c := m.Content()
	return c.RTF, c.RTF != "", nil
}

func (m *Memory) ReadText(ctx context.Context) (string, bool, error) {
	c := m.Content()
	return c.Text, c.Text != "", nil
}

// WriteText replaces the board with text without signalling a change, as
// the OS does for writes from this process.
func (m *Memory) WriteText(ctx context.Context, text string) error {
	m.mu.Lock()
	m.content = Content{Text: text}
	m.mu.Unlock()
	return nil
}

func (m *Memory) WriteImage(ctx context.Context, png []byte) error {
	m.mu.Lock()
	m.content = Content{Image: png}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Changes(ctx context.Context) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.notify:
				select {
				case out <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
