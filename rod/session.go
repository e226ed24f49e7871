package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/scrape"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the number of pages a Chrome process renders before
// it is replaced.
const DefaultMaxPages = 75

// Session owns the Chrome process pages are rendered in. Chrome's memory
// never returns to its baseline between pages, so after a fixed number of
// pages the process is swapped for a fresh one.
//
// Session is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	proc     *process
	bin      string
	maxPages int
	pages    int
	closed   bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPagesPerProcess sets how many pages one Chrome process renders.
// Values below 1 keep DefaultMaxPages.
func WithPagesPerProcess(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithBinary launches the Chrome binary at path instead of the one the
// launcher finds or downloads.
func WithBinary(path string) SessionOption {
	return func(s *Session) {
		s.bin = path
	}
}

// NewSession launches Chrome and returns a session around it.
// Close must be called to stop the browser.
func NewSession(opts ...SessionOption) (*Session, error) {
	s := &Session{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(s)
	}

	proc, err := launch(s.bin)
	if err != nil {
		return nil, err
	}
	s.proc = proc
	return s, nil
}

// NewPage opens a blank tab. Once the current process has opened its quota
// of pages a replacement is launched first; if that launch fails the old
// process keeps serving.
func (s *Session) NewPage() (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, scrape.Errorf(scrape.EINVALID, "browser session is closed")
	}
	if s.pages >= s.maxPages {
		if proc, err := launch(s.bin); err == nil {
			_ = s.proc.close()
			s.proc = proc
			s.pages = 0
		}
	}

	page, err := s.proc.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	s.pages++
	return page, nil
}

// PID returns the process ID of the running browser, or 0 once closed.
func (s *Session) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	return s.proc.launcher.PID()
}

// Close stops the browser. Close is safe to call multiple times.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.proc.close()
}

// process is one running Chrome instance and its launcher.
type process struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// launch starts headless Chrome with background throttling disabled, so
// render delays behave the same in hidden tabs.
func launch(bin string) (*process, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if bin != "" {
		l = l.Bin(bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &process{browser: browser, launcher: l}, nil
}

func (p *process) close() error {
	err := p.browser.Close()
	p.launcher.Kill()
	return err
}
