package rod

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the number of pages a browser serves before it is
// replaced. Long batch runs otherwise grow Chrome's memory without bound.
const DefaultRecycleAfter = 75

// BrowserManager owns the headless browser used by Fetcher and replaces it
// after a fixed number of pages. A failed replacement keeps the old browser
// running.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	recycleAfter int64
	bin          string
	logger       *slog.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    atomic.Int64
	closed   atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithRecycleAfter sets how many pages a browser serves before it is
// replaced. Defaults to DefaultRecycleAfter.
func WithRecycleAfter(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.recycleAfter = n
	}
}

// WithBin sets the Chrome or Chromium executable. By default the launcher
// looks the browser up on the system and downloads one if none is found.
func WithBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// WithLogger sets the logger for browser launches and recycling.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(bm *BrowserManager) {
		bm.logger = l
	}
}

// NewBrowserManager launches a headless browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		recycleAfter: DefaultRecycleAfter,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(bm)
	}

	browser, l, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = browser, l
	return bm, nil
}

// Browser returns the current browser, replacing it first when it has
// served recycleAfter pages. Callers report each served page with
// IncrementPageCount.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.recycleAfter > 0 && bm.pages.Load() >= bm.recycleAfter {
		bm.recycle()
	}
	return bm.browser
}

// IncrementPageCount records one served page.
func (bm *BrowserManager) IncrementPageCount() {
	bm.pages.Add(1)
}

// Close shuts the browser down. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	err := shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = nil, nil
	return err
}

// LauncherPID returns the process ID of the browser launcher, or 0 once
// the manager is closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// launch starts a browser with flags that keep background pages from being
// throttled during long runs.
func (bm *BrowserManager) launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}

	bm.logger.Debug("browser launched", "pid", l.PID())
	return browser, l, nil
}

// recycle swaps in a fresh browser. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	browser, l, err := bm.launch()
	if err != nil {
		bm.logger.Warn("browser recycle failed, keeping current browser", "pages", bm.pages.Load(), "error", err)
		return
	}

	if err := shutdown(bm.browser, bm.launcher); err != nil {
		bm.logger.Debug("closing recycled browser", "error", err)
	}
	bm.browser, bm.launcher = browser, l
	bm.pages.Store(0)
	bm.logger.Info("browser recycled")
}

func shutdown(browser *rod.Browser, l *launcher.Launcher) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
