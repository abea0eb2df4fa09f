package agr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agr-scraper/config"
	"agr-scraper/utils"

	"github.com/chromedp/chromedp"
)

const (
	loginUserSelector = `input#Username.form-control.form-icon-input`
	loginPassSelector = `input#Password.form-control.form-icon-input`
	loginSubmitButton = `button[type='submit']`
	tableRowsSelector = `tbody tr`
)

// ErrLoginFailed distinguishes a rejected login (form still present after
// submit) from navigation or timeout errors.
var ErrLoginFailed = errors.New("login failed: form still present after submit")

// Session owns one headless browser for the duration of a single scrape run.
// Only one Session exists process-wide at any time; the job runner enforces
// that.
type Session struct {
	cfg    *config.Config
	logger *utils.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// browserFlags is the launch profile: headless, container-safe, images
// disabled to keep page loads light.
var browserFlags = []struct {
	name  string
	value interface{}
}{
	{"headless", true},
	{"no-sandbox", true},
	{"disable-setuid-sandbox", true},
	{"disable-dev-shm-usage", true},
	{"disable-gpu", true},
	{"disable-background-timer-throttling", true},
	{"disable-backgrounding-occluded-windows", true},
	{"disable-renderer-backgrounding", true},
	{"blink-settings", "imagesEnabled=false"},
	{"log-level", "3"}, // suppress Chrome logs
}

// NewSession launches a headless browser tied to the given parent context, so
// that a run deadline interrupts in-flight browser operations.
func NewSession(parent context.Context, cfg *config.Config, logger *utils.Logger) (*Session, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	for _, f := range browserFlags {
		opts = append(opts, chromedp.Flag(f.name, f.value))
	}
	opts = append(opts, chromedp.WindowSize(1280, 900))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}

	// Start the browser eagerly so launch failures surface here, not on the
	// first navigation.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &Session{cfg: cfg, logger: logger, ctx: ctx, cancel: cancel}, nil
}

// Close shuts the browser down. Safe to call after a run deadline expired.
func (s *Session) Close() {
	s.cancel()
}

// Login navigates to the portal root, submits credentials and verifies the
// login form is gone. Returns ErrLoginFailed when the portal rejected the
// credentials.
func (s *Session) Login() error {
	if err := s.navigate(s.cfg.BaseURL); err != nil {
		return fmt.Errorf("portal root navigation failed: %w", err)
	}

	err := chromedp.Run(s.ctx,
		chromedp.WaitVisible(loginUserSelector, chromedp.ByQuery),
		chromedp.SendKeys(loginUserSelector, s.cfg.Email, chromedp.ByQuery),
		chromedp.SendKeys(loginPassSelector, s.cfg.Password, chromedp.ByQuery),
		chromedp.Click(loginSubmitButton, chromedp.ByQuery),
		chromedp.Sleep(5*time.Second), // post-submit navigation settles
	)
	if err != nil {
		return fmt.Errorf("login form interaction failed: %w", err)
	}

	var stillLogin bool
	err = chromedp.Run(s.ctx, chromedp.Evaluate(
		fmt.Sprintf(`document.querySelector(%q) !== null`, loginUserSelector), &stillLogin))
	if err != nil {
		return fmt.Errorf("post-login check failed: %w", err)
	}
	if stillLogin {
		return ErrLoginFailed
	}

	s.logger.Info("Login OK")
	return nil
}

// navigate loads a URL, retrying transient failures on a fixed-delay budget.
// Each attempt is bounded by the configured navigation timeout, so a hung
// page load fails the attempt and consumes the retry budget instead of
// stalling until the run deadline. Exhausting the budget is a hard failure
// for the whole scrape.
func (s *Session) navigate(url string) error {
	return utils.RetryFixedDelay(s.cfg.NavRetries, s.cfg.NavRetryDelay, s.logger, func() error {
		return navigateOnce(s.ctx, s.cfg.NavTimeout, func(ctx context.Context) error {
			return chromedp.Run(ctx, chromedp.Navigate(url))
		})
	})
}

// navigateOnce runs a single navigation attempt under its own deadline.
func navigateOnce(parent context.Context, timeout time.Duration, attempt func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	return attempt(ctx)
}

// waitForRows waits for table rows to appear, bounded by the configured
// selector wait. A false return means the page loaded without matching rows,
// which callers treat per their pagination policy.
func (s *Session) waitForRows() bool {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.SelectorWait)
	defer cancel()
	return chromedp.Run(ctx, chromedp.WaitReady(tableRowsSelector, chromedp.ByQuery)) == nil
}
