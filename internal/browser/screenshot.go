package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScreenShotDebugger writes full-page screenshots for failed searches
type ScreenShotDebugger struct {
	outputDir string
}

func NewScreenShotDebugger(dir string) *ScreenShotDebugger {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	return &ScreenShotDebugger{outputDir: dir}
}

func (s *ScreenShotDebugger) Capture(page playwright.Page, name string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return "", fmt.Errorf("capture screenshot: %w", err)
	}
	return path, nil
}
