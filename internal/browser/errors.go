package browser

import "errors"

// Sentinel errors for browser operations.
var (
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrScript          = errors.New("page script failed")
	ErrScreenshot      = errors.New("screenshot failed")
	ErrElementNotFound = errors.New("element not found")
	ErrClosed          = errors.New("browser is closed")
)
