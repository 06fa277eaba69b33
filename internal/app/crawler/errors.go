package crawler

import (
	"errors"

	"github.com/yama6a/statement-scraper/internal/pkg/utils"
)

var (
	ErrSectionNotFound   = errors.New("section not found")
	ErrContainerNotFound = errors.New("table container not found")
	ErrTableNotFound     = errors.New("data table not found")
	ErrPanelNotFound     = errors.New("summary panel not found")
	ErrRetriesExhausted  = errors.New("retries exhausted")
)

// IsNotFound reports whether err is a structural absence on the page rather than a transport failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSectionNotFound) ||
		errors.Is(err, ErrContainerNotFound) ||
		errors.Is(err, ErrTableNotFound) ||
		errors.Is(err, ErrPanelNotFound) ||
		errors.Is(err, utils.ErrHeaderNotFound) ||
		errors.Is(err, utils.ErrBodyNotFound)
}
