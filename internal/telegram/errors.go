package telegram

import (
	"errors"
	"fmt"

	"github.com/i474232898/weather-stickers/internal/common"
)

// APIError is a failed Bot API call.
type APIError struct {
	Method      string
	Code        int
	Description string
	RetryAfter  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// IsStickerSetNotFound reports whether err says the requested set does not exist.
func IsStickerSetNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return common.ContainsAnyFold(apiErr.Description, "stickerset_invalid", "stickerset not found")
}
