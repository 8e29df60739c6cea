package adapter

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// mapHTTPError converts a non-2xx image response into an error.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	switch resp.StatusCode() {
	case http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("%w: %s", ErrImageNotFound, resp.Request.URL)
	default:
		return fmt.Errorf("%w: http %d", ErrImageFetch, resp.StatusCode())
	}
}
