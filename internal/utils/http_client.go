package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
//
// Example usage:
//
//	client := utils.NewHTTPClient(30 * time.Second)
//	resp, err := client.R().SetContext(ctx).Get(imageURL)
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client. Transient failures (network
// errors and 5xx answers) are retried twice. A zero timeout leaves the
// request bound only by its context.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	c := resty.New().
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	if timeout > 0 {
		c.SetTimeout(timeout)
	}

	return &HTTPClient{Client: c}
}
