package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient builds the pooled client used for calls to the vision
// analyzer. Image uploads can be slow on mobile networks, so the timeout
// comes from config rather than a constant here.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
