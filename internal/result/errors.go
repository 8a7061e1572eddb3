package result

import "errors"

var (
	// ErrRecycled is returned when a recycled result is accessed while tracking is enabled
	ErrRecycled = errors.New("write result has been recycled")

	// ErrLeaseExpired is returned when a lease outlived the acquisition it was taken from
	ErrLeaseExpired = errors.New("write result lease expired")
)
