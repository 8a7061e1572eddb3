//go:build !release

package result

const defaultTracking = true
