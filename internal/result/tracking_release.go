//go:build release

package result

const defaultTracking = false
