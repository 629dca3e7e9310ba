package metrics

import "time"

// Recorder defines observability hooks for parsing and validation.
// Implementations must be safe for concurrent use.
type Recorder interface {
	IncCacheHit()
	IncCacheMiss()
	IncCacheEviction()
	SetCacheEntries(n int)
	ObserveParseDuration(d time.Duration)
	AddBrokenLinks(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncCacheHit()                       {}
func (NoopRecorder) IncCacheMiss()                      {}
func (NoopRecorder) IncCacheEviction()                  {}
func (NoopRecorder) SetCacheEntries(int)                {}
func (NoopRecorder) ObserveParseDuration(time.Duration) {}
func (NoopRecorder) AddBrokenLinks(int)                 {}
