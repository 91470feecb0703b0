package filesystem

import "sync"

// Observer records filesystem operation metrics. Implementations are provided
// by the metrics package to break the import cycle between filesystem and metrics.
type Observer interface {
	// ObserveOperation records duration and error status for a filesystem
	// operation: "readdir", "stat" or "open".
	ObserveOperation(operation string, durationSeconds float64, err error)

	ObserveRetryAttempt(operation string)
	ObserveRetrySuccess(operation string)
	ObserveRetryFailure(operation string)
	ObserveStaleError(operation string)
}

type noopObserver struct{}

func (noopObserver) ObserveOperation(string, float64, error) {}
func (noopObserver) ObserveRetryAttempt(string)              {}
func (noopObserver) ObserveRetrySuccess(string)              {}
func (noopObserver) ObserveRetryFailure(string)              {}
func (noopObserver) ObserveStaleError(string)                {}

var (
	observerMu      sync.RWMutex
	defaultObserver Observer = noopObserver{}
)

// SetObserver sets the package-level metrics observer. A nil observer
// restores the no-op default.
func SetObserver(o Observer) {
	observerMu.Lock()
	defer observerMu.Unlock()
	if o == nil {
		o = noopObserver{}
	}
	defaultObserver = o
}

func observe() Observer {
	observerMu.RLock()
	defer observerMu.RUnlock()
	return defaultObserver
}
