package utils

import "sync"

var mu sync.Mutex

// ExecuteWithMutex serializes result collection from worker pool callbacks.
func ExecuteWithMutex(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}
