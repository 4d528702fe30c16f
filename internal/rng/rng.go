// Package rng holds the process-wide PRNG used wherever statistical
// uniformity is enough.
package rng

import (
	"math/rand"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	rng = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Intn returns a uniform int in [0, n). Safe for concurrent use.
func Intn(n int) int {
	mu.Lock()
	defer mu.Unlock()
	return rng.Intn(n)
}
