package id

import (
	cryptoRand "crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono = ulid.Monotonic(cryptoRand.Reader, 0)
)

// New returns a ULID string (time-sortable identifier).
//
// IDs generated within the same millisecond remain lexicographically
// increasing, which keeps trade-log rows ordered by insertion.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		// Only possible if entropy fails or time goes backwards.
		panic(err)
	}
	return id.String()
}
