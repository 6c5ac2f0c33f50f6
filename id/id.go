package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
	last ulid.ULID
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Monotonic entropy keeps IDs minted within the same millisecond ordered.
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string for the current time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID string stamped with t. IDs returned by NewAt are strictly
// increasing across calls even if t goes backwards: a timestamp older than the
// previous ID is clamped to the previous ID's millisecond.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	ms := ulid.Timestamp(t.UTC())
	if ms < last.Time() {
		ms = last.Time()
	}

	id, err := ulid.New(ms, mono)
	if err != nil {
		// Only reachable when the monotonic entropy overflows within one millisecond.
		panic(err)
	}
	last = id
	return id.String()
}
