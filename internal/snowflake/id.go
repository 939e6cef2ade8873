// Package snowflake provides a time-ordered unique ID generator.
package snowflake

import (
	"math/rand"
	"strconv"
	"time"
)

// An ID is a 64 bit identifier. The top 48 bits are the creation time
// in milliseconds, the low 16 bits are random.
type ID uint64

// Now returns a new ID for the current time.
func Now() ID {
	return TimeToID(time.Now())
}

// TimeToID converts a time.Time to an ID.
func TimeToID(ts time.Time) ID {
	// 48 bits for time in milliseconds.
	// 0 bits for worker ID.
	// 0 bits for sequence.
	// 16 bits for random.
	return ID(uint64(ts.UnixNano()/int64(time.Millisecond))<<16 | uint64(rand.Intn(1<<16)))
}

// ToTime converts an ID back to the time it was created.
func (id ID) ToTime() time.Time {
	return time.Unix(0, int64(id>>16)*1e6)
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Parse parses the decimal form produced by String.
func Parse(s string) (ID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	return ID(id), err
}
