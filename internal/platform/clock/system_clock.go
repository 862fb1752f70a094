package clock

import "time"

// SystemClock reads the wall clock in UTC, truncated to milliseconds so seeded timestamps
// survive a JSON round trip through every store unchanged.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
