package clock

import "time"

// Clock stamps records created by the seed generator.
type Clock interface {
	Now() time.Time
}
