package sntp

import "time"

// Clock supplies the local timestamps t1 and t4.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the realtime clock.
type SystemClock struct{}
