//go:build unix

package sntp

import (
	"time"

	"golang.org/x/sys/unix"
)

func (SystemClock) Now() time.Time {
	var now unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &now); err != nil {
		return time.Now().UTC()
	}
	return time.Unix(now.Unix()).UTC()
}
