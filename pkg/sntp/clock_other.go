//go:build !unix

package sntp

import "time"

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
