package playback

import (
	"time"

	"github.com/leandrodaf/fifths/sdk/contracts"
)

// systemClock schedules callbacks with time.AfterFunc.
type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) contracts.Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall clock used when no clock is configured.
func SystemClock() contracts.Clock { return systemClock{} }
