package adapters

import (
	"time"

	"github.com/ecovekt/backend/internal/application/adapter"
)

// systemClock implements the adapter.Clock interface.
type systemClock struct{}

// NewSystemClock returns a clock reading the wall time in UTC.
func NewSystemClock() adapter.Clock {
	return systemClock{}
}

// Now returns the current UTC time.
func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
