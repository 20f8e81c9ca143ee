// Package lifecycle holds shared start/stop constants.
package lifecycle

import "time"

// DefaultTimeout bounds start and shutdown hooks.
const DefaultTimeout = 10 * time.Second
