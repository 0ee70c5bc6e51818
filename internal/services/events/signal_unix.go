//go:build unix

package events

import (
	"os"
	"syscall"
)

// ResumeSignals are delivered by session hooks when the user unlocks or resumes the device.
var ResumeSignals = []os.Signal{syscall.SIGUSR1}
