//go:build !unix

package events

import "os"

// ResumeSignals is empty where SIGUSR1 does not exist.
var ResumeSignals []os.Signal
