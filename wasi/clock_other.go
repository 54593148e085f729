// +build !linux

package wasi

// CPU-time clocks are only exposed on hosts with clock_gettime support.
func cpuClockRes(id wasiClockid) (wasiTimestamp, wasiErrno) {
	return 0, wasiErrnoNotsup
}

func cpuClockTime(id wasiClockid) (wasiTimestamp, wasiErrno) {
	return 0, wasiErrnoNotsup
}
