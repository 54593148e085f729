// +build linux

package wasi

import (
	"golang.org/x/sys/unix"
)

func clockID(id wasiClockid) (int32, bool) {
	switch id {
	case wasiClockidProcessCputimeId:
		return unix.CLOCK_PROCESS_CPUTIME_ID, true
	case wasiClockidThreadCputimeId:
		return unix.CLOCK_THREAD_CPUTIME_ID, true
	default:
		return 0, false
	}
}

func cpuClockRes(id wasiClockid) (wasiTimestamp, wasiErrno) {
	cid, ok := clockID(id)
	if !ok {
		return 0, wasiErrnoInval
	}

	var ts unix.Timespec
	if err := unix.ClockGetres(cid, &ts); err != nil {
		return 0, fileErrno(err)
	}
	return wasiTimestamp(ts.Nano()), wasiErrnoSuccess
}

func cpuClockTime(id wasiClockid) (wasiTimestamp, wasiErrno) {
	cid, ok := clockID(id)
	if !ok {
		return 0, wasiErrnoInval
	}

	var ts unix.Timespec
	if err := unix.ClockGettime(cid, &ts); err != nil {
		return 0, fileErrno(err)
	}
	return wasiTimestamp(ts.Nano()), wasiErrnoSuccess
}
