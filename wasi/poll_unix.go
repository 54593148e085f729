// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package wasi

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

type osFS struct {
}

func newOSFS() *osFS {
	return &osFS{}
}

func (fs *osFS) Poll(subscriptions []Subscription) ([]Event, error) {
	timeOrigin := time.Now()

	// The effective timeout is the minimum across all timer subscriptions.
	// A deadline in the past still participates: it clamps the timeout to
	// zero so the poll degenerates into a readiness probe.
	timeout := time.Duration(0)
	timeoutIndex := -1

	var pollFds []unix.PollFd
	var pollSubs []int
	for i := range subscriptions {
		sub := &subscriptions[i]

		switch sub.Kind {
		case SubscriptionTimer:
			t := sub.Timeout
			if !sub.Deadline.IsZero() {
				t = sub.Deadline.Sub(timeOrigin)
			}
			if t < 0 {
				t = 0
			}
			if timeoutIndex == -1 || t < timeout {
				timeout, timeoutIndex = t, i
			}

		case SubscriptionRead, SubscriptionWrite:
			f, ok := sub.File.(*osFile)
			if !ok {
				return nil, os.ErrInvalid
			}

			events := int16(unix.POLLIN)
			if sub.Kind == SubscriptionWrite {
				events = unix.POLLOUT
			}
			pollFds = append(pollFds, unix.PollFd{Fd: int32(f.f.Fd()), Events: events})
			pollSubs = append(pollSubs, i)

		default:
			return nil, os.ErrInvalid
		}
	}

	if len(pollFds) == 0 {
		if timeoutIndex == -1 {
			return nil, os.ErrInvalid
		}
		if timeout > 0 {
			time.Sleep(timeout)
		}
		sub := &subscriptions[timeoutIndex]
		return []Event{{
			Kind:     SubscriptionTimer,
			Userdata: sub.Userdata,
		}}, nil
	}

	timeoutMilliseconds := -1
	if timeoutIndex != -1 {
		// Round up so a timer never fires before its timeout has elapsed.
		timeoutMilliseconds = int((timeout + time.Millisecond - 1) / time.Millisecond)
	}

	var n int
	var err error
	for {
		n, err = unix.Poll(pollFds, timeoutMilliseconds)
		if err != syscall.EINTR {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	if n == 0 && timeoutIndex != -1 {
		sub := &subscriptions[timeoutIndex]
		return []Event{{
			Kind:     SubscriptionTimer,
			Userdata: sub.Userdata,
		}}, nil
	}

	var events []Event
	for i, pollFd := range pollFds {
		if pollFd.Revents == 0 {
			continue
		}

		sub := &subscriptions[pollSubs[i]]
		event := Event{
			Kind:     sub.Kind,
			Userdata: sub.Userdata,
		}
		if pollFd.Revents&unix.POLLIN != 0 {
			event.Available = 1
		}
		if pollFd.Revents&unix.POLLHUP != 0 {
			event.Flags = EventHangup
		}
		if pollFd.Revents&(unix.POLLERR|unix.POLLNVAL) != 0 {
			event.Error = ErrnoIO
		}
		events = append(events, event)
	}
	return events, nil
}
