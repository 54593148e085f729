// +build !aix,!darwin,!dragonfly,!freebsd,!linux,!netbsd,!openbsd,!solaris

package wasi

import (
	"os"
	"time"
)

type osFS struct {
}

func newOSFS() *osFS {
	return &osFS{}
}

// Poll on hosts without a native poll call supports timers, and treats file
// subscriptions as immediately ready, which matches the required behavior
// for regular files.
func (fs *osFS) Poll(subscriptions []Subscription) ([]Event, error) {
	timeOrigin := time.Now()

	timeout := time.Duration(0)
	timeoutIndex := -1

	var events []Event
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
			events = append(events, Event{
				Kind:      sub.Kind,
				Available: 1,
				Userdata:  sub.Userdata,
			})

		default:
			return nil, os.ErrInvalid
		}
	}

	if len(events) > 0 {
		return events, nil
	}
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
