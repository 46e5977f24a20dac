package notify

import (
	"context"
	"sync"
)

// Recorded is one captured notification.
type Recorded struct {
	Address string
	Subject string
	Body    string
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu   sync.Mutex
	sent []Recorded

	// Err, when set, is returned from every Notify call.
	Err error
}

var _ Notifier = (*Recorder)(nil)

// Notify records the notification.
func (r *Recorder) Notify(_ context.Context, address, subject, body string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Recorded{Address: address, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of all recorded notifications in send order.
func (r *Recorder) Sent() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.sent))
	copy(out, r.sent)
	return out
}
