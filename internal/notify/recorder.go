package notify

import (
	"context"
	"sync"

	"github.com/billkeeper/billkeeper/internal/models"
)

// Sent captures one recorded delivery attempt.
type Sent struct {
	Recipient Recipient
	Kind      Kind
	InvoiceID uint
	Locale    string
}

// Recorder is a Notifier that records deliveries instead of sending them.
// Intended for tests. FailFor may list recipient emails whose sends fail.
type Recorder struct {
	mu      sync.Mutex
	sent    []Sent
	FailFor map[string]error
}

// SendReminder implements Notifier.
func (r *Recorder) SendReminder(_ context.Context, rcpt Recipient, kind Kind, inv *models.Invoice, locale string) error {
	if err, ok := r.FailFor[rcpt.Email]; ok {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Sent{Recipient: rcpt, Kind: kind, InvoiceID: inv.ID, Locale: locale})
	return nil
}

// SentTo returns the recorded deliveries addressed to email.
func (r *Recorder) SentTo(email string) []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Sent
	for _, s := range r.sent {
		if s.Recipient.Email == email {
			out = append(out, s)
		}
	}
	return out
}

// All returns every recorded delivery in order.
func (r *Recorder) All() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sent(nil), r.sent...)
}
