package cart

import (
	"fmt"
	"time"
)

// DefaultToastTTL is how long an "added to cart" acknowledgement stays visible.
const DefaultToastTTL = 2500 * time.Millisecond

// Toast acknowledges a single Add call.
type Toast struct {
	ProductName string    `json:"product_name"`
	Variant     string    `json:"variant,omitempty"`
	AddonCount  int       `json:"addon_count"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Message renders the toast the way the menu shows it.
func (t Toast) Message() string {
	msg := t.ProductName
	if t.Variant != "" {
		msg += " • " + t.Variant
	}
	switch {
	case t.AddonCount == 1:
		msg += " + 1 add-on"
	case t.AddonCount > 1:
		msg += fmt.Sprintf(" + %d add-ons", t.AddonCount)
	}
	return msg
}

// ToastQueue is a FIFO of toasts, each expiring ttl after it was pushed.
// Expiry does not depend on what else happens to the cart.
type ToastQueue struct {
	ttl     time.Duration
	now     func() time.Time
	entries []Toast
}

func NewToastQueue(ttl time.Duration) *ToastQueue {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &ToastQueue{ttl: ttl, now: time.Now}
}

// Push appends t, stamping its creation and expiry times.
func (q *ToastQueue) Push(t Toast) {
	now := q.now()
	q.prune(now)
	t.CreatedAt = now
	t.ExpiresAt = now.Add(q.ttl)
	q.entries = append(q.entries, t)
}

// Active returns the unexpired toasts, oldest first.
func (q *ToastQueue) Active() []Toast {
	q.prune(q.now())
	out := make([]Toast, len(q.entries))
	copy(out, q.entries)
	return out
}

func (q *ToastQueue) Len() int {
	q.prune(q.now())
	return len(q.entries)
}

// prune drops expired entries from the head. Entries share one ttl, so
// expiry order equals insertion order.
func (q *ToastQueue) prune(now time.Time) {
	i := 0
	for i < len(q.entries) && !now.Before(q.entries[i].ExpiresAt) {
		i++
	}
	if i > 0 {
		q.entries = append(q.entries[:0], q.entries[i:]...)
	}
}
