// File: internal/session/notify.go
package session

import "sync"

// Notice is an ephemeral user-facing notification.
type Notice struct {
	Title       string
	Description string
}

// NoticeFunc receives published notices.
type NoticeFunc func(Notice)

// Notifier is an explicit observer registry for notices, scoped to the
// manager that owns it rather than shared module state.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]NoticeFunc
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]NoticeFunc)}
}

// Subscribe registers fn and returns a cancel function that removes it.
func (n *Notifier) Subscribe(fn NoticeFunc) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Publish delivers notice to every subscriber. Delivery order is unspecified.
func (n *Notifier) Publish(notice Notice) {
	n.mu.Lock()
	fns := make([]NoticeFunc, 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(notice)
	}
}
