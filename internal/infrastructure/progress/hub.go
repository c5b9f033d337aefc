package progress

import "sync"

// GlobalTopic receives the progress of every job. A stream opened without a
// job id attaches here, which reproduces the single process-wide subscriber
// the service originally exposed.
const GlobalTopic = ""

const defaultBuffer = 16

// Subscription is one client's sink on a topic.
type Subscription struct {
	topic   string
	updates chan int
	once    sync.Once
}

func (s *Subscription) Topic() string {
	return s.topic
}

// Updates is closed when the subscription is replaced, detached or the hub
// shuts down.
func (s *Subscription) Updates() <-chan int {
	return s.updates
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.updates) })
}

// Hub keeps at most one subscriber per topic. Attaching to a topic that
// already has a subscriber replaces it (last attach wins). Publishing never
// blocks: updates for a missing or saturated subscriber are dropped.
type Hub struct {
	mu     sync.Mutex
	sinks  map[string]*Subscription
	buffer int
	closed bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		sinks:  make(map[string]*Subscription),
		buffer: buffer,
	}
}

func (h *Hub) Attach(topic string) *Subscription {
	sub := &Subscription{topic: topic, updates: make(chan int, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.close()
		return sub
	}
	if prev, ok := h.sinks[topic]; ok {
		prev.close()
	}
	h.sinks[topic] = sub
	return sub
}

// Detach removes sub if it is still the current subscriber of its topic and
// reports whether it was.
func (h *Hub) Detach(sub *Subscription) bool {
	if sub == nil {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sub.close()
	if h.sinks[sub.topic] != sub {
		return false
	}
	delete(h.sinks, sub.topic)
	return true
}

// CloseTopic ends the stream of a finished job. The global topic is left
// alone since it spans every job.
func (h *Hub) CloseTopic(topic string) {
	if topic == GlobalTopic {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.sinks[topic]; ok {
		sub.close()
		delete(h.sinks, topic)
	}
}

// Publish offers percent to the job's subscriber and to the global
// subscriber. It returns how many sinks accepted the update.
func (h *Hub) Publish(topic string, percent int) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	if topic != GlobalTopic {
		delivered += offer(h.sinks[topic], percent)
	}
	delivered += offer(h.sinks[GlobalTopic], percent)
	return delivered
}

func offer(sub *Subscription, percent int) int {
	if sub == nil {
		return 0
	}
	select {
	case sub.updates <- percent:
		return 1
	default:
		return 0
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sinks)
}

// Close ends every open subscription. Later attaches get an already closed
// subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for topic, sub := range h.sinks {
		sub.close()
		delete(h.sinks, topic)
	}
}
