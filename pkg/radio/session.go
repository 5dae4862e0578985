package radio

import (
	"sync"

	"avalon/xbee-go/pkg/frames"
)

// session tracks outstanding correlated exchanges: the frame ID counter and
// the table mapping an in-flight ID to its waiter.
type session struct {
	mu      sync.Mutex
	nextID  uint8
	waiters map[uint8]chan *frames.ATCommandResponse

	// syncMu is held for the whole duration of a synchronous exchange.
	// TryLock failure means another caller is mid-exchange.
	syncMu sync.Mutex
}

func newSession() *session {
	return &session{
		nextID:  1,
		waiters: make(map[uint8]chan *frames.ATCommandResponse),
	}
}

// allocID returns the next frame ID. IDs cycle through [1, 255]; zero is
// never produced because the radio suppresses responses for frame ID 0.
func (s *session) allocID() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	if s.nextID == 255 {
		s.nextID = 1
	} else {
		s.nextID++
	}
	return id
}

// register creates a waiter for the given frame ID
func (s *session) register(id uint8) chan *frames.ATCommandResponse {
	ch := make(chan *frames.ATCommandResponse, 1)
	s.mu.Lock()
	s.waiters[id] = ch
	s.mu.Unlock()
	return ch
}

// remove drops the waiter for the given frame ID, if still present
func (s *session) remove(id uint8) {
	s.mu.Lock()
	delete(s.waiters, id)
	s.mu.Unlock()
}

// complete hands a response to the waiter registered under its frame ID.
// Returns false when nothing is waiting on that ID.
func (s *session) complete(rsp *frames.ATCommandResponse) bool {
	s.mu.Lock()
	ch, ok := s.waiters[rsp.ID]
	if ok {
		delete(s.waiters, rsp.ID)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	ch <- rsp
	return true
}

// pending returns the number of registered waiters
func (s *session) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.waiters)
}
