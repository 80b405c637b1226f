package webui

import (
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/talkincode/stockbook/internal/controller"
	"github.com/talkincode/stockbook/internal/render"
)

// streams fans the render events of one session out to every open event
// stream of that session. A topic carries at most one bus handler, which is
// dropped when its last listener leaves.
//
// The bus calls handlers while holding its own lock, so notify only takes
// listenersMu; subMu serializes Subscribe/Unsubscribe calls.
type streams struct {
	bus EventBus.Bus

	subMu    sync.Mutex
	handlers map[string]func(render.Screen)

	listenersMu sync.RWMutex
	listeners   map[string]map[chan struct{}]struct{}
}

func newStreams(bus EventBus.Bus) *streams {
	return &streams{
		bus:       bus,
		handlers:  make(map[string]func(render.Screen)),
		listeners: make(map[string]map[chan struct{}]struct{}),
	}
}

// watch registers a listener for sessionID. The returned channel receives a
// value after every render; cancel unregisters it.
func (s *streams) watch(sessionID string) (<-chan struct{}, func(), error) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.listenersMu.Lock()
	if s.listeners[sessionID] == nil {
		s.listeners[sessionID] = make(map[chan struct{}]struct{})
	}
	s.listeners[sessionID][ch] = struct{}{}
	s.listenersMu.Unlock()

	if _, ok := s.handlers[sessionID]; !ok {
		handler := func(render.Screen) { s.notify(sessionID) }
		if err := s.bus.Subscribe(controller.TopicRendered(sessionID), handler); err != nil {
			s.remove(sessionID, ch)
			return nil, nil, err
		}
		s.handlers[sessionID] = handler
	}

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if s.remove(sessionID, ch) > 0 {
			return
		}
		if handler, ok := s.handlers[sessionID]; ok {
			_ = s.bus.Unsubscribe(controller.TopicRendered(sessionID), handler)
			delete(s.handlers, sessionID)
		}
	}
	return ch, cancel, nil
}

// remove drops one listener and returns how many are left for the session.
func (s *streams) remove(sessionID string, ch chan struct{}) int {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	delete(s.listeners[sessionID], ch)
	left := len(s.listeners[sessionID])
	if left == 0 {
		delete(s.listeners, sessionID)
	}
	return left
}

func (s *streams) notify(sessionID string) {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	for ch := range s.listeners[sessionID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
