package controller

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/talkincode/stockbook/internal/catalog"
	"github.com/talkincode/stockbook/internal/domain"
	"github.com/talkincode/stockbook/internal/render"
	"github.com/talkincode/stockbook/internal/view"
	"go.uber.org/zap"
)

// Command is a user action. update runs on the session loop and returns the
// next state plus an optional effect, which runs on the worker pool.
type Command interface {
	update(s *Session, st view.State) (view.State, effect)
}

// effect performs the network part of a command. Every call to post is
// applied on the loop in order; nothing is applied after effect returns.
type effect func(ctx context.Context, cat catalog.Catalog, post func(Result))

// Result is the outcome of one round trip, applied on the loop.
type Result struct {
	// Refresh replaces the held collection with Products.
	Refresh  bool
	Products []domain.Product
	// Update transforms the state current at the time the result lands.
	Update func(view.State) view.State
}

// Snapshot is a consistent copy of what a session shows.
type Snapshot struct {
	State    view.State
	Products []domain.Product
	Screen   render.Screen
	Loaded   bool
}

type dispatch struct {
	cmd  Command
	done chan struct{}
}

type landing struct {
	res  Result
	done chan struct{}
}

// Session is one user's catalog controller. A single goroutine owns the view
// state, the last fetched collection and the rendered screen; round trips run
// on the shared pool and post their results back, so the result that lands
// last is the one on screen.
type Session struct {
	ID       string
	catalog  catalog.Catalog
	renderer *render.Renderer
	pool     *ants.Pool
	bus      EventBus.Bus
	opts     Options

	state    view.State
	products []domain.Product
	loaded   bool
	screen   render.Screen

	commands  chan dispatch
	results   chan landing
	snapshots chan chan Snapshot
	quit      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	lastSeen  atomic.Int64
}

func newSession(id string, cat catalog.Catalog, renderer *render.Renderer, pool *ants.Pool, bus EventBus.Bus, opts Options) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:        id,
		catalog:   cat,
		renderer:  renderer,
		pool:      pool,
		bus:       bus,
		opts:      opts,
		state:     view.New(opts.ItemsPerPage),
		commands:  make(chan dispatch),
		results:   make(chan landing),
		snapshots: make(chan chan Snapshot),
		quit:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.screen = renderer.Render(nil, s.state)
	s.Touch()
	go s.loop()
	return s
}

// TopicRendered is the EventBus topic a session publishes its screen on after every render.
func TopicRendered(sessionID string) string {
	return "catalog:rendered:" + sessionID
}

// Dispatch queues cmd. The returned channel closes once the command and every
// result of its round trips have been applied.
func (s *Session) Dispatch(cmd Command) <-chan struct{} {
	done, _ := s.enqueue(context.Background(), cmd)
	return done
}

// Do dispatches cmd and waits for it, or for ctx.
func (s *Session) Do(ctx context.Context, cmd Command) error {
	done, err := s.enqueue(ctx, cmd)
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) enqueue(ctx context.Context, cmd Command) (<-chan struct{}, error) {
	s.Touch()
	done := make(chan struct{})
	select {
	case s.commands <- dispatch{cmd: cmd, done: done}:
	case <-s.quit:
		close(done)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return done, nil
}

// Snapshot returns the current state and screen.
func (s *Session) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	select {
	case s.snapshots <- reply:
		return <-reply
	case <-s.quit:
		return Snapshot{}
	}
}

func (s *Session) Touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Close stops the loop. In-flight round trips finish but their results are dropped.
func (s *Session) Close() {
	select {
	case <-s.quit:
	default:
		close(s.quit)
		s.cancel()
	}
}

func (s *Session) loop() {
	for {
		select {
		case d := <-s.commands:
			next, eff := d.cmd.update(s, s.state)
			s.state = next
			s.rerender()
			if eff == nil {
				close(d.done)
				continue
			}
			s.spawn(eff, d.done)
		case l := <-s.results:
			if l.res.Update != nil {
				s.state = l.res.Update(s.state)
			}
			if l.res.Refresh {
				s.products = l.res.Products
				s.loaded = true
			}
			if l.res.Update != nil || l.res.Refresh {
				s.rerender()
			}
			if l.done != nil {
				close(l.done)
			}
		case reply := <-s.snapshots:
			reply <- Snapshot{
				State:    s.state,
				Products: append([]domain.Product(nil), s.products...),
				Screen:   s.screen,
				Loaded:   s.loaded,
			}
		case <-s.quit:
			return
		}
	}
}

// spawn runs eff off the loop. Submit may block while the pool is saturated,
// so it is called from its own goroutine and the loop keeps applying results.
// The final empty landing carries done, so it closes only after every posted
// result has been applied.
func (s *Session) spawn(eff effect, done chan struct{}) {
	post := func(res Result) {
		select {
		case s.results <- landing{res: res}:
		case <-s.quit:
		}
	}
	task := func() {
		defer func() {
			if err := recover(); err != nil {
				zap.S().Error(err)
			}
			select {
			case s.results <- landing{done: done}:
			case <-s.quit:
				close(done)
			}
		}()
		eff(s.ctx, s.catalog, post)
	}
	go func() {
		if err := s.pool.Submit(task); err != nil {
			zap.L().Error("submit catalog request failed",
				zap.String("namespace", "controller"),
				zap.String("session", s.ID),
				zap.Error(err),
			)
			close(done)
		}
	}()
}

func (s *Session) rerender() {
	s.screen = s.renderer.Render(s.products, s.state)
	if s.bus != nil {
		s.bus.Publish(TopicRendered(s.ID), s.screen)
	}
}

func logFailure(sessionID, msg string, err error) {
	zap.L().Error(msg,
		zap.String("namespace", "controller"),
		zap.String("session", sessionID),
		zap.Error(err),
	)
}
