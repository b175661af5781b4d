package web

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"randomweapon/internal/game"
	"randomweapon/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives a cache's notion of time.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func cacheWithClock(size int, idle time.Duration, clk *fakeClock) *sessionCache {
	c := newSessionCache(size, idle)
	c.now = clk.now
	return c
}

func testController() *game.Controller {
	cat := testCatalog()
	return game.NewController(game.NewEngine(cat), game.NewState(cat), nil, nil)
}

func TestSessionCache_BusySessionSurvivesChurn(t *testing.T) {
	const size = 4
	srv := testServer(t)
	srv.sessions = cacheWithClock(size, time.Minute, newFakeClock())

	x := newClient(t, srv)
	x.post("/random", nil)
	require.True(t, x.state().Prompted)
	id := x.cookie.Value
	before := srv.sessions.acquire(id)
	srv.sessions.release(id)

	for i := 0; i < 5*size; i++ {
		newClient(t, srv).get("/")
	}

	after := srv.sessions.acquire(id)
	srv.sessions.release(id)
	assert.Same(t, before, after, "Expected the same controller for the session")
	st := x.state()
	assert.True(t, st.Prompted, "Expected the random prompt to stay open")
	if assert.NotNil(t, st.Pending) {
		assert.Equal(t, "Copper Shortsword", st.Pending.Name)
	}
}

func TestSessionCache_EvictsIdleSessions(t *testing.T) {
	clk := newFakeClock()
	store := session.NewMemoryStore[game.State]()
	srv := testServerWithStore(t, store)
	srv.sessions = cacheWithClock(2, time.Minute, clk)

	a := newClient(t, srv)
	a.post("/stage/next", nil)
	newClient(t, srv).get("/")
	newClient(t, srv).get("/")
	assert.Equal(t, 3, srv.sessions.Len(), "Expected fresh sessions to be kept over the size")

	clk.advance(2 * time.Minute)
	newClient(t, srv).get("/")
	assert.Equal(t, 2, srv.sessions.Len())
	ctrl := srv.sessions.acquire(a.cookie.Value)
	assert.Nil(t, ctrl, "Expected the oldest idle session to be evicted")

	st := a.state()
	assert.Equal(t, 2, st.StageNumber, "Expected the evicted session to be restored from the store")
}

func TestSessionCache_NeverEvictsHeldSession(t *testing.T) {
	clk := newFakeClock()
	c := cacheWithClock(1, 0, clk)

	held := testController()
	require.Same(t, held, c.add("held", held))
	clk.advance(time.Hour)

	c.add("other", testController())
	c.release("other")
	assert.Same(t, held, c.acquire("held"), "Expected a held session to stay cached")
	assert.Nil(t, c.acquire("other"))

	c.release("held")
	c.release("held")
	clk.advance(time.Hour)
	c.add("third", testController())
	assert.Nil(t, c.acquire("held"), "Expected a released idle session to be evicted")
}

func TestSessionCache_ConcurrentAddsShareController(t *testing.T) {
	c := newSessionCache(maxSessions, sessionIdle)
	const n = 16
	got := make([]*game.Controller, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = c.add("id", testController())
		}()
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		assert.Same(t, got[0], got[i])
	}
	assert.Equal(t, 1, c.Len())
}

// blockingStore holds Get until released so a test can observe the server
// while a session load is in flight.
type blockingStore struct {
	session.Store[game.State]
	entered chan struct{}
	unblock chan struct{}
}

func (b *blockingStore) Get(ctx context.Context, id string) (game.State, bool, error) {
	b.entered <- struct{}{}
	<-b.unblock
	return b.Store.Get(ctx, id)
}

func TestSessionLoad_DoesNotBlockOtherSessions(t *testing.T) {
	mem := session.NewMemoryStore[game.State]()
	srv := testServerWithStore(t, mem)
	warm := newClient(t, srv)
	warm.get("/")

	bs := &blockingStore{Store: mem, entered: make(chan struct{}), unblock: make(chan struct{})}
	srv.Store = bs

	done := make(chan struct{})
	go func() {
		defer close(done)
		newClient(t, srv).get("/")
	}()
	<-bs.entered

	served := make(chan int, 1)
	go func() { served <- warm.get("/").Code }()
	select {
	case code := <-served:
		assert.Equal(t, http.StatusOK, code)
	case <-time.After(5 * time.Second):
		t.Error("Expected a cached session to be served while another session loads")
	}
	close(bs.unblock)
	<-done
}
