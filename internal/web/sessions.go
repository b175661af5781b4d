package web

import (
	"container/list"
	"sync"
	"time"

	"randomweapon/internal/game"
)

const (
	// maxSessions is the cache size above which idle sessions are swept.
	maxSessions = 4096
	// sessionIdle is how long an unused session stays cached. Only then is
	// it dropped, taking any open random prompt with it; its state is
	// restored from the store on the next request.
	sessionIdle = 30 * time.Minute
)

type cachedSession struct {
	id       string
	ctrl     *game.Controller
	refs     int
	lastUsed time.Time
}

// sessionCache holds one controller per live session. A session held by a
// request is never evicted, so a session has exactly one controller at a
// time.
type sessionCache struct {
	mu    sync.Mutex
	max   int
	idle  time.Duration
	now   func() time.Time
	items map[string]*list.Element
	order *list.List // front is most recently used
}

func newSessionCache(size int, idle time.Duration) *sessionCache {
	return &sessionCache{
		max:   size,
		idle:  idle,
		now:   time.Now,
		items: map[string]*list.Element{},
		order: list.New(),
	}
}

// acquire pins and returns the cached controller for id, or nil.
func (c *sessionCache) acquire(id string) *game.Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[id]
	if !ok {
		return nil
	}
	return c.pinLocked(el)
}

// add caches ctrl for id and pins it. When another request cached the
// session first, that controller is pinned and returned instead.
func (c *sessionCache) add(id string, ctrl *game.Controller) *game.Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[id]; ok {
		return c.pinLocked(el)
	}
	cs := &cachedSession{id: id, ctrl: ctrl, refs: 1, lastUsed: c.now()}
	c.items[id] = c.order.PushFront(cs)
	c.sweepLocked()
	return ctrl
}

// release unpins a session taken by acquire or add.
func (c *sessionCache) release(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[id]
	if !ok {
		return
	}
	cs := el.Value.(*cachedSession)
	if cs.refs > 0 {
		cs.refs--
	}
	cs.lastUsed = c.now()
	c.order.MoveToFront(el)
	c.sweepLocked()
}

func (c *sessionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *sessionCache) pinLocked(el *list.Element) *game.Controller {
	cs := el.Value.(*cachedSession)
	cs.refs++
	cs.lastUsed = c.now()
	c.order.MoveToFront(el)
	return cs.ctrl
}

// sweepLocked drops unpinned sessions idle for longer than c.idle, oldest
// first, while the cache is over its size. The list is ordered by lastUsed,
// so the walk stops at the first session that is still fresh.
func (c *sessionCache) sweepLocked() {
	now := c.now()
	for el := c.order.Back(); el != nil && len(c.items) > c.max; {
		cs := el.Value.(*cachedSession)
		if now.Sub(cs.lastUsed) < c.idle {
			return
		}
		prev := el.Prev()
		if cs.refs == 0 {
			c.order.Remove(el)
			delete(c.items, cs.id)
		}
		el = prev
	}
}
