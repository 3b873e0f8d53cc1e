package words

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes lists by length. Concurrent loads of the same length share
// one call to the underlying Source. Failed loads are not cached.
type Cache struct {
	src   Source
	group singleflight.Group

	mu    sync.RWMutex
	lists map[int]*List
}

// NewCache wraps src.
func NewCache(src Source) *Cache {
	return &Cache{src: src, lists: make(map[int]*List)}
}

// loadTimeout bounds a shared load once no caller is tied to it.
const loadTimeout = 30 * time.Second

// Load returns the cached list or loads it. The shared load is detached from
// any one caller's ctx; each caller stops waiting when its own ctx ends.
func (c *Cache) Load(ctx context.Context, length int) (*List, error) {
	c.mu.RLock()
	l, ok := c.lists[length]
	c.mu.RUnlock()
	if ok {
		return l, nil
	}

	ch := c.group.DoChan(strconv.Itoa(length), func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		l, err := c.src.Load(lctx, length)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.lists[length] = l
		c.mu.Unlock()
		log.Info().Int("length", length).Int("words", l.Len()).Msg("word list loaded")
		return l, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*List), nil
	}
}

// Stats returns word counts per loaded length.
func (c *Cache) Stats() map[int]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[int]int, len(c.lists))
	for k, l := range c.lists {
		out[k] = l.Len()
	}
	return out
}
