package web

type cacheEntry struct {
	hash uint64
	data []byte
}

// cache is a fixed size ring of the messages most recently sent to
// clients. Clients keep a mirror of it, so that a repeated frame can
// be sent as its index in the cache instead.
type cache struct {
	cache []*cacheEntry
	idx   int
	size  int
}

func newCache(size int) *cache {
	c := &cache{
		cache: make([]*cacheEntry, size),
		size:  size,
	}
	for i := 0; i < size; i++ {
		c.cache[i] = &cacheEntry{}
	}

	return c
}

// add stores data under hash, evicting the oldest entry, and
// returns the index it was stored at.
func (c *cache) add(hash uint64, data []byte) int {
	i := c.idx
	c.cache[i].data = data
	c.cache[i].hash = hash

	c.idx = (c.idx + 1) % c.size
	return i
}

// index returns the index of hash in the cache, or -1.
func (c *cache) index(hash uint64) int {
	for i, e := range c.cache {
		if len(e.data) > 0 && e.hash == hash {
			return i
		}
	}

	return -1
}
