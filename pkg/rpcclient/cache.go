package rpcclient

import (
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/twmb/murmur3"
)

// cacheableMethods are the idempotent reads a TTL cache may answer.
// State-changing calls are never cached.
var cacheableMethods = map[string]bool{
	"getblockcount":     true,
	"getrawtransaction": true,
	"getversion":        true,
}

// readCache keeps recent answers to idempotent read calls, keyed by a
// murmur3 hash of the method name and its marshaled parameters.
type readCache struct {
	lru *expirable.LRU[uint64, json.RawMessage]
}

func newReadCache(size int, ttl time.Duration) *readCache {
	return &readCache{
		lru: expirable.NewLRU[uint64, json.RawMessage](size, nil, ttl),
	}
}

func cacheKey(method string, params []byte) uint64 {
	h := murmur3.New64()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write(params)
	return h.Sum64()
}

func (c *readCache) Get(key uint64) (json.RawMessage, bool) {
	return c.lru.Get(key)
}

func (c *readCache) Add(key uint64, raw json.RawMessage) {
	c.lru.Add(key, raw)
}
