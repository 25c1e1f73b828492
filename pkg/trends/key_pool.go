package trends

import (
	"strings"
	"sync/atomic"
)

// KeyPool rotates API keys round-robin so quota is spread across keys
type KeyPool struct {
	keys    []string
	current int64
}

// NewKeyPool creates a pool from comma-separated keys
func NewKeyPool(keyString string) *KeyPool {
	raw := strings.Split(keyString, ",")
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		if cleaned := strings.TrimSpace(k); cleaned != "" {
			keys = append(keys, cleaned)
		}
	}
	return &KeyPool{keys: keys, current: -1}
}

// Next returns the next key, or "" for an empty pool
func (p *KeyPool) Next() string {
	switch len(p.keys) {
	case 0:
		return ""
	case 1:
		return p.keys[0]
	}

	next := atomic.AddInt64(&p.current, 1)
	n := int64(len(p.keys))
	// survives counter overflow into negatives
	return p.keys[((next%n)+n)%n]
}

func (p *KeyPool) Size() int {
	return len(p.keys)
}
