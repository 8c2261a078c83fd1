package dns

import (
	"net"
	"sync"
	"time"
)

// Lookup resolves client addresses to hostnames for report display,
// caching results so the same address is only resolved once per run.
type Lookup struct {
	mu      sync.RWMutex
	cache   map[string]string
	timeout time.Duration
}

// NewLookup creates a new reverse DNS lookup instance
func NewLookup() *Lookup {
	return &Lookup{
		cache:   make(map[string]string),
		timeout: 2 * time.Second,
	}
}

// Reverse performs a reverse DNS lookup with caching. On failure or
// timeout it returns the address unchanged.
func (d *Lookup) Reverse(addr string) string {
	d.mu.RLock()
	if hostname, ok := d.cache[addr]; ok {
		d.mu.RUnlock()
		return hostname
	}
	d.mu.RUnlock()

	hostname := d.lookupWithTimeout(addr)

	d.mu.Lock()
	d.cache[addr] = hostname
	d.mu.Unlock()

	return hostname
}

func (d *Lookup) lookupWithTimeout(addr string) string {
	type result struct {
		names []string
		err   error
	}

	ch := make(chan result, 1)
	go func() {
		names, err := net.LookupAddr(addr)
		ch <- result{names, err}
	}()

	select {
	case res := <-ch:
		if res.err == nil && len(res.names) > 0 {
			return res.names[0]
		}
		return addr
	case <-time.After(d.timeout):
		return addr
	}
}

// BulkReverse resolves a batch of addresses concurrently.
func (d *Lookup) BulkReverse(addrs []string) map[string]string {
	results := make(map[string]string)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, addr := range addrs {
		wg.Add(1)
		go func(addr string) {
			defer wg.Done()
			hostname := d.Reverse(addr)
			mu.Lock()
			results[addr] = hostname
			mu.Unlock()
		}(addr)
	}

	wg.Wait()
	return results
}
