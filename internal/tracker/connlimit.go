package tracker

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
)

// ConnLimiter caps open tracker sockets per client address and overall.
type ConnLimiter struct {
	mu         sync.Mutex
	open       map[string]int
	total      int
	maxPerAddr int
	maxTotal   int
}

// NewConnLimiter creates a limiter. A zero cap is not enforced.
func NewConnLimiter(maxPerAddr, maxTotal int) *ConnLimiter {
	return &ConnLimiter{
		open:       make(map[string]int),
		maxPerAddr: maxPerAddr,
		maxTotal:   maxTotal,
	}
}

// Acquire reserves a socket for addr. It reports false when either cap is
// reached. Otherwise the returned release frees the socket; calling it more
// than once has no further effect.
func (c *ConnLimiter) Acquire(addr string) (release func(), ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxTotal > 0 && c.total >= c.maxTotal {
		return nil, false
	}
	if c.maxPerAddr > 0 && c.open[addr] >= c.maxPerAddr {
		return nil, false
	}
	c.open[addr]++
	c.total++

	var once sync.Once
	return func() { once.Do(func() { c.release(addr) }) }, true
}

func (c *ConnLimiter) release(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := c.open[addr] - 1; n > 0 {
		c.open[addr] = n
	} else {
		delete(c.open, addr)
	}
	c.total--
}

// Stats returns the number of open sockets and distinct addresses.
func (c *ConnLimiter) Stats() (total int, addresses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total, len(c.open)
}

// proxies resolves the address a request is limited and locked out under.
// Forwarding headers count only when the peer is one of the trusted ranges.
type proxies []netip.Prefix

func (p proxies) trusts(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// clientAddr walks X-Forwarded-For from the nearest hop and returns the
// first address that is not a trusted proxy.
func (p proxies) clientAddr(r *http.Request) string {
	peer := extractIP(r.RemoteAddr)
	if !p.trusts(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !p.trusts(hop) {
				return hop
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

// extractIP strips the port from an ip:port address.
func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
