package limiter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	sync.Mutex

	clients map[string]*client
	rps     rate.Limit
	burst   int
	ttl     time.Duration
}

func newRateLimiter(rps int, burst int, ttl time.Duration) *rateLimiter {
	l := &rateLimiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
	}

	go l.cleanupClients()

	return l
}

// Limit throttles requests per client IP. This is the coarse global
// limiter; the verification rate limiter is a separate concern.
func Limit(rps int, burst int, ttl time.Duration) gin.HandlerFunc {
	l := newRateLimiter(rps, burst, ttl)

	return func(c *gin.Context) {
		if !l.getClient(c.ClientIP()).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}

		c.Next()
	}
}

func (l *rateLimiter) getClient(ip string) *rate.Limiter {
	l.Lock()
	defer l.Unlock()

	cl, ok := l.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = time.Now()

	return cl.limiter
}

func (l *rateLimiter) cleanupClients() {
	for {
		time.Sleep(time.Minute)

		l.Lock()
		for ip, cl := range l.clients {
			if time.Since(cl.lastSeen) > l.ttl {
				delete(l.clients, ip)
			}
		}
		l.Unlock()
	}
}
