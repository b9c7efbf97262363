package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitor holds the rate limiter and the last time we saw this IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	// General visitors
	visitors   = make(map[string]*visitor)
	visitorsMu sync.Mutex

	// Stricter visitors for login / password reset
	loginVisitors   = make(map[string]*visitor)
	loginVisitorsMu sync.Mutex
)

const (
	generalBurst = 100
	loginBurst   = 5

	maxVisitors    = 10000
	visitorIdleTTL = 10 * time.Minute
)

// newVisitorLimiter allows 10 requests/second on average with a burst of 100.
func newVisitorLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(100*time.Millisecond), generalBurst)
}

// newLoginVisitorLimiter allows one credential submission every 10 seconds
// with a burst of 5.
func newLoginVisitorLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(10*time.Second), loginBurst)
}

// pruneVisitors forgets idle IPs once the table grows past maxVisitors.
// Callers hold the matching mutex.
func pruneVisitors(table map[string]*visitor, now time.Time) {
	if len(table) < maxVisitors {
		return
	}
	for ip, v := range table {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(table, ip)
		}
	}
}

func getVisitor(ip string) *rate.Limiter {
	visitorsMu.Lock()
	defer visitorsMu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		pruneVisitors(visitors, time.Now())
		limiter := newVisitorLimiter()
		visitors[ip] = &visitor{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func getLoginVisitor(ip string) *rate.Limiter {
	loginVisitorsMu.Lock()
	defer loginVisitorsMu.Unlock()

	v, exists := loginVisitors[ip]
	if !exists {
		pruneVisitors(loginVisitors, time.Now())
		limiter := newLoginVisitorLimiter()
		loginVisitors[ip] = &visitor{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// RateLimitMiddleware applies a simple per-IP rate limit for all routes.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := getVisitor(ip)

		if !limiter.Allow() {
			c.String(http.StatusTooManyRequests, "Слишком много запросов. Попробуйте позже.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoginRateLimitMiddleware applies a stricter per-IP rate limit to credential
// submissions. Page views (GET) are not counted.
func LoginRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		ip := c.ClientIP()
		limiter := getLoginVisitor(ip)

		if !limiter.Allow() {
			c.String(http.StatusTooManyRequests, "Слишком много попыток входа. Подождите и попробуйте снова.")
			c.Abort()
			return
		}

		c.Next()
	}
}
