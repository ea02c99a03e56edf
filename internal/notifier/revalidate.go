package notifier

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/nahoc/boundless-ws/pkg/config"
	"github.com/nahoc/boundless-ws/pkg/logger"
)

// Notifier signals downstream caches that order data changed.
type Notifier interface {
	Notify()
}

// Revalidator fires a fire-and-forget cache revalidation request, coalescing
// calls so at most one request leaves per interval.
type Revalidator struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   logger.Interface

	mu       sync.Mutex
	lastSent time.Time
}

// Ensure Revalidator implements Notifier interface
var _ Notifier = (*Revalidator)(nil)

// NewRevalidator creates a new Revalidator.
func NewRevalidator(config config.NotifierConfig, logger logger.Interface) *Revalidator {
	return &Revalidator{
		url:      config.URL,
		interval: config.Interval,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Notify requests a revalidation. Calls inside the rate-limit window are
// absorbed by the request already sent for that window. The response is
// ignored.
func (r *Revalidator) Notify() {
	r.mu.Lock()
	if time.Since(r.lastSent) < r.interval {
		r.mu.Unlock()
		return
	}
	r.lastSent = time.Now()
	r.mu.Unlock()

	go func() {
		resp, err := r.client.Get(r.url)
		if err != nil {
			r.logger.Debug(fmt.Sprintf("revalidate request failed: %v", err))
			return
		}
		resp.Body.Close()
	}()
}
