package google

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// ServiceType names a Google API in rate limits and UpstreamError.Service.
type ServiceType string

const (
	ServicePeople ServiceType = "people"
	ServiceGmail  ServiceType = "gmail"
	ServiceDocs   ServiceType = "docs"
	ServiceDrive  ServiceType = "drive"
)

// Quota is a token bucket: Burst calls at once, refilled at PerSecond.
type Quota struct {
	PerSecond float64
	Burst     int
}

// DefaultQuotas stay well below the per-user limits of a consumer project.
var DefaultQuotas = map[ServiceType]Quota{
	ServicePeople: {PerSecond: 1.5, Burst: 5},
	ServiceGmail:  {PerSecond: 2, Burst: 5},
	ServiceDocs:   {PerSecond: 1, Burst: 3},
	ServiceDrive:  {PerSecond: 8, Burst: 10},
}

// Throttle holds one bucket per service. Services without a quota are
// never delayed.
type Throttle struct {
	mu      sync.Mutex
	quotas  map[ServiceType]Quota
	buckets map[ServiceType]*rate.Limiter
}

// NewThrottle creates a throttle for quotas; nil means DefaultQuotas.
func NewThrottle(quotas map[ServiceType]Quota) *Throttle {
	if quotas == nil {
		quotas = DefaultQuotas
	}
	return &Throttle{
		quotas:  quotas,
		buckets: make(map[ServiceType]*rate.Limiter, len(quotas)),
	}
}

func (t *Throttle) bucket(service ServiceType) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if b, ok := t.buckets[service]; ok {
		return b
	}
	q, ok := t.quotas[service]
	if !ok {
		return nil
	}
	b := rate.NewLimiter(rate.Limit(q.PerSecond), q.Burst)
	t.buckets[service] = b
	return b
}

// Wait blocks until service may make one call or ctx is done.
func (t *Throttle) Wait(ctx context.Context, service ServiceType) error {
	b := t.bucket(service)
	if b == nil {
		return nil
	}
	if err := b.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit: %w", service, err)
	}
	return nil
}
