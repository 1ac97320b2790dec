// Package location abstracts the device position source. The real fix comes
// from the partner's device; this package only brokers it so the rest of the
// code never blocks on a fix that may never arrive.
package location

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/AKM-dv/aafa-partner/config"
	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/utils"
)

// Provider hands out position fixes. Current returns nil when no fix is
// available within the configured timeout; callers must treat nil as "no
// location" and carry on.
type Provider interface {
	Current(ctx context.Context) *models.GeoPoint
	Watch(ctx context.Context, fn func(models.GeoPoint)) (stop func())
	Report(p models.GeoPoint)
}

// DeviceProvider buffers the most recent fix reported by the device and fans
// it out to watchers.
type DeviceProvider struct {
	mu       sync.Mutex
	fix      *models.GeoPoint
	watchers map[int64]chan models.GeoPoint
	nextID   int64
	waiters  []chan models.GeoPoint
}

func NewDeviceProvider() *DeviceProvider {
	return &DeviceProvider{watchers: make(map[int64]chan models.GeoPoint)}
}

// Report records a fresh fix from the device and wakes anyone waiting on one.
func (d *DeviceProvider) Report(p models.GeoPoint) {
	d.mu.Lock()
	fix := p
	d.fix = &fix
	waiters := d.waiters
	d.waiters = nil
	for _, ch := range d.watchers {
		select {
		case ch <- p:
		default:
		}
	}
	d.mu.Unlock()

	for _, w := range waiters {
		w <- p
	}
}

// Current returns the latest fix, waiting up to the configured location
// timeout for a first one. A miss is logged and reported as nil.
func (d *DeviceProvider) Current(ctx context.Context) *models.GeoPoint {
	d.mu.Lock()
	if d.fix != nil {
		fix := *d.fix
		d.mu.Unlock()
		return &fix
	}
	wait := make(chan models.GeoPoint, 1)
	d.waiters = append(d.waiters, wait)
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, config.LocationTimeout())
	defer cancel()
	select {
	case p := <-wait:
		return &p
	case <-ctx.Done():
		utils.GetLogger().Info("no location fix available", zap.Error(ctx.Err()))
		return nil
	}
}

// Watch delivers every subsequent fix to fn until ctx ends or stop is called.
func (d *DeviceProvider) Watch(ctx context.Context, fn func(models.GeoPoint)) (stop func()) {
	ch := make(chan models.GeoPoint, 1)
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.watchers[id] = ch
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case p := <-ch:
				fn(p)
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.watchers, id)
			d.mu.Unlock()
			close(done)
		})
	}
}
