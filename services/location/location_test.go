package location

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AKM-dv/aafa-partner/models"
)

func TestCurrentReturnsBufferedFix(t *testing.T) {
	d := NewDeviceProvider()
	d.Report(models.GeoPoint{Latitude: 12.9, Longitude: 77.6})

	got := d.Current(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, 12.9, got.Latitude)

	// Callers get a copy; mutating it must not poison the buffer.
	got.Latitude = 0
	again := d.Current(context.Background())
	require.NotNil(t, again)
	assert.Equal(t, 12.9, again.Latitude)
}

func TestCurrentNilWithoutFix(t *testing.T) {
	d := NewDeviceProvider()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Nil(t, d.Current(ctx))
}

func TestCurrentUnblockedByReport(t *testing.T) {
	d := NewDeviceProvider()
	got := make(chan *models.GeoPoint, 1)
	go func() {
		got <- d.Current(context.Background())
	}()
	d.Report(models.GeoPoint{Latitude: 13.0, Longitude: 77.7})

	p := <-got
	require.NotNil(t, p)
	assert.Equal(t, 13.0, p.Latitude)
}

func TestWatchFanOutAndStop(t *testing.T) {
	d := NewDeviceProvider()

	var mu sync.Mutex
	var first, second []models.GeoPoint
	stopFirst := d.Watch(context.Background(), func(p models.GeoPoint) {
		mu.Lock()
		first = append(first, p)
		mu.Unlock()
	})
	stopSecond := d.Watch(context.Background(), func(p models.GeoPoint) {
		mu.Lock()
		second = append(second, p)
		mu.Unlock()
	})
	defer stopSecond()

	d.Report(models.GeoPoint{Latitude: 1})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(first) == 1 && len(second) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A stopped watcher sees nothing further; the other keeps receiving.
	stopFirst()
	stopFirst()
	d.Report(models.GeoPoint{Latitude: 2})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(second) == 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, first, 1)
	assert.Equal(t, 2.0, second[1].Latitude)
}
