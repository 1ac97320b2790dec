package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationKey(t *testing.T) {
	n := BookingNotification{BookingID: 17, NotificationSentAt: "2025-09-01T10:00:00Z"}
	assert.Equal(t, "17-2025-09-01T10:00:00Z", n.Key())

	// Same booking re-notified later is a different offer.
	later := n
	later.NotificationSentAt = "2025-09-01T10:05:00Z"
	assert.NotEqual(t, n.Key(), later.Key())
}

func TestNotificationExplicitPricePrecedence(t *testing.T) {
	price := FlexFloat(100)
	svcPrice := FlexFloat(200)
	fee := FlexFloat(300)

	n := BookingNotification{Price: &price, ServicePrice: &svcPrice, ServiceFee: &fee}
	assert.Equal(t, 100.0, n.ExplicitPrice())

	n.Price = nil
	assert.Equal(t, 200.0, n.ExplicitPrice())

	n.ServicePrice = nil
	assert.Equal(t, 300.0, n.ExplicitPrice())

	n.ServiceFee = nil
	assert.Equal(t, 0.0, n.ExplicitPrice())
}

func TestNotificationServiceAliases(t *testing.T) {
	n := BookingNotification{SubcategoryID: 8, Service: "Pet Sitting"}
	assert.Equal(t, int64(8), n.EffectiveServiceID())
	assert.Equal(t, "Pet Sitting", n.EffectiveServiceName())

	n.ServiceID = 3
	n.ServiceName = "Dog Walking"
	assert.Equal(t, int64(3), n.EffectiveServiceID())
	assert.Equal(t, "Dog Walking", n.EffectiveServiceName())
}

func TestNotificationUserCoords(t *testing.T) {
	assert.Nil(t, BookingNotification{}.UserCoords())

	zero := FlexFloat(0)
	assert.Nil(t, BookingNotification{UserLatitude: &zero, UserLongitude: &zero}.UserCoords())

	lat := FlexFloat(12.9)
	lng := FlexFloat(77.6)
	coords := BookingNotification{UserLatitude: &lat, UserLongitude: &lng}.UserCoords()
	assert.NotNil(t, coords)
	assert.Equal(t, 12.9, coords.Latitude)
}
