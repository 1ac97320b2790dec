package models

import "strconv"

// BookingNotification is a server-pushed booking offer picked up by the
// notification poller. Notifications are transient: they live only for the
// page session and are deduplicated by the composite key below.
type BookingNotification struct {
	BookingID          int64  `json:"booking_id"`
	NotificationSentAt string `json:"notification_sent_at"`

	FullName      string     `json:"full_name"`
	CategoryID    int64      `json:"category_id"`
	CategoryName  string     `json:"category_name"`
	ServiceID     int64      `json:"service_id"`
	SubcategoryID int64      `json:"subcategory_id"`
	ServiceName   string     `json:"service_name"`
	Service       string     `json:"service"`
	Price         *FlexFloat `json:"price"`
	ServicePrice  *FlexFloat `json:"service_price"`
	ServiceFee    *FlexFloat `json:"service_fee"`
	Address       string     `json:"address"`
	PetName       string     `json:"pet_name"`
	PreferredDate string     `json:"preferred_date"`
	PreferredTime string     `json:"preferred_time"`
	UserLatitude  *FlexFloat `json:"user_latitude"`
	UserLongitude *FlexFloat `json:"user_longitude"`
	PaymentStatus string     `json:"payment_status"`
	UserID        int64      `json:"user_id"`
	ContactNumber string     `json:"contact_number"`
	UserPhone     string     `json:"user_phone"`
}

// Key returns the dedup identity of the notification.
func (n BookingNotification) Key() string {
	return strconv.FormatInt(n.BookingID, 10) + "-" + n.NotificationSentAt
}

// EffectiveServiceID resolves the service identity across payload aliases.
func (n BookingNotification) EffectiveServiceID() int64 {
	if n.ServiceID != 0 {
		return n.ServiceID
	}
	return n.SubcategoryID
}

// EffectiveServiceName resolves the service label across payload aliases.
func (n BookingNotification) EffectiveServiceName() string {
	return firstNonEmpty(n.ServiceName, n.Service)
}

// ExplicitPrice resolves the first price carried on the notification itself.
func (n BookingNotification) ExplicitPrice() float64 {
	for _, v := range []*FlexFloat{n.Price, n.ServicePrice, n.ServiceFee} {
		if v != nil && v.Float() != 0 {
			return v.Float()
		}
	}
	return 0
}

// UserCoords returns the customer's location when the notification carries
// one.
func (n BookingNotification) UserCoords() *GeoPoint {
	if n.UserLatitude == nil || n.UserLongitude == nil {
		return nil
	}
	if n.UserLatitude.Float() == 0 && n.UserLongitude.Float() == 0 {
		return nil
	}
	return &GeoPoint{Latitude: n.UserLatitude.Float(), Longitude: n.UserLongitude.Float()}
}
