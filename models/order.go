package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// OrderStatus is the UI-facing reduction of the backend booking status enum.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderCurrent   OrderStatus = "Current"
	OrderCompleted OrderStatus = "Completed"
)

// MapBookingStatus reduces a backend status string to an OrderStatus.
// Matching is case-insensitive and total: anything unlisted is Pending.
func MapBookingStatus(backend string) OrderStatus {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "accepted", "in_progress", "awaiting_payment":
		return OrderCurrent
	case "completed", "cancelled", "cancelled_auto":
		return OrderCompleted
	case "pending_notification", "pending":
		return OrderPending
	default:
		return OrderPending
	}
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FlexFloat tolerates numbers the backend encodes either as JSON numbers or
// as quoted strings.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q", s)
	}
	*f = FlexFloat(n)
	return nil
}

// Float unwraps the flexible value.
func (f FlexFloat) Float() float64 { return float64(f) }

// LiveOrder is the in-memory (selectively persisted) representation of a
// booking relevant to the current provider. Only Current and Completed
// orders survive a reload.
type LiveOrder struct {
	BookingID       int64       `json:"bookingId"`
	Name            string      `json:"name"`
	CategoryID      int64       `json:"categoryId,omitempty"`
	Category        string      `json:"category,omitempty"`
	ServiceID       int64       `json:"serviceId,omitempty"`
	Service         string      `json:"service,omitempty"`
	AmountValue     float64     `json:"amountValue"`
	Amount          string      `json:"amount"`
	Address         string      `json:"address,omitempty"`
	PetName         string      `json:"petName,omitempty"`
	Appointment     string      `json:"appointment,omitempty"`
	Status          OrderStatus `json:"status"`
	UserCoords      *GeoPoint   `json:"userCoords,omitempty"`
	PaymentStatus   string      `json:"paymentStatus,omitempty"`
	PaymentLink     string      `json:"paymentLink,omitempty"`
	PaymentOrderID  string      `json:"paymentOrderId,omitempty"`
	UserID          int64       `json:"userId,omitempty"`
	UserPhone       string      `json:"userPhone,omitempty"`
}

// FormatAmount renders a rupee display string, with the em-dash placeholder
// for unresolvable amounts.
func FormatAmount(value float64) string {
	if value <= 0 {
		return "—"
	}
	return "₹" + strconv.FormatFloat(value, 'f', -1, 64)
}

// BookingRow is a raw booking record as fetched from the appointment
// listings. Field aliases reflect the backend's historical payloads.
type BookingRow struct {
	ID        int64 `json:"id"`
	BookingID int64 `json:"booking_id"`

	Status string `json:"status"`

	FullName string `json:"full_name"`
	UserName string `json:"user_name"`
	Name     string `json:"name"`

	ServiceName     string `json:"service_name"`
	Service         string `json:"service"`
	SubcategoryName string `json:"subcategory_name"`
	ServiceID       int64  `json:"service_id"`
	SubcategoryID   int64  `json:"subcategory_id"`
	CategoryID      int64  `json:"category_id"`
	CategoryName    string `json:"category_name"`

	ServiceFee      *FlexFloat `json:"service_fee"`
	PriceOriginal   *FlexFloat `json:"price_original"`
	PriceDiscounted *FlexFloat `json:"price_discounted"`
	Amount          *FlexFloat `json:"amount"`

	Address     string `json:"address"`
	UserAddress string `json:"user_address"`
	PetName     string `json:"pet_name"`

	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
	CreatedAt     string `json:"created_at"`

	PaymentStatus string `json:"payment_status"`

	UserID        int64  `json:"user_id"`
	ContactNumber string `json:"contact_number"`
	UserPhone     string `json:"user_phone"`
	PhoneNumber   string `json:"phone_number"`

	UserLatitude  *FlexFloat `json:"user_latitude"`
	UserLongitude *FlexFloat `json:"user_longitude"`
}

// ExplicitAmount resolves the first non-nil, non-zero amount carried on the
// row itself (catalog lookups happen later, in the reconciler).
func (b BookingRow) ExplicitAmount() float64 {
	for _, v := range []*FlexFloat{b.ServiceFee, b.PriceOriginal, b.PriceDiscounted, b.Amount} {
		if v != nil && v.Float() != 0 {
			return v.Float()
		}
	}
	return 0
}

// OrderFromBooking normalizes a fetched booking row into a LiveOrder.
func OrderFromBooking(b BookingRow) LiveOrder {
	id := b.ID
	if id == 0 {
		id = b.BookingID
	}

	name := firstNonEmpty(b.FullName, b.UserName, b.Name, "Customer")
	service := firstNonEmpty(b.ServiceName, b.Service, b.SubcategoryName, "Service")
	serviceID := b.ServiceID
	if serviceID == 0 {
		serviceID = b.SubcategoryID
	}

	appointment := "N/A"
	if b.PreferredDate != "" && b.PreferredTime != "" {
		appointment = b.PreferredDate + " • " + b.PreferredTime
	} else if b.CreatedAt != "" {
		appointment = b.CreatedAt
	}

	amount := b.ExplicitAmount()

	paymentStatus := b.PaymentStatus
	if paymentStatus == "" && strings.EqualFold(b.Status, "awaiting_payment") {
		paymentStatus = "pending"
	}

	var coords *GeoPoint
	if b.UserLatitude != nil && b.UserLongitude != nil &&
		(b.UserLatitude.Float() != 0 || b.UserLongitude.Float() != 0) {
		coords = &GeoPoint{Latitude: b.UserLatitude.Float(), Longitude: b.UserLongitude.Float()}
	}

	return LiveOrder{
		BookingID:     id,
		Name:          name,
		CategoryID:    b.CategoryID,
		Category:      firstNonEmpty(b.CategoryName, "Category"),
		ServiceID:     serviceID,
		Service:       service,
		AmountValue:   amount,
		Amount:        FormatAmount(amount),
		Address:       firstNonEmpty(b.Address, b.UserAddress, "N/A"),
		PetName:       b.PetName,
		Appointment:   appointment,
		Status:        MapBookingStatus(b.Status),
		UserCoords:    coords,
		PaymentStatus: paymentStatus,
		UserID:        b.UserID,
		UserPhone:     firstNonEmpty(b.ContactNumber, b.UserPhone, b.PhoneNumber),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
