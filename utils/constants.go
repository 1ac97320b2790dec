// File: utils/constants.go
package utils

// SessionStorageKey is the fixed Redis key holding the provider session record.
const SessionStorageKey = "aafaPartnerSession"

// OrdersStorageKey is the fixed Redis key holding the persisted live-order list.
const OrdersStorageKey = "aafaPartnerOrders"
