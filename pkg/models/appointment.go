package models

import "time"

// Appointment statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment methods and statuses.
const (
	PaymentCash = "cash"
	PaymentCard = "card"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Appointment is one booking record. ID and CreatedAt are assigned by the
// server when the record is appended; clients send candidates without them
// and never overwrite them directly afterwards.
type Appointment struct {
	ID            string    `json:"id"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	CustomerPhone string    `json:"customerPhone"`
	CarMake       string    `json:"carMake"`
	CarModel      string    `json:"carModel"`
	FuelType      string    `json:"fuelType"`
	LicensePlate  string    `json:"licensePlate"`
	ServiceID     string    `json:"serviceId"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Notes         string    `json:"notes"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentStatus string    `json:"paymentStatus"`
	Price         float64   `json:"price"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DerivePaymentStatus maps a payment method to the status a fresh booking
// starts in: card payments are captured up front, cash settles on site.
func DerivePaymentStatus(method string) string {
	if method == PaymentCard {
		return PaymentStatusPaid
	}
	return PaymentStatusPending
}
