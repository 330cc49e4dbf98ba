package model

import "time"

// DonationStatus is the lifecycle state of a donation.
// Unassigned is never persisted: creation and assignment happen together.
type DonationStatus string

const (
	StatusUnassigned DonationStatus = "Unassigned"
	StatusAssigned   DonationStatus = "Assigned"
	StatusCollected  DonationStatus = "Collected"
)

// Donation is a batch of surplus food reported by a donor and matched to a receiver.
// Quantity, Distance and AssignedReceiverID are fixed once the donation is assigned.
type Donation struct {
	ID                 string         `json:"id"`
	DonorID            string         `json:"donor_id"`
	DonorName          string         `json:"donor_name,omitempty"`
	FoodName           string         `json:"food_name"`
	Quantity           int            `json:"quantity"`
	ExpiryHours        int            `json:"expiry_hours"`
	AssignedReceiverID string         `json:"assigned_receiver_id"`
	Distance           float64        `json:"distance_km"`
	Status             DonationStatus `json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	CollectedAt        *time.Time     `json:"collected_at,omitempty"`
}

// Stats are impact counts derived from donation records.
type Stats struct {
	Total     int `json:"total"`
	Assigned  int `json:"assigned"`
	Collected int `json:"collected"`
}
