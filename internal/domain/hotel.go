package domain

import "time"

type HotelStatus string

const (
	StatusPending  HotelStatus = "pending"
	StatusApproved HotelStatus = "approved"
	StatusRejected HotelStatus = "rejected"
	StatusOffline  HotelStatus = "offline"
)

func (s HotelStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusOffline:
		return true
	}
	return false
}

type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomSoldOut   RoomStatus = "sold_out"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RoomType struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Area          string     `json:"area,omitempty"`
	Price         float64    `json:"price"`
	OriginalPrice *float64   `json:"originalPrice,omitempty"`
	BedType       string     `json:"bedType,omitempty"`
	MaxGuests     int        `json:"maxGuests,omitempty"`
	Stock         int        `json:"stock"`
	Status        RoomStatus `json:"status"`
	Amenities     []string   `json:"amenities,omitempty"`
	Images        []string   `json:"images,omitempty"`
}

type Hotel struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Address         string      `json:"address"`
	City            string      `json:"city"`
	Province        string      `json:"province"`
	Location        Location    `json:"location"`
	Images          []string    `json:"images"`
	Rating          float64     `json:"rating"`
	ReviewCount     int         `json:"reviewCount"`
	Tags            []string    `json:"tags"`
	Facilities      []string    `json:"facilities"`
	RoomTypes       []RoomType  `json:"roomTypes"`
	Status          HotelStatus `json:"status"`
	RejectionReason string      `json:"rejectionReason,omitempty"`
	CreatedBy       string      `json:"createdBy"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`

	// Distance is computed per query relative to the caller's location,
	// never persisted.
	Distance *float64 `json:"distance,omitempty"`
}

// MinPrice is the lowest room-type price; it drives the price filters and
// the price sort. Zero for a hotel without room types.
func (h Hotel) MinPrice() float64 {
	if len(h.RoomTypes) == 0 {
		return 0
	}
	min := h.RoomTypes[0].Price
	for _, rt := range h.RoomTypes[1:] {
		if rt.Price < min {
			min = rt.Price
		}
	}
	return min
}

// HasTagAny reports whether the hotel carries at least one of the given tags.
func (h Hotel) HasTagAny(tags []string) bool {
	for _, want := range tags {
		for _, have := range h.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}
