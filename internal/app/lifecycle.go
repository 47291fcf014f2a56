package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/domain"
)

type AuditAction string

const (
	AuditApprove AuditAction = "approve"
	AuditReject  AuditAction = "reject"
)

// LifecycleService owns every mutation of the hotel collection: creation,
// edits, audit decisions, online/offline toggling and deletion. Each call is
// a whole-collection read-modify-write; mu serializes the cycles so two
// in-process callers cannot interleave between read and write. Role policy
// is enforced here, not trusted to the transport.
type LifecycleService struct {
	mu     sync.Mutex
	hotels domain.HotelStore
	cache  domain.Cache
}

func NewLifecycleService(s domain.HotelStore, c domain.Cache) *LifecycleService {
	return &LifecycleService{hotels: s, cache: c}
}

type RoomTypeInput struct {
	Name          string            `json:"name"`
	Area          string            `json:"area"`
	Price         float64           `json:"price"`
	OriginalPrice *float64          `json:"originalPrice"`
	BedType       string            `json:"bedType"`
	MaxGuests     int               `json:"maxGuests"`
	Stock         int               `json:"stock"`
	Status        domain.RoomStatus `json:"status"`
	Amenities     []string          `json:"amenities"`
	Images        []string          `json:"images"`
}

type CreateHotelInput struct {
	Name       string           `json:"name"`
	Address    string           `json:"address"`
	City       string           `json:"city"`
	Province   string           `json:"province"`
	Location   *domain.Location `json:"location"`
	Images     []string         `json:"images"`
	Tags       []string         `json:"tags"`
	Facilities []string         `json:"facilities"`
	RoomTypes  []RoomTypeInput  `json:"roomTypes"`
}

type UpdateHotelInput struct {
	Name       *string          `json:"name"`
	Address    *string          `json:"address"`
	City       *string          `json:"city"`
	Province   *string          `json:"province"`
	Location   *domain.Location `json:"location"`
	Images     []string         `json:"images"`
	Tags       []string         `json:"tags"`
	Facilities []string         `json:"facilities"`
	RoomTypes  []RoomTypeInput  `json:"roomTypes"`
}

func newHotelID() string    { return "h-" + uuid.NewString() }
func newRoomTypeID() string { return "r-" + uuid.NewString() }

func (in CreateHotelInput) validate() error {
	switch {
	case in.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case in.Address == "":
		return fmt.Errorf("%w: address is required", domain.ErrValidation)
	case in.City == "":
		return fmt.Errorf("%w: city is required", domain.ErrValidation)
	case in.Location == nil:
		return fmt.Errorf("%w: location is required", domain.ErrValidation)
	case in.Location.Lat < -90 || in.Location.Lat > 90:
		return fmt.Errorf("%w: latitude out of range", domain.ErrValidation)
	case in.Location.Lng < -180 || in.Location.Lng > 180:
		return fmt.Errorf("%w: longitude out of range", domain.ErrValidation)
	case len(in.RoomTypes) == 0:
		return fmt.Errorf("%w: at least one room type is required", domain.ErrValidation)
	}
	for _, rt := range in.RoomTypes {
		if rt.Price < 0 {
			return fmt.Errorf("%w: room price must not be negative", domain.ErrValidation)
		}
		if rt.Stock < 0 {
			return fmt.Errorf("%w: room stock must not be negative", domain.ErrValidation)
		}
	}
	return nil
}

func buildRoomType(in RoomTypeInput, id string) domain.RoomType {
	status := in.Status
	if status == "" {
		status = domain.RoomAvailable
	}
	return domain.RoomType{
		ID:            id,
		Name:          in.Name,
		Area:          in.Area,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		BedType:       in.BedType,
		MaxGuests:     in.MaxGuests,
		Stock:         in.Stock,
		Status:        status,
		Amenities:     in.Amenities,
		Images:        in.Images,
	}
}

// Create registers a new listing in PENDING state with zeroed rating and
// review count. Room types receive fresh ids.
func (s *LifecycleService) Create(ctx context.Context, actor domain.Actor, in CreateHotelInput) (domain.Hotel, error) {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleHotelAdmin {
		return domain.Hotel{}, fmt.Errorf("%w: role %s cannot create hotels", domain.ErrForbidden, actor.Role)
	}
	if err := in.validate(); err != nil {
		return domain.Hotel{}, err
	}

	now := time.Now().UTC()
	h := domain.Hotel{
		ID:          newHotelID(),
		Name:        in.Name,
		Address:     in.Address,
		City:        in.City,
		Province:    in.Province,
		Location:    *in.Location,
		Images:      in.Images,
		Rating:      0,
		ReviewCount: 0,
		Tags:        in.Tags,
		Facilities:  in.Facilities,
		Status:      domain.StatusPending,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	h.RoomTypes = make([]domain.RoomType, 0, len(in.RoomTypes))
	for _, rt := range in.RoomTypes {
		h.RoomTypes = append(h.RoomTypes, buildRoomType(rt, newRoomTypeID()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hotels, err := s.hotels.ReadAll(ctx)
	if err != nil {
		return domain.Hotel{}, err
	}
	hotels = append(hotels, h)
	if err := s.hotels.WriteAll(ctx, hotels); err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}

// Update edits descriptive fields. Room types keep their existing id at the
// same position; extra ones get fresh ids.
func (s *LifecycleService) Update(ctx context.Context, actor domain.Actor, id string, in UpdateHotelInput) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hotels, err := s.hotels.ReadAll(ctx)
	if err != nil {
		return domain.Hotel{}, err
	}
	idx := indexOf(hotels, id)
	if idx < 0 {
		return domain.Hotel{}, fmt.Errorf("%w: hotel %s", domain.ErrNotFound, id)
	}
	if !actor.CanManage(hotels[idx]) {
		return domain.Hotel{}, fmt.Errorf("%w: not your listing", domain.ErrForbidden)
	}

	h := &hotels[idx]
	if in.Name != nil {
		h.Name = *in.Name
	}
	if in.Address != nil {
		h.Address = *in.Address
	}
	if in.City != nil {
		h.City = *in.City
	}
	if in.Province != nil {
		h.Province = *in.Province
	}
	if in.Location != nil {
		h.Location = *in.Location
	}
	if in.Images != nil {
		h.Images = in.Images
	}
	if in.Tags != nil {
		h.Tags = in.Tags
	}
	if in.Facilities != nil {
		h.Facilities = in.Facilities
	}
	if in.RoomTypes != nil {
		rts := make([]domain.RoomType, 0, len(in.RoomTypes))
		for i, rt := range in.RoomTypes {
			rtID := newRoomTypeID()
			if i < len(h.RoomTypes) {
				rtID = h.RoomTypes[i].ID
			}
			rts = append(rts, buildRoomType(rt, rtID))
		}
		h.RoomTypes = rts
	}
	h.UpdatedAt = time.Now().UTC()

	if err := s.hotels.WriteAll(ctx, hotels); err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx, id)
	return *h, nil
}

// Audit records an approve/reject decision. Rejection stores the reason
// (which may be empty); approval clears any previous one. Offline records
// are outside the audit path.
func (s *LifecycleService) Audit(ctx context.Context, actor domain.Actor, id string, action AuditAction, reason string) (domain.Hotel, error) {
	if !actor.IsAdmin() {
		return domain.Hotel{}, fmt.Errorf("%w: audit requires the admin role", domain.ErrForbidden)
	}
	if action != AuditApprove && action != AuditReject {
		return domain.Hotel{}, fmt.Errorf("%w: unknown audit action %q", domain.ErrValidation, action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hotels, err := s.hotels.ReadAll(ctx)
	if err != nil {
		return domain.Hotel{}, err
	}
	idx := indexOf(hotels, id)
	if idx < 0 {
		return domain.Hotel{}, fmt.Errorf("%w: hotel %s", domain.ErrNotFound, id)
	}

	h := &hotels[idx]
	if h.Status == domain.StatusOffline {
		return domain.Hotel{}, fmt.Errorf("%w: cannot audit an offline hotel", domain.ErrValidation)
	}
	if action == AuditApprove {
		h.Status = domain.StatusApproved
		h.RejectionReason = ""
	} else {
		h.Status = domain.StatusRejected
		h.RejectionReason = reason
	}
	h.UpdatedAt = time.Now().UTC()

	if err := s.hotels.WriteAll(ctx, hotels); err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx, id)
	return *h, nil
}

// SetStatus toggles an approved listing offline and back. online maps to
// APPROVED, offline to OFFLINE; records that never passed audit cannot be
// toggled.
func (s *LifecycleService) SetStatus(ctx context.Context, actor domain.Actor, id, target string) (domain.Hotel, error) {
	if target != "online" && target != "offline" {
		return domain.Hotel{}, fmt.Errorf("%w: status must be online or offline", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hotels, err := s.hotels.ReadAll(ctx)
	if err != nil {
		return domain.Hotel{}, err
	}
	idx := indexOf(hotels, id)
	if idx < 0 {
		return domain.Hotel{}, fmt.Errorf("%w: hotel %s", domain.ErrNotFound, id)
	}

	h := &hotels[idx]
	if !actor.CanManage(*h) {
		return domain.Hotel{}, fmt.Errorf("%w: not your listing", domain.ErrForbidden)
	}
	if h.Status != domain.StatusApproved && h.Status != domain.StatusOffline {
		return domain.Hotel{}, fmt.Errorf("%w: only approved hotels can go online or offline", domain.ErrValidation)
	}
	if target == "online" {
		h.Status = domain.StatusApproved
	} else {
		h.Status = domain.StatusOffline
	}
	h.UpdatedAt = time.Now().UTC()

	if err := s.hotels.WriteAll(ctx, hotels); err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx, id)
	return *h, nil
}

// Delete removes a listing outright. Admin only.
func (s *LifecycleService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: delete requires the admin role", domain.ErrForbidden)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hotels, err := s.hotels.ReadAll(ctx)
	if err != nil {
		return err
	}
	kept := hotels[:0:0]
	for _, h := range hotels {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(hotels) {
		return fmt.Errorf("%w: hotel %s", domain.ErrNotFound, id)
	}
	if err := s.hotels.WriteAll(ctx, kept); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *LifecycleService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, hotelCacheKey(id))
	}
}

func indexOf(hotels []domain.Hotel, id string) int {
	for i, h := range hotels {
		if h.ID == id {
			return i
		}
	}
	return -1
}
