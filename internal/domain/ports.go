package domain

import "context"

// HotelStore is the durable store for listings. The contract is deliberately
// whole-collection: ReadAll returns every record, WriteAll replaces every
// record. No partial updates, no transactions, no indexing.
type HotelStore interface {
	ReadAll(ctx context.Context) ([]Hotel, error)
	WriteAll(ctx context.Context, hotels []Hotel) error
}

// UserStore persists accounts with the same whole-collection semantics.
type UserStore interface {
	ReadAll(ctx context.Context) ([]User, error)
	WriteAll(ctx context.Context, users []User) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// TokenIssuer mints and verifies the session tokens carried in the
// Authorization header.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (userID string, err error)
}

// Queries & read models

type GeoQuery struct {
	Lat    float64
	Lng    float64
	Radius float64 // accepted but unused for filtering; distance drives sort only
}

type HotelQuery struct {
	Keyword  string
	City     string
	MinPrice *float64
	MaxPrice *float64
	Tags     []string

	// Status, when set, restricts to exactly that status. IncludeAll lifts
	// the default approved-only rule when Status is absent.
	Status     HotelStatus
	IncludeAll bool

	// CreatedBy is an ordinary equality filter; the transport injects it for
	// hotel-admin callers to enforce ownership scoping.
	CreatedBy string

	Location *GeoQuery
	SortBy   string // price | distance | rating | createdAt
	Order    string // asc | desc

	Page     int
	PageSize int
}

type HotelPage struct {
	Items    []Hotel
	Total    int
	Page     int
	PageSize int
	HasMore  bool
}
