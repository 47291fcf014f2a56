package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"stayhub/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// QueryService answers read queries over the hotel collection: filtering,
// sorting, pagination and single-record lookup. It never mutates the store.
type QueryService struct {
	hotels   domain.HotelStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(s domain.HotelStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{hotels: s, cache: c, cacheTTL: ttl}
}

func hotelCacheKey(id string) string { return fmt.Sprintf("hotel:%s", id) }

// GetByID returns one hotel regardless of status; visibility of non-approved
// records on the detail route is the transport's concern.
func (s *QueryService) GetByID(ctx context.Context, id string) (domain.Hotel, error) {
	key := hotelCacheKey(id)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}

	hotels, err := s.hotels.ReadAll(ctx)
	if err != nil {
		return domain.Hotel{}, err
	}
	for _, cand := range hotels {
		if cand.ID == id {
			if s.cache != nil {
				_ = s.cache.Set(ctx, key, cand, int(s.cacheTTL.Seconds()))
			}
			return cand, nil
		}
	}
	return domain.Hotel{}, fmt.Errorf("%w: hotel %s", domain.ErrNotFound, id)
}

// List filters, sorts and paginates the collection according to q.
func (s *QueryService) List(ctx context.Context, q domain.HotelQuery) (domain.HotelPage, error) {
	hotels, err := s.hotels.ReadAll(ctx)
	if err != nil {
		return domain.HotelPage{}, err
	}
	return Select(hotels, q), nil
}

// Select is the pure query engine: it applies q to an in-memory collection.
// Exported separately from List so the engine can be exercised without a
// store behind it.
func Select(hotels []domain.Hotel, q domain.HotelQuery) domain.HotelPage {
	normalize(&q)

	filtered := make([]domain.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if matches(h, q) {
			filtered = append(filtered, h)
		}
	}

	sortHotels(filtered, q)

	total := len(filtered)
	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return domain.HotelPage{
		Items:    filtered[start:end],
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
		HasMore:  (q.Page-1)*q.PageSize+q.PageSize < total,
	}
}

// normalize applies the permissive query-parameter defaults: bad page and
// pageSize values become defaults rather than errors, oversized pages clamp.
func normalize(q *domain.HotelQuery) {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
}

// matches evaluates the conjunction of all active filters plus the
// visibility rule: an explicit status wins, includeAll lifts the default
// restriction, otherwise only approved records are visible.
func matches(h domain.Hotel, q domain.HotelQuery) bool {
	if q.Keyword != "" &&
		!strings.Contains(h.Name, q.Keyword) &&
		!strings.Contains(h.Address, q.Keyword) &&
		!strings.Contains(h.City, q.Keyword) {
		return false
	}
	if q.City != "" && h.City != q.City {
		return false
	}
	if q.MinPrice != nil && h.MinPrice() < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && h.MinPrice() > *q.MaxPrice {
		return false
	}
	if len(q.Tags) > 0 && !h.HasTagAny(q.Tags) {
		return false
	}
	if q.CreatedBy != "" && h.CreatedBy != q.CreatedBy {
		return false
	}

	switch {
	case q.Status != "":
		return h.Status == q.Status
	case q.IncludeAll:
		return true
	default:
		return h.Status == domain.StatusApproved
	}
}

func sortHotels(hotels []domain.Hotel, q domain.HotelQuery) {
	switch q.SortBy {
	case "price":
		sort.SliceStable(hotels, func(i, j int) bool {
			if q.Order == "desc" {
				return hotels[i].MinPrice() > hotels[j].MinPrice()
			}
			return hotels[i].MinPrice() < hotels[j].MinPrice()
		})

	case "distance":
		// Without a reference point there is nothing to sort by.
		if q.Location == nil {
			return
		}
		origin := domain.Location{Lat: q.Location.Lat, Lng: q.Location.Lng}
		for i := range hotels {
			d := haversineKm(origin, hotels[i].Location)
			hotels[i].Distance = &d
		}
		// Ascending only; `order` has never applied to distance. Radius is
		// accepted on the wire but does not exclude anything.
		sort.SliceStable(hotels, func(i, j int) bool {
			return *hotels[i].Distance < *hotels[j].Distance
		})

	case "rating":
		// The direction is inverted relative to every other sort: desc
		// yields ascending ratings. Mobile and admin clients both depend on
		// the inversion.
		// TODO: flip to the conventional direction together with the next
		// coordinated client release.
		sort.SliceStable(hotels, func(i, j int) bool {
			if q.Order == "desc" {
				return hotels[i].Rating < hotels[j].Rating
			}
			return hotels[i].Rating > hotels[j].Rating
		})

	case "createdAt":
		sort.SliceStable(hotels, func(i, j int) bool {
			if q.Order == "desc" {
				return hotels[i].CreatedAt.After(hotels[j].CreatedAt)
			}
			return hotels[i].CreatedAt.Before(hotels[j].CreatedAt)
		})
	}
	// No sortBy: creation order as stored.
}
