package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stayhub/internal/domain"
)

func TestReadAll_MissingFileIsEmptyCollection(t *testing.T) {
	hotels := NewHotels(t.TempDir())
	got, err := hotels.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty collection, got %d records", len(got))
	}
}

func TestWriteAll_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	hotels := NewHotels(dir)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := []domain.Hotel{
		{
			ID:       "h-1",
			Name:     "Harbor View",
			Address:  "1 Quay St",
			City:     "Qingdao",
			Location: domain.Location{Lat: 36.07, Lng: 120.38},
			Tags:     []string{"seaside"},
			RoomTypes: []domain.RoomType{
				{ID: "r-1", Name: "Twin", Price: 420, Stock: 3, Status: domain.RoomAvailable},
			},
			Status:    domain.StatusApproved,
			CreatedBy: "user-a",
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:        "h-2",
			Name:      "City Inn",
			Status:    domain.StatusPending,
			CreatedAt: created.Add(time.Hour),
			UpdatedAt: created.Add(time.Hour),
		},
	}
	if err := hotels.WriteAll(ctx, in); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	out, err := hotels.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].ID != "h-1" || out[1].ID != "h-2" {
		t.Fatalf("order not preserved: %s, %s", out[0].ID, out[1].ID)
	}
	if out[0].RoomTypes[0].Price != 420 {
		t.Fatalf("room type price lost: %+v", out[0].RoomTypes)
	}
	if !out[0].CreatedAt.Equal(created) {
		t.Fatalf("createdAt mangled: %v", out[0].CreatedAt)
	}
}

func TestWriteAll_LeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	hotels := NewHotels(dir)
	ctx := context.Background()

	if err := hotels.WriteAll(ctx, []domain.Hotel{{ID: "h-1"}}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "hotels.json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(raw), `"h-1"`) {
		t.Fatalf("written file does not contain the record: %s", raw)
	}
	if _, err := os.Stat(filepath.Join(dir, "hotels.json.tmp")); err == nil {
		t.Fatal("temp file left behind after rename")
	}
}

func TestUsersAndHotelsLiveInSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	if err := NewUsers(dir).WriteAll(ctx, []domain.User{{ID: "user-1", Username: "ada"}}); err != nil {
		t.Fatalf("WriteAll users: %v", err)
	}
	if err := NewHotels(dir).WriteAll(ctx, []domain.Hotel{{ID: "h-1"}}); err != nil {
		t.Fatalf("WriteAll hotels: %v", err)
	}

	for _, name := range []string{"users.json", "hotels.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("%s missing: %v", name, err)
		}
	}

	users, err := NewUsers(dir).ReadAll(ctx)
	if err != nil || len(users) != 1 || users[0].Username != "ada" {
		t.Fatalf("users round-trip broken: %v %+v", err, users)
	}
}
