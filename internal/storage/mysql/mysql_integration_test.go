//go:build integration

package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"stayhub/internal/domain"
)

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=stayhub",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	// Same DSN options as the production default, so Migrate runs under the
	// driver's default single-statement mode here too.
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/stayhub?parseTime=true&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestHotelRepo_WriteReadRoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := NewHotelRepo(db)
	ctx := context.Background()

	empty, err := repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll on empty table: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty collection, got %d", len(empty))
	}

	base := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	in := []domain.Hotel{
		{
			ID:       "h-first",
			Name:     "First Light",
			Address:  "9 Dawn Rd",
			City:     "Xiamen",
			Location: domain.Location{Lat: 24.48, Lng: 118.09},
			Tags:     []string{"seaside", "breakfast"},
			RoomTypes: []domain.RoomType{
				{ID: "r-1", Name: "King", Price: 520, Stock: 2, Status: domain.RoomAvailable},
			},
			Status:    domain.StatusApproved,
			CreatedBy: "user-a",
			CreatedAt: base,
			UpdatedAt: base,
		},
		{
			ID:        "h-second",
			Name:      "Second Wind",
			City:      "Xiamen",
			RoomTypes: []domain.RoomType{{ID: "r-2", Name: "Twin", Price: 300, Stock: 5, Status: domain.RoomAvailable}},
			Status:    domain.StatusPending,
			CreatedBy: "user-b",
			CreatedAt: base.Add(time.Minute),
			UpdatedAt: base.Add(time.Minute),
		},
	}
	if err := repo.WriteAll(ctx, in); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	out, err := repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].ID != "h-first" || out[1].ID != "h-second" {
		t.Fatalf("collection order not preserved: %s, %s", out[0].ID, out[1].ID)
	}
	if out[0].RoomTypes[0].Price != 520 || len(out[0].Tags) != 2 {
		t.Fatalf("document fields lost: %+v", out[0])
	}

	// WriteAll replaces, never appends.
	if err := repo.WriteAll(ctx, in[:1]); err != nil {
		t.Fatalf("WriteAll (replace): %v", err)
	}
	out, err = repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll after replace: %v", err)
	}
	if len(out) != 1 || out[0].ID != "h-first" {
		t.Fatalf("replace semantics broken: %+v", out)
	}
}

func TestUserRepo_WriteReadRoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	in := []domain.User{
		{ID: "user-1", Username: "ada", PasswordHash: "$2a$10$x", RealName: "Ada", Role: domain.RoleAdmin, CreatedAt: now, UpdatedAt: now},
		{ID: "user-2", Username: "brin", PasswordHash: "$2a$10$y", RealName: "Brin", Role: domain.RoleHotelAdmin, CreatedAt: now, UpdatedAt: now},
	}
	if err := repo.WriteAll(ctx, in); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	out, err := repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(out) != 2 || out[0].Username != "ada" || out[1].Role != domain.RoleHotelAdmin {
		t.Fatalf("round trip broken: %+v", out)
	}
}
