// The seeder fills an empty deployment with demo accounts and listings so
// the admin console and mini-app have something to show. Hotels are created
// through LifecycleService (never by writing files directly), so seeded data
// obeys the same invariants as user-created data.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/adapters/token"
	"stayhub/internal/app"
	"stayhub/internal/domain"
	"stayhub/internal/shared"
	"stayhub/internal/storage/jsonfile"
)

var (
	cities = []string{"Beijing", "Shanghai", "Hangzhou", "Chengdu", "Xiamen", "Qingdao"}
	nouns  = []string{"Garden", "Harbor", "Lakeside", "Skyline", "Courtyard", "Pavilion"}
	tags   = []string{"near-metro", "breakfast", "parking", "pet-friendly", "pool"}
)

func demoHotel(i int) app.CreateHotelInput {
	city := cities[i%len(cities)]
	price := float64(200 + rand.Intn(600))
	return app.CreateHotelInput{
		Name:     fmt.Sprintf("%s %s Hotel", city, nouns[i%len(nouns)]),
		Address:  fmt.Sprintf("%d Demo Street", 1+i),
		City:     city,
		Province: city,
		Location: &domain.Location{
			Lat: 20 + rand.Float64()*25,
			Lng: 100 + rand.Float64()*20,
		},
		Images:     []string{fmt.Sprintf("https://img.example.com/hotels/%d.jpg", i)},
		Tags:       []string{tags[i%len(tags)], tags[(i+1)%len(tags)]},
		Facilities: []string{"WiFi", "AC"},
		RoomTypes: []app.RoomTypeInput{
			{Name: "Standard Queen", Area: "25m²", Price: price, BedType: "queen 1.5m", MaxGuests: 2, Stock: 5, Status: domain.RoomAvailable},
			{Name: "Deluxe King", Area: "35m²", Price: price + 120, BedType: "king 1.8m", MaxGuests: 2, Stock: 3, Status: domain.RoomAvailable},
		},
	}
}

// ensureUser registers the account unless it already exists.
func ensureUser(ctx context.Context, auth *app.AuthService, in app.RegisterInput) {
	if _, _, err := auth.Register(ctx, in); err != nil {
		log.Info().Str("username", in.Username).Err(err).Msg("register skipped")
	} else {
		log.Info().Str("username", in.Username).Str("role", string(in.Role)).Msg("user seeded")
	}
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Int("count", cfg.SeedCount).Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	hotels := jsonfile.NewHotels(cfg.DataDir)
	userStore := jsonfile.NewUsers(cfg.DataDir)

	tokens, err := token.NewJWT(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer init failed")
	}
	auth := app.NewAuthService(userStore, tokens)
	lifecycle := app.NewLifecycleService(hotels, nil)

	ensureUser(ctx, auth, app.RegisterInput{Username: "admin", Password: "admin123", RealName: "Platform Admin", Role: domain.RoleAdmin})
	ensureUser(ctx, auth, app.RegisterInput{Username: "owner", Password: "owner123", RealName: "Demo Owner", Role: domain.RoleHotelAdmin})
	ensureUser(ctx, auth, app.RegisterInput{Username: "guest", Password: "guest123", RealName: "Demo Guest", Role: domain.RoleUser})

	owner, _, err := auth.Login(ctx, "owner", "owner123")
	if err != nil {
		log.Fatal().Err(err).Msg("owner login failed")
	}
	admin, _, err := auth.Login(ctx, "admin", "admin123")
	if err != nil {
		log.Fatal().Err(err).Msg("admin login failed")
	}
	ownerActor := domain.Actor{ID: owner.ID, Role: owner.Role}
	adminActor := domain.Actor{ID: admin.ID, Role: admin.Role}

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for i := 0; i < cfg.SeedCount; i++ {
		i := i

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			h, err := lifecycle.Create(ctx, ownerActor, demoHotel(i))
			if err != nil {
				log.Warn().Int("seed", i).Err(err).Msg("create failed")
				return
			}
			// Leave every sixth hotel pending so the audit queue is not empty.
			if i%6 == 5 {
				log.Info().Str("id", h.ID).Msg("seeded (pending)")
				return
			}
			if _, err := lifecycle.Audit(ctx, adminActor, h.ID, app.AuditApprove, ""); err != nil {
				log.Warn().Str("id", h.ID).Err(err).Msg("approve failed")
				return
			}
			log.Info().Str("id", h.ID).Msg("seeded (approved)")
		}()
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}
