// Command seed creates demo producer and recycler accounts with a few
// listings.
package main

import (
	"context"
	"errors"
	"log"

	"lumbung/internal/config"
	"lumbung/internal/models"
	"lumbung/internal/repositories"
	"lumbung/internal/services/auth"
	"lumbung/internal/services/waste"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.DB.Driver == "memory" {
		log.Fatal("seeding the in-memory store has no effect; set DB_DRIVER=postgres")
	}

	store, userCache, err := repositories.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
		if err := userCache.Close(); err != nil {
			log.Printf("Failed to close Redis connection: %v", err)
		}
	}()

	password := config.GetEnv("SEED_PASSWORD", "lumbung123")
	authService := auth.NewService(store.Users(), cfg.JWTSecret, cfg.JWTExpiration)
	wasteService := waste.NewService(store.Wastes())

	producer, created := ensureUser(ctx, authService, store, models.CreateUserInput{
		Email:    "producer@lumbung.id",
		Password: password,
		Name:     "Warung Makan Sejahtera",
		Role:     string(models.RoleProducer),
		Contact:  "081234567890",
	})
	ensureUser(ctx, authService, store, models.CreateUserInput{
		Email:    "recycler@lumbung.id",
		Password: password,
		Name:     "Bank Sampah Hijau",
		Role:     string(models.RoleRecycler),
		Contact:  "089876543210",
	})

	if !created {
		log.Println("Demo accounts already exist, skipping listings")
		return
	}

	actor := models.Identity{UserID: producer.ID, Role: producer.Role}
	if _, err := authService.UpdateBankDetails(ctx, actor, models.BankDetailsInput{
		BankName: "BRI", BankAccount: "0123456789", AccountHolder: producer.Name,
	}); err != nil {
		log.Fatalf("Failed to set bank details: %v", err)
	}

	lat, lng := -5.1477, 119.4327
	listings := []models.CreateWasteInput{
		{Title: "Minyak jelantah dapur", Category: "Minyak", Weight: 20, Price: 80000, Latitude: &lat, Longitude: &lng, Address: "Makassar"},
		{Title: "Botol plastik PET", Category: "Plastik", Weight: 15, Price: 45000, Latitude: &lat, Longitude: &lng, Address: "Makassar"},
		{Title: "Kardus bekas", Category: "Kertas", Weight: 30, Price: 0, Address: "Makassar"},
	}
	for _, in := range listings {
		w, err := wasteService.Create(ctx, actor, in)
		if err != nil {
			log.Fatalf("Failed to create listing %q: %v", in.Title, err)
		}
		log.Printf("Created listing %d: %s", w.ID, w.Title)
	}

	log.Println("✅ Demo data created successfully!")
}

// ensureUser registers input unless the email is already taken. It reports
// whether a new account was created.
func ensureUser(ctx context.Context, authService auth.Service, store repositories.Store, input models.CreateUserInput) (*models.User, bool) {
	user, _, err := authService.Register(ctx, input)
	if err == nil {
		log.Printf("Created %s account %s", user.Role, user.Email)
		return user, true
	}
	if !errors.Is(err, auth.ErrEmailTaken) {
		log.Fatalf("Failed to create %s: %v", input.Email, err)
	}

	user, err = store.Users().GetByEmail(ctx, input.Email)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", input.Email, err)
	}
	return user, false
}
