package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"trainbook/internal/config"
	"trainbook/internal/database"
	"trainbook/internal/domain"
	"trainbook/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data, bookings first to respect foreign keys.
	log.Println("cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	rooms := repository.NewRoomRepository(db)
	bookings := repository.NewBookingRepository(db)

	// ================== ROOMS ==================
	log.Println("creating rooms...")
	uts := domain.Room{ID: 1, Name: "UTS", Description: "Urban training suite", Capacity: 24}
	bit := domain.Room{ID: cfg.RestrictedRoomID, Name: "BIT", Description: "Basic instruction theatre, bookings are reported to the room manager", Capacity: 40}
	mustCreateRoom(ctx, rooms, &uts)
	mustCreateRoom(ctx, rooms, &bit)

	// ================== USERS ==================
	log.Println("creating users...")

	// The manager doubles as the reserved owner: their bookings are never
	// auto-evicted, matching the original deployment where both ids were
	// the same account.
	manager := domain.User{
		ID:         cfg.ManagerUserID,
		Username:   "bitmanager",
		Email:      "bitmanager@example.org",
		Privileged: false,
	}
	seedUser(ctx, users, &manager, "manager123")

	super := domain.User{
		Username:   cfg.SuperUsername,
		Email:      "bitadmin@example.org",
		Privileged: true,
	}
	seedUser(ctx, users, &super, "admin123")

	admin := domain.User{
		Username:   "sysadmin",
		Email:      "sysadmin@example.org",
		Privileged: true,
	}
	seedUser(ctx, users, &admin, "admin123")

	regulars := make([]domain.User, 0, 3)
	for _, name := range []string{"alice", "bob", "carol"} {
		u := domain.User{
			Username:    name,
			Email:       name + "@example.org",
			DisplayName: "tg-" + name,
		}
		seedUser(ctx, users, &u, name+"123")
		regulars = append(regulars, u)
	}

	// ================== BOOKINGS ==================
	log.Println("creating bookings...")
	day := time.Now().Truncate(24 * time.Hour).Add(24 * time.Hour)
	fixtures := []domain.Booking{
		{RoomID: uts.ID, UserID: regulars[0].ID, StartTime: day.Add(9 * time.Hour), EndTime: day.Add(11 * time.Hour), Scenario: "induction", Pax: 12},
		{RoomID: uts.ID, UserID: regulars[1].ID, StartTime: day.Add(13 * time.Hour), EndTime: day.Add(15 * time.Hour), Scenario: "refresher", Pax: 8},
		{RoomID: bit.ID, UserID: regulars[2].ID, StartTime: day.Add(10 * time.Hour), EndTime: day.Add(12 * time.Hour), Scenario: "assessment", Pax: 20},
		{RoomID: bit.ID, UserID: manager.ID, StartTime: day.Add(24 * time.Hour).Add(9 * time.Hour), EndTime: day.Add(24 * time.Hour).Add(17 * time.Hour), Scenario: "maintenance", Pax: 0},
	}
	for i := range fixtures {
		if err := bookings.Create(ctx, &fixtures[i]); err != nil {
			log.Fatal("booking fixture failed:", err)
		}
	}

	log.Println("seed complete")
}

func mustCreateRoom(ctx context.Context, rooms *repository.RoomRepository, r *domain.Room) {
	if err := rooms.Create(ctx, r); err != nil {
		log.Fatal("room fixture failed:", err)
	}
	log.Printf("room created: %s (id=%d)", r.Name, r.ID)
}

func seedUser(ctx context.Context, users *repository.UserRepository, u *domain.User, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	u.PasswordHash = string(hash)
	if err := users.Create(ctx, u); err != nil {
		log.Fatal("user fixture failed:", err)
	}
	log.Printf("user created: %s / %s", u.Username, password)
}
