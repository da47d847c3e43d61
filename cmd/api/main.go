package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"trainbook/internal/config"
	"trainbook/internal/database"
	"trainbook/internal/middleware"
	"trainbook/internal/modules/auth"
	"trainbook/internal/modules/booking"
	"trainbook/internal/modules/catalog"
	"trainbook/internal/modules/events"
	jwtsvc "trainbook/internal/pkg/jwt"
	"trainbook/internal/pkg/mailer"
	"trainbook/internal/pkg/response"
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
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)

	var mail mailer.Sender
	if cfg.SMTPAddr != "" {
		mail = mailer.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	} else {
		log.Println("SMTP_ADDR not set, mail goes to the log")
		mail = mailer.LogSender{}
	}

	hub := events.NewHub()
	defer hub.Close()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	bookingService := booking.NewService(bookingRepo, roomRepo, userRepo, mail, hub, booking.Config{
		RestrictedRoomID: cfg.RestrictedRoomID,
		ManagerUserID:    cfg.ManagerUserID,
		ReservedUserID:   cfg.ReservedUserID,
		SuperUsername:    cfg.SuperUsername,
	})
	bookingHandler := booking.NewHandler(bookingService)

	catalogService := catalog.NewService(roomRepo, userRepo, bookingRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	eventsHandler := events.NewHandler(hub)

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.Session(j))

	api := r.Group("/api")
	{
		authHandler.RegisterRoutes(api)
		catalogHandler.RegisterRoutes(api)
		bookingHandler.RegisterRoutes(api)
		eventsHandler.RegisterRoutes(api)
	}

	// The old system echoed unknown resource names back as a 200. That was
	// never useful to a client, so unknown paths are an explicit 404 here.
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Unknown API resource")
	})

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
