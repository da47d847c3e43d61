package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultDatabaseURL      = "bookings.db"
	defaultHTTPAddr         = ":8080"
	defaultRestrictedRoomID = "2"
	defaultManagerUserID    = "2"
	defaultReservedUserID   = "2"
	defaultSuperUsername    = "bitadmin"
)

// Config carries everything resolved at startup. The identity constants
// (restricted room, manager, reserved user, super username) replace the
// hardcoded ids the original deployment used; the defaults match it.
type Config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string

	// RestrictedRoomID is the room whose bookings by non-privileged
	// actors trigger a notice to ManagerUserID.
	RestrictedRoomID int64
	ManagerUserID    int64

	// ReservedUserID owns bookings that are exempt from privileged
	// eviction.
	ReservedUserID int64

	// SuperUsername identifies the elevated actor whose override is
	// scoped to the requested room only.
	SuperUsername string

	SMTPAddr     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", defaultDatabaseURL),
		HTTPAddr:      getEnv("HTTP_ADDR", defaultHTTPAddr),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		SuperUsername: getEnv("SUPER_USERNAME", defaultSuperUsername),
		SMTPAddr:      strings.TrimSpace(os.Getenv("SMTP_ADDR")),
		SMTPFrom:      strings.TrimSpace(os.Getenv("SMTP_FROM")),
		SMTPUsername:  strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is empty")
	}

	var err error
	cfg.RestrictedRoomID, err = parseIDEnv("RESTRICTED_ROOM_ID", defaultRestrictedRoomID)
	if err != nil {
		return nil, err
	}
	cfg.ManagerUserID, err = parseIDEnv("MANAGER_USER_ID", defaultManagerUserID)
	if err != nil {
		return nil, err
	}
	cfg.ReservedUserID, err = parseIDEnv("RESERVED_USER_ID", defaultReservedUserID)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseIDEnv(key, fallback string) (int64, error) {
	raw := getEnv(key, fallback)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer, got %q", key, raw)
	}
	return id, nil
}
