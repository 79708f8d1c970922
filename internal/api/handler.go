package api

import (
	"time"

	"github.com/YahyaMS/sukari/internal/db"
	"github.com/YahyaMS/sukari/internal/metrics"
	"github.com/YahyaMS/sukari/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handler struct {
	database         *gorm.DB
	secretKey        []byte
	location         *time.Location
	cookieSecure     bool
	authService      *services.AuthService
	fastingService   *services.FastingService
	metrics          metrics.Recorder
	loginThrottle    *failureThrottle
	recoveryThrottle *failureThrottle
}

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
)

func NewHandler(database *gorm.DB, secretKey []byte, location *time.Location, cookieSecure bool, recorder metrics.Recorder) *Handler {
	repositories := db.NewRepositories(database)
	return &Handler{
		database:         database,
		secretKey:        secretKey,
		location:         location,
		cookieSecure:     cookieSecure,
		authService:      services.NewAuthService(repositories.Users),
		fastingService:   services.NewFastingService(repositories.Sessions, repositories.Symptoms),
		metrics:          recorder,
		loginThrottle:    newFailureThrottle(loginAttemptsLimit, loginAttemptsWindow),
		recoveryThrottle: newFailureThrottle(recoveryAttemptsLimit, recoveryAttemptsWindow),
	}
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
