// file: internals/route/index.go
package routes

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"restaurantops_backend/internals/constants"
	evaluationService "restaurantops_backend/internals/features/evaluations/evaluations/service"
	"restaurantops_backend/internals/features/evaluations/lifecycle"
	templateService "restaurantops_backend/internals/features/evaluations/templates/service"
	notificationService "restaurantops_backend/internals/features/home/notifications/service"
	userService "restaurantops_backend/internals/features/users/user/service"
	middlewares "restaurantops_backend/internals/middlewares"
	authMiddleware "restaurantops_backend/internals/middlewares/auth"
	routeDetails "restaurantops_backend/internals/route/details"
)

var startTime time.Time

// Deps is everything the HTTP surface needs. DB and Inbox are nil in memory mode.
type Deps struct {
	DB          *gorm.DB
	JWTSecret   string
	Evaluations *evaluationService.Service
	Templates   *templateService.Service
	Staff       userService.Staff
	Inbox       notificationService.Inbox
	Logger      zerolog.Logger

	// zero values fall back to the limiter defaults
	MutationRateMax    int
	MutationRateWindow time.Duration
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	log := d.Logger

	BaseRoutes(app, d.DB)

	auth := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              d.JWTSecret,
		ActiveChecker:       activeChecker(d.Staff),
		AllowCookieFallback: true,
	})

	// ===================== PRIVATE (USER) =====================
	log.Info().Msg("[INFO] Setting up PRIVATE group...")
	mutations := middlewares.MutationRateLimiter(d.MutationRateMax, d.MutationRateWindow)
	private := app.Group("/api/u", auth, mutations)

	// ===================== ADMIN (admin, Director, Leader) =====================
	log.Info().Msg("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		auth,
		mutations,
		authMiddleware.OnlyRoles(constants.RoleErrorManager("this feature"), constants.ManagerAndAbove...),
	)

	// ===================== MOUNT ROUTES =====================
	log.Info().Msg("[INFO] Mounting Evaluation routes...")
	routeDetails.EvaluationUserRoutes(private, d.Evaluations, d.Templates)
	routeDetails.EvaluationAdminRoutes(admin, d.Evaluations, d.Templates)

	log.Info().Msg("[INFO] Mounting User routes...")
	routeDetails.UserRoutes(private, d.Staff, log)
	routeDetails.UserAdminRoutes(admin, d.Staff, log)

	if d.Inbox != nil {
		log.Info().Msg("[INFO] Mounting Home routes...")
		routeDetails.HomePrivateRoutes(private, d.Inbox)
	}
}

// activeChecker rejects tokens of users that were removed or deactivated.
func activeChecker(dir userService.Directory) authMiddleware.ActiveChecker {
	if dir == nil {
		return nil
	}
	return func(ctx context.Context, id uuid.UUID) error {
		_, err := dir.Lookup(ctx, id)
		if err == nil {
			return nil
		}
		if lifecycle.KindOf(err) == lifecycle.KindNotFound {
			return authMiddleware.ErrInactive
		}
		return errors.Join(errors.New("lookup failed"), err)
	}
}
