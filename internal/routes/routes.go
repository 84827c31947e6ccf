package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/clinicore/clinic-backend/internal/config"
	"github.com/clinicore/clinic-backend/internal/handlers"
	"github.com/clinicore/clinic-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	registrationHandler *handlers.RegistrationHandler,
	consultationHandler *handlers.ConsultationHandler,
	clinicHandler *handlers.ClinicHandler,
	doctorHandler *handlers.DoctorHandler,
	patientHandler *handlers.PatientHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Token issuance and registration are public but rate-limited harder:
	// 10 req/min per IP
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	token := api.Group("/token", authLimiter)
	token.Post("/", authHandler.Token)
	token.Post("/refresh", authHandler.Refresh)
	token.Post("/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	register := api.Group("/register", authLimiter)
	register.Post("/user", registrationHandler.RegisterUser)
	register.Post("/patient", registrationHandler.RegisterPatient)
	register.Post("/doctor", registrationHandler.RegisterDoctor)

	// Everything below requires a verified token and a loaded actor.
	authed := []fiber.Handler{middleware.JWTProtected(cfg), middleware.LoadActor()}

	api.Patch("/update/user", middleware.JWTProtected(cfg), middleware.LoadActor(), registrationHandler.UpdateUser)

	consultations := api.Group("/consultations", authed...)
	consultations.Get("/", consultationHandler.List)
	consultations.Post("/", consultationHandler.Create)
	consultations.Get("/:id", consultationHandler.Get)
	consultations.Put("/:id", consultationHandler.Update)
	consultations.Delete("/:id", consultationHandler.Delete)
	consultations.Patch("/:id/change_status", consultationHandler.ChangeStatus)

	doctors := api.Group("/doctors", authed...)
	doctors.Get("/", doctorHandler.List)
	doctors.Post("/", doctorHandler.Create)
	doctors.Get("/:id", doctorHandler.Get)
	doctors.Put("/:id", doctorHandler.Update)
	doctors.Delete("/:id", doctorHandler.Delete)

	patients := api.Group("/patients", authed...)
	patients.Get("/", patientHandler.List)
	patients.Post("/", patientHandler.Create)
	patients.Get("/:id", patientHandler.Get)
	patients.Put("/:id", patientHandler.Update)
	patients.Delete("/:id", patientHandler.Delete)

	clinics := api.Group("/clinics", authed...)
	clinics.Get("/", clinicHandler.List)
	clinics.Post("/", clinicHandler.Create)
	clinics.Get("/:id", clinicHandler.Get)
	clinics.Put("/:id", clinicHandler.Update)
	clinics.Delete("/:id", clinicHandler.Delete)
}
