package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/events"
	"github.com/BruksfildServices01/agenda-scheduler/internal/handlers"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/payments"
	infraRepo "github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/metrics"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
	ucBooking "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/booking"
)

// Options são as dependências externas; as nulas caem no comportamento local
// (sem cache, sem trava distribuída, sem pagamentos, sem upload).
type Options struct {
	Cache    domain.SlotCache
	Locker   domain.Locker
	Images   handlers.ImageUploader
	Payments payments.PreferenceCreator
	Clock    *timezone.BusinessClock
	Registry *prometheus.Registry
	Logger   *zerolog.Logger
}

func (o *Options) defaults(cfg *config.Config) {
	if o.Cache == nil {
		o.Cache = domain.NopCache{}
	}
	if o.Locker == nil {
		o.Locker = domain.NopLocker{}
	}
	if o.Clock == nil {
		o.Clock = timezone.NewBusinessClock(timezone.SystemClock{}, cfg.BusinessUTCOffset)
	}
	if o.Registry == nil {
		o.Registry = prometheus.NewRegistry()
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
}

// RegisterRoutes monta a API e devolve a função de encerramento
// (esvazia a fila de auditoria).
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, opts Options) func() {
	opts.defaults(cfg)
	logger := opts.Logger

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	m := metrics.New(opts.Registry)

	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(m.Middleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)

	// ======================================================
	// 📣 EVENTOS
	// ======================================================
	bus := events.NewBus()
	bus.Subscribe(events.All, "log", events.LogHandler(logger))
	bus.Subscribe(events.All, "metrics", m.HandleEvent)
	bus.Subscribe(events.All, "audit", auditDispatcher.HandleEvent)

	if opts.Payments != nil {
		checkout := payments.NewCheckout(opts.Payments, bookingRepo, cfg.MercadoPagoNotificationURL, logger)
		bus.Subscribe(domain.EventCreated, "payments", checkout.HandleEvent)
	}

	// ======================================================
	// 🧠 USE CASES (BOOKINGS)
	// ======================================================
	getAvailabilityUC := ucBooking.NewGetAvailability(bookingRepo, opts.Cache, opts.Clock, logger)
	getStayAvailabilityUC := ucBooking.NewGetStayAvailability(bookingRepo, opts.Clock, logger)
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, opts.Cache, opts.Locker, bus, opts.Clock, logger)
	createStayUC := ucBooking.NewCreateStay(bookingRepo, opts.Cache, opts.Locker, bus, opts.Clock, logger)
	updateStatusUC := ucBooking.NewUpdateBookingStatus(bookingRepo, opts.Cache, bus, opts.Clock, logger)
	listByDateUC := ucBooking.NewListBookingsByDate(bookingRepo)
	listByMonthUC := ucBooking.NewListBookingsByMonth(bookingRepo)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	resp := handlers.NewErrorResponder(logger, m)

	authHandler := handlers.NewAuthHandler(db, cfg, resp)
	meHandler := handlers.NewMeHandler(db)
	tenantHandler := handlers.NewTenantHandler(db, opts.Cache, resp)
	branchHandler := handlers.NewBranchHandler(db, opts.Cache, resp)
	serviceHandler := handlers.NewServiceHandler(db, opts.Cache, opts.Images, resp)
	scheduleHandler := handlers.NewScheduleHandler(db, opts.Cache, resp)
	blockedDateHandler := handlers.NewBlockedDateHandler(db, opts.Cache, resp)
	customerHandler := handlers.NewCustomerHandler(db, resp)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, resp)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		createStayUC,
		getAvailabilityUC,
		updateStatusUC,
		listByDateUC,
		listByMonthUC,
		resp,
	)

	publicHandler := handlers.NewPublicHandler(
		db,
		getAvailabilityUC,
		getStayAvailabilityUC,
		createBookingUC,
		createStayUC,
		resp,
	)

	limiter := middleware.NewIPRateLimiter(cfg.PublicRateLimitRPS, cfg.PublicRateLimitBurst)

	// ======================================================
	// 🩺 OPERAÇÃO
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": opts.Clock.Now().Format(time.RFC3339)})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(limiter.Middleware())
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.GET("/:slug/stay-availability", publicHandler.StayAvailability)
			publicAPI.POST("/:slug/bookings", publicHandler.CreateBooking)
			publicAPI.POST("/:slug/stays", publicHandler.CreateStay)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		authAPI := api.Group("/auth")
		authAPI.Use(limiter.Middleware())
		{
			authAPI.POST("/register", authHandler.Register)
			authAPI.POST("/login", authHandler.Login)
		}

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/tenant", tenantHandler.Get)
			secured.PATCH("/tenant", tenantHandler.Update)

			secured.GET("/branches", branchHandler.List)
			secured.POST("/branches", branchHandler.Create)
			secured.PATCH("/branches/:id", branchHandler.Update)

			secured.GET("/customers", customerHandler.List)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)
			secured.POST("/services/:id/image", serviceHandler.UploadImage)

			secured.GET("/schedules", scheduleHandler.Get)
			secured.PUT("/schedules", scheduleHandler.Update)

			secured.GET("/blocked-dates", blockedDateHandler.List)
			secured.POST("/blocked-dates", blockedDateHandler.Create)
			secured.DELETE("/blocked-dates/:id", blockedDateHandler.Delete)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.GET("/availability", bookingHandler.Availability)
			secured.POST("/bookings", bookingHandler.Create)
			secured.POST("/stays", bookingHandler.CreateStay)
			secured.GET("/bookings", bookingHandler.ListByDate)
			secured.GET("/bookings/month", bookingHandler.ListByMonth)
			secured.PATCH("/bookings/:id/confirm", bookingHandler.Confirm)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/bookings/:id/complete", bookingHandler.Complete)
			secured.PATCH("/bookings/:id/no-show", bookingHandler.NoShow)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	return auditDispatcher.Close
}
