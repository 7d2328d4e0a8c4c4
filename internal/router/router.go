package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/anshuman/hospital-api/internal/handler"
	"github.com/anshuman/hospital-api/internal/handler/admin"
	"github.com/anshuman/hospital-api/internal/handler/analytics"
	"github.com/anshuman/hospital-api/internal/handler/appointment"
	authhandler "github.com/anshuman/hospital-api/internal/handler/auth"
	"github.com/anshuman/hospital-api/internal/handler/patient"
	"github.com/anshuman/hospital-api/internal/handler/pharmacy"
	"github.com/anshuman/hospital-api/internal/handler/settings"
	"github.com/anshuman/hospital-api/internal/handler/staff"
	"github.com/anshuman/hospital-api/internal/handler/subscription"
	"github.com/anshuman/hospital-api/internal/middleware"
	"github.com/anshuman/hospital-api/internal/model"
)

type Router struct {
	engine        *gin.Engine
	auth          *middleware.AuthMiddleware
	h             *handler.Handler
	adminH        *admin.Handler
	authH         *authhandler.Handler
	patientH      *patient.Handler
	staffH        *staff.Handler
	appointmentH  *appointment.Handler
	pharmacyH     *pharmacy.Handler
	subscriptionH *subscription.Handler
	analyticsH    *analytics.Handler
	settingsH     *settings.Handler
	metrics       *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimit      rate.Limit
	RateBurst      int
	RequestTimeout time.Duration
	CORSConfig     middleware.CORSConfig
	MetricsPrefix  string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	h *handler.Handler,
	adminH *admin.Handler,
	authH *authhandler.Handler,
	patientH *patient.Handler,
	staffH *staff.Handler,
	appointmentH *appointment.Handler,
	pharmacyH *pharmacy.Handler,
	subscriptionH *subscription.Handler,
	analyticsH *analytics.Handler,
	settingsH *settings.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:        engine,
		auth:          auth,
		h:             h,
		adminH:        adminH,
		authH:         authH,
		patientH:      patientH,
		staffH:        staffH,
		appointmentH:  appointmentH,
		pharmacyH:     pharmacyH,
		subscriptionH: subscriptionH,
		analyticsH:    analyticsH,
		settingsH:     settingsH,
		metrics:       initRouterMetrics(config.MetricsPrefix),
	}

	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: timeout}),
		middleware.CORS(config.CORSConfig),
	)

	if config.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api")

	r.setupHealthCheck(api)

	// Public surface
	r.subscriptionH.RegisterPublicRoutes(api)
	r.authH.RegisterPublicRoutes(api.Group("/hospital-auth"))
	r.adminH.RegisterPublicRoutes(api.Group("/admin"))

	// Platform admin surface
	adminGroup := api.Group("/admin")
	adminGroup.Use(r.auth.Authenticate(), r.auth.RequirePlatformAdmin())
	r.adminH.RegisterRoutes(adminGroup)
	r.analyticsH.RegisterRoutes(adminGroup)
	r.settingsH.RegisterRoutes(adminGroup)

	// Authenticated hospital-auth endpoints
	hospitalAuth := api.Group("/hospital-auth")
	hospitalAuth.Use(r.auth.Authenticate())
	r.authH.RegisterRoutes(hospitalAuth)

	// Hospital tenant surface
	tenant := api.Group("")
	tenant.Use(r.auth.Authenticate(), r.auth.RequireRole(
		model.RoleAdmin,
		model.RoleDoctor,
		model.RoleNurse,
		model.RoleReceptionist,
		model.RolePharmacist,
	))
	r.patientH.RegisterRoutes(tenant)
	r.staffH.RegisterRoutes(tenant)
	r.appointmentH.RegisterRoutes(tenant)
	r.pharmacyH.RegisterRoutes(tenant)
	r.subscriptionH.RegisterRoutes(tenant)
	r.analyticsH.RegisterRoutes(tenant)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("", r.h.HealthCheck)
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
