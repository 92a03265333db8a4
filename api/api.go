package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/semanticallynull/customerrecords/customer"
	"github.com/semanticallynull/customerrecords/internal/middleware"
	"github.com/semanticallynull/customerrecords/internal/o11y"
)

// CustomerService is the customer use-case surface the API is built on.
type CustomerService interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]customer.Customer, error)
	Get(ctx context.Context, id string) (customer.Customer, error)
	Post(ctx context.Context, candidate *customer.Customer) (customer.Outcome, error)
	Delete(ctx context.Context, id string) (customer.Outcome, bool, error)
}

type Config struct {
	// ConsoleURL is where the store's management console is served. Empty
	// disables the console route.
	ConsoleURL string

	MetricsUsername string
	MetricsPassword string
}

type API struct {
	r        *gin.Engine
	cs       CustomerService
	cfg      Config
	outcomes *prometheus.CounterVec
}

func New(cs CustomerService, obs *o11y.Observability, cfg Config) *API {
	a := &API{
		r:   gin.New(),
		cs:  cs,
		cfg: cfg,
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_write_outcomes_total",
				Help: "Outcomes of customer add, update and delete requests",
			},
			[]string{"outcome"},
		),
	}
	obs.Registry.MustRegister(a.outcomes)

	a.r.Use(
		gin.Recovery(),
		middleware.Tracing("customer-api"),
		middleware.Logging(obs.Logger),
		middleware.Metrics(obs.Registry),
	)

	a.r.GET("/health", a.healthHandler)

	metrics := gin.WrapH(promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	if cfg.MetricsUsername != "" {
		a.r.GET("/metrics", gin.BasicAuth(gin.Accounts{cfg.MetricsUsername: cfg.MetricsPassword}), metrics)
	} else {
		a.r.GET("/metrics", metrics)
	}

	a.r.GET("/customer", a.listCustomersHandler)
	a.r.GET("/customer/:id", a.getCustomerHandler)
	a.r.POST("/customer", a.postCustomerHandler)
	a.r.DELETE("/customer/:id", a.deleteCustomerHandler)

	a.r.GET("/admin/console", a.consoleHandler)

	return a
}

func (a *API) Router() *gin.Engine {
	return a.r
}

func (a *API) healthHandler(c *gin.Context) {
	if err := a.cs.Ping(c.Request.Context()); err != nil {
		middleware.GetLogger(c).ErrorContext(c.Request.Context(), "store unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) consoleHandler(c *gin.Context) {
	if a.cfg.ConsoleURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "console not configured"})
		return
	}
	middleware.GetLogger(c).Info("redirecting to store console")
	c.Redirect(http.StatusTemporaryRedirect, a.cfg.ConsoleURL)
}
