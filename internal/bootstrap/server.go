package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/zvrva/busstation/api"
	"github.com/zvrva/busstation/config"
	"github.com/zvrva/busstation/internal/service/booking"
	"github.com/zvrva/busstation/internal/service/buses"
	"github.com/zvrva/busstation/internal/service/trips"
)

// Services bundles everything the HTTP surface exposes.
type Services struct {
	Buses      buses.BusUseCase
	Facilities buses.FacilityUseCase
	Trips      trips.TripUseCase
	Bookings   booking.BookingUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, log *logrus.Logger, svc Services) error {
	router := newRouter(cfg, svc)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.WithField("address", cfg.HTTP.Address).Info("http server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	group := router.Group("/api")
	api.NewBusHandler(svc.Buses, cfg.HTTP.UploadDir).Register(group.Group("/buses"))
	api.NewFacilityHandler(svc.Facilities).Register(group.Group("/facilities"))
	api.NewTripHandler(svc.Trips).Register(group.Group("/trips"))
	api.NewOrderHandler(svc.Bookings).Register(group.Group("/orders"))

	if cfg.HTTP.UploadDir != "" {
		router.Static("/upload", cfg.HTTP.UploadDir)
	}

	if cfg.HTTP.SwaggerFile != "" {
		router.StaticFile("/openapi.json", cfg.HTTP.SwaggerFile)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/openapi.json"))))
	}

	return router
}
