package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/stayhub/api"
	"github.com/Domenick1991/stayhub/config"
	"github.com/Domenick1991/stayhub/internal/service/accommodations"
	"github.com/Domenick1991/stayhub/internal/service/reservation"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, accommodationSvc accommodations.AccommodationUseCase, reservationSvc reservation.ReservationUseCase) error {
	router := gin.New()
	router.Use(gin.Recovery())

	api.NewAccommodationHandler(accommodationSvc).Register(router.Group("/api/accommodations"))
	api.NewReservationHandler(reservationSvc).Register(router.Group("/api/reservations"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
