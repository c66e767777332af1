package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/transitops/api"
	"github.com/Domenick1991/transitops/config"
	"github.com/Domenick1991/transitops/internal/service/booking"
	"github.com/Domenick1991/transitops/internal/service/shifts"
	"github.com/Domenick1991/transitops/internal/service/trips"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, tripSvc trips.TripUseCase, bookingSvc booking.BookingUseCase, shiftSvc shifts.ShiftUseCase) error {
	router := NewRouter(tripSvc, bookingSvc, shiftSvc)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(tripSvc trips.TripUseCase, bookingSvc booking.BookingUseCase, shiftSvc shifts.ShiftUseCase) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	api.NewTripHandler(tripSvc).Register(router.Group("/trips"))
	api.NewBookingHandler(bookingSvc).Register(router.Group("/bookings"))
	api.NewAssignmentHandler(shiftSvc).Register(router.Group("/assignments"))
	api.NewRosterHandler(shiftSvc).Register(router.Group("/rosters"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
