package agent

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

// Server is the alert webhook frontend. Handlers enqueue onto a buffered
// channel and return immediately; a dispatcher goroutine drains the channel
// into ProcessAlert calls under a bounded concurrency limit.
type Server struct {
	loop        *ComfortLoop
	echo        *echo.Echo
	alerts      chan *entity.AlertPayload
	concurrency int64
	logger      *zap.Logger

	wg sync.WaitGroup
}

func NewServer(loop *ComfortLoop, concurrency int, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		loop:        loop,
		echo:        e,
		alerts:      make(chan *entity.AlertPayload, 100),
		concurrency: int64(concurrency),
		logger:      logger,
	}

	e.GET("/health", s.handleHealth)
	e.POST("/alert", s.handleAlert)
	e.POST("/alert/critical", s.handleAlert)

	return s
}

// Start runs the dispatcher and the HTTP listener. It blocks until the
// listener stops.
func (s *Server) Start(ctx context.Context, port int) error {
	s.wg.Add(1)
	go s.dispatch(ctx)

	s.logger.Info("agent listening", zap.Int("port", port))
	if err := s.echo.Start(fmt.Sprintf(":%d", port)); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the listener, then waits for in-flight alert processing
// to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	close(s.alerts)
	s.wg.Wait()
	return err
}

func (s *Server) dispatch(ctx context.Context) {
	defer s.wg.Done()
	sem := semaphore.NewWeighted(s.concurrency)

	for payload := range s.alerts {
		if err := sem.Acquire(ctx, 1); err != nil {
			return
		}
		s.wg.Add(1)
		go func(p *entity.AlertPayload) {
			defer s.wg.Done()
			defer sem.Release(1)
			s.loop.ProcessAlert(ctx, p)
		}(payload)
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleAlert(c echo.Context) error {
	var payload entity.AlertPayload
	if err := c.Bind(&payload); err != nil {
		s.logger.Warn("rejecting malformed alert payload", zap.Error(err))
		return c.String(http.StatusBadRequest, "Bad Request")
	}

	s.logger.Info("alert webhook received",
		zap.String("alert_type", string(payload.AlertType)),
		zap.Int("pet_id", payload.PetID),
	)

	select {
	case s.alerts <- &payload:
		return c.String(http.StatusOK, "Queued")
	default:
		s.logger.Error("alert channel full, dropping alert")
		return c.String(http.StatusServiceUnavailable, "Error")
	}
}
