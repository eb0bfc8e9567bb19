// Package pickserver exposes the pick collection and performance reports over
// HTTP, so network peers can read picks without touching the store directly.
package pickserver

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/picksettle/internal/config"
	"github.com/tensorplex-labs/picksettle/internal/pick"
	"github.com/tensorplex-labs/picksettle/internal/pickstore"
	"github.com/tensorplex-labs/picksettle/internal/report"
)

type Server struct {
	app   *fiber.App
	cfg   *config.ServerEnvConfig
	store pickstore.Store
	now   func() time.Time
}

func NewServer(cfg *config.ServerEnvConfig, store pickstore.Store) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("server configuration cannot be nil")
	}

	app := fiber.New(fiber.Config{
		BodyLimit:   cfg.BodySizeLimit,
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})
	app.Use(recover.New())
	app.Use(ZstdMiddleware())

	s := &Server{app: app, cfg: cfg, store: store, now: time.Now}
	app.Get("/healthz", s.handleHealthz)
	app.Get("/picks", s.handleGetPicks)
	app.Post("/picks", s.handleAppendPick)
	app.Get("/report/:window", s.handleReport)
	return s, nil
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func (s *Server) handleGetPicks(c *fiber.Ctx) error {
	picks, err := s.store.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load picks")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load picks"})
	}
	return c.JSON(picks)
}

// handleAppendPick appends one new pending pick to the store. Picks always
// enter the collection pending; grading is the settlement run's job.
func (s *Server) handleAppendPick(c *fiber.Ctx) error {
	var p pick.Pick
	if err := sonic.Unmarshal(c.Body(), &p); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal pick")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid pick payload"})
	}

	p.Status = pick.StatusPending
	p.ProfitLoss = 0
	if err := p.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	picks, err := s.store.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load picks")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load picks"})
	}
	picks = append(picks, p)
	if err := s.store.Save(picks); err != nil {
		log.Error().Err(err).Msg("failed to save picks")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save picks"})
	}

	log.Info().Str("game", p.EventDetails.Game).Str("sport", string(p.Sport)).Msg("pick appended")
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (s *Server) handleReport(c *fiber.Ctx) error {
	w, err := report.ParseWindow(c.Params("window"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	picks, err := s.store.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load picks")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load picks"})
	}

	return c.JSON(report.Aggregate(picks, w, s.now()))
}

// Start listens until ctx is canceled, then shuts the server down.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Address, s.cfg.Port)
	go func() {
		if err := s.app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("server listen failed")
		}
	}()
	<-ctx.Done()
	return s.app.Shutdown()
}
