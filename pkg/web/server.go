// Package web exposes the choreography engine over HTTP and websockets.
// Routes mirror the rig's original control surface: REST triggers under
// /api/dance, low-level servo placement under /api/servo, and two
// websockets for command dispatch and live status.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-walle/internal/log"
	"github.com/teslashibe/go-walle/pkg/engine"
	"github.com/teslashibe/go-walle/pkg/hub"
)

// Server is the HTTP/websocket control surface.
type Server struct {
	app       *fiber.App
	engine    *engine.Engine
	statusHub *hub.Hub
}

// NewServer wires the engine to a fiber app. The engine's state changes are
// broadcast to /ws/status subscribers.
func NewServer(eng *engine.Engine) *Server {
	s := &Server{
		engine:    eng,
		statusHub: hub.New("status"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-walle",
		DisableStartupMessage: true,
	})

	// CORS for browser control panels
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/dance/routines", s.handleRoutines)
	api.Get("/dance/status", s.handleStatus)
	api.Post("/dance/stop", s.handleStop)
	api.Post("/dance/custom", s.handleStartCustom)
	api.Post("/dance/:name", s.handleStartRoutine)
	api.Get("/servos", s.handleChannels)
	api.Post("/servo", s.handleSetServo)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/control", websocket.New(s.handleControlWS))
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	eng.OnChange(func(st engine.Status) {
		s.statusHub.BroadcastJSON(st)
	})

	s.app = app
	return s
}

// Start runs the hub and serves on addr. Blocks until Shutdown.
func (s *Server) Start(addr string) error {
	go s.statusHub.Run()
	log.Info("control surface listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
