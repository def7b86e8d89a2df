package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-walle/internal/log"
	"github.com/teslashibe/go-walle/pkg/choreo"
	"github.com/teslashibe/go-walle/pkg/engine"
	"github.com/teslashibe/go-walle/pkg/hub"
	"github.com/teslashibe/go-walle/pkg/servo"
)

// handleRoutines returns the available routine names.
func (s *Server) handleRoutines(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"routines": s.engine.Routines()})
}

// handleStatus returns the engine snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.engine.Status())
}

// handleStop signals the in-flight routine and acknowledges immediately.
func (s *Server) handleStop(c *fiber.Ctx) error {
	s.engine.Stop()
	return c.JSON(fiber.Map{"status": "ok", "message": "stop signalled"})
}

// handleStartRoutine triggers a built-in routine by name.
func (s *Server) handleStartRoutine(c *fiber.Ctx) error {
	return s.start(c, c.Params("name"), nil)
}

// handleStartCustom triggers a caller-assembled sequence. The body is a
// JSON array of {channel, angle, duration, steps}; entries missing channel
// or angle are skipped, not rejected.
func (s *Server) handleStartCustom(c *fiber.Ctx) error {
	var params []choreo.MoveParam
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "body must be a JSON array of moves",
		})
	}
	return s.start(c, "custom", params)
}

func (s *Server) start(c *fiber.Ctx, name string, params []choreo.MoveParam) error {
	runID, err := s.engine.Start(name, params)
	switch {
	case errors.Is(err, engine.ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status": "error", "message": "another routine is already running",
		})
	case errors.Is(err, choreo.ErrUnknownRoutine):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status": "error", "message": "unknown routine: " + name,
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "accepted", "routine": name, "run_id": runID})
}

// handleChannels returns the channel specs with their safe ranges.
func (s *Server) handleChannels(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"channels": s.engine.Channels()})
}

// setServoRequest is the body for the low-level placement endpoint.
// Pointers distinguish missing fields from zero angles.
type setServoRequest struct {
	Channel *int     `json:"channel"`
	Angle   *float64 `json:"angle"`
}

// handleSetServo performs a strict single-write placement: out-of-range is
// rejected, never clamped.
func (s *Server) handleSetServo(c *fiber.Ctx) error {
	var req setServoRequest
	if err := c.BodyParser(&req); err != nil || req.Channel == nil || req.Angle == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "channel and angle are required",
		})
	}

	err := s.engine.SetImmediate(*req.Channel, *req.Angle)
	var rangeErr *servo.OutOfRangeError
	switch {
	case errors.Is(err, servo.ErrUnknownChannel):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status": "error", "message": err.Error(),
		})
	case errors.As(err, &rangeErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": err.Error(),
			"min": rangeErr.Min, "max": rangeErr.Max,
		})
	case err != nil:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status": "error", "message": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok", "servo": *req.Channel, "angle": *req.Angle})
}

// controlCommand is the websocket command envelope. A servo/angle pair is a
// placement request; otherwise Action selects a named operation.
type controlCommand struct {
	Servo  *int     `json:"servo"`
	Angle  *float64 `json:"angle"`
	Action string   `json:"action"`
}

// handleControlWS speaks the rig's original control protocol: JSON commands
// in, JSON replies out, one reply per command.
func (s *Server) handleControlWS(conn *websocket.Conn) {
	log.Debug("control client connected")
	defer log.Debug("control client disconnected")

	for {
		var cmd controlCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}

		var reply fiber.Map
		switch {
		case cmd.Servo != nil && cmd.Angle != nil:
			if err := s.engine.SetImmediate(*cmd.Servo, *cmd.Angle); err != nil {
				reply = fiber.Map{"status": "error", "servo": *cmd.Servo,
					"angle": *cmd.Angle, "message": err.Error()}
			} else {
				reply = fiber.Map{"status": "ok", "servo": *cmd.Servo, "angle": *cmd.Angle}
			}

		case cmd.Action == "get_ranges":
			reply = fiber.Map{"status": "ok", "action": cmd.Action,
				"ranges": s.engine.Channels()}

		case cmd.Action == "reset_all":
			if _, err := s.engine.Start("reset", nil); err != nil {
				reply = fiber.Map{"status": "error", "action": cmd.Action, "message": err.Error()}
			} else {
				reply = fiber.Map{"status": "ok", "action": cmd.Action,
					"message": "returning all servos to defaults"}
			}

		default:
			reply = fiber.Map{"status": "error", "message": "invalid command"}
		}

		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

// handleStatusWS attaches a client to the status hub, sending the current
// snapshot on connect.
func (s *Server) handleStatusWS(conn *websocket.Conn) {
	conn.WriteJSON(s.engine.Status())
	client := hub.NewClient(s.statusHub, conn)
	client.Run()
}
