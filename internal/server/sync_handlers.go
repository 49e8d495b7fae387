package server

import (
	"github.com/gofiber/fiber/v2"
)

// TriggerSync handles POST /api/sync. It runs a reconciliation against the
// campus backend for the authenticated user and reports the resulting state.
func (s *Server) TriggerSync(c *fiber.Ctx) error {
	err := s.syncService.ReconcileFromRemote(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"state": s.syncService.State()})
}

// SyncStatus handles GET /api/sync/status.
func (s *Server) SyncStatus(c *fiber.Ctx) error {
	resp := fiber.Map{"state": s.syncService.State()}
	if lastErr := s.syncService.LastError(); lastErr != nil {
		resp["last_error"] = lastErr.Error()
	}
	return c.JSON(resp)
}
