package server

import (
	"errors"
	"log/slog"

	"inkpost/internal/middleware"
	"inkpost/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	msgBadBody       = "요청 본문이 올바르지 않습니다."
	msgBadID         = "잘못된 ID입니다."
	msgRouteNotFound = "요청하신 리소스를 찾을 수 없습니다."
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) so the
// ErrorHandler does not overwrite the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter as a positive uint.
// On failure it writes a 400 envelope and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, models.NewValidationError(msgBadID))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the JSON body into dest.
// On failure it writes a 400 envelope and returns errResponseWritten.
func (s *Server) parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, models.NewValidationError(msgBadBody))
		return errResponseWritten
	}
	return nil
}

// respondError writes err as an envelope. Errors that are not AppErrors are
// logged with their cause, which never reaches the client.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	appErr := models.AsAppError(err)
	if appErr.Kind == models.KindInternal {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, appErr)
}

// respond writes a success envelope.
func respond(c *fiber.Ctx, code, msg string, data ...any) error {
	return models.NewRsData(code, msg, data...).Send(c)
}
