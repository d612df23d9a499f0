package server

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/joseph-ayodele/branch-expenses/constants"
	"github.com/joseph-ayodele/branch-expenses/internal/auth"
	"github.com/joseph-ayodele/branch-expenses/internal/common"
)

const localPrincipal = "principal"

// principal resolves the request principal from the cookie or Bearer header.
// An unresolvable token leaves an anonymous principal; handlers decide if that is enough.
func principal(tokens *auth.TokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc := common.RequestContext{}
		if tokens != nil {
			tok := auth.TokenFromRequest(c.Cookies(auth.CookieName), c.Get(fiber.HeaderAuthorization))
			if resolved, err := tokens.Resolve(tok); err == nil {
				rc = resolved
			}
		}
		rc.RequestID = c.GetRespHeader(fiber.HeaderXRequestID)
		c.Locals(localPrincipal, rc)
		c.SetUserContext(common.WithRequestID(c.UserContext(), rc.RequestID))
		return c.Next()
	}
}

func requestContext(c *fiber.Ctx) common.RequestContext {
	if rc, ok := c.Locals(localPrincipal).(common.RequestContext); ok {
		return rc
	}
	return common.RequestContext{}
}

// require rejects the request unless the principal holds module:action.
func require(oracle *auth.Oracle, module constants.Module, action constants.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if oracle == nil {
			return c.Next()
		}
		if err := oracle.Check(requestContext(c), module, action); err != nil {
			return err
		}
		return c.Next()
	}
}

// accessLog writes one slog line per request after the error handler has set the status.
func accessLog(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		}
		switch {
		case status >= 500:
			logger.Error("http request", attrs...)
		case status >= 400:
			logger.Warn("http request", attrs...)
		default:
			logger.Info("http request", attrs...)
		}
		return nil
	}
}
