package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mrkuros/scenebucket/internal/config"
	"github.com/mrkuros/scenebucket/internal/session"
	"github.com/mrkuros/scenebucket/internal/storage"
)

// JSONError writes a uniform error payload.
func JSONError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// ActiveBackend resolves the active connection and builds its backend.
// A missing active connection is recorded as a distinct error and
// short-circuits the operation.
func ActiveBackend(ctx context.Context, store *config.Store, factory storage.Factory, sess *session.Session) (storage.Backend, error) {
	conn, err := store.Active()
	if err != nil {
		if errors.Is(err, config.ErrNoActiveConnection) {
			sess.RecordError("no active connection configured")
		}
		return nil, err
	}
	backend, err := factory.Backend(ctx, conn)
	if err != nil {
		sess.RecordError("connect to %s: %v", conn.Name, err)
		return nil, err
	}
	return backend, nil
}

// backendStatus maps backend-resolution failures to an HTTP status.
func backendStatus(err error) int {
	if errors.Is(err, config.ErrNoActiveConnection) {
		return http.StatusConflict
	}
	return http.StatusBadGateway
}
