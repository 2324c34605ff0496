package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mrkuros/scenebucket/internal/config"
	"github.com/mrkuros/scenebucket/internal/models"
)

// ConnectionsHandler manages the named connection list. Mutations persist
// through the config store; secrets never appear in responses.
type ConnectionsHandler struct {
	store *config.Store
}

func NewConnectionsHandler(store *config.Store) *ConnectionsHandler {
	return &ConnectionsHandler{store: store}
}

// List returns all connections with secrets redacted.
func (h *ConnectionsHandler) List(c echo.Context) error {
	active, _ := h.store.Active()
	views := []models.ConnectionView{}
	for _, conn := range h.store.Connections() {
		views = append(views, models.ConnectionView{
			Name:        conn.Name,
			CloudType:   string(conn.CloudType),
			EndpointURL: conn.EndpointURL,
			RegionName:  conn.RegionName,
			BucketName:  conn.BucketName,
			Active:      conn.Name == active.Name,
		})
	}
	return c.JSON(http.StatusOK, views)
}

// Create adds a new named connection.
func (h *ConnectionsHandler) Create(c echo.Context) error {
	conn, err := bindConnection(c)
	if err != nil {
		return JSONError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.store.Add(conn); err != nil {
		return JSONError(c, http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusCreated)
}

// Update replaces the named connection.
func (h *ConnectionsHandler) Update(c echo.Context) error {
	conn, err := bindConnection(c)
	if err != nil {
		return JSONError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.store.Update(c.Param("name"), conn); err != nil {
		return JSONError(c, http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// Delete removes the named connection.
func (h *ConnectionsHandler) Delete(c echo.Context) error {
	if err := h.store.Remove(c.Param("name")); err != nil {
		return JSONError(c, http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// Activate selects the named connection. Unknown names fail without
// changing the current selection.
func (h *ConnectionsHandler) Activate(c echo.Context) error {
	if err := h.store.Activate(c.Param("name")); err != nil {
		return JSONError(c, http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

func bindConnection(c echo.Context) (config.Connection, error) {
	var req models.ConnectionRequest
	if err := c.Bind(&req); err != nil {
		return config.Connection{}, err
	}
	conn := config.Connection{
		Name:        req.Name,
		CloudType:   config.CloudType(req.CloudType),
		EndpointURL: req.EndpointURL,
		AccessKey:   req.AccessKey,
		SecretKey:   req.SecretKey,
		RegionName:  req.RegionName,
		BucketName:  req.BucketName,
	}
	return conn, conn.Validate()
}
