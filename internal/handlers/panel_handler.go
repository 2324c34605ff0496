package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mrkuros/scenebucket/internal/config"
	"github.com/mrkuros/scenebucket/internal/filetree"
	"github.com/mrkuros/scenebucket/internal/models"
	"github.com/mrkuros/scenebucket/internal/session"
	"github.com/mrkuros/scenebucket/internal/storage"
)

// PanelHandler serves the file tree, refresh, folder toggling, and the
// drained error log.
type PanelHandler struct {
	store   *config.Store
	factory storage.Factory
	sess    *session.Session
}

func NewPanelHandler(store *config.Store, factory storage.Factory, sess *session.Session) *PanelHandler {
	return &PanelHandler{store: store, factory: factory, sess: sess}
}

// GetTree returns the cached tree with expansion state.
func (h *PanelHandler) GetTree(c echo.Context) error {
	snap := h.sess.Snapshot()
	entries := h.renderEntries(snap.Tree, "")
	if entries == nil {
		entries = []models.TreeEntry{}
	}
	return c.JSON(http.StatusOK, models.TreeResponse{
		Refreshing: snap.Refreshing,
		Entries:    entries,
	})
}

func (h *PanelHandler) renderEntries(node *filetree.Node, prefix string) []models.TreeEntry {
	var entries []models.TreeEntry
	for _, child := range node.Children {
		path := child.Name
		if prefix != "" {
			path = prefix + "/" + child.Name
		}
		entry := models.TreeEntry{
			Name:  child.Name,
			Path:  path,
			IsDir: child.IsDir(),
		}
		if entry.IsDir {
			entry.Expanded = h.sess.IsExpanded(path)
			entry.Children = h.renderEntries(child, path)
		}
		entries = append(entries, entry)
	}
	return entries
}

// Refresh starts a background listing. The refresh deliberately outlives
// the request, so it runs on a fresh context rather than the request's.
// Starting another refresh while one is in flight is allowed; the last
// writer wins.
func (h *PanelHandler) Refresh(c echo.Context) error {
	backend, err := ActiveBackend(c.Request().Context(), h.store, h.factory, h.sess)
	if err != nil {
		return JSONError(c, backendStatus(err), err.Error())
	}
	h.sess.StartRefresh(context.Background(), backend)
	return c.JSON(http.StatusAccepted, map[string]bool{"refreshing": true})
}

// ToggleFolder flips a folder's expansion state.
func (h *PanelHandler) ToggleFolder(c echo.Context) error {
	var req models.ToggleRequest
	if err := c.Bind(&req); err != nil || req.Path == "" {
		return JSONError(c, http.StatusBadRequest, "path is required")
	}
	expanded := h.sess.Toggle(req.Path)
	return c.JSON(http.StatusOK, map[string]any{"path": req.Path, "expanded": expanded})
}

// GetErrors drains the bounded error log; each message is surfaced once.
func (h *PanelHandler) GetErrors(c echo.Context) error {
	errs := h.sess.Errors()
	if errs == nil {
		errs = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"errors": errs})
}
