package handlers

import (
	"errors"
	"net/http"
	"path"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/mrkuros/scenebucket/internal/config"
	"github.com/mrkuros/scenebucket/internal/models"
	"github.com/mrkuros/scenebucket/internal/scene"
	"github.com/mrkuros/scenebucket/internal/session"
	"github.com/mrkuros/scenebucket/internal/storage"
)

// ObjectsHandler performs the four storage operations against the active
// connection, plus mesh staging for scene import.
type ObjectsHandler struct {
	store      *config.Store
	factory    storage.Factory
	sess       *session.Session
	loader     *scene.Loader
	stagingDir string
}

func NewObjectsHandler(store *config.Store, factory storage.Factory, sess *session.Session, loader *scene.Loader, stagingDir string) *ObjectsHandler {
	return &ObjectsHandler{store: store, factory: factory, sess: sess, loader: loader, stagingDir: stagingDir}
}

// Upload stores a local file under a key. The key defaults to the local
// basename; backslashes are normalized to the bucket delimiter.
func (h *ObjectsHandler) Upload(c echo.Context) error {
	var req models.ObjectRequest
	if err := c.Bind(&req); err != nil || req.LocalPath == "" {
		return JSONError(c, http.StatusBadRequest, "local_path is required")
	}
	key := req.Key
	if key == "" {
		key = filepath.Base(req.LocalPath)
	}
	key = storage.NormalizeKey(key)

	backend, err := ActiveBackend(c.Request().Context(), h.store, h.factory, h.sess)
	if err != nil {
		return JSONError(c, backendStatus(err), err.Error())
	}
	if err := backend.Upload(c.Request().Context(), req.LocalPath, key); err != nil {
		h.sess.RecordError("upload %s: %v", key, err)
		return JSONError(c, http.StatusBadGateway, "upload failed")
	}
	return c.JSON(http.StatusOK, map[string]string{"key": key})
}

// Download fetches a key into the staging directory and returns the local
// path.
func (h *ObjectsHandler) Download(c echo.Context) error {
	var req models.ObjectRequest
	if err := c.Bind(&req); err != nil || req.Key == "" {
		return JSONError(c, http.StatusBadRequest, "key is required")
	}

	backend, err := ActiveBackend(c.Request().Context(), h.store, h.factory, h.sess)
	if err != nil {
		return JSONError(c, backendStatus(err), err.Error())
	}
	localPath, err := backend.Download(c.Request().Context(), req.Key, h.stagingDir)
	if err != nil {
		h.sess.RecordError("download %s: %v", req.Key, err)
		return JSONError(c, http.StatusBadGateway, "download failed")
	}
	return c.JSON(http.StatusOK, map[string]string{"local_path": localPath})
}

// Delete removes a key from the bucket. Refreshing the listing afterwards
// is the caller's job.
func (h *ObjectsHandler) Delete(c echo.Context) error {
	var req models.ObjectRequest
	if err := c.Bind(&req); err != nil || req.Key == "" {
		return JSONError(c, http.StatusBadRequest, "key is required")
	}

	backend, err := ActiveBackend(c.Request().Context(), h.store, h.factory, h.sess)
	if err != nil {
		return JSONError(c, backendStatus(err), err.Error())
	}
	if err := backend.Delete(c.Request().Context(), req.Key); err != nil {
		h.sess.RecordError("delete %s: %v", req.Key, err)
		return JSONError(c, http.StatusBadGateway, "delete failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Load stages a supported mesh for import into the active scene.
// Unsupported extensions are rejected before anything is downloaded.
func (h *ObjectsHandler) Load(c echo.Context) error {
	var req models.ObjectRequest
	if err := c.Bind(&req); err != nil || req.Key == "" {
		return JSONError(c, http.StatusBadRequest, "key is required")
	}

	backend, err := ActiveBackend(c.Request().Context(), h.store, h.factory, h.sess)
	if err != nil {
		return JSONError(c, backendStatus(err), err.Error())
	}
	localPath, err := h.loader.Load(c.Request().Context(), backend, req.Key)
	if err != nil {
		if errors.Is(err, scene.ErrUnsupportedFormat) {
			h.sess.RecordError("%s is not an importable mesh format", path.Ext(req.Key))
			return JSONError(c, http.StatusUnprocessableEntity, err.Error())
		}
		h.sess.RecordError("load %s: %v", req.Key, err)
		return JSONError(c, http.StatusBadGateway, "load failed")
	}
	return c.JSON(http.StatusOK, map[string]string{"local_path": localPath})
}
