package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mrkuros/scenebucket/internal/scene"
	"github.com/mrkuros/scenebucket/internal/session"
)

func newObjectsHandler(t *testing.T, backend *MockBackend, sess *session.Session) *ObjectsHandler {
	t.Helper()
	staging := t.TempDir()
	loader := scene.NewLoader(staging, nil, zerolog.Nop())
	return NewObjectsHandler(newTestStore(t), stubFactory{backend: backend}, sess, loader, staging)
}

func TestUploadNormalizesKey(t *testing.T) {
	e := echo.New()
	backend := &MockBackend{}
	backend.On("Upload", mock.Anything, "/tmp/scene.stl", "models/scene.stl").Return(nil)
	h := newObjectsHandler(t, backend, session.New(zerolog.Nop()))

	req := jsonRequest(http.MethodPost, "/api/objects/upload", `{"local_path":"/tmp/scene.stl","key":"models\\scene.stl"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Upload(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "models/scene.stl")
	backend.AssertExpectations(t)
}

func TestUploadDefaultsKeyToBasename(t *testing.T) {
	e := echo.New()
	backend := &MockBackend{}
	backend.On("Upload", mock.Anything, "/tmp/scene.stl", "scene.stl").Return(nil)
	h := newObjectsHandler(t, backend, session.New(zerolog.Nop()))

	req := jsonRequest(http.MethodPost, "/api/objects/upload", `{"local_path":"/tmp/scene.stl"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Upload(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	backend.AssertExpectations(t)
}

func TestUploadRequiresLocalPath(t *testing.T) {
	e := echo.New()
	h := newObjectsHandler(t, &MockBackend{}, session.New(zerolog.Nop()))

	req := jsonRequest(http.MethodPost, "/api/objects/upload", `{"key":"a.stl"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Upload(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadFailureRecordsError(t *testing.T) {
	e := echo.New()
	backend := &MockBackend{}
	backend.On("Upload", mock.Anything, "/tmp/scene.stl", "scene.stl").Return(errors.New("denied"))
	sess := session.New(zerolog.Nop())
	h := newObjectsHandler(t, backend, sess)

	req := jsonRequest(http.MethodPost, "/api/objects/upload", `{"local_path":"/tmp/scene.stl"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Upload(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	errs := sess.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "upload scene.stl")
}

func TestDownloadReturnsLocalPath(t *testing.T) {
	e := echo.New()
	backend := &MockBackend{}
	backend.On("Download", mock.Anything, "a/b.stl", mock.Anything).
		Return("/staging/b.stl", nil)
	h := newObjectsHandler(t, backend, session.New(zerolog.Nop()))

	req := jsonRequest(http.MethodPost, "/api/objects/download", `{"key":"a/b.stl"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Download(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/staging/b.stl")
	backend.AssertExpectations(t)
}

func TestDownloadMissingKeyAddsOneErrorEntry(t *testing.T) {
	e := echo.New()
	backend := &MockBackend{}
	backend.On("Download", mock.Anything, "nope.stl", mock.Anything).
		Return("", errors.New("key does not exist"))
	sess := session.New(zerolog.Nop())
	h := newObjectsHandler(t, backend, sess)

	req := jsonRequest(http.MethodPost, "/api/objects/download", `{"key":"nope.stl"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Download(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	errs := sess.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "download nope.stl")
}

func TestDeleteObject(t *testing.T) {
	e := echo.New()
	backend := &MockBackend{}
	backend.On("Delete", mock.Anything, "a/b.stl").Return(nil)
	h := newObjectsHandler(t, backend, session.New(zerolog.Nop()))

	req := jsonRequest(http.MethodPost, "/api/objects/delete", `{"key":"a/b.stl"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Delete(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	backend.AssertExpectations(t)
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	e := echo.New()
	backend := &MockBackend{}
	sess := session.New(zerolog.Nop())
	h := newObjectsHandler(t, backend, sess)

	req := jsonRequest(http.MethodPost, "/api/objects/load", `{"key":"track.gbx"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Load(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	// Nothing was downloaded for the rejected key.
	backend.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
	errs := sess.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], ".gbx")
}

func TestLoadStagesSupportedMesh(t *testing.T) {
	e := echo.New()
	backend := &MockBackend{}
	backend.On("Download", mock.Anything, "a/b.stl", mock.Anything).
		Return(filepath.Join(t.TempDir(), "b.stl"), nil)
	h := newObjectsHandler(t, backend, session.New(zerolog.Nop()))

	req := jsonRequest(http.MethodPost, "/api/objects/load", `{"key":"a/b.stl"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Load(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "b.stl")
	backend.AssertExpectations(t)
}

func TestObjectOpsWithoutActiveConnection(t *testing.T) {
	e := echo.New()
	sess := session.New(zerolog.Nop())
	staging := t.TempDir()
	loader := scene.NewLoader(staging, nil, zerolog.Nop())
	h := NewObjectsHandler(newEmptyStore(t), stubFactory{}, sess, loader, staging)

	req := jsonRequest(http.MethodPost, "/api/objects/delete", `{"key":"a/b.stl"}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Delete(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	errs := sess.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "no active connection")
}
