// File: internal/profile/handler_test.go
package profile

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scholar_directory_backend/internal/common"
	"scholar_directory_backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// uploadStubService backs only the upload path; handler tests for request
// shape errors never reach the other Service methods.
type uploadStubService struct {
	Service
	uploadCalls int
}

func (s *uploadStubService) UploadProfilePicture(_ context.Context, _ uuid.UUID, data []byte, contentType string) (*UploadResponse, error) {
	s.uploadCalls++
	return &UploadResponse{Path: "stored/path.jpg", MimeType: contentType, Size: int64(len(data))}, nil
}

func newUploadTestRouter(t *testing.T, svc Service, authed bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(svc, nil, &config.Config{MaxUploadSizeBytes: 64}, zap.NewNop())

	router := gin.New()
	authMW := func(c *gin.Context) {
		if !authed {
			common.RespondWithError(c, common.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(common.UserIDKey, uuid.New())
		c.Next()
	}
	adminMW := func(c *gin.Context) { c.Next() }
	h.RegisterRoutes(router.Group("/profiles"), authMW, adminMW)
	return router
}

func TestUploadProfilePicture_MissingFileField(t *testing.T) {
	svc := &uploadStubService{}
	router := newUploadTestRouter(t, svc, true)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("caption", "no file here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/profiles/picture", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, svc.uploadCalls)
}

func TestUploadProfilePicture_NonMultipartBody(t *testing.T) {
	svc := &uploadStubService{}
	router := newUploadTestRouter(t, svc, true)

	req := httptest.NewRequest(http.MethodPost, "/profiles/picture", strings.NewReader(`{"file":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Zero(t, svc.uploadCalls)
}

func TestUploadProfilePicture_OversizedFile(t *testing.T) {
	svc := &uploadStubService{}
	router := newUploadTestRouter(t, svc, true)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "big.jpg")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), 128))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/profiles/picture", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, svc.uploadCalls)
}

func TestUploadProfilePicture_AcceptsFile(t *testing.T) {
	svc := &uploadStubService{}
	router := newUploadTestRouter(t, svc, true)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "tiny.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpegdata"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/profiles/picture", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, svc.uploadCalls)
}

func TestBatchAvatarURLs_RequiresAuthentication(t *testing.T) {
	svc := &uploadStubService{}
	router := newUploadTestRouter(t, svc, false)

	req := httptest.NewRequest(http.MethodPost, "/profiles/avatar-urls", strings.NewReader(`{"paths":["a/b.jpg"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
