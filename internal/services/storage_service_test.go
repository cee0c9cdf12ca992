// internal/services/storage_service_test.go
package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercato/mercato-backend/internal/config"
)

func multipartImage(t *testing.T, filename, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	return file, header
}

func localStorage(t *testing.T) *StorageService {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "8080"
	svc, err := NewStorageService(cfg)
	require.NoError(t, err)
	return svc
}

func TestUploadProductImageLocalFallback(t *testing.T) {
	svc := localStorage(t)
	file, header := multipartImage(t, "phone.jpg", "jpeg-bytes")

	result, err := svc.UploadProductImage(file, header)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.URL, "http://localhost:8080/uploads/products/"), result.URL)
	assert.True(t, strings.HasSuffix(result.Key, ".jpg"), result.Key)
	assert.Equal(t, int64(len("jpeg-bytes")), result.Size)
}

func TestUploadProductImageRejectsBadExtension(t *testing.T) {
	svc := localStorage(t)
	file, header := multipartImage(t, "malware.exe", "MZ")

	_, err := svc.UploadProductImage(file, header)
	assert.ErrorContains(t, err, "not allowed")
}

func TestUploadProductImageRejectsOversize(t *testing.T) {
	svc := localStorage(t)
	file, header := multipartImage(t, "huge.png", "x")
	header.Size = maxImageSize + 1

	_, err := svc.UploadProductImage(file, header)
	assert.ErrorContains(t, err, "exceeds maximum")
}

func TestDeleteImageIsNoOpWithoutS3(t *testing.T) {
	svc := localStorage(t)
	assert.NoError(t, svc.DeleteImage("products/whatever.jpg"))
}
