package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_SendsMultipartAndReturnsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "receipts-preset", r.FormValue("upload_preset"))
		assert.Equal(t, "receipts", r.FormValue("folder"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "gcash.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://img.example/receipts/gcash.jpg"}`))
	}))
	defer srv.Close()

	u := NewImageHostUploader(srv.URL, "receipts-preset", "receipts")
	url, err := u.Upload(context.Background(), "gcash.jpg", []byte("jpegbytes"))

	require.NoError(t, err)
	assert.Equal(t, "https://img.example/receipts/gcash.jpg", url)
}

func TestUpload_NonSuccessStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "preset not allowed", http.StatusBadRequest)
	}))
	defer srv.Close()

	u := NewImageHostUploader(srv.URL, "bad", "receipts")
	_, err := u.Upload(context.Background(), "gcash.jpg", []byte("jpegbytes"))
	assert.Error(t, err)
}

func TestUpload_MissingURLInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	u := NewImageHostUploader(srv.URL, "receipts-preset", "receipts")
	_, err := u.Upload(context.Background(), "gcash.jpg", []byte("jpegbytes"))
	assert.Error(t, err)
}
