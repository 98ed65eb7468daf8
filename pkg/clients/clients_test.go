package clients

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenpay/models"
)

func TestForwardUploadSendsMultipart(t *testing.T) {
	var gotFields map[string]string
	var gotFile []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotFile, err = io.ReadAll(f)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	staged := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(staged, []byte("png-bytes"), 0o644))

	admin := NewAdmin(srv.URL, 5*time.Second)
	err := admin.ForwardUpload(&models.PendingUpload{
		Text:     "hello",
		Type:     models.ContentImage,
		Time:     "10",
		Price:    "100",
		Sender:   "somchai",
		FileName: "pic.png",
		FilePath: staged,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", gotFields["text"])
	assert.Equal(t, "image", gotFields["type"])
	assert.Equal(t, "white", gotFields["textColor"], "text color defaults to white")
	assert.Equal(t, []byte("png-bytes"), gotFile)
}

func TestForwardUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	admin := NewAdmin(srv.URL, 5*time.Second)
	err := admin.ForwardUpload(&models.PendingUpload{Type: models.ContentText})
	assert.Error(t, err)
}

func TestForwardReportPropagatesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"db down"}`))
	}))
	defer srv.Close()

	admin := NewAdmin(srv.URL, 5*time.Second)
	err := admin.ForwardReport("abuse", "bad content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestStatsEmit(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	stats := NewStats(srv.URL, 5*time.Second)
	require.NoError(t, stats.Emit("payment", "ok", "success", "1500"))
	assert.Equal(t, "payment", got["category"])
	assert.Equal(t, "1500", got["amount"])
}

func TestOTPSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"400","detail":"invalid phone"}`))
	}))
	defer srv.Close()

	otp := NewOTP(srv.URL, "k", "s", "p", 5*time.Second)
	_, err := otp.Send("0000000000")
	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "invalid phone", rej.Detail)
}

func TestOTPSendAndValidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/otp-send":
			w.Write([]byte(`{"code":"000","result":{"token":"tok-1"}}`))
		case "/api/otp-validate":
			w.Write([]byte(`{"code":"000"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	otp := NewOTP(srv.URL, "k", "s", "p", 5*time.Second)
	token, err := otp.Send("0812345678")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.NoError(t, otp.Validate("123456", token))
}
