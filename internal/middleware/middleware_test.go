package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const body = `{"ref":"refs/heads/main"}`

func newSignedRouter(secret string) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var received string
	r := gin.New()
	r.POST("/hook", RequireWebhookSignature(secret), func(c *gin.Context) {
		data, _ := io.ReadAll(c.Request.Body)
		received = string(data)
		c.Status(http.StatusOK)
	})
	return r, &received
}

func sendSigned(r *gin.Engine, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewBufferString(body))
	if signature != "" {
		req.Header.Set(HeaderSignature, signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireWebhookSignature_Valid(t *testing.T) {
	r, received := newSignedRouter("s3cret")

	w := sendSigned(r, "sha256="+Sign("s3cret", []byte(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, *received)
}

func TestRequireWebhookSignature_Mismatch(t *testing.T) {
	r, received := newSignedRouter("s3cret")

	w := sendSigned(r, "sha256="+Sign("other", []byte(body)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"code":"INVALID_SIGNATURE","message":"Webhook signature mismatch"}`, w.Body.String())
	assert.Empty(t, *received)
}

func TestRequireWebhookSignature_Missing(t *testing.T) {
	r, _ := newSignedRouter("s3cret")

	w := sendSigned(r, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireWebhookSignature_Disabled(t *testing.T) {
	r, received := newSignedRouter("")

	w := sendSigned(r, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, *received)
}

func TestValidSignature_RejectsBadHex(t *testing.T) {
	assert.False(t, ValidSignature("s3cret", []byte(body), "zz"))
}

func TestRequestLogger_DeliveryID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	var seen string
	r := gin.New()
	r.Use(RequestLogger(logger))
	r.POST("/hook", func(c *gin.Context) {
		seen = GetDeliveryID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set(HeaderDelivery, "delivery-1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "delivery-1", seen)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/hook", nil))
	assert.Len(t, seen, 36)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "delivery-1", entries[0].Data["delivery"])
	assert.Equal(t, http.StatusOK, entries[0].Data["status"])
}
