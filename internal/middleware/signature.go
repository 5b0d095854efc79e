package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/taskbot/internal/errors"
)

const HeaderSignature = "X-Hub-Signature-256"

const signaturePrefix = "sha256="

// RequireWebhookSignature checks the GitHub HMAC signature of the request body.
// An empty secret disables the check.
func RequireWebhookSignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader(HeaderSignature)
		if !strings.HasPrefix(header, signaturePrefix) {
			apierrors.Unauthorized(c, "Missing webhook signature")
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			apierrors.InvalidSignature(c)
			c.Abort()
			return
		}
		// restore for binding downstream
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !ValidSignature(secret, body, strings.TrimPrefix(header, signaturePrefix)) {
			apierrors.InvalidSignature(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Sign returns the hex HMAC-SHA256 of body under secret
func Sign(secret string, body []byte) string {
	return hex.EncodeToString(digest(secret, body))
}

// ValidSignature compares a hex signature against the expected HMAC in constant time
func ValidSignature(secret string, body []byte, signature string) bool {
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(digest(secret, body), got)
}

func digest(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}
