package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// CallHandler issues access tokens for the media SDK and exposes the set of
// calls the broker currently tracks. The media plane itself is out of scope;
// clients take the token straight to the provider.
type CallHandler struct {
	calls        ports.CallService
	appID        int64
	serverSecret string
	tokenTTL     time.Duration

	now func() time.Time
}

func NewCallHandler(calls ports.CallService, appID int64, serverSecret string, tokenTTL time.Duration) *CallHandler {
	return &CallHandler{
		calls:        calls,
		appID:        appID,
		serverSecret: serverSecret,
		tokenTTL:     tokenTTL,
		now:          time.Now,
	}
}

func (h *CallHandler) SetupRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	api := router.Group("/api/v1/calls", auth)
	{
		api.GET("/token", h.Token)
		api.GET("", h.ActiveCalls)
	}
}

type callTokenPayload struct {
	AppID  int64  `json:"app_id"`
	UserID string `json:"user_id"`
	Nonce  int    `json:"nonce"`
	CTime  int64  `json:"ctime"`
	Expire int64  `json:"expire"`
}

type signedCallToken struct {
	callTokenPayload
	Signature string `json:"signature"`
}

func (h *CallHandler) Token(c *gin.Context) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	userID, ok := userIDVal.(domain.UserID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user context"})
		return
	}

	token, err := h.generateToken(string(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"app_id":     h.appID,
		"expires_in": int64(h.tokenTTL / time.Second),
	})
}

// generateToken signs {app_id,user_id,nonce,ctime,expire} with HMAC-SHA256 and
// base64-encodes the payload plus hex signature, the format the media SDK
// verifies server-side.
func (h *CallHandler) generateToken(userID string) (string, error) {
	payload := callTokenPayload{
		AppID:  h.appID,
		UserID: userID,
		Nonce:  rand.Intn(100000),
		CTime:  h.now().Unix(),
		Expire: int64(h.tokenTTL / time.Second),
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(h.serverSecret))
	mac.Write(payloadBytes)
	signature := hex.EncodeToString(mac.Sum(nil))

	signed, err := json.Marshal(signedCallToken{
		callTokenPayload: payload,
		Signature:        signature,
	})
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(signed), nil
}

func (h *CallHandler) ActiveCalls(c *gin.Context) {
	sessions := h.calls.ActiveCalls()
	if sessions == nil {
		sessions = []domain.CallSession{}
	}

	c.JSON(http.StatusOK, gin.H{
		"calls": sessions,
		"count": len(sessions),
	})
}
