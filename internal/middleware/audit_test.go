package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/ssp-api/internal/models"
)

type auditRecorderStub struct {
	entries []*models.AuditLog
	err     error
}

func (a *auditRecorderStub) Create(ctx context.Context, log *models.AuditLog) error {
	a.entries = append(a.entries, log)
	return a.err
}

func newAuditRouter(recorder auditRecorder, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/catalog/sections", func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
		c.Next()
	}, Audit(recorder, zap.NewNop(), models.AuditActionSectionsSave), func(c *gin.Context) {
		c.Status(status)
	})
	return r
}

func TestAuditRecordsSuccessfulWrites(t *testing.T) {
	recorder := &auditRecorderStub{}
	r := newAuditRouter(recorder, http.StatusCreated)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/catalog/sections?clear=true", nil))

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	assert.Equal(t, models.AuditActionSectionsSave, entry.Action)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "admin-1", *entry.UserID)
	assert.Equal(t, "ADMIN", entry.Role)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(entry.Details, &details))
	assert.Equal(t, "/catalog/sections", details["path"])
	assert.Equal(t, "clear=true", details["query"])
	assert.EqualValues(t, http.StatusCreated, details["status"])
}

func TestAuditSkipsFailedRequests(t *testing.T) {
	recorder := &auditRecorderStub{}
	r := newAuditRouter(recorder, http.StatusBadRequest)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/catalog/sections", nil))

	assert.Empty(t, recorder.entries)
}

func TestAuditWriteFailureKeepsResponse(t *testing.T) {
	recorder := &auditRecorderStub{err: errors.New("db down")}
	r := newAuditRouter(recorder, http.StatusCreated)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/catalog/sections", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, recorder.entries, 1)
}
