package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/loyalty-admin-api/internal/middleware"
	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	apperrors "github.com/jwalitptl/loyalty-admin-api/pkg/errors"
)

type fakeViewAsService struct {
	grant     *model.ViewAsGrant
	issueErr  error
	revokeErr error

	revokedToken string
}

func (f *fakeViewAsService) Issue(ctx context.Context, caller model.CallerIdentity, accountID, userID uuid.UUID) (*model.ViewAsGrant, error) {
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	return f.grant, nil
}

func (f *fakeViewAsService) Revoke(ctx context.Context, caller model.CallerIdentity, token string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revokedToken = token
	return nil
}

func (f *fakeViewAsService) Resolve(ctx context.Context, token string) (*model.ViewAsContext, error) {
	return nil, nil
}

func setupRouter(svc *fakeViewAsService, withCaller bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	group := engine.Group("/api/admin")
	if withCaller {
		group.Use(func(c *gin.Context) {
			c.Set(middleware.ContextCaller, model.CallerIdentity{
				UserID: uuid.New(),
				Email:  "ops@console.test",
				Role:   model.UserRoleSuperAdmin,
			})
		})
	}
	NewHandler(svc).RegisterRoutes(group)
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, req)
	return rr
}

func TestCreateViewAsSession(t *testing.T) {
	expires := time.Now().Add(4 * time.Hour).UTC().Truncate(time.Second)
	svc := &fakeViewAsService{
		grant: &model.ViewAsGrant{
			SessionToken: "tok123",
			ExpiresAt:    expires,
			AccountName:  "Ace Cafe",
			UserName:     "Alex Owner",
			UserRole:     model.UserRoleOrgAdmin,
		},
	}
	engine := setupRouter(svc, true)

	rr := postJSON(t, engine, "/api/admin/create-view-as-session", gin.H{
		"accountId": uuid.New().String(),
		"userId":    uuid.New().String(),
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "tok123", resp["sessionToken"])
	assert.Equal(t, "Ace Cafe", resp["accountName"])
	assert.Equal(t, "Alex Owner", resp["userName"])
	assert.Equal(t, "orgadmin", resp["userRole"])
	assert.NotEmpty(t, resp["expiresAt"])
}

func TestCreateViewAsSession_Failures(t *testing.T) {
	t.Run("missing body fields", func(t *testing.T) {
		engine := setupRouter(&fakeViewAsService{}, true)
		rr := postJSON(t, engine, "/api/admin/create-view-as-session", gin.H{})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Contains(t, resp, "error")
	})

	t.Run("service errors map to 400 regardless of kind", func(t *testing.T) {
		for _, err := range []error{
			apperrors.NotFound("account", nil),
			apperrors.Unauthorized("view-as sessions require super-admin access", nil),
			apperrors.Validation("user does not belong to the specified account", nil),
		} {
			engine := setupRouter(&fakeViewAsService{issueErr: err}, true)
			rr := postJSON(t, engine, "/api/admin/create-view-as-session", gin.H{
				"accountId": uuid.New().String(),
				"userId":    uuid.New().String(),
			})

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		}
	})

	t.Run("no caller identity", func(t *testing.T) {
		engine := setupRouter(&fakeViewAsService{}, false)
		rr := postJSON(t, engine, "/api/admin/create-view-as-session", gin.H{
			"accountId": uuid.New().String(),
			"userId":    uuid.New().String(),
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestEndViewAsSession(t *testing.T) {
	svc := &fakeViewAsService{}
	engine := setupRouter(svc, true)

	rr := postJSON(t, engine, "/api/admin/end-view-as-session", gin.H{
		"sessionToken": "tok123",
	})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "tok123", svc.revokedToken)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "view-as session ended", resp["message"])
}

func TestEndViewAsSession_Failures(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		engine := setupRouter(&fakeViewAsService{}, true)
		rr := postJSON(t, engine, "/api/admin/end-view-as-session", gin.H{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("service error maps to 400", func(t *testing.T) {
		engine := setupRouter(&fakeViewAsService{
			revokeErr: apperrors.NotFound("view-as session", nil),
		}, true)
		rr := postJSON(t, engine, "/api/admin/end-view-as-session", gin.H{
			"sessionToken": "gone",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["error"])
	})
}
