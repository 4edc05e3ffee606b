package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/pkg/auth"
)

func testJWT() auth.JWTService {
	return auth.NewJWTService(auth.Config{
		Secret:             "test-secret",
		RefreshSecret:      "test-refresh-secret",
		ExpiryHours:        1,
		RefreshExpiryHours: 24,
	})
}

func protectedEngine(t *testing.T, jwtSvc auth.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(jwtSvc)
	engine := gin.New()
	group := engine.Group("/", m.Authenticate())
	group.Use(extra...)
	group.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": CurrentUserID(c),
			"roles":   CurrentRoles(c),
		})
	})
	return engine
}

func get(engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, jwtSvc auth.JWTService, roles ...model.Role) string {
	t.Helper()
	token, err := jwtSvc.GenerateAccessToken(&model.User{
		Base:  model.Base{ID: uuid.New()},
		Email: "user@example.com",
		Roles: roles,
	})
	require.NoError(t, err)
	return token
}

func TestAuthenticate_ValidToken(t *testing.T) {
	jwtSvc := testJWT()
	engine := protectedEngine(t, jwtSvc)

	rec := get(engine, "Bearer "+tokenFor(t, jwtSvc, model.RolePatient))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_Rejections(t *testing.T) {
	jwtSvc := testJWT()
	engine := protectedEngine(t, jwtSvc)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(engine, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthenticate_RejectsRefreshTokenOnAccessRoute(t *testing.T) {
	jwtSvc := testJWT()
	engine := protectedEngine(t, jwtSvc)

	refresh, err := jwtSvc.GenerateRefreshToken(&model.User{Base: model.Base{ID: uuid.New()}})
	require.NoError(t, err)

	rec := get(engine, "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	jwtSvc := testJWT()
	m := NewAuthMiddleware(jwtSvc)
	engine := protectedEngine(t, jwtSvc, m.RequireRole(model.RoleAdmin, model.RoleHospitalAdmin))

	rec := get(engine, "Bearer "+tokenFor(t, jwtSvc, model.RoleHospitalAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(engine, "Bearer "+tokenFor(t, jwtSvc, model.RolePatient))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireCapability(t *testing.T) {
	jwtSvc := testJWT()
	m := NewAuthMiddleware(jwtSvc)
	engine := protectedEngine(t, jwtSvc, m.RequireCapability(func(caps model.Capabilities) bool {
		return caps.ManageBusinessUsers
	}))

	rec := get(engine, "Bearer "+tokenFor(t, jwtSvc, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(engine, "Bearer "+tokenFor(t, jwtSvc, model.RoleDoctor))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCurrentHelpersOutsideAuthenticatedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, uuid.Nil, CurrentUserID(c))
	assert.Nil(t, CurrentRoles(c))
	assert.Equal(t, model.Capabilities{}, CurrentCapabilities(c))
}
