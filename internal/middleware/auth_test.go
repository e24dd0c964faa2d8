package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/storefront-api/internal/middleware"
	"github.com/iliyamo/storefront-api/internal/model"
	"github.com/iliyamo/storefront-api/internal/repository"
	"github.com/iliyamo/storefront-api/internal/utils"
)

const secret = "middleware-test-secret"

// fakeResolver is an in-memory SubjectResolver.
type fakeResolver struct {
	users map[string]model.User
}

func (f *fakeResolver) GetByID(_ context.Context, id string) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func newResolver(role string) (*fakeResolver, string) {
	oid := primitive.NewObjectID()
	return &fakeResolver{users: map[string]model.User{
		oid.Hex(): {ID: oid, Email: "alice@example.com", Role: role},
	}}, oid.Hex()
}

// serve runs a request through JWTAuth (and optional extra middleware)
// into a probe handler that echoes the context role.
func serve(t *testing.T, resolver middleware.SubjectResolver, authHeader string, extra ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	probe := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"role": c.Get("role")})
	}
	mws := append([]echo.MiddlewareFunc{middleware.JWTAuth(secret, resolver)}, extra...)
	e.GET("/probe", probe, mws...)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_ValidToken(t *testing.T) {
	resolver, uid := newResolver(model.RoleUser)
	tok, err := utils.NewAccessToken(secret, uid, 15)
	require.NoError(t, err)

	rec := serve(t, resolver, "Bearer "+tok.Value)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), model.RoleUser)
}

func TestJWTAuth_Rejections(t *testing.T) {
	resolver, uid := newResolver(model.RoleUser)

	expired, err := utils.NewAccessToken(secret, uid, -1)
	require.NoError(t, err)
	refresh, err := utils.NewRefreshToken(secret, uid, 7)
	require.NoError(t, err)
	foreign, err := utils.NewAccessToken("other-secret", uid, 15)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing_header", ""},
		{"not_bearer", "Basic abc"},
		{"garbled", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired.Value},
		{"refresh_as_access", "Bearer " + refresh.Value},
		{"wrong_signature", "Bearer " + foreign.Value},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, resolver, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			// One body for every failure class.
			assert.JSONEq(t, `{"error":"invalid token"}`, rec.Body.String())
		})
	}
}

func TestJWTAuth_StaleSubject(t *testing.T) {
	resolver, _ := newResolver(model.RoleUser)
	// Token for a user the store no longer knows.
	tok, err := utils.NewAccessToken(secret, primitive.NewObjectID().Hex(), 15)
	require.NoError(t, err)

	rec := serve(t, resolver, "Bearer "+tok.Value)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	adminGate := middleware.RequireRole(model.RoleAdmin)

	adminResolver, adminID := newResolver(model.RoleAdmin)
	adminTok, err := utils.NewAccessToken(secret, adminID, 15)
	require.NoError(t, err)
	rec := serve(t, adminResolver, "Bearer "+adminTok.Value, adminGate)
	assert.Equal(t, http.StatusOK, rec.Code)

	userResolver, userID := newResolver(model.RoleUser)
	userTok, err := utils.NewAccessToken(secret, userID, 15)
	require.NoError(t, err)
	rec = serve(t, userResolver, "Bearer "+userTok.Value, adminGate)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
