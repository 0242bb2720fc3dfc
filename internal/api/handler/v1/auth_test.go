package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/volunthub/volunthub-api/internal/api/handler/v1"
	"github.com/volunthub/volunthub-api/internal/config"
	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/service"
)

type fakeAuthService struct {
	signupFn func(user domain.User) (domain.User, error)
	loginFn  func(email, password string) (domain.User, error)
}

func (f *fakeAuthService) Signup(_ context.Context, user domain.User) (domain.User, error) {
	return f.signupFn(user)
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (domain.User, error) {
	return f.loginFn(email, password)
}

func newAuthRouter(svc v1.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := v1.NewAuthHandler(&config.APIConfig{JWTSigningKey: "test-signing-key"}, svc)

	router := gin.New()
	router.POST("/api/v1/auth/signup", handler.HandleSignup)
	router.POST("/api/v1/auth/login", handler.HandleLogin)

	return router
}

func TestHandleSignup(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		signupFn func(user domain.User) (domain.User, error)
		wantCode int
	}{
		{
			name: "valid signup",
			body: `{"email":"jane@example.com","password":"password1","confirm_password":"password1","name":"Jane","role":"participant"}`,
			signupFn: func(user domain.User) (domain.User, error) {
				user.ID = 1
				user.Coins = 10
				return user, nil
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "invalid email",
			body:     `{"email":"not-an-email","password":"password1","confirm_password":"password1","name":"Jane","role":"participant"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "password without digits",
			body:     `{"email":"jane@example.com","password":"passwords","confirm_password":"passwords","name":"Jane","role":"participant"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "mismatched confirmation",
			body:     `{"email":"jane@example.com","password":"password1","confirm_password":"password2","name":"Jane","role":"participant"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "administrator role is not registrable",
			body:     `{"email":"jane@example.com","password":"password1","confirm_password":"password1","name":"Jane","role":"administrator"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: `{"email":"jane@example.com","password":"password1","confirm_password":"password1","name":"Jane","role":"participant"}`,
			signupFn: func(domain.User) (domain.User, error) {
				return domain.User{}, service.ErrUserEmailExists
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newAuthRouter(&fakeAuthService{signupFn: tc.signupFn})

			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(recorder, req)

			assert.Equal(t, tc.wantCode, recorder.Code, recorder.Body.String())
		})
	}
}

func TestHandleLogin(t *testing.T) {
	t.Run("wrong credentials", func(t *testing.T) {
		router := newAuthRouter(&fakeAuthService{
			loginFn: func(string, string) (domain.User, error) {
				return domain.User{}, service.ErrWrongPassword
			},
		})

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"jane@example.com","password":"wrong1234"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("valid credentials return a token", func(t *testing.T) {
		router := newAuthRouter(&fakeAuthService{
			loginFn: func(email, _ string) (domain.User, error) {
				return domain.User{ID: 1, Email: email, Role: domain.RoleParticipant}, nil
			},
		})

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"jane@example.com","password":"password1"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		var resp struct {
			Token string      `json:"token"`
			User  domain.User `json:"user"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, uint(1), resp.User.ID)
	})
}
