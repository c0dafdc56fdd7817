package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"societyhub/models"
	"societyhub/stubllm"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	h, service := newTestHandlers(t, stubllm.NewClient())
	_, err := service.Signup("A-101", "03001234567", models.RoleResident, "4321")
	require.NoError(t, err)

	tests := []struct {
		name     string
		body     models.LoginRequest
		wantCode int
	}{
		{"valid credentials", models.LoginRequest{HouseNumber: "A-101", PIN: "4321"}, http.StatusOK},
		{"normalized house", models.LoginRequest{HouseNumber: "  a-101 ", PIN: "4321"}, http.StatusOK},
		{"wrong pin", models.LoginRequest{HouseNumber: "A-101", PIN: "9999"}, http.StatusUnauthorized},
		{"unknown house", models.LoginRequest{HouseNumber: "Z-999", PIN: "4321"}, http.StatusNotFound},
		{"seeded super admin", models.LoginRequest{HouseNumber: "SA01", PIN: "123"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newRequestContext(t, "POST", "/api/v3/auth/login", tt.body, "", "")
			h.Login(c)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				var resp models.AuthResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func TestSignup(t *testing.T) {
	h, _ := newTestHandlers(t, stubllm.NewClient())

	c, w := newRequestContext(t, "POST", "/api/v3/auth/signup",
		models.SignupRequest{HouseNumber: "b-202", Phone: "03001234567", PIN: "4321"}, "", "")
	h.Signup(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "B-202", resp.User.HouseNumber)
	assert.Equal(t, models.RoleResident, resp.User.Role)
	assert.NotEmpty(t, resp.Token)

	// The house is now taken, case-insensitively.
	c, w = newRequestContext(t, "POST", "/api/v3/auth/signup",
		models.SignupRequest{HouseNumber: "B-202", Phone: "03007654321", PIN: "5555"}, "", "")
	h.Signup(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSignup_Validation(t *testing.T) {
	h, _ := newTestHandlers(t, stubllm.NewClient())

	tests := []struct {
		name string
		body models.SignupRequest
	}{
		{"short phone", models.SignupRequest{HouseNumber: "C-303", Phone: "12345", PIN: "4321"}},
		{"short pin", models.SignupRequest{HouseNumber: "C-303", Phone: "03001234567", PIN: "12"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newRequestContext(t, "POST", "/api/v3/auth/signup", tt.body, "", "")
			h.Signup(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestChangePIN(t *testing.T) {
	h, service := newTestHandlers(t, stubllm.NewClient())
	_, err := service.Signup("A-101", "03001234567", models.RoleResident, "4321")
	require.NoError(t, err)

	c, w := newRequestContext(t, "POST", "/api/v3/auth/change-pin",
		models.ChangePINRequest{OldPIN: "wrong", NewPIN: "8888"}, "A-101", models.RoleResident)
	h.ChangePIN(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newRequestContext(t, "POST", "/api/v3/auth/change-pin",
		models.ChangePINRequest{OldPIN: "4321", NewPIN: "8888"}, "A-101", models.RoleResident)
	h.ChangePIN(c)
	require.Equal(t, http.StatusOK, w.Code)

	_, err = service.Login("A-101", "8888")
	assert.NoError(t, err)
}

func TestResetPIN_FallsBackToDefault(t *testing.T) {
	h, service := newTestHandlers(t, stubllm.NewClient())
	_, err := service.Signup("A-101", "03001234567", models.RoleResident, "4321")
	require.NoError(t, err)

	c, w := newRequestContext(t, "POST", "/api/v3/auth/reset-pin",
		models.ResetPINRequest{HouseNumber: "A-101"}, "SA01", models.RoleSuperAdmin)
	h.ResetPIN(c)
	require.Equal(t, http.StatusOK, w.Code)

	_, err = service.Login("A-101", "1234")
	assert.NoError(t, err)
}

func TestUpdateUserRole(t *testing.T) {
	h, service := newTestHandlers(t, stubllm.NewClient())
	_, err := service.Signup("A-101", "03001234567", models.RoleResident, "4321")
	require.NoError(t, err)

	c, w := newRequestContext(t, "PUT", "/api/v3/users/A-101/role",
		models.UpdateRoleRequest{Role: models.RoleAdmin}, "SA01", models.RoleSuperAdmin)
	c.Params = gin.Params{{Key: "house", Value: "A-101"}}
	h.UpdateUserRole(c)
	require.Equal(t, http.StatusOK, w.Code)

	var u models.PublicUser
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, models.RoleAdmin, u.Role)

	// The super admin account cannot be reassigned.
	c, w = newRequestContext(t, "PUT", "/api/v3/users/SA01/role",
		models.UpdateRoleRequest{Role: models.RoleResident}, "SA01", models.RoleSuperAdmin)
	c.Params = gin.Params{{Key: "house", Value: "SA01"}}
	h.UpdateUserRole(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
