package state

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"societyhub/database"
	"societyhub/models"
)

var testSeed = Seed{House: "SA01", Phone: "00000000000", PIN: "123"}

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(context.Background(), database.NewMemoryStore(), "test-secret", "1234", testSeed)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return s
}

func TestSeedSuperAdminExists(t *testing.T) {
	s := newTestService(t)

	users := s.Users()
	if len(users) != 1 {
		t.Fatalf("Expected 1 seeded user, got %d", len(users))
	}
	if users[0].HouseNumber != "SA01" || users[0].Role != models.RoleSuperAdmin {
		t.Errorf("Unexpected seed user: %+v", users[0])
	}
}

func TestSeedOnMalformedSnapshot(t *testing.T) {
	store := database.NewMemoryStore()
	if err := store.SaveSnapshot(context.Background(), []byte("{not json")); err != nil {
		t.Fatalf("SaveSnapshot returned error: %v", err)
	}

	s, err := NewService(context.Background(), store, "test-secret", "1234", testSeed)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	if _, err := s.Login("SA01", "123"); err != nil {
		t.Errorf("Seed super admin should exist after malformed snapshot, login failed: %v", err)
	}
}

func TestStateRehydratesFromSnapshot(t *testing.T) {
	store := database.NewMemoryStore()
	s1, err := NewService(context.Background(), store, "test-secret", "1234", testSeed)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	if _, err := s1.Signup("a-101", "03001234567", models.RoleResident, "999"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	s2, err := NewService(context.Background(), store, "test-secret", "1234", testSeed)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	if _, err := s2.Login("A-101", "999"); err != nil {
		t.Errorf("Expected signed up user to survive restart, login failed: %v", err)
	}
	if got := len(s2.Users()); got != 2 {
		t.Errorf("Expected 2 users after rehydration, got %d", got)
	}
}

func TestLogin(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Signup("A-101", "03001234567", models.RoleResident, "777"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	testCases := []struct {
		name    string
		house   string
		pin     string
		wantErr error
	}{
		{"valid credentials", "A-101", "777", nil},
		{"house is case insensitive", "  a-101 ", "777", nil},
		{"wrong pin", "A-101", "778", ErrInvalidCredentials},
		{"unknown house", "B-202", "777", ErrUserNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Login(tc.house, tc.pin)
			if !errors.Is(err, tc.wantErr) && err != tc.wantErr {
				t.Errorf("Login(%q, %q) error = %v, want %v", tc.house, tc.pin, err, tc.wantErr)
			}
		})
	}
}

func TestLoginWithoutStoredPIN(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Signup("C-303", "03001234567", models.RoleResident, ""); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	// No PIN on record means any PIN is accepted.
	if _, err := s.Login("C-303", ""); err != nil {
		t.Errorf("Login with empty PIN failed: %v", err)
	}
	if _, err := s.Login("C-303", "anything"); err != nil {
		t.Errorf("Login with arbitrary PIN failed: %v", err)
	}
}

func TestSignupDuplicateHouse(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Signup("A-101", "03001234567", models.RoleResident, "777"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if _, err := s.Signup("a-101", "03007654321", models.RoleResident, "888"); err != ErrHouseTaken {
		t.Errorf("Expected ErrHouseTaken, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Signup("A-101", "03001234567", models.RoleResident, "old"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if err := s.ChangePassword("A-101", "wrong", "new"); err != ErrInvalidCredentials {
		t.Errorf("Expected ErrInvalidCredentials for wrong old PIN, got %v", err)
	}
	if err := s.ChangePassword("A-101", "old", "new"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if _, err := s.Login("A-101", "new"); err != nil {
		t.Errorf("Login with new PIN failed: %v", err)
	}
	if _, err := s.Login("A-101", "old"); err != ErrInvalidCredentials {
		t.Errorf("Expected old PIN to be rejected, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Signup("A-101", "03001234567", models.RoleResident, "777"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if err := s.ResetPassword("A-101", "000"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if _, err := s.Login("A-101", "000"); err != nil {
		t.Errorf("Login with reset PIN failed: %v", err)
	}

	// Empty PIN falls back to the default.
	if err := s.ResetPassword("A-101", ""); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if _, err := s.Login("A-101", "1234"); err != nil {
		t.Errorf("Login with default PIN failed: %v", err)
	}
}

func TestResetPasswordUnknownHouseLeavesTableUnchanged(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Signup("A-101", "03001234567", models.RoleResident, "777"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	before := s.Users()

	if err := s.ResetPassword("Z-999", "000"); err != ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	after := s.Users()
	if len(after) != len(before) {
		t.Fatalf("User table length changed: %d -> %d", len(before), len(after))
	}
	if _, err := s.Login("A-101", "777"); err != nil {
		t.Errorf("Existing user's PIN changed: %v", err)
	}
}

func TestUpdateUserRole(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Signup("A-101", "03001234567", models.RoleResident, "777"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if err := s.UpdateUserRole("A-101", models.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole returned error: %v", err)
	}
	u, err := s.User("A-101")
	if err != nil {
		t.Fatalf("User returned error: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("Expected ADMIN, got %s", u.Role)
	}

	if err := s.UpdateUserRole("A-101", models.RoleSuperAdmin); err != ErrInvalidRole {
		t.Errorf("Expected ErrInvalidRole when promoting to super admin, got %v", err)
	}
	if err := s.UpdateUserRole("SA01", models.RoleResident); err != ErrProtectedUser {
		t.Errorf("Expected ErrProtectedUser for the super admin, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestService(t)
	u, err := s.Signup("A-101", "03001234567", models.RoleResident, "777")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	token, err := s.IssueToken(u)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	house, role, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if house != "A-101" || role != models.RoleResident {
		t.Errorf("Unexpected claims: house=%s role=%s", house, role)
	}

	// Role changes take effect without re-login.
	if err := s.UpdateUserRole("A-101", models.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole returned error: %v", err)
	}
	_, role, err = s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if role != models.RoleAdmin {
		t.Errorf("Expected refreshed role ADMIN, got %s", role)
	}

	if _, _, err := s.ValidateToken("not-a-token"); err == nil {
		t.Error("Expected error for garbage token")
	}
}

func TestSnapshotDocumentShape(t *testing.T) {
	store := database.NewMemoryStore()
	s, err := NewService(context.Background(), store, "test-secret", "1234", testSeed)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	if _, err := s.SubmitQuery("A-101", "leak", "", "", ""); err != nil {
		t.Fatalf("SubmitQuery returned error: %v", err)
	}

	doc, ok, err := store.LoadSnapshot(context.Background())
	if err != nil || !ok {
		t.Fatalf("Expected snapshot, got ok=%v err=%v", ok, err)
	}
	var st models.AppState
	if err := json.Unmarshal(doc, &st); err != nil {
		t.Fatalf("Snapshot is not valid JSON: %v", err)
	}
	if len(st.Users) != 1 || len(st.Queries) != 1 {
		t.Errorf("Unexpected snapshot contents: %d users, %d queries", len(st.Users), len(st.Queries))
	}
}
