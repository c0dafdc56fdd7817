package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"societyhub/database"
	"societyhub/metrics"
	"societyhub/models"

	"github.com/apex/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is how long an issued session token stays valid.
const tokenTTL = 24 * time.Hour

// Seed describes the super admin account created when no snapshot
// exists. This account always exists afterwards.
type Seed struct {
	House string
	Phone string
	PIN   string
}

// Service owns the application state. Every accepted mutation is
// followed by a wholesale snapshot persist; a failed persist is logged
// and absorbed.
type Service struct {
	mu         sync.Mutex
	state      models.AppState
	store      database.Store
	jwtSecret  []byte
	defaultPIN string
}

// NewService loads the snapshot once and rehydrates the state. An absent
// or malformed snapshot falls back to the seed state.
func NewService(ctx context.Context, store database.Store, jwtSecret, defaultPIN string, seed Seed) (*Service, error) {
	s := &Service{
		store:      store,
		jwtSecret:  []byte(jwtSecret),
		defaultPIN: defaultPIN,
	}

	doc, ok, err := store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state snapshot: %w", err)
	}
	if ok {
		if err := json.Unmarshal(doc, &s.state); err != nil {
			log.Warnf("Snapshot is malformed, falling back to seed state: %v", err)
			s.state = models.AppState{}
		}
	}
	if err := s.ensureSeed(seed); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureSeed guarantees the super admin account exists.
func (s *Service) ensureSeed(seed Seed) error {
	for _, u := range s.state.Users {
		if u.Role == models.RoleSuperAdmin {
			return nil
		}
	}
	hash, err := hashPIN(seed.PIN)
	if err != nil {
		return fmt.Errorf("failed to hash seed PIN: %w", err)
	}
	s.state.Users = append(s.state.Users, models.User{
		HouseNumber:  NormalizeHouse(seed.House),
		Phone:        seed.Phone,
		Role:         models.RoleSuperAdmin,
		PasswordHash: hash,
	})
	s.persistLocked()
	return nil
}

// persistLocked writes the whole state to the store. Callers must hold
// the mutex. A failed write only loses the latest snapshot; the next
// accepted mutation overwrites it anyway.
func (s *Service) persistLocked() {
	doc, err := json.Marshal(s.state)
	if err != nil {
		log.Errorf("Failed to marshal state snapshot: %v", err)
		metrics.SnapshotFailuresTotal.Inc()
		return
	}
	if err := s.store.SaveSnapshot(context.Background(), doc); err != nil {
		log.Errorf("Failed to save state snapshot: %v", err)
		metrics.SnapshotFailuresTotal.Inc()
	}
}

// NormalizeHouse canonicalizes a house number to trimmed uppercase.
func NormalizeHouse(house string) string {
	return strings.ToUpper(strings.TrimSpace(house))
}

func hashPIN(pin string) (string, error) {
	if pin == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) findUserLocked(house string) *models.User {
	for i := range s.state.Users {
		if s.state.Users[i].HouseNumber == house {
			return &s.state.Users[i]
		}
	}
	return nil
}

// Login verifies the PIN when one is set and returns the user. An
// account without a stored PIN accepts any PIN.
func (s *Service) Login(house, pin string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUserLocked(NormalizeHouse(house))
	if u == nil {
		return models.User{}, ErrUserNotFound
	}
	if u.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pin)); err != nil {
			return models.User{}, ErrInvalidCredentials
		}
	}
	return *u, nil
}

// Signup registers a new user. The house number is the sole key; a
// duplicate house is rejected.
func (s *Service) Signup(house, phone string, role models.UserRole, pin string) (models.User, error) {
	if !role.Valid() {
		return models.User{}, ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := NormalizeHouse(house)
	if s.findUserLocked(normalized) != nil {
		return models.User{}, ErrHouseTaken
	}
	hash, err := hashPIN(pin)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash PIN: %w", err)
	}
	u := models.User{
		HouseNumber:  normalized,
		Phone:        phone,
		Role:         role,
		PasswordHash: hash,
	}
	s.state.Users = append(s.state.Users, u)
	s.persistLocked()
	return u, nil
}

// ChangePassword replaces the caller's PIN after verifying the old one.
func (s *Service) ChangePassword(house, oldPIN, newPIN string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUserLocked(NormalizeHouse(house))
	if u == nil {
		return ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPIN)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := hashPIN(newPIN)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	u.PasswordHash = hash
	s.persistLocked()
	return nil
}

// ResetPassword sets a user's PIN, falling back to the default PIN when
// none is given. The user table is left unchanged on failure.
func (s *Service) ResetPassword(house, newPIN string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUserLocked(NormalizeHouse(house))
	if u == nil {
		return ErrUserNotFound
	}
	if newPIN == "" {
		newPIN = s.defaultPIN
	}
	hash, err := hashPIN(newPIN)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	u.PasswordHash = hash
	s.persistLocked()
	return nil
}

// UpdateUserRole toggles a user between RESIDENT and ADMIN. The super
// admin account is immutable.
func (s *Service) UpdateUserRole(house string, role models.UserRole) error {
	if role != models.RoleResident && role != models.RoleAdmin {
		return ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUserLocked(NormalizeHouse(house))
	if u == nil {
		return ErrUserNotFound
	}
	if u.Role == models.RoleSuperAdmin {
		return ErrProtectedUser
	}
	u.Role = role
	s.persistLocked()
	return nil
}

// Users lists all users without credential material.
func (s *Service) Users() []models.PublicUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PublicUser, 0, len(s.state.Users))
	for _, u := range s.state.Users {
		out = append(out, u.Public())
	}
	return out
}

// User returns one user's public record.
func (s *Service) User(house string) (models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUserLocked(NormalizeHouse(house))
	if u == nil {
		return models.PublicUser{}, ErrUserNotFound
	}
	return u.Public(), nil
}

// IssueToken creates a signed session token carrying the house and role.
func (s *Service) IssueToken(u models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"house": u.HouseNumber,
		"role":  string(u.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies a session token and returns the caller's house
// and role. The role is re-read from the user table so a role change
// takes effect without re-login.
func (s *Service) ValidateToken(tokenString string) (string, models.UserRole, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidCredentials
	}
	house, _ := claims["house"].(string)
	if house == "" {
		return "", "", ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.findUserLocked(house)
	if u == nil {
		return "", "", ErrUserNotFound
	}
	return u.HouseNumber, u.Role, nil
}
