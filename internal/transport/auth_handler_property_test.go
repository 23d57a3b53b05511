package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/domain"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/repository"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/service"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

// Mock repositories for testing
type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) SetContact(ctx context.Context, userID, contactID uuid.UUID) error {
	for _, user := range m.users {
		if user.ID == userID {
			user.ContactID = &contactID
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockUserRepository) CountPaidOrders(ctx context.Context, userID uuid.UUID) (int, error) {
	return 0, nil
}

type mockContactRepository struct {
	contacts map[uuid.UUID]*domain.Contact
}

func newMockContactRepository() *mockContactRepository {
	return &mockContactRepository{contacts: make(map[uuid.UUID]*domain.Contact)}
}

func (m *mockContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	m.contacts[contact.ID] = contact
	return nil
}

func (m *mockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	contact, exists := m.contacts[id]
	if !exists {
		return nil, repository.ErrContactNotFound
	}
	return contact, nil
}

func (m *mockContactRepository) FindByLinkedUser(ctx context.Context, userID uuid.UUID) (*domain.Contact, error) {
	for _, contact := range m.contacts {
		if contact.LinkedUserID != nil && *contact.LinkedUserID == userID {
			return contact, nil
		}
	}
	return nil, repository.ErrContactNotFound
}

func (m *mockContactRepository) List(ctx context.Context, contactType string) ([]*domain.Contact, error) {
	var out []*domain.Contact
	for _, contact := range m.contacts {
		if contactType == "" || contact.Type == contactType {
			out = append(out, contact)
		}
	}
	return out, nil
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func newTestAuthHandler() (*AuthHandler, service.AuthService) {
	userRepo := newMockUserRepository()
	contactRepo := newMockContactRepository()
	refreshTokenRepo := newMockRefreshTokenRepository()
	authService := service.NewAuthService(userRepo, contactRepo, refreshTokenRepo, "test-secret")
	logger, _ := zap.NewDevelopment()
	return NewAuthHandler(authService, logger), authService
}

// Feature: merchandising-desk, Property 6: Invalid registration data is rejected
// Validates: Requirements 1.5
func TestProperty_InvalidRegistrationDataIsRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("registration with invalid data returns validation errors", prop.ForAll(
		func(invalidCase int) bool {
			handler, _ := newTestAuthHandler()

			var reqBody RegisterRequest

			// Generate different invalid cases
			switch invalidCase % 4 {
			case 0:
				// Empty email
				reqBody = RegisterRequest{
					Name:     "John Doe",
					Email:    "",
					Password: "ValidPass123",
				}
			case 1:
				// Invalid email format
				reqBody = RegisterRequest{
					Name:     "John Doe",
					Email:    "not-an-email",
					Password: "ValidPass123",
				}
			case 2:
				// Short password (less than 8 characters)
				reqBody = RegisterRequest{
					Name:     "John Doe",
					Email:    "test@example.com",
					Password: "short",
				}
			case 3:
				// Unknown role
				reqBody = RegisterRequest{
					Name:     "John Doe",
					Email:    "test@example.com",
					Password: "ValidPass123",
					Role:     "superuser",
				}
			}

			body, _ := json.Marshal(reqBody)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			if w.Code != http.StatusBadRequest && w.Code != http.StatusConflict {
				t.Logf("FAIL: Expected 400 or 409 status code, got %d", w.Code)
				return false
			}

			var response map[string]interface{}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Logf("FAIL: Could not decode error response: %v", err)
				return false
			}

			if _, exists := response["error"]; !exists {
				t.Logf("FAIL: Response missing 'error' field")
				return false
			}

			return true
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: merchandising-desk, Property 7: Successful registration returns profile data
// Validates: Requirements 1.4
func TestProperty_SuccessfulRegistrationReturnsProfileData(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("successful registration returns user profile with all fields", prop.ForAll(
		func(email string, password string, name string) bool {
			handler, _ := newTestAuthHandler()

			reqBody := RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
				Mobile:   "9999999999",
				City:     "Pune",
				State:    "MH",
				Pincode:  "411001",
			}
			body, _ := json.Marshal(reqBody)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			// Skip if registration failed (e.g., duplicate email from previous iteration)
			if w.Code != http.StatusCreated {
				return true
			}

			var profile UserProfile
			if err := json.NewDecoder(w.Body).Decode(&profile); err != nil {
				t.Logf("FAIL: Could not decode response: %v", err)
				return false
			}

			if profile.ID == "" {
				t.Logf("FAIL: Profile missing ID")
				return false
			}
			if _, err := uuid.Parse(profile.ID); err != nil {
				t.Logf("FAIL: Profile ID is not a valid UUID: %v", err)
				return false
			}
			if profile.Email != email {
				t.Logf("FAIL: Email mismatch. Expected %s, got %s", email, profile.Email)
				return false
			}
			if profile.Name != name {
				t.Logf("FAIL: Name mismatch. Expected %s, got %s", name, profile.Name)
				return false
			}
			if profile.Role != domain.RoleCustomer {
				t.Logf("FAIL: Expected default customer role, got %s", profile.Role)
				return false
			}
			if profile.ContactID == "" {
				t.Logf("FAIL: Profile missing linked contact")
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: merchandising-desk, Property 8: Valid login returns both tokens
// Validates: Requirements 2.1
func TestProperty_ValidLoginReturnsBothTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid login returns access token and refresh token", prop.ForAll(
		func(email string, password string, name string) bool {
			handler, authService := newTestAuthHandler()

			_, err := authService.Register(context.Background(), service.RegisterInput{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return true // Skip if registration fails
			}

			loginReq := LoginRequest{
				Email:    email,
				Password: password,
			}
			body, _ := json.Marshal(loginReq)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Login(w, req)

			if w.Code != http.StatusOK {
				t.Logf("FAIL: Expected 200 status code, got %d", w.Code)
				return false
			}

			var loginResp LoginResponse
			if err := json.NewDecoder(w.Body).Decode(&loginResp); err != nil {
				t.Logf("FAIL: Could not decode login response: %v", err)
				return false
			}

			if loginResp.AccessToken == "" {
				t.Logf("FAIL: Access token is empty")
				return false
			}
			if loginResp.RefreshToken == "" {
				t.Logf("FAIL: Refresh token is empty")
				return false
			}
			if loginResp.User.ID == "" {
				t.Logf("FAIL: User profile missing ID")
				return false
			}
			if loginResp.User.Email != email {
				t.Logf("FAIL: User email mismatch")
				return false
			}

			// Verify refresh token can be used
			newAccessToken, err := authService.RefreshToken(context.Background(), loginResp.RefreshToken)
			if err != nil {
				t.Logf("FAIL: Refresh token is not valid: %v", err)
				return false
			}
			if newAccessToken == "" {
				t.Logf("FAIL: Refresh token returned empty access token")
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
