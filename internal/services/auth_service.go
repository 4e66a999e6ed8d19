package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vendorguard/vendorguard/internal/models"
)

type AuthStore interface {
	FindUserByEmail(email string) (*models.User, error)
	AddUser(u *models.User) error
	AddTenant(t *models.Tenant) error
	GetInvitationByToken(token string) (*models.Invitation, error)
}

type TokenSigner func(uid, tid, role, email string, ttl time.Duration) (string, error)

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	idGen     func(prefix string, n int) string
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token    string
	TenantID string
	UserID   string
	Role     string
}

func NewAuthService(store AuthStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     func(prefix string, n int) string { return prefix + shortID(n) },
		signToken: signer,
		tokenTTL:  30 * 24 * time.Hour,
	}
}

// Register creates an account. With an invitation token the account
// becomes a SUPPLIER user inside the inviting vendor's tenant;
// without one it creates a fresh vendor tenant with a VENDOR user.
func (s *AuthService) Register(email, password, companyName, inviteToken string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	existing, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("email exists")
	}

	role := RoleVendor
	var tenantID string
	if strings.TrimSpace(inviteToken) != "" {
		inv, err := s.store.GetInvitationByToken(inviteToken)
		if err != nil {
			return nil, err
		}
		if inv == nil {
			return nil, NewNotFoundError("invitation not found")
		}
		if inv.AcceptedAt != nil {
			return nil, NewConflictError("invitation already accepted")
		}
		role = RoleSupplier
		tenantID = inv.TenantID
	} else {
		tenantID = s.idGen("t", 7)
		if err := s.store.AddTenant(&models.Tenant{ID: tenantID, Name: companyName, CreatedAt: s.now()}); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	userID := s.idGen("u", 7)
	now := s.now()
	if err := s.store.AddUser(&models.User{ID: userID, Email: email, PassHash: hash, TenantID: tenantID, Role: role, CreatedAt: now}); err != nil {
		return nil, err
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(userID, tenantID, role, email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, TenantID: tenantID, UserID: userID, Role: role}, nil
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(u.ID, u.TenantID, u.Role, u.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, TenantID: u.TenantID, UserID: u.ID, Role: u.Role}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
