package services

import (
	"strings"
	"time"

	"github.com/vendorguard/vendorguard/internal/models"
)

type SupplierStore interface {
	InsertSupplier(sup *models.Supplier) error
	GetSupplier(id string) (*models.Supplier, error)
	GetSupplierByUser(userID string) (*models.Supplier, error)
	ListSuppliersByTenant(tenantID string) ([]*models.Supplier, error)
	BindSupplierUser(supplierID, userID string) error
	InsertInvitation(inv *models.Invitation) error
	GetInvitationByToken(token string) (*models.Invitation, error)
	MarkInvitationAccepted(id string, at time.Time) error
	AddAudit(e AuditEntry)
}

// SupplierService manages the vendor/supplier relationship: inviting
// suppliers, onboarding their users and reading the rolling risk
// profile. Profile score fields are written only by the submission
// lifecycle, never here.
type SupplierService struct {
	store SupplierStore
	now   func() time.Time
	idGen func(n int) string
}

func NewSupplierService(store SupplierStore) *SupplierService {
	return &SupplierService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: shortID,
	}
}

type InviteSupplierRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type InviteSupplierResult struct {
	Supplier   *models.Supplier   `json:"supplier"`
	Invitation *models.Invitation `json:"invitation"`
}

// Invite creates the supplier record under the vendor's tenant plus a
// single-use onboarding token.
func (s *SupplierService) Invite(actor Actor, req InviteSupplierRequest) (*InviteSupplierResult, error) {
	if err := requireVendor(actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return nil, NewInvalidError("name and email required")
	}
	now := s.now()
	sup := &models.Supplier{
		ID:           s.idGen(8),
		TenantID:     actor.TenantID,
		Name:         name,
		ContactEmail: email,
		CreatedAt:    now,
	}
	if err := s.store.InsertSupplier(sup); err != nil {
		return nil, err
	}
	inv := &models.Invitation{
		ID:         s.idGen(8),
		TenantID:   actor.TenantID,
		SupplierID: sup.ID,
		Email:      email,
		Token:      s.idGen(24),
		CreatedAt:  now,
	}
	if err := s.store.InsertInvitation(inv); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: now, Actor: actor.UserID, Action: "supplier.invite", Target: sup.ID, Note: email})
	return &InviteSupplierResult{Supplier: sup, Invitation: inv}, nil
}

// AcceptInvitation binds the calling user to the invited supplier.
// The token is single-use; a supplier already bound to a user cannot
// be rebound.
func (s *SupplierService) AcceptInvitation(actor Actor, token string) (*models.Supplier, error) {
	if strings.TrimSpace(token) == "" {
		return nil, NewInvalidError("token required")
	}
	inv, err := s.store.GetInvitationByToken(token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, NewNotFoundError("invitation not found")
	}
	if inv.AcceptedAt != nil {
		return nil, NewConflictError("invitation already accepted")
	}
	sup, err := s.store.GetSupplier(inv.SupplierID)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, NewNotFoundError("supplier not found")
	}
	if sup.UserID != "" {
		return nil, NewConflictError("supplier already onboarded")
	}
	if err := s.store.BindSupplierUser(sup.ID, actor.UserID); err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.store.MarkInvitationAccepted(inv.ID, now); err != nil {
		return nil, err
	}
	sup.UserID = actor.UserID
	s.store.AddAudit(AuditEntry{Time: now, Actor: actor.UserID, Action: "supplier.onboard", Target: sup.ID})
	return sup, nil
}

// List returns the tenant's suppliers with their rolling profiles.
func (s *SupplierService) List(actor Actor) ([]*models.Supplier, error) {
	if err := requireVendor(actor); err != nil {
		return nil, err
	}
	return s.store.ListSuppliersByTenant(actor.TenantID)
}

// Get returns one supplier after an ownership check: vendors see their
// tenant's suppliers, supplier users see themselves.
func (s *SupplierService) Get(actor Actor, id string) (*models.Supplier, error) {
	sup, err := s.store.GetSupplier(id)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, NewNotFoundError("supplier not found")
	}
	switch {
	case actor.Role == RoleAdmin:
	case actor.Role == RoleVendor && actor.TenantID == sup.TenantID:
	case actor.Role == RoleSupplier && actor.UserID == sup.UserID:
	default:
		return nil, NewForbiddenError("forbidden")
	}
	return sup, nil
}
