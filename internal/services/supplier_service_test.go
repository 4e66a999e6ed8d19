package services

import (
	"testing"
	"time"

	"github.com/vendorguard/vendorguard/internal/models"
)

type stubSupplierStore struct {
	suppliers   map[string]*models.Supplier
	invitations map[string]*models.Invitation
	audits      []AuditEntry
}

func newStubSupplierStore() *stubSupplierStore {
	return &stubSupplierStore{
		suppliers:   map[string]*models.Supplier{},
		invitations: map[string]*models.Invitation{},
	}
}

func (s *stubSupplierStore) InsertSupplier(sup *models.Supplier) error {
	copy := *sup
	s.suppliers[sup.ID] = &copy
	return nil
}

func (s *stubSupplierStore) GetSupplier(id string) (*models.Supplier, error) {
	if sup, ok := s.suppliers[id]; ok {
		copy := *sup
		return &copy, nil
	}
	return nil, nil
}

func (s *stubSupplierStore) GetSupplierByUser(userID string) (*models.Supplier, error) {
	for _, sup := range s.suppliers {
		if sup.UserID == userID {
			copy := *sup
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *stubSupplierStore) ListSuppliersByTenant(tenantID string) ([]*models.Supplier, error) {
	var out []*models.Supplier
	for _, sup := range s.suppliers {
		if sup.TenantID == tenantID {
			out = append(out, sup)
		}
	}
	return out, nil
}

func (s *stubSupplierStore) BindSupplierUser(supplierID, userID string) error {
	s.suppliers[supplierID].UserID = userID
	return nil
}

func (s *stubSupplierStore) InsertInvitation(inv *models.Invitation) error {
	copy := *inv
	s.invitations[inv.Token] = &copy
	return nil
}

func (s *stubSupplierStore) GetInvitationByToken(token string) (*models.Invitation, error) {
	if inv, ok := s.invitations[token]; ok {
		copy := *inv
		return &copy, nil
	}
	return nil, nil
}

func (s *stubSupplierStore) MarkInvitationAccepted(id string, at time.Time) error {
	for _, inv := range s.invitations {
		if inv.ID == id {
			inv.AcceptedAt = &at
		}
	}
	return nil
}

func (s *stubSupplierStore) AddAudit(e AuditEntry) { s.audits = append(s.audits, e) }

func TestInviteAndOnboardSupplier(t *testing.T) {
	store := newStubSupplierStore()
	svc := NewSupplierService(store)

	res, err := svc.Invite(vendorActor, InviteSupplierRequest{Name: "Acme Logistics", Email: "ops@acme.test"})
	if err != nil {
		t.Fatalf("Invite error: %v", err)
	}
	if res.Supplier.TenantID != "t1" || res.Invitation.Token == "" {
		t.Fatalf("invite result: %+v", res)
	}

	sup, err := svc.AcceptInvitation(Actor{UserID: "uS", Role: RoleSupplier}, res.Invitation.Token)
	if err != nil {
		t.Fatalf("AcceptInvitation error: %v", err)
	}
	if sup.UserID != "uS" {
		t.Fatalf("supplier not bound: %+v", sup)
	}

	_, err = svc.AcceptInvitation(Actor{UserID: "uOther", Role: RoleSupplier}, res.Invitation.Token)
	wantCode(t, err, ErrorConflict)

	_, err = svc.AcceptInvitation(Actor{UserID: "uS"}, "bogus")
	wantCode(t, err, ErrorNotFound)
}

func TestSupplierGetPermissions(t *testing.T) {
	store := newStubSupplierStore()
	store.suppliers["sup1"] = &models.Supplier{ID: "sup1", TenantID: "t1", UserID: "uS"}
	svc := NewSupplierService(store)

	if _, err := svc.Get(vendorActor, "sup1"); err != nil {
		t.Fatalf("owning vendor should read its supplier: %v", err)
	}
	if _, err := svc.Get(Actor{UserID: "uS", Role: RoleSupplier}, "sup1"); err != nil {
		t.Fatalf("bound supplier user should read itself: %v", err)
	}
	_, err := svc.Get(Actor{UserID: "v2", TenantID: "t2", Role: RoleVendor}, "sup1")
	wantCode(t, err, ErrorForbidden)

	_, err = svc.Get(vendorActor, "missing")
	wantCode(t, err, ErrorNotFound)

	_, err = svc.Invite(supplierActor, InviteSupplierRequest{Name: "x", Email: "y@z.test"})
	wantCode(t, err, ErrorForbidden)
}
