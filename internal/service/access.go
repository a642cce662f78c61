package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/repo"
)

// OpsAuthorizer answers the single permission question this subsystem has:
// may this caller manage Live Ops? Every manager operation asks it first.
type OpsAuthorizer interface {
	CanManageOps(ctx context.Context, user *domain.User) error
}

// AccessService implements the Live Ops permission model: a caller may
// manage ops when authenticated and either a superuser or the holder of an
// enabled credential. It also carries the superuser-only grant/revoke
// operations that maintain the credential table.
type AccessService struct {
	creds repo.CredentialRepo
}

// NewAccessService constructs an AccessService backed by the credential repo.
func NewAccessService(creds repo.CredentialRepo) *AccessService {
	return &AccessService{creds: creds}
}

// CanManageOps returns nil when the caller may manage Live Ops and
// domain.ErrPermissionDenied otherwise. user is nil for anonymous callers.
func (s *AccessService) CanManageOps(ctx context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("service.AccessService.CanManageOps: %w", domain.ErrPermissionDenied)
	}
	if user.IsSuperuser {
		return nil
	}
	ok, err := s.creds.HasEnabled(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("service.AccessService.CanManageOps: %w", err)
	}
	if !ok {
		return fmt.Errorf("service.AccessService.CanManageOps: %w", domain.ErrPermissionDenied)
	}
	return nil
}

// Grant gives userID an enabled Live Ops credential. Superuser only.
func (s *AccessService) Grant(ctx context.Context, admin *domain.User, userID uuid.UUID) (domain.Credential, error) {
	if admin == nil || !admin.IsSuperuser {
		return domain.Credential{}, fmt.Errorf("service.AccessService.Grant: %w", domain.ErrPermissionDenied)
	}
	adminID := admin.ID
	cred, err := s.creds.Upsert(ctx, userID, &adminID)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("service.AccessService.Grant: %w", err)
	}
	return cred, nil
}

// Revoke disables userID's credential. Superuser only.
// Returns domain.ErrNotFound if the user never held one.
func (s *AccessService) Revoke(ctx context.Context, admin *domain.User, userID uuid.UUID) (domain.Credential, error) {
	if admin == nil || !admin.IsSuperuser {
		return domain.Credential{}, fmt.Errorf("service.AccessService.Revoke: %w", domain.ErrPermissionDenied)
	}
	cred, err := s.creds.Disable(ctx, userID)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("service.AccessService.Revoke: %w", err)
	}
	return cred, nil
}

// requireLogin is the weaker check used by the hub, journal and todo
// operations: any authenticated user qualifies, no credential needed.
func requireLogin(user *domain.User) error {
	if user == nil {
		return fmt.Errorf("%w: login required", domain.ErrPermissionDenied)
	}
	return nil
}
