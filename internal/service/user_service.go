package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"autoparts-backoffice/internal/model"
)

type UserRepository interface {
	Save(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, userID string) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	FindByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	SetApproval(ctx context.Context, userID, approvedBy string, approvedAt time.Time) error
	ClearApproval(ctx context.Context, userID string) error
	SetRole(ctx context.Context, userID string, role model.Role) error
}

type UserService struct {
	repo   UserRepository
	events EventPublisher
	log    *zap.SugaredLogger
}

func NewUserService(r UserRepository, events EventPublisher, log *zap.SugaredLogger) *UserService {
	return &UserService{repo: r, events: events, log: log}
}

// Approve marca al distribuidor como aprobado y estampa la auditoría con
// la identidad del admin que ejecuta. Si esa identidad no se pudo
// resolver, falla antes de tocar el repositorio.
func (s *UserService) Approve(ctx context.Context, session model.Session, userID string) (*model.User, error) {
	if session.UserID == "" {
		return nil, ErrMissingActingAdmin
	}
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role != model.RoleDistributor {
		return nil, ErrNotDistributor
	}

	now := time.Now().UTC()
	if err := s.repo.SetApproval(ctx, userID, session.UserID, now); err != nil {
		return nil, err
	}

	if u.DistributorInfo == nil {
		u.DistributorInfo = &model.DistributorInfo{}
	}
	adminID := session.UserID
	u.DistributorInfo.IsApproved = true
	u.DistributorInfo.ApprovedAt = &now
	u.DistributorInfo.ApprovedBy = &adminID
	u.UpdatedAt = now

	s.publish(ctx, DistributorApprovalEvent{
		UserID:     userID,
		IsApproved: true,
		ApprovedBy: &adminID,
		ApprovedAt: &now,
		Timestamp:  now,
	})

	return u, nil
}

// Revoke quita la aprobación. ApprovedAt y ApprovedBy quedan ausentes,
// nunca con los valores anteriores.
func (s *UserService) Revoke(ctx context.Context, session model.Session, userID string) (*model.User, error) {
	if session.UserID == "" {
		return nil, ErrMissingActingAdmin
	}
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role != model.RoleDistributor {
		return nil, ErrNotDistributor
	}
	if u.DistributorInfo == nil || !u.DistributorInfo.IsApproved {
		return nil, ErrNotApproved
	}

	if err := s.repo.ClearApproval(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u.DistributorInfo.IsApproved = false
	u.DistributorInfo.ApprovedAt = nil
	u.DistributorInfo.ApprovedBy = nil
	u.UpdatedAt = now

	s.publish(ctx, DistributorApprovalEvent{
		UserID:     userID,
		IsApproved: false,
		Timestamp:  now,
	})

	return u, nil
}

// ChangeRole es la otra mutación que el panel hace vía PATCH de usuario.
func (s *UserService) ChangeRole(ctx context.Context, session model.Session, userID string, role model.Role) (*model.User, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == role {
		return u, nil
	}

	if err := s.repo.SetRole(ctx, userID, role); err != nil {
		return nil, err
	}
	u.Role = role
	return u, nil
}

func (s *UserService) List(ctx context.Context, role *model.Role) ([]*model.User, error) {
	if role != nil {
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		return s.repo.FindByRole(ctx, *role)
	}
	return s.repo.FindAll(ctx)
}

func (s *UserService) publish(ctx context.Context, event DistributorApprovalEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, EventDistributorApprovalChange, event); err != nil {
		s.log.Errorw("error publicando evento", "routing_key", EventDistributorApprovalChange, "err", err)
	}
}
