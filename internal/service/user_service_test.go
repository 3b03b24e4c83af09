package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"autoparts-backoffice/internal/model"
	"autoparts-backoffice/internal/repository"
	mock_service "autoparts-backoffice/internal/service/mocks"
)

func testDistributor(approved bool) *model.User {
	u := &model.User{
		ID:   "U1",
		Name: "Distribuidora Central",
		Role: model.RoleDistributor,
		DistributorInfo: &model.DistributorInfo{
			CompanyName: "Distribuidora Central SpA",
			CompanyRUT:  "77.888.999-0",
		},
	}
	if approved {
		at := time.Now().UTC().Add(-24 * time.Hour)
		by := "A0"
		u.DistributorInfo.IsApproved = true
		u.DistributorInfo.ApprovedAt = &at
		u.DistributorInfo.ApprovedBy = &by
	}
	return u
}

func TestApprove_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockUserRepository(ctrl)
	events := mock_service.NewMockEventPublisher(ctrl)
	svc := NewUserService(repo, events, zap.NewNop().Sugar())

	before := time.Now().UTC()

	repo.EXPECT().FindByID(gomock.Any(), "U1").Return(testDistributor(false), nil)

	var gotAt time.Time
	repo.EXPECT().
		SetApproval(gomock.Any(), "U1", "A1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, at time.Time) error {
			gotAt = at
			return nil
		})
	events.EXPECT().Publish(gomock.Any(), EventDistributorApprovalChange, gomock.Any()).Return(nil)

	u, err := svc.Approve(context.Background(), adminSession(), "U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info := u.DistributorInfo
	if !info.IsApproved {
		t.Fatal("expected isApproved=true")
	}
	if info.ApprovedBy == nil || *info.ApprovedBy != "A1" {
		t.Fatalf("expected approvedBy=A1, got %v", info.ApprovedBy)
	}
	if info.ApprovedAt == nil || info.ApprovedAt.Before(before) {
		t.Fatalf("approvedAt %v not stamped at call time", info.ApprovedAt)
	}
	if gotAt.Before(before) {
		t.Fatalf("persisted approvedAt %v before call time", gotAt)
	}
}

func TestApprove_MissingActingAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockUserRepository(ctrl)
	svc := NewUserService(repo, nil, zap.NewNop().Sugar())

	// identidad sin resolver: no debe llegar ninguna llamada al repo
	session := model.Session{UserID: "", Role: model.RoleAdmin}
	_, err := svc.Approve(context.Background(), session, "U1")
	if !errors.Is(err, ErrMissingActingAdmin) {
		t.Fatalf("expected ErrMissingActingAdmin, got %v", err)
	}
}

func TestApprove_NonAdminForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockUserRepository(ctrl)
	svc := NewUserService(repo, nil, zap.NewNop().Sugar())

	session := model.Session{UserID: "U9", Role: model.RoleClient}
	_, err := svc.Approve(context.Background(), session, "U1")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestApprove_TargetNotDistributor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockUserRepository(ctrl)
	svc := NewUserService(repo, nil, zap.NewNop().Sugar())

	repo.EXPECT().FindByID(gomock.Any(), "U2").Return(&model.User{ID: "U2", Role: model.RoleClient}, nil)

	_, err := svc.Approve(context.Background(), adminSession(), "U2")
	if !errors.Is(err, ErrNotDistributor) {
		t.Fatalf("expected ErrNotDistributor, got %v", err)
	}
}

func TestApprove_TargetNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockUserRepository(ctrl)
	svc := NewUserService(repo, nil, zap.NewNop().Sugar())

	repo.EXPECT().FindByID(gomock.Any(), "NOPE").Return(nil, repository.ErrNotFound)

	_, err := svc.Approve(context.Background(), adminSession(), "NOPE")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRevoke_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockUserRepository(ctrl)
	events := mock_service.NewMockEventPublisher(ctrl)
	svc := NewUserService(repo, events, zap.NewNop().Sugar())

	repo.EXPECT().FindByID(gomock.Any(), "U1").Return(testDistributor(true), nil)
	repo.EXPECT().ClearApproval(gomock.Any(), "U1").Return(nil)
	events.EXPECT().Publish(gomock.Any(), EventDistributorApprovalChange, gomock.Any()).Return(nil)

	u, err := svc.Revoke(context.Background(), adminSession(), "U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info := u.DistributorInfo
	if info.IsApproved {
		t.Fatal("expected isApproved=false")
	}
	// la auditoría se limpia, no queda con valores viejos
	if info.ApprovedAt != nil || info.ApprovedBy != nil {
		t.Fatalf("audit fields not cleared: at=%v by=%v", info.ApprovedAt, info.ApprovedBy)
	}
}

func TestRevoke_NotApproved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockUserRepository(ctrl)
	svc := NewUserService(repo, nil, zap.NewNop().Sugar())

	repo.EXPECT().FindByID(gomock.Any(), "U1").Return(testDistributor(false), nil)

	_, err := svc.Revoke(context.Background(), adminSession(), "U1")
	if !errors.Is(err, ErrNotApproved) {
		t.Fatalf("expected ErrNotApproved, got %v", err)
	}
}

func TestRevoke_TargetNotDistributor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockUserRepository(ctrl)
	svc := NewUserService(repo, nil, zap.NewNop().Sugar())

	repo.EXPECT().FindByID(gomock.Any(), "U2").Return(&model.User{ID: "U2", Role: model.RoleAdmin}, nil)

	_, err := svc.Revoke(context.Background(), adminSession(), "U2")
	if !errors.Is(err, ErrNotDistributor) {
		t.Fatalf("expected ErrNotDistributor, got %v", err)
	}
}

func TestChangeRole(t *testing.T) {
	t.Run("invalid role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_service.NewMockUserRepository(ctrl)
		svc := NewUserService(repo, nil, zap.NewNop().Sugar())

		_, err := svc.ChangeRole(context.Background(), adminSession(), "U1", "superuser")
		if !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("expected ErrInvalidRole, got %v", err)
		}
	})

	t.Run("same role is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_service.NewMockUserRepository(ctrl)
		svc := NewUserService(repo, nil, zap.NewNop().Sugar())

		repo.EXPECT().FindByID(gomock.Any(), "U1").Return(testDistributor(false), nil)

		u, err := svc.ChangeRole(context.Background(), adminSession(), "U1", model.RoleDistributor)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.Role != model.RoleDistributor {
			t.Fatalf("unexpected role %s", u.Role)
		}
	})

	t.Run("changes role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_service.NewMockUserRepository(ctrl)
		svc := NewUserService(repo, nil, zap.NewNop().Sugar())

		repo.EXPECT().FindByID(gomock.Any(), "U1").Return(&model.User{ID: "U1", Role: model.RoleClient}, nil)
		repo.EXPECT().SetRole(gomock.Any(), "U1", model.RoleDistributor).Return(nil)

		u, err := svc.ChangeRole(context.Background(), adminSession(), "U1", model.RoleDistributor)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.Role != model.RoleDistributor {
			t.Fatalf("role not updated: %s", u.Role)
		}
	})
}
