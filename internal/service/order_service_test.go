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

func adminSession() model.Session {
	return model.Session{UserID: "A1", Role: model.RoleAdmin}
}

func testOrder(status model.OrderStatus) *model.Order {
	return &model.Order{
		OrderID:       "ORD123",
		UserID:        "U1",
		Status:        status,
		Items:         []model.OrderItem{{ProductID: "P1", DistributorID: "D1", Quantity: 2, UnitPrice: 10}},
		ItemsPrice:    20,
		TaxPrice:      3.8,
		ShippingPrice: 5,
		TotalPrice:    28.8,
		History: []model.StatusRecord{
			{Status: status, ActorID: "U1", Current: true},
		},
	}
}

func TestChangeStatus_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockOrderRepository(ctrl)
	events := mock_service.NewMockEventPublisher(ctrl)
	svc := NewOrderStatusService(repo, events, zap.NewNop().Sugar())

	ord := testOrder(model.StatusPending)
	repo.EXPECT().FindByOrderID(gomock.Any(), "ORD123").Return(ord, nil)

	var gotRecord model.StatusRecord
	repo.EXPECT().
		UpdateStatus(gomock.Any(), "ORD123", model.StatusProcessing, gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, _ model.OrderStatus, record model.StatusRecord, _ *time.Time) error {
			gotRecord = record
			return nil
		})
	events.EXPECT().Publish(gomock.Any(), EventOrderStatusChanged, gomock.Any()).Return(nil)

	updated, err := svc.ChangeStatus(context.Background(), adminSession(), "ORD123", model.StatusProcessing, "stock confirmado")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != model.StatusProcessing {
		t.Fatalf("expected processing, got %s", updated.Status)
	}
	if gotRecord.ActorID != "A1" || gotRecord.Reason != "stock confirmado" || !gotRecord.Current {
		t.Fatalf("unexpected history record %+v", gotRecord)
	}
	// solo el estado y el historial cambian, el resto queda igual
	if updated.TotalPrice != 28.8 || updated.UserID != "U1" || updated.IsPaid {
		t.Fatalf("unrelated fields mutated: %+v", updated)
	}
	last := updated.History[len(updated.History)-1]
	if !last.Current || last.Status != model.StatusProcessing {
		t.Fatalf("history current marker not moved: %+v", updated.History)
	}
	for _, h := range updated.History[:len(updated.History)-1] {
		if h.Current {
			t.Fatalf("stale current marker in history: %+v", updated.History)
		}
	}
}

func TestChangeStatus_InvalidStatusRejectedBeforeRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockOrderRepository(ctrl)
	svc := NewOrderStatusService(repo, nil, zap.NewNop().Sugar())

	// ninguna expectativa sobre el repo: no debe llegar ninguna llamada
	_, err := svc.ChangeStatus(context.Background(), adminSession(), "ORD123", "paid", "")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestChangeStatus_NonAdminForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockOrderRepository(ctrl)
	svc := NewOrderStatusService(repo, nil, zap.NewNop().Sugar())

	session := model.Session{UserID: "U1", Role: model.RoleClient}
	_, err := svc.ChangeStatus(context.Background(), session, "ORD123", model.StatusShipped, "")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestChangeStatus_SameStatusIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockOrderRepository(ctrl)
	events := mock_service.NewMockEventPublisher(ctrl)
	svc := NewOrderStatusService(repo, events, zap.NewNop().Sugar())

	ord := testOrder(model.StatusShipped)
	repo.EXPECT().FindByOrderID(gomock.Any(), "ORD123").Return(ord, nil)
	// sin UpdateStatus ni Publish

	got, err := svc.ChangeStatus(context.Background(), adminSession(), "ORD123", model.StatusShipped, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.StatusShipped || len(got.History) != 1 {
		t.Fatalf("no-op mutated the order: %+v", got)
	}
}

func TestChangeStatus_DeliveredSetsDeliveryFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockOrderRepository(ctrl)
	events := mock_service.NewMockEventPublisher(ctrl)
	svc := NewOrderStatusService(repo, events, zap.NewNop().Sugar())

	before := time.Now().UTC()

	repo.EXPECT().FindByOrderID(gomock.Any(), "ORD123").Return(testOrder(model.StatusReadyForPickup), nil)
	repo.EXPECT().
		UpdateStatus(gomock.Any(), "ORD123", model.StatusDelivered, gomock.Any(), gomock.Not(gomock.Nil())).
		Return(nil)
	events.EXPECT().Publish(gomock.Any(), EventOrderStatusChanged, gomock.Any()).Return(nil)

	updated, err := svc.ChangeStatus(context.Background(), adminSession(), "ORD123", model.StatusDelivered, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.IsDelivered || updated.DeliveredAt == nil {
		t.Fatalf("delivery fields not set: %+v", updated)
	}
	if updated.DeliveredAt.Before(before) {
		t.Fatalf("deliveredAt %v is before call time %v", updated.DeliveredAt, before)
	}
}

func TestChangeStatus_OrderNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockOrderRepository(ctrl)
	svc := NewOrderStatusService(repo, nil, zap.NewNop().Sugar())

	repo.EXPECT().FindByOrderID(gomock.Any(), "NOPE").Return(nil, repository.ErrNotFound)

	_, err := svc.ChangeStatus(context.Background(), adminSession(), "NOPE", model.StatusShipped, "")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestChangeStatus_PublishFailureDoesNotFailMutation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockOrderRepository(ctrl)
	events := mock_service.NewMockEventPublisher(ctrl)
	svc := NewOrderStatusService(repo, events, zap.NewNop().Sugar())

	repo.EXPECT().FindByOrderID(gomock.Any(), "ORD123").Return(testOrder(model.StatusPending), nil)
	repo.EXPECT().UpdateStatus(gomock.Any(), "ORD123", model.StatusCancelled, gomock.Any(), gomock.Nil()).Return(nil)
	events.EXPECT().Publish(gomock.Any(), EventOrderStatusChanged, gomock.Any()).Return(errors.New("rabbit caído"))

	updated, err := svc.ChangeStatus(context.Background(), adminSession(), "ORD123", model.StatusCancelled, "cliente arrepentido")
	if err != nil {
		t.Fatalf("mutation should survive a publish failure, got %v", err)
	}
	if updated.Status != model.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
}

func TestSeedOrder_ForcesPendingAndValidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockOrderRepository(ctrl)
	svc := NewOrderStatusService(repo, nil, zap.NewNop().Sugar())

	repo.EXPECT().FindByOrderID(gomock.Any(), "ORD200").Return(nil, repository.ErrNotFound)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	ord := testOrder(model.StatusShipped)
	ord.OrderID = "ORD200"
	got, err := svc.SeedOrder(context.Background(), ord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.StatusPending {
		t.Fatalf("seed must force pending, got %s", got.Status)
	}
}

func TestSeedOrder_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_service.NewMockOrderRepository(ctrl)
	svc := NewOrderStatusService(repo, nil, zap.NewNop().Sugar())

	repo.EXPECT().FindByOrderID(gomock.Any(), "ORD123").Return(testOrder(model.StatusPending), nil)

	_, err := svc.SeedOrder(context.Background(), testOrder(model.StatusPending))
	if !errors.Is(err, ErrOrderAlreadyExists) {
		t.Fatalf("expected ErrOrderAlreadyExists, got %v", err)
	}
}

func TestSeedOrder_RejectsBrokenOrders(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(o *model.Order)
		wantErr error
	}{
		{"zero quantity", func(o *model.Order) { o.Items[0].Quantity = 0 }, ErrInvalidItem},
		{"negative unit price", func(o *model.Order) { o.Items[0].UnitPrice = -1 }, ErrInvalidItem},
		{"negative tax", func(o *model.Order) { o.TaxPrice = -0.1 }, ErrInvalidTotals},
		{"totals mismatch", func(o *model.Order) { o.TotalPrice = 99 }, ErrInvalidTotals},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_service.NewMockOrderRepository(ctrl)
			svc := NewOrderStatusService(repo, nil, zap.NewNop().Sugar())

			repo.EXPECT().FindByOrderID(gomock.Any(), "ORD123").Return(nil, repository.ErrNotFound)

			ord := testOrder(model.StatusPending)
			tc.mutate(ord)
			if _, err := svc.SeedOrder(context.Background(), ord); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
