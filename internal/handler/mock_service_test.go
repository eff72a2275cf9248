package handler

import (
	"context"

	"brewbox/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockMachineService is a mock implementation of MachineService.
type MockMachineService struct {
	mock.Mock
}

func (m *MockMachineService) SelectProduct(ctx context.Context, product string) (*model.Order, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockMachineService) SelectSize(ctx context.Context, size string) (*model.Order, error) {
	args := m.Called(ctx, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockMachineService) ChooseAddOn(ctx context.Context, sticker bool) (*model.Order, error) {
	args := m.Called(ctx, sticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockMachineService) SubmitTender(ctx context.Context, batch model.CoinTender) (model.PaymentStatus, error) {
	args := m.Called(ctx, batch)
	return args.Get(0).(model.PaymentStatus), args.Error(1)
}

func (m *MockMachineService) SubmitAddOnRequest(ctx context.Context, count int64) (*model.Receipt, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockMachineService) Cancel(ctx context.Context) (model.Cents, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Cents), args.Error(1)
}

func (m *MockMachineService) CurrentOrder() (*model.Order, bool) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*model.Order), args.Bool(1)
}

func (m *MockMachineService) PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.Receipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockMachineService) ListProducts(ctx context.Context) []model.MenuEntry {
	args := m.Called(ctx)
	return args.Get(0).([]model.MenuEntry)
}

func (m *MockMachineService) CheckAvailability(ctx context.Context, product, size string) (*model.Availability, error) {
	args := m.Called(ctx, product, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Availability), args.Error(1)
}

func (m *MockMachineService) Refill(ctx context.Context, kind model.ResourceKind, amount int64) (int64, error) {
	args := m.Called(ctx, kind, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMachineService) MaintenanceStatus(ctx context.Context) model.MaintenanceStatus {
	args := m.Called(ctx)
	return args.Get(0).(model.MaintenanceStatus)
}

func (m *MockMachineService) InventoryReport(ctx context.Context) model.InventoryReport {
	args := m.Called(ctx)
	return args.Get(0).(model.InventoryReport)
}

func (m *MockMachineService) GetReceipt(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockMachineService) ListReceipts(ctx context.Context, limit, offset int) ([]model.Receipt, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Receipt), args.Error(1)
}

func (m *MockMachineService) StickerPrice() model.Cents {
	args := m.Called()
	return args.Get(0).(model.Cents)
}

func (m *MockMachineService) MaxSugarPackets() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}
