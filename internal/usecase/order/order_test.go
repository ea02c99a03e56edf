package order

import (
	"context"
	"errors"
	"testing"

	orderInfra "github.com/nahoc/boundless-ws/internal/infrastructure/postgres/order"
	repoMock "github.com/nahoc/boundless-ws/internal/infrastructure/postgres/order/mock"
	loggerMock "github.com/nahoc/boundless-ws/pkg/logger/mock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestUsecase_GetOrder(t *testing.T) {
	type testCase struct {
		name     string
		orderID  string
		mockFn   func(repo *repoMock.MockOrderRepository)
		assertFn func(t *testing.T, order *orderInfra.Order, err error)
	}

	tests := []testCase{
		{
			name:    "returns the order from the repository",
			orderID: "42",
			mockFn: func(repo *repoMock.MockOrderRepository) {
				repo.EXPECT().
					GetByID(gomock.Any(), "42").
					Return(&orderInfra.Order{OrderID: "42", State: orderInfra.StateSubmitted}, nil)
			},
			assertFn: func(t *testing.T, order *orderInfra.Order, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "42", order.OrderID)
			},
		},
		{
			name:    "missing order passes through as nil",
			orderID: "404",
			mockFn: func(repo *repoMock.MockOrderRepository) {
				repo.EXPECT().GetByID(gomock.Any(), "404").Return(nil, nil)
			},
			assertFn: func(t *testing.T, order *orderInfra.Order, err error) {
				assert.NoError(t, err)
				assert.Nil(t, order)
			},
		},
		{
			name:    "traces repository errors",
			orderID: "42",
			mockFn: func(repo *repoMock.MockOrderRepository) {
				repo.EXPECT().GetByID(gomock.Any(), "42").Return(nil, errors.New("broken pipe"))
			},
			assertFn: func(t *testing.T, order *orderInfra.Order, err error) {
				assert.ErrorContains(t, err, "broken pipe")
				assert.Nil(t, order)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repoMock.NewMockOrderRepository(ctrl)
			tc.mockFn(repo)

			usecase := NewUsecase(repo, loggerMock.NewMockInterface(ctrl))
			order, err := usecase.GetOrder(context.Background(), tc.orderID)
			tc.assertFn(t, order, err)
		})
	}
}

func TestUsecase_StoreOrders(t *testing.T) {
	type testCase struct {
		name     string
		orders   []*orderInfra.Order
		mockFn   func(repo *repoMock.MockOrderRepository)
		assertFn func(t *testing.T, err error)
	}

	tests := []testCase{
		{
			name:   "upserts the batch",
			orders: []*orderInfra.Order{{OrderID: "1"}, {OrderID: "2"}},
			mockFn: func(repo *repoMock.MockOrderRepository) {
				repo.EXPECT().
					UpsertBatch(gomock.Any(), gomock.Len(2)).
					Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "traces repository errors",
			orders: []*orderInfra.Order{{OrderID: "1"}},
			mockFn: func(repo *repoMock.MockOrderRepository) {
				repo.EXPECT().
					UpsertBatch(gomock.Any(), gomock.Any()).
					Return(errors.New("connection refused"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "connection refused")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repoMock.NewMockOrderRepository(ctrl)
			tc.mockFn(repo)

			usecase := NewUsecase(repo, loggerMock.NewMockInterface(ctrl))
			err := usecase.StoreOrders(context.Background(), tc.orders)
			tc.assertFn(t, err)
		})
	}
}
