package order

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/nahoc/boundless-ws/pkg/postgresql/mock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type rowStub struct {
	scan func(dest ...any) error
}

func (r rowStub) Scan(dest ...any) error {
	return r.scan(dest...)
}

func sampleOrder(orderID string) *Order {
	return &Order{
		OrderID:       orderID,
		Chain:         "sepolia",
		CustomerAddr:  "0x0000000000000000000000000000000000000001",
		State:         StateSubmitted,
		MinPrice:      "1000",
		MaxPrice:      "2000000",
		BiddingStart:  "1700000000",
		Timeout:       "3600",
		LockStake:     "500000",
		RampUpPeriod:  "60",
		ImgID:         "0x53cb4210cf2f5bf059f3f59f679c09a6e24da1a3a168e7f1f5949cf0aa01ba92",
		ImgURL:        "https://images.example/guest.bin",
		InputType:     "0",
		InputData:     "0xdeadbeef",
		PredicateType: "0",
		PredicateData: "0x1234",
		Timestamp:     "2025-05-01T12:00:00Z",
		CreatedAt:     "2025-05-01T12:00:00Z",
		RequestDigest: strings.Repeat("ab", 32),
		Source:        SourceOffchain,
	}
}

func TestRepository_UpsertBatch(t *testing.T) {
	type testCase struct {
		name     string
		orders   []*Order
		mockFn   func(client *mock.MockPostgreSQLClient, captured *capturedExec)
		assertFn func(t *testing.T, err error, captured *capturedExec)
	}

	tests := []testCase{
		{
			name:   "upserts a multi-row batch in one statement",
			orders: []*Order{sampleOrder("1"), sampleOrder("2")},
			mockFn: func(client *mock.MockPostgreSQLClient, captured *capturedExec) {
				client.EXPECT().
					Exec(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, sql string, args ...any) error {
						captured.sql = sql
						captured.args = args
						return nil
					})
			},
			assertFn: func(t *testing.T, err error, captured *capturedExec) {
				assert.NoError(t, err)
				assert.Contains(t, captured.sql, "INSERT INTO orders (order_id, chain, customer_addr")
				assert.Contains(t, captured.sql, "($1, $2,")
				assert.Contains(t, captured.sql, "($21, $22,")
				assert.Contains(t, captured.sql, "ON CONFLICT (order_id) DO UPDATE SET")
				assert.Contains(t, captured.sql, "chain = EXCLUDED.chain")
				assert.NotContains(t, captured.sql, "order_id = EXCLUDED.order_id")
				assert.Len(t, captured.args, 40)
				assert.Equal(t, "1", captured.args[0])
				assert.Equal(t, "2", captured.args[20])
				assert.Equal(t, SourceOffchain, captured.args[19])
			},
		},
		{
			name:   "empty batch does not touch the database",
			orders: nil,
			mockFn: func(client *mock.MockPostgreSQLClient, captured *capturedExec) {},
			assertFn: func(t *testing.T, err error, captured *capturedExec) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "wraps execution errors",
			orders: []*Order{sampleOrder("1")},
			mockFn: func(client *mock.MockPostgreSQLClient, captured *capturedExec) {
				client.EXPECT().
					Exec(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("connection refused"))
			},
			assertFn: func(t *testing.T, err error, captured *capturedExec) {
				assert.ErrorContains(t, err, "failed to upsert orders batch")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mock.NewMockPostgreSQLClient(ctrl)
			captured := &capturedExec{}
			tc.mockFn(client, captured)

			repository := NewRepository(client)
			err := repository.UpsertBatch(context.Background(), tc.orders)
			tc.assertFn(t, err, captured)
		})
	}
}

type capturedExec struct {
	sql  string
	args []any
}

func TestRepository_GetByID(t *testing.T) {
	type testCase struct {
		name     string
		orderID  string
		mockFn   func(client *mock.MockPostgreSQLClient)
		assertFn func(t *testing.T, order *Order, err error)
	}

	tests := []testCase{
		{
			name:    "returns the stored order",
			orderID: "42",
			mockFn: func(client *mock.MockPostgreSQLClient) {
				client.EXPECT().
					QueryRow(gomock.Any(), gomock.Any(), "42").
					Return(rowStub{scan: func(dest ...any) error {
						*dest[0].(*string) = "42"
						*dest[1].(*string) = "sepolia"
						*dest[3].(*string) = StateSubmitted
						return nil
					}})
			},
			assertFn: func(t *testing.T, order *Order, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "42", order.OrderID)
				assert.Equal(t, "sepolia", order.Chain)
				assert.Equal(t, StateSubmitted, order.State)
			},
		},
		{
			name:    "missing order is not an error",
			orderID: "404",
			mockFn: func(client *mock.MockPostgreSQLClient) {
				client.EXPECT().
					QueryRow(gomock.Any(), gomock.Any(), "404").
					Return(rowStub{scan: func(dest ...any) error {
						return pgx.ErrNoRows
					}})
			},
			assertFn: func(t *testing.T, order *Order, err error) {
				assert.NoError(t, err)
				assert.Nil(t, order)
			},
		},
		{
			name:    "wraps scan errors",
			orderID: "42",
			mockFn: func(client *mock.MockPostgreSQLClient) {
				client.EXPECT().
					QueryRow(gomock.Any(), gomock.Any(), "42").
					Return(rowStub{scan: func(dest ...any) error {
						return errors.New("broken pipe")
					}})
			},
			assertFn: func(t *testing.T, order *Order, err error) {
				assert.ErrorContains(t, err, "failed to get order")
				assert.Nil(t, order)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mock.NewMockPostgreSQLClient(ctrl)
			tc.mockFn(client)

			repository := NewRepository(client)
			order, err := repository.GetByID(context.Background(), tc.orderID)
			tc.assertFn(t, order, err)
		})
	}
}
