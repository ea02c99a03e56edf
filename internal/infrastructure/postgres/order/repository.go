package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/nahoc/boundless-ws/pkg/postgresql"
)

var orderColumns = []string{
	"order_id", "chain", "customer_addr", "state", "min_price", "max_price",
	"bidding_start", "timeout", "lock_stake", "ramp_up_period",
	"img_id", "img_url", "input_type", "input_data",
	"predicate_type", "predicate_data", "timestamp",
	"created_at", "request_digest", "source",
}

// Repository is the repository for the order.
type Repository struct {
	client postgresql.PostgreSQLClient
}

// NewRepository creates a new repository.
func NewRepository(client postgresql.PostgreSQLClient) *Repository {
	return &Repository{
		client: client,
	}
}

// UpsertBatch stores a batch of orders in one statement, keyed on order_id.
// Re-announced orders overwrite every non-key column of the existing row.
func (r *Repository) UpsertBatch(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(orders))
	args := make([]any, 0, len(orders)*len(orderColumns))

	for i, order := range orders {
		row := make([]string, len(orderColumns))
		for j := range row {
			row[j] = fmt.Sprintf("$%d", i*len(orderColumns)+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(row, ", ")+")")

		args = append(args,
			order.OrderID, order.Chain, order.CustomerAddr, order.State,
			order.MinPrice, order.MaxPrice, order.BiddingStart, order.Timeout,
			order.LockStake, order.RampUpPeriod, order.ImgID, order.ImgURL,
			order.InputType, order.InputData, order.PredicateType, order.PredicateData,
			order.Timestamp, order.CreatedAt, order.RequestDigest, order.Source)
	}

	updates := make([]string, 0, len(orderColumns)-1)
	for _, column := range orderColumns[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}

	query := fmt.Sprintf(`INSERT INTO orders (%s) VALUES %s
			  ON CONFLICT (order_id) DO UPDATE SET %s`,
		strings.Join(orderColumns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "))

	if err := r.client.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert orders batch: %w", err)
	}

	return nil
}

// GetByID gets an order by ID.
func (r *Repository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE order_id = $1`,
		strings.Join(orderColumns, ", "))

	order := &Order{}
	err := r.client.QueryRow(ctx, query, orderID).Scan(
		&order.OrderID, &order.Chain, &order.CustomerAddr, &order.State,
		&order.MinPrice, &order.MaxPrice, &order.BiddingStart, &order.Timeout,
		&order.LockStake, &order.RampUpPeriod, &order.ImgID, &order.ImgURL,
		&order.InputType, &order.InputData, &order.PredicateType, &order.PredicateData,
		&order.Timestamp, &order.CreatedAt, &order.RequestDigest, &order.Source)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}
