package ingest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	orderDomain "github.com/nahoc/boundless-ws/internal/domain/order"
	v1 "github.com/nahoc/boundless-ws/internal/domain/order/v1"
	"github.com/nahoc/boundless-ws/internal/digest"
	orderInfra "github.com/nahoc/boundless-ws/internal/infrastructure/postgres/order"
	"github.com/nahoc/boundless-ws/internal/notifier"
	"github.com/nahoc/boundless-ws/pkg/config"
	"github.com/nahoc/boundless-ws/pkg/logger"
)

// Processor drains the ingestion queue in fixed-size batches and persists
// each batch with one idempotent upsert. At most one drain pass is active at
// a time; a pass that leaves work behind reschedules itself.
type Processor struct {
	queue        *Queue
	orderUsecase orderDomain.Usecase
	notifier     notifier.Notifier
	logger       logger.Interface

	chain        string
	digestDomain digest.Domain
	batchSize    int
	maxQueueSize int

	processing atomic.Bool
}

// NewProcessor creates a new Processor.
func NewProcessor(
	streamConfig config.StreamConfig,
	marketConfig config.MarketConfig,
	orderUsecase orderDomain.Usecase,
	notifier notifier.Notifier,
	logger logger.Interface,
) *Processor {
	return &Processor{
		queue:        NewQueue(),
		orderUsecase: orderUsecase,
		notifier:     notifier,
		logger:       logger,
		chain:        marketConfig.Chain,
		digestDomain: digest.Domain{
			ChainID:         marketConfig.ChainID,
			ContractAddress: marketConfig.ContractAddress,
		},
		batchSize:    streamConfig.BatchSize,
		maxQueueSize: streamConfig.MaxQueueSize,
	}
}

// Enqueue appends a raw frame to the queue and triggers a drain pass.
func (p *Processor) Enqueue(ctx context.Context, envelope *v1.StreamEnvelope) {
	p.queue.Push(&Entry{Envelope: envelope, ReceivedAt: time.Now()})
	p.Process(ctx)
}

// QueueLen returns the number of entries awaiting processing.
func (p *Processor) QueueLen() int {
	return p.queue.Len()
}

// Clear drops every queued entry.
func (p *Processor) Clear() {
	p.queue.Clear()
}

// Process starts a drain pass unless one is already active. The pass runs on
// its own goroutine so the stream reader is never blocked on persistence.
func (p *Processor) Process(ctx context.Context) {
	if p.queue.Len() == 0 {
		return
	}
	if !p.processing.CompareAndSwap(false, true) {
		return
	}

	go func() {
		p.processBatch(ctx)
		p.processing.Store(false)

		if p.queue.Len() > 0 {
			p.Process(ctx)
		}
	}()
}

func (p *Processor) processBatch(ctx context.Context) {
	if dropped := p.queue.Truncate(p.maxQueueSize); dropped > 0 {
		p.logger.WarnContext(ctx, "order queue reached limit, dropping older orders", logger.Field{
			Key:   "dropped",
			Value: dropped,
		})
	}

	batch := p.queue.Splice(p.batchSize)
	if len(batch) == 0 {
		return
	}

	orders := make([]*orderInfra.Order, 0, len(batch))
	seen := make(map[string]int, len(batch))

	for _, entry := range batch {
		row, err := p.buildRow(entry)
		if err != nil {
			p.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "build_order_row",
			})
			continue
		}

		// A re-announcement inside the same batch replaces the earlier row;
		// one upsert statement cannot touch the same key twice.
		if i, ok := seen[row.OrderID]; ok {
			orders[i] = row
			continue
		}
		seen[row.OrderID] = len(orders)
		orders = append(orders, row)
	}

	if len(orders) == 0 {
		p.logger.WarnContext(ctx, "no valid orders to process in batch")
		return
	}

	if err := p.orderUsecase.StoreOrders(ctx, orders); err != nil {
		// The batch is dropped; there is no retry or dead-letter path.
		p.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "store_orders_batch",
		})
		return
	}

	orderIDs := make([]string, 0, len(orders))
	for _, row := range orders {
		orderIDs = append(orderIDs, row.OrderID)
	}
	p.logger.InfoContext(ctx, "processed orders batch",
		logger.Field{Key: "batch_size", Value: len(batch)},
		logger.Field{Key: "queue_size", Value: p.queue.Len()},
		logger.Field{Key: "order_ids", Value: orderIDs},
	)

	p.notifier.Notify()
}

// buildRow validates an entry and assembles its persistence row.
func (p *Processor) buildRow(entry *Entry) (*orderInfra.Order, error) {
	envelope := entry.Envelope
	if envelope == nil || envelope.Order == nil {
		return nil, fmt.Errorf("invalid order data received")
	}

	request := envelope.Order.Request
	if request == nil || request.ID == nil {
		return nil, fmt.Errorf("order has no request or request id")
	}

	requestDigest, err := digest.Compute(request, p.digestDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to compute request digest for order %s: %w", request.ID, err)
	}

	row := &orderInfra.Order{}
	row.FromAnnouncement(envelope, p.chain, requestDigest)
	return row, nil
}
