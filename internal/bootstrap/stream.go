package bootstrap

import (
	"github.com/nahoc/boundless-ws/internal/ingest"
	"github.com/nahoc/boundless-ws/internal/notifier"
	"github.com/nahoc/boundless-ws/internal/stream"
)

// Stream holds the order stream client and its ingestion pipeline.
type Stream struct {
	Client      *stream.Client
	Processor   *ingest.Processor
	Revalidator *notifier.Revalidator
}

// registerStream registers the stream client and the ingestion pipeline.
func (b *Bootstrap) registerStream() error {
	b.Stream.Revalidator = notifier.NewRevalidator(b.Config.Notifier, b.Logger)
	b.Stream.Processor = ingest.NewProcessor(
		b.Config.Stream,
		b.Config.Market,
		b.Usecase.OrderUsecase,
		b.Stream.Revalidator,
		b.Logger,
	)

	signer, err := stream.NewSigner(b.Config.Stream.PrivateKey)
	if err != nil {
		return err
	}

	handshake := stream.NewHandshake(b.Config.Stream.BaseURL, signer)
	b.Stream.Client = stream.NewClient(b.Config.Stream, handshake, b.Stream.Processor, b.Logger)

	return nil
}
