package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/pkg/schema"
)

// A ProductFilterProcessor folds filter events from the stream topic
// into the group table read by [BlocklistView].
type ProductFilterProcessor struct {
	gp *goka.Processor
}

func NewProductFilterProcessor(
	seedBrokers []string,
	inputStream string,
	group string,
	productFilterSerde Serde,
) (ProductFilterProcessor, error) {
	const op = "NewProductFilterProcessor"

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			newFilterEventCodec(productFilterSerde),
			processFilterEvent,
		),
		goka.Persist(blockValueCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNoLogProcOpt())
	if err != nil {
		return ProductFilterProcessor{}, opErr(err, op)
	}

	return ProductFilterProcessor{gp}, nil
}

// Run starts the processor in background and returns when it is
// ready or ctx is done.
func (p ProductFilterProcessor) Run(ctx context.Context, wg *sync.WaitGroup) {
	const op = "ProductFilterProcessor.Run"
	log := slog.With("op", op)

	defer wg.Done()

	go p.run(ctx)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p ProductFilterProcessor) Close() {
	const op = "ProductFilterProcessor.Close"
	log := slog.With("op", op)

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

func (p ProductFilterProcessor) run(ctx context.Context) {
	const op = "ProductFilterProcessor.run"
	log := slog.With("op", op)

	if err := p.gp.Run(ctx); err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p ProductFilterProcessor) waitForReady(ctx context.Context) {
	const op = "ProductFilterProcessor.waitForReady"
	log := slog.With("op", op)

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("fall down while preparing", "err", err)
	}
}

// processFilterEvent keeps only blocked names in the table, an unblock
// event drops the row.
func processFilterEvent(ctx goka.Context, msg any) {
	const op = "processFilterEvent"
	log := slog.With("op", op)

	event, ok := msg.(schema.ProductFilterV1)
	if !ok {
		log.Error("unexpected message", "key", ctx.Key())
		return
	}

	if event.Blocked {
		ctx.SetValue(blockValue(true))
	} else {
		ctx.Delete()
	}

	log.Info(
		"set filter value",
		"productName", event.ProductName,
		"isBlocked", event.Blocked,
	)
}
