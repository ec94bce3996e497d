package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.ProductFilterProducer = (*ProductFilterProducer)(nil)

type ProductFilterProducerOpt func(*productFilterProducerOpts) error

type productFilterProducerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

func ProductFilterProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string,
) ProductFilterProducerOpt {
	return func(opts *productFilterProducerOpts) error {
		cl, err := kgo.NewClient(
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
		)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProductFilterProducerRawClientOpt uses an already configured client.
func ProductFilterProducerRawClientOpt(cl ProducerClient) ProductFilterProducerOpt {
	return func(opts *productFilterProducerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProductFilterProducerEncoderOpt(encoder Encoder) ProductFilterProducerOpt {
	return func(opts *productFilterProducerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

// A ProductFilterProducer publishes blocklist rules to the filter stream.
type ProductFilterProducer struct {
	cl      ProducerClient
	encoder Encoder
}

func NewProductFilterProducer(
	opts ...ProductFilterProducerOpt,
) (ProductFilterProducer, error) {
	const op = "NewProductFilterProducer"

	var options productFilterProducerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return ProductFilterProducer{}, opErr(err, op)
		}
	}

	if options.cl == nil || options.encoder == nil {
		if options.cl != nil {
			options.cl.Close()
		}
		return ProductFilterProducer{}, opErr(ErrTooFewOpts, op)
	}

	return ProductFilterProducer{options.cl, options.encoder}, nil
}

func (p ProductFilterProducer) Close() {
	const op = "ProductFilterProducer.Close"
	log := slog.With("op", op)

	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p ProductFilterProducer) ProduceFilter(
	ctx context.Context, pf domain.ProductFilter,
) error {
	const op = "ProductFilterProducer.ProduceFilter"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	r, err := p.createRecord(pf)
	if err != nil {
		return opErr(err, op)
	}

	if err := p.cl.ProduceSync(ctx, r).FirstErr(); err != nil {
		return opErr(err, op)
	}
	return nil
}

// createRecord keys the record by the normalized name so every rule
// for the same product lands in one partition and one table row.
func (p ProductFilterProducer) createRecord(
	pf domain.ProductFilter,
) (*kgo.Record, error) {
	const op = "ProductFilterProducer.createRecord"

	v, err := p.encoder.Encode(filterToSchemaV1(pf))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &kgo.Record{
		Key:   []byte(domain.BlocklistKey(pf.ProductName)),
		Value: v,
	}, nil
}
