package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

var ErrTooFewOpts = errors.New("too few options")

// valueSubjectSuffix follows the registry topic name strategy.
const valueSubjectSuffix = "-value"

type Serde interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// A definition ties a Go record type to its Avro schema.
type definition struct {
	schema avro.Schema
	text   string
	record any
}

// serde frames avro payloads with the registry wire header.
type serde struct {
	srSerde *sr.Serde
}

func (s serde) Encode(v any) ([]byte, error) {
	return s.srSerde.Encode(v)
}

func (s serde) Decode(data []byte, v any) error {
	return s.srSerde.Decode(data, v)
}

type Opt func(*serdeOpts) error

type serdeOpts struct {
	subject string
	si      SchemaIdentifier
}

func SubjectOpt(subject string) Opt {
	return func(so *serdeOpts) error {
		if subject == "" {
			return errors.New("subject is empty string")
		}
		so.subject = subject
		return nil
	}
}

// TopicSubjectOpt registers the schema as the value schema of topic.
func TopicSubjectOpt(topic string) Opt {
	return func(so *serdeOpts) error {
		if topic == "" {
			return errors.New("topic is empty string")
		}
		so.subject = topic + valueSubjectSuffix
		return nil
	}
}

func SchemaIdentifierOpt(si SchemaIdentifier) Opt {
	return func(so *serdeOpts) error {
		if si == nil {
			return errors.New("schema identifier is nil")
		}
		so.si = si
		return nil
	}
}

// NewSerdeProductFilterV1 registers [ProductFilterV1] and returns
// a serde bound to the registry id.
func NewSerdeProductFilterV1(ctx context.Context, opts ...Opt) (Serde, error) {
	const op = "NewSerdeProductFilterV1"

	def := definition{
		schema: ProductFilterV1Avro(),
		text:   ProductFilterSchemaTextV1,
		record: ProductFilterV1{},
	}
	s, err := newSerde(ctx, def, opts...)
	if err != nil {
		return serde{}, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func newSerde(ctx context.Context, def definition, opts ...Opt) (serde, error) {
	var so serdeOpts
	for _, o := range opts {
		if err := o(&so); err != nil {
			return serde{}, err
		}
	}
	if so.subject == "" || so.si == nil {
		return serde{}, ErrTooFewOpts
	}

	id, err := so.si.DetermineID(ctx, so.subject, def.text)
	if err != nil {
		return serde{}, err
	}

	var s sr.Serde
	s.Register(
		id,
		def.record,
		sr.EncodeFn(AvroEncodeFn(def.schema)),
		sr.DecodeFn(AvroDecodeFn(def.schema)),
	)
	return serde{&s}, nil
}
