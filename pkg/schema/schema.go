package schema

import (
	"context"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

func AvroEncodeFn(s avro.Schema) func(v any) ([]byte, error) {
	return func(v any) ([]byte, error) {
		return avro.Marshal(s, v)
	}
}

func AvroDecodeFn(s avro.Schema) func([]byte, any) error {
	return func(data []byte, v any) error {
		return avro.Unmarshal(s, data, v)
	}
}

// A SchemaIdentifier returns the registry id of the schema text
// under the subject, registering it when it is new.
type SchemaIdentifier interface {
	DetermineID(
		ctx context.Context, subject string, avroSchemaText string,
	) (id int, err error)
}

type schemaCreater interface {
	CreateSchema(
		ctx context.Context, subject string, s sr.Schema,
	) (sr.SubjectSchema, error)
}

var _ schemaCreater = (*sr.Client)(nil)

type RegistryIdentifier struct {
	cl schemaCreater
}

func NewRegistryIdentifier(cl *sr.Client) RegistryIdentifier {
	return RegistryIdentifier{cl}
}

func (ri RegistryIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (int, error) {
	const op = "RegistryIdentifier.DetermineID"

	ss, err := ri.cl.CreateSchema(
		ctx, subject, sr.Schema{
			Type:   sr.TypeAvro,
			Schema: avroSchemaText,
		},
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return ss.ID, nil
}
