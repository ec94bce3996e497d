package schema

import (
	"sync"

	"github.com/hamba/avro/v2"
)

// ProductFilterSchemaTextV1 describes a blocklist rule event keyed by
// product name.
const ProductFilterSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "product_filter",
	"fields": [
		{"name": "product_name", "type": "string"},
		{"name": "blocked", "type": "boolean"}
	]
}`

type ProductFilterV1 struct {
	ProductName string `avro:"product_name"`
	Blocked     bool   `avro:"blocked"`
}

var productFilterV1 = sync.OnceValue(func() avro.Schema {
	return avro.MustParse(ProductFilterSchemaTextV1)
})

// ProductFilterV1Avro panics if the schema text is invalid.
func ProductFilterV1Avro() avro.Schema {
	return productFilterV1()
}
