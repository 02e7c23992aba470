package text

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed blocks.schema.json
var schemaBytes []byte

// ErrInvalidDocument is returned when a JSON document does not match the
// structured text schema.
var ErrInvalidDocument = errors.New("document does not conform to the structured text schema")

// Schema returns the JSON Schema describing a serialized block list.
func Schema() []byte {
	return append([]byte(nil), schemaBytes...)
}

// Validate checks that data is a JSON array of blocks.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}
