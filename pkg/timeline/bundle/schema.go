package bundle

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema bundles are validated against.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// validateSchema checks a generically decoded document. All violations are
// reported, each as a *ValidationError.
func validateSchema(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile bundle schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to validate bundle: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]error, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, &ValidationError{Field: e.Field(), Message: e.Description()})
	}
	return errors.Join(errs...)
}
