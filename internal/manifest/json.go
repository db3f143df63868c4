package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

// schemaURL is absolute so the compiler never resolves it against the
// working directory.
const schemaURL = "https://mcplaunch.invalid/manifest.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func manifestSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("decode manifest schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add manifest schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

type packageJSON struct {
	Binaries  map[string]*string `json:"mcp-server-binaries"`
	Checksums map[string]string `json:"mcp-server-checksums"`
	Keyring   string            `json:"mcp-server-keyring"`
}

// ParseJSON parses a package.json style manifest. Members other than the
// mcp-server-* ones are ignored, so the npm package.json can be used as is.
// Entries for other platforms never make the manifest invalid by being
// null or empty.
func ParseJSON(data []byte) (*Manifest, error) {
	sch, err := manifestSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{Message: "malformed manifest", Detail: err.Error(), Err: err}
	}
	if err := sch.Validate(inst); err != nil {
		return nil, &LoadError{Message: "invalid manifest", Detail: err.Error(), Err: err}
	}

	var doc packageJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Message: "malformed manifest", Detail: err.Error(), Err: err}
	}

	return New(dropNulls(doc.Binaries), doc.Checksums, doc.Keyring)
}

// dropNulls removes null entries. A null or empty name only makes its
// own platform unsupported; Lookup reports it as absent.
func dropNulls(in map[string]*string) map[string]string {
	out := make(map[string]string, len(in))
	for key, name := range in {
		if name != nil {
			out[key] = *name
		}
	}
	return out
}
