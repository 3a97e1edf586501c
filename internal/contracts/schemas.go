package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Имена схем ответов удаленного API магазина
const (
	SchemaProductsPage  = "products-page"
	SchemaReviews       = "reviews"
	SchemaOrderResponse = "order-response"
)

//go:embed schemas/*.json
var schemasFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	// Сначала регистрируем все файлы как ресурсы, чтобы работали $ref между схемами
	paths, err := fs.Glob(schemasFS, "schemas/*.json")
	if err != nil {
		log.Fatalf("failed to list embedded schemas: %v", err)
	}
	for _, path := range paths {
		body, err := schemasFS.ReadFile(path)
		if err != nil {
			log.Fatalf("failed to read schema %s: %v", path, err)
		}
		if err := compiler.AddResource(resourceURL(path), bytes.NewReader(body)); err != nil {
			log.Fatalf("failed to add schema resource %s: %v", path, err)
		}
	}

	for _, path := range paths {
		schema, err := compiler.Compile(resourceURL(path))
		if err != nil {
			log.Fatalf("failed to compile schema %s: %v", path, err)
		}
		compiledSchemas[schemaName(path)] = schema
	}
}

// resourceURL превращает "schemas/product.json" в "mem://schemas/product.json".
func resourceURL(path string) string {
	return "mem://" + path
}

// schemaName превращает "schemas/products-page.json" в "products-page".
func schemaName(path string) string {
	return strings.TrimSuffix(strings.TrimPrefix(path, "schemas/"), ".json")
}

// Validate проверяет тело ответа по схеме с указанным именем.
func Validate(name string, body []byte) error {
	schema, ok := compiledSchemas[name]
	if !ok {
		return fmt.Errorf("schema %q not found", name)
	}

	var v interface{}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&v); err != nil {
		return fmt.Errorf("body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
