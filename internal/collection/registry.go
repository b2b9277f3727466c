// Package collection maps content collection names to the schema their records must satisfy.
// The registry is filled once at init and never changes afterwards.
package collection

import (
	"fmt"
	"sort"

	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
)

// Links is the name of the links collection.
const Links = "links"

// TypeData marks a collection whose entries are structured data files.
const TypeData = "data"

// Schema validates one raw record and returns its typed form.
type Schema interface {
	Validate(record map[string]any) (any, error)
}

// SchemaFunc adapts a typed validation function to Schema.
type SchemaFunc[T any] func(record map[string]any) (T, error)

func (f SchemaFunc[T]) Validate(record map[string]any) (any, error) {
	v, err := f(record)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Definition binds a collection name to its schema.
type Definition struct {
	Name   string
	Type   string
	Schema Schema
}

type registry map[string]Definition

var collections = registry{}

func init() {
	register(Definition{
		Name:   Links,
		Type:   TypeData,
		Schema: SchemaFunc[linkschema.LinkEntry](linkschema.Validate),
	})
}

func register(def Definition) {
	if _, dup := collections[def.Name]; dup {
		panic(fmt.Sprintf("collection %q registered twice", def.Name))
	}
	collections[def.Name] = def
}

// Lookup returns the definition registered under name.
func Lookup(name string) (Definition, bool) {
	def, ok := collections[name]
	return def, ok
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) Definition {
	def, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("unknown collection %q", name))
	}
	return def
}

// Names returns every registered collection name, sorted.
func Names() []string {
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
