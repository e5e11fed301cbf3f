// Package discern decides whether two persisted instances, usually read from
// two independent stores, represent the same domain record.
//
// Entity types and rule units are declared in CUE or built in Go. A
// Discriminator compares instances through an Accessor per store, following
// relationships recursively under one of two cycle strategies:
//
//	model, units, err := discern.Compile("specs.cue", src)
//	router := discern.NewRouter().Route("old", oldStore).Route("new", newStore)
//	d := discern.New(model, router, discern.WithProfile(discern.Demanding))
//	for _, u := range units {
//		_ = d.Register(u)
//	}
//	same, err := d.IsSimilar(ctx, discern.Ref{Store: "old", ID: "al"}, discern.Ref{Store: "new", ID: "p1"}, true)
//
// The packages under internal/ hold the implementation; this package
// re-exports the caller-facing surface.
package discern

import (
	"github.com/roach88/discern/internal/compiler"
	"github.com/roach88/discern/internal/engine"
	"github.com/roach88/discern/internal/ir"
	"github.com/roach88/discern/internal/object"
	"github.com/roach88/discern/internal/rules"
	"github.com/roach88/discern/internal/schema"
)

type (
	// Discriminator decides equivalence of instance pairs.
	Discriminator = engine.Discriminator
	// Option configures a Discriminator.
	Option = engine.Option
	// Strategy selects how relationship cycles are handled.
	Strategy = engine.Strategy
	// ComparisonError reports a store failure or an unknown instance.
	ComparisonError = engine.ComparisonError

	// Profile is the default for entity types without a rule unit.
	Profile = rules.Profile
	// Unit is the explicit rule configuration of one entity type.
	Unit = rules.Unit
	// UnitOption configures a Unit.
	UnitOption = rules.UnitOption
	// Effective is the resolved rule set of one entity type.
	Effective = rules.Effective

	// Ref identifies one instance in one store.
	Ref = object.Ref
	// Accessor reads instances of one store.
	Accessor = object.Accessor
	// Router dispatches refs to the accessor of their store.
	Router = object.Router
	// Memory is an in-memory Accessor.
	Memory = object.Memory
	// Instance is an object held by Memory.
	Instance = object.Instance

	// Value is an attribute value.
	Value = ir.Value
	// Values maps attribute names to values.
	Values = ir.Object
	Null   = ir.Null
	String = ir.String
	Int    = ir.Int
	Float  = ir.Float
	Bool   = ir.Bool
	Bytes  = ir.Bytes
	Time   = ir.Time

	// Model is an immutable set of entity type descriptors.
	Model = schema.Model
	// Entity describes one entity type.
	Entity = schema.Entity
	// Attribute describes one attribute of an entity type.
	Attribute = schema.Attribute
	// Relationship describes one relationship of an entity type.
	Relationship = schema.Relationship
)

const (
	Exact     = engine.Exact
	Heuristic = engine.Heuristic

	Facilitating     = rules.Facilitating
	SemiFacilitating = rules.SemiFacilitating
	Demanding        = rules.Demanding

	DefaultMaxDepth = engine.DefaultMaxDepth
)

var (
	WithProfile    = engine.WithProfile
	WithStrategy   = engine.WithStrategy
	WithMaxDepth   = engine.WithMaxDepth
	WithIgnoreWins = engine.WithIgnoreWins
	WithLogger     = engine.WithLogger

	NewUnit              = rules.NewUnit
	IncludeAttributes    = rules.IncludeAttributes
	IgnoreAttributes     = rules.IgnoreAttributes
	IncludeRelationships = rules.IncludeRelationships
	IgnoreRelationships  = rules.IgnoreRelationships
	IgnoreEntity         = rules.IgnoreEntity

	ParseProfile  = rules.ParseProfile
	ParseStrategy = engine.ParseStrategy

	NewRouter = object.NewRouter
	NewMemory = object.NewMemory
	ParseRef  = object.ParseRef

	NewModel = schema.NewModel
)

// New creates a Discriminator over model that reads instances through objects.
func New(model *Model, objects Accessor, opts ...Option) *Discriminator {
	return engine.New(model, objects, opts...)
}

// Compile compiles CUE entity and rule declarations. filename is used in
// error positions.
func Compile(filename, src string) (*Model, []Unit, error) {
	b, err := compiler.CompileSource(filename, src)
	if err != nil {
		return nil, nil, err
	}
	return b.Model, b.Units, nil
}

// LoadDir compiles every CUE file in dir as one package.
func LoadDir(dir string) (*Model, []Unit, error) {
	b, err := compiler.LoadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	return b.Model, b.Units, nil
}
