// Package schema describes entity types: their attributes, relationships and
// single-parent inheritance.
//
// A Model is built once (from CUE declarations or programmatically) and is
// read-only afterwards. The engine only needs the Provider interface; Model is
// the implementation used by the compiler, the CLI and the tests.
//
// Every lookup that may cross inheritance goes through Chain, which returns
// the type followed by its ancestors, most specific first.
package schema
