package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/discern/internal/rules"
	"github.com/roach88/discern/internal/schema"
)

// Bundle is a compiled set of declarations.
type Bundle struct {
	Model *schema.Model
	Units []rules.Unit // declaration order
	Files int          // number of CUE files loaded (LoadDir only)
}

// CompileSource compiles CUE source text. filename is used in positions.
func CompileSource(filename, src string) (*Bundle, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	return CompileValue(v)
}

// CompileValue compiles the entity and rule declarations of v.
//
// The model is validated and every unit is checked against it, so a bundle
// that compiles registers without configuration errors.
func CompileValue(v cue.Value) (*Bundle, error) {
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	entities, err := compileEach(v, "entity", CompileEntity)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, &CompileError{Field: "specs", Message: "no entities declared", Pos: v.Pos()}
	}

	model, err := schema.NewModel(entities...)
	if err != nil {
		return nil, err
	}
	if errs := model.Validate(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	units, err := compileEach(v, "rule", CompileRule)
	if err != nil {
		return nil, err
	}

	// Register into a scratch registry to surface configuration errors now.
	check := rules.NewRegistry(model, rules.SemiFacilitating, true)
	for _, u := range units {
		if err := check.Register(u); err != nil {
			return nil, fmt.Errorf("rule.%s: %w", u.Entity(), err)
		}
	}

	return &Bundle{Model: model, Units: units}, nil
}

// compileEach applies compile to every field under the top-level field name,
// in declaration order.
func compileEach[T any](v cue.Value, name string, compile func(cue.Value) (T, error)) ([]T, error) {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return nil, nil
	}

	iter, err := val.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []T
	for iter.Next() {
		item, err := compile(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, iter.Label(), err)
		}
		out = append(out, item)
	}
	return out, nil
}

// LoadDir loads every CUE file of the package in dir and compiles it.
func LoadDir(dir string) (*Bundle, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("specs directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", formatCUEError(inst.Err))
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", formatCUEError(err))
	}

	b, err := CompileValue(value)
	if err != nil {
		return nil, err
	}
	b.Files = len(files)
	return b, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
