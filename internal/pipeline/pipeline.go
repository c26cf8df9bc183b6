// Package pipeline compiles CUE pipeline documents into executable
// optimizer transforms. A pipeline document has the shape
//
//	pipeline: {
//		name: "tket_default"
//		passes: [
//			{name: "clifford_simp", args: {allow_swaps: true}},
//			{name: "synthesise_tket"},
//		]
//	}
//
// Pass names and arguments are checked against the pass registry at
// compile time, so a misspelled pass or argument fails before any
// circuit is touched.
package pipeline

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// Spec is a compiled pipeline: an ordered list of registered passes with
// their arguments.
type Spec struct {
	Name   string
	Passes []PassSpec
}

// PassSpec is one pass of a pipeline.
type PassSpec struct {
	Name string
	Args map[string]any
}

// LoadFile loads and compiles a pipeline from a CUE file.
func LoadFile(path string) (*Spec, error) {
	insts := load.Instances([]string{path}, nil)
	if len(insts) == 0 {
		return nil, &LoadError{Path: path, Message: "no CUE instances found"}
	}
	inst := insts[0]
	if inst.Err != nil {
		return nil, &LoadError{Path: path, Message: inst.Err.Error()}
	}

	ctx := cuecontext.New()
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, &LoadError{Path: path, Message: err.Error()}
	}
	return Compile(v)
}

// CompileSource compiles a pipeline from in-memory CUE source, used by
// tests and callers that assemble pipelines programmatically.
func CompileSource(src string) (*Spec, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	if err := v.Err(); err != nil {
		return nil, &LoadError{Path: "<source>", Message: err.Error()}
	}
	return Compile(v)
}

// Compile extracts and validates the pipeline from a CUE value.
func Compile(v cue.Value) (*Spec, error) {
	pv := v.LookupPath(cue.ParsePath("pipeline"))
	if !pv.Exists() {
		return nil, compileErr(v, "pipeline", "missing pipeline field")
	}

	spec := &Spec{}
	nameV := pv.LookupPath(cue.ParsePath("name"))
	if nameV.Exists() {
		name, err := nameV.String()
		if err != nil {
			return nil, compileErr(nameV, "pipeline.name", "name must be a string")
		}
		spec.Name = name
	}

	passesV := pv.LookupPath(cue.ParsePath("passes"))
	if !passesV.Exists() {
		return nil, compileErr(pv, "pipeline.passes", "missing passes list")
	}
	iter, err := passesV.List()
	if err != nil {
		return nil, compileErr(passesV, "pipeline.passes", "passes must be a list")
	}
	for i := 0; iter.Next(); i++ {
		ps, err := compilePass(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		spec.Passes = append(spec.Passes, ps)
	}
	if len(spec.Passes) == 0 {
		return nil, compileErr(passesV, "pipeline.passes", "pipeline has no passes")
	}
	return spec, nil
}

func compilePass(v cue.Value, idx int) (PassSpec, error) {
	field := fmt.Sprintf("pipeline.passes[%d]", idx)

	nameV := v.LookupPath(cue.ParsePath("name"))
	if !nameV.Exists() {
		return PassSpec{}, compileErr(v, field+".name", "missing pass name")
	}
	name, err := nameV.String()
	if err != nil {
		return PassSpec{}, compileErr(nameV, field+".name", "pass name must be a string")
	}

	ps := PassSpec{Name: name}
	argsV := v.LookupPath(cue.ParsePath("args"))
	if argsV.Exists() {
		args, err := decodeArgs(argsV, field)
		if err != nil {
			return PassSpec{}, err
		}
		ps.Args = args
	}
	return ps, nil
}

// decodeArgs flattens a CUE struct of scalar arguments into the map
// shape the pass registry consumes.
func decodeArgs(v cue.Value, field string) (map[string]any, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, compileErr(v, field+".args", "args must be a struct")
	}
	args := map[string]any{}
	for iter.Next() {
		key := iter.Selector().Unquoted()
		fv := iter.Value()
		switch fv.Kind() {
		case cue.BoolKind:
			b, _ := fv.Bool()
			args[key] = b
		case cue.StringKind:
			s, _ := fv.String()
			args[key] = s
		case cue.IntKind, cue.FloatKind, cue.NumberKind:
			f, err := fv.Float64()
			if err != nil {
				return nil, compileErr(fv, field+".args."+key, "number out of range")
			}
			args[key] = f
		default:
			return nil, compileErr(fv, field+".args."+key, "argument must be a bool, string or number")
		}
	}
	return args, nil
}
