package artifact

import (
	_ "embed"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed definitions.cue
var definitionsCUE string

// cueDefs holds the compiled definitions. A cue.Context is not safe for
// concurrent use, so validation is serialized through mu.
type cueDefs struct {
	mu   sync.Mutex
	ctx  *cue.Context
	root cue.Value
}

var (
	defsOnce sync.Once
	defs     *cueDefs
	defsErr  error
)

func loadDefs() (*cueDefs, error) {
	defsOnce.Do(func() {
		ctx := cuecontext.New()
		root := ctx.CompileString(definitionsCUE, cue.Filename("definitions.cue"))
		if err := root.Err(); err != nil {
			defsErr = err
			return
		}
		defs = &cueDefs{ctx: ctx, root: root}
	})
	return defs, defsErr
}

// validateJSON unifies the JSON document data with the named definition
// and returns a ParseError describing the first violation.
func validateJSON(path, definition string, data []byte) error {
	d, err := loadDefs()
	if err != nil {
		return &ParseError{Path: path, Format: "json", Message: "invalid built-in definitions", Err: err}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	v := d.ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cueParseError(path, err)
	}

	def := d.root.LookupPath(cue.ParsePath(definition))
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return cueParseError(path, err)
	}
	return nil
}

func cueParseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Format: "json", Message: err.Error(), Err: err}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		first := errs[0]
		pe.Message = strings.Join(strings.Fields(first.Error()), " ")
		if pos := first.Position(); pos.IsValid() && pos.Filename() == path {
			pe.Line = pos.Line()
		}
	}
	return pe
}
