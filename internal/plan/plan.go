package plan

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/unitgate/internal/unit"
)

// Plan selects and configures the units of a run.
type Plan struct {
	// Name identifies the plan in logs and reports.
	Name string `yaml:"name" json:"name"`

	// Units lists unit identities to run, in order. Empty runs the whole
	// suite.
	Units []string `yaml:"units,omitempty" json:"units,omitempty"`

	// CheckRequired overrides every unit's CheckRequired setting when set.
	CheckRequired *bool `yaml:"check_required,omitempty" json:"check_required,omitempty"`

	// Store is the SQLite path for run history. Empty disables history.
	Store string `yaml:"store,omitempty" json:"store,omitempty"`

	// Format is the report format: "text" (default) or "json".
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// schema constrains CUE plans. #Plan is closed, so unknown fields fail.
const schema = `
#Plan: {
	name:            string & !=""
	units?:          [...string]
	check_required?: bool
	store?:          string
	format?:         "text" | "json"
}
`

// LoadError reports a plan that could not be read or is invalid.
type LoadError struct {
	Path    string
	Field   string // empty when the whole file is at fault
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads a plan from a .yaml, .yml or .cue file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read plan file", Err: err}
	}

	var p *Plan
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		p, err = ParseYAML(path, data)
	case ".cue":
		p, err = ParseCUE(path, data)
	default:
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("unsupported plan extension %q", ext)}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ParseYAML decodes a YAML plan. Unknown fields are rejected.
func ParseYAML(path string, data []byte) (*Plan, error) {
	var p Plan
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, &LoadError{Path: path, Message: "failed to parse YAML", Err: err}
	}
	return finish(path, &p)
}

// ParseCUE evaluates a CUE plan against the plan schema.
func ParseCUE(path string, data []byte) (*Plan, error) {
	ctx := cuecontext.New()
	def := ctx.CompileString(schema).LookupPath(cue.ParsePath("#Plan"))

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(path, "failed to compile CUE", err)
	}

	v = def.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(path, "plan does not match schema", err)
	}

	var p Plan
	if err := v.Decode(&p); err != nil {
		return nil, cueLoadError(path, "failed to decode CUE", err)
	}
	return finish(path, &p)
}

// cueLoadError keeps the first CUE error, with its position when known.
func cueLoadError(path, message string, err error) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Path: path, Message: message, Err: err}
	}
	first := errs[0]
	le := &LoadError{Path: path, Message: message, Err: first}
	if p := first.Path(); len(p) > 0 {
		le.Field = strings.Join(p, ".")
	}
	return le
}

// finish applies defaults and validates.
func finish(path string, p *Plan) (*Plan, error) {
	if p.Format == "" {
		p.Format = FormatText
	}
	if err := validate(p); err != nil {
		err.Path = path
		return nil, err
	}
	return p, nil
}

// validate checks that required fields are present and valid.
func validate(p *Plan) *LoadError {
	if p.Name == "" {
		return &LoadError{Field: "name", Message: "name is required"}
	}

	if p.Format != FormatText && p.Format != FormatJSON {
		return &LoadError{Field: "format", Message: fmt.Sprintf("unknown format %q: must be text or json", p.Format)}
	}

	seen := make(map[string]bool, len(p.Units))
	for i, id := range p.Units {
		if id == "" {
			return &LoadError{Field: fmt.Sprintf("units[%d]", i), Message: "identity is required"}
		}
		if seen[id] {
			return &LoadError{Field: fmt.Sprintf("units[%d]", i), Message: fmt.Sprintf("duplicate unit %q", id)}
		}
		seen[id] = true
	}

	return nil
}

// Select returns the units of suite named by the plan, in plan order, and
// applies the CheckRequired override to them. An empty plan selects the
// whole suite in suite order.
func (p *Plan) Select(suite []unit.Unit) ([]unit.Unit, error) {
	selected := suite
	if len(p.Units) > 0 {
		byID := make(map[string]unit.Unit, len(suite))
		for _, u := range suite {
			byID[unit.IdentityOf(u)] = u
		}

		selected = make([]unit.Unit, 0, len(p.Units))
		var missing []string
		for _, id := range p.Units {
			u, ok := byID[id]
			if !ok {
				missing = append(missing, id)
				continue
			}
			selected = append(selected, u)
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("plan %s: unknown units: %s", p.Name, strings.Join(missing, ", "))
		}
	}

	if p.CheckRequired != nil {
		for _, u := range selected {
			if s, ok := u.(checkRequiredSetter); ok {
				s.SetCheckRequired(*p.CheckRequired)
			}
		}
	}
	return selected, nil
}

type checkRequiredSetter interface {
	SetCheckRequired(bool)
}
