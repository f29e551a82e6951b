package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/migrix/expr"
)

// Plan is a named, versioned list of migration steps.
type Plan struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
	Steps   []Step `yaml:"steps"`
}

// Step is one migration step. Kind selects the expression the remaining
// fields of the step decode into.
type Step struct {
	Kind string
	Expr expr.Expression
	// Line is the line of the step in its source file.
	Line int
}

// Load reads and parses a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse parses a plan from its YAML form.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("parse plan: missing name")
	}
	return &p, nil
}

// Expressions returns the expressions of the plan steps in order.
func (p *Plan) Expressions() []expr.Expression {
	exprs := make([]expr.Expression, len(p.Steps))
	for i, s := range p.Steps {
		exprs[i] = s.Expr
	}
	return exprs
}

// UnmarshalYAML implements yaml.Unmarshaler for Step.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: step must be a mapping, got %v", node.Line, node.Kind)
	}
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}
	kind := normalizeKind(head.Kind)
	dec, ok := decoders[kind]
	if !ok {
		return fmt.Errorf("line %d: unknown step kind %q", node.Line, head.Kind)
	}
	e, err := dec(node)
	if err != nil {
		return fmt.Errorf("line %d: %s: %w", node.Line, kind, err)
	}
	s.Kind, s.Expr, s.Line = kind, e, node.Line
	return nil
}
