package sql

import (
	"strings"

	"github.com/syssam/migrix/schema"
)

// RenderContext tells column clause steps which statement they render for.
type RenderContext uint8

const (
	// ForCreate renders a column inside CREATE TABLE or ADD column.
	ForCreate RenderContext = iota + 1
	// ForAlter renders a column inside ALTER COLUMN.
	ForAlter
)

// String returns the name of the context.
func (c RenderContext) String() string {
	switch c {
	case ForCreate:
		return "create"
	case ForAlter:
		return "alter"
	default:
		return "invalid"
	}
}

// ClauseFunc renders one clause of a column definition. An empty result
// means the clause does not apply and is skipped.
type ClauseFunc func(ctx RenderContext, c *schema.Column) (string, error)

// Pipeline is an ordered list of clause steps.
type Pipeline []ClauseFunc

// Render runs every step and joins the non-empty clauses with a single
// space. The first error stops the pipeline. Steps must not modify c.
func (p Pipeline) Render(ctx RenderContext, c *schema.Column) (string, error) {
	clauses := make([]string, 0, len(p))
	for _, step := range p {
		clause, err := step(ctx, c)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}
	return JoinClauses(clauses...), nil
}

// JoinClauses joins the non-empty clauses with a single space.
func JoinClauses(clauses ...string) string {
	var b strings.Builder
	for _, c := range clauses {
		if c == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c)
	}
	return b.String()
}
