// Package scaffold generates Go source declaring migration plans as
// expression literals, so a plan can be compiled into a program instead of
// being read at run time.
package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/tools/imports"

	"github.com/syssam/migrix/plan"
	"github.com/syssam/migrix/schema"
)

const (
	exprPkg   = "github.com/syssam/migrix/expr"
	schemaPkg = "github.com/syssam/migrix/schema"
)

var systemMethods = map[schema.SystemMethod]string{
	schema.NewGuid:               "NewGuid",
	schema.NewSequentialID:       "NewSequentialID",
	schema.CurrentDateTime:       "CurrentDateTime",
	schema.CurrentDateTimeOffset: "CurrentDateTimeOffset",
	schema.CurrentUTCDateTime:    "CurrentUTCDateTime",
	schema.CurrentUser:           "CurrentUser",
}

// consts maps the enumerated schema types to the names of their constants.
var consts = map[reflect.Type]func(reflect.Value) string{
	reflect.TypeFor[schema.Type](): func(v reflect.Value) string {
		return v.Interface().(schema.Type).ConstName()
	},
	reflect.TypeFor[schema.ReferenceOption](): func(v reflect.Value) string {
		return v.Interface().(schema.ReferenceOption).ConstName()
	},
	reflect.TypeFor[schema.SystemMethod](): func(v reflect.Value) string {
		return systemMethods[v.Interface().(schema.SystemMethod)]
	},
	reflect.TypeFor[schema.Nullability](): func(v reflect.Value) string {
		switch v.Interface().(schema.Nullability) {
		case schema.NullTrue:
			return "NullTrue"
		case schema.NullFalse:
			return "NullFalse"
		default:
			return "NullUnspecified"
		}
	},
	reflect.TypeFor[schema.Direction](): func(v reflect.Value) string {
		if v.Interface().(schema.Direction) == schema.Desc {
			return "Desc"
		}
		return "Asc"
	},
	reflect.TypeFor[schema.ConstraintKind](): func(v reflect.Value) string {
		if v.Interface().(schema.ConstraintKind) == schema.PrimaryKey {
			return "PrimaryKey"
		}
		return "Unique"
	},
}

// Generate returns a file of package pkg with one function per plan. Each
// function is named after its plan and returns the plan steps.
func Generate(pkg string, plans ...*plan.Plan) (*jen.File, error) {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by migrix. DO NOT EDIT.")
	seen := make(map[string]string, len(plans))
	for _, p := range plans {
		name := FuncName(p.Name)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("scaffold: plans %q and %q both generate %s", prev, p.Name, name)
		}
		seen[name] = p.Name
		steps := make([]jen.Code, 0, len(p.Steps)+1)
		for i, s := range p.Steps {
			code, err := value(reflect.ValueOf(s.Expr), false)
			if err != nil {
				return nil, fmt.Errorf("scaffold: plan %q step %d (%s): %w", p.Name, i, s.Kind, err)
			}
			steps = append(steps, jen.Line().Add(code))
		}
		steps = append(steps, jen.Line())
		if p.Version != "" {
			f.Commentf("%s returns the steps of plan %s (version %s).", name, p.Name, p.Version)
		} else {
			f.Commentf("%s returns the steps of plan %s.", name, p.Name)
		}
		f.Func().Id(name).Params().Index().Qual(exprPkg, "Expression").Block(
			jen.Return(jen.Index().Qual(exprPkg, "Expression").Values(steps...)),
		)
	}
	return f, nil
}

// Render generates the file and formats it with goimports. filename is
// only used by the formatter to resolve the package directory.
func Render(filename, pkg string, plans ...*plan.Plan) ([]byte, error) {
	f, err := Generate(pkg, plans...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("scaffold: render %s: %w", filename, err)
	}
	formatted, err := imports.Process(filename, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("scaffold: format %s: %w", filename, err)
	}
	return formatted, nil
}

// WriteFile renders the plans into path. The package is named after the
// directory of path.
func WriteFile(path string, plans ...*plan.Plan) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	src, err := Render(abs, PackageName(filepath.Dir(abs)), plans...)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("scaffold: create directory for %s: %w", path, err)
	}
	return os.WriteFile(abs, src, 0o644)
}

// FuncName returns the function name generated for a plan.
func FuncName(plan string) string {
	name := inflect.Camelize(plan)
	if name == "" || !unicode.IsLetter([]rune(name)[0]) {
		name = "Plan" + name
	}
	return name
}

// PackageName returns a package name for dir.
func PackageName(dir string) string {
	var b []rune
	for _, r := range filepath.Base(dir) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b = append(b, unicode.ToLower(r))
		}
	}
	if len(b) == 0 || !unicode.IsLetter(b[0]) {
		return "migrations"
	}
	return string(b)
}

// value returns a literal of v. typed is set when v is held by an
// interface and must keep its dynamic type.
func value(v reflect.Value, typed bool) (jen.Code, error) {
	if !v.IsValid() {
		return jen.Nil(), nil
	}
	t := v.Type()
	if name, ok := consts[t]; ok {
		return jen.Qual(t.PkgPath(), name(v)), nil
	}
	switch t.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return jen.Nil(), nil
		}
		return value(v.Elem(), true)
	case reflect.Pointer:
		if v.IsNil() {
			return jen.Nil(), nil
		}
		if t.Elem().Kind() != reflect.Struct {
			return nil, fmt.Errorf("unsupported value of type %s", t)
		}
		elem, err := value(v.Elem(), false)
		if err != nil {
			return nil, err
		}
		return jen.Op("&").Add(elem), nil
	case reflect.Struct:
		return structValue(v)
	case reflect.Slice:
		if v.IsNil() {
			return jen.Nil(), nil
		}
		items := make([]jen.Code, 0, v.Len())
		for i := range v.Len() {
			item, err := value(v.Index(i), false)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return typeOf(t).Values(items...), nil
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return basic(v, typed), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", t)
	}
}

func structValue(v reflect.Value) (jen.Code, error) {
	t := v.Type()
	if t.PkgPath() != exprPkg && t.PkgPath() != schemaPkg {
		return nil, fmt.Errorf("unsupported value of type %s", t)
	}
	fields := jen.Dict{}
	for i := range t.NumField() {
		sf, fv := t.Field(i), v.Field(i)
		if !sf.IsExported() {
			return nil, fmt.Errorf("unsupported value of type %s", t)
		}
		if fv.IsZero() {
			continue
		}
		code, err := value(fv, false)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), sf.Name, err)
		}
		fields[jen.Id(sf.Name)] = code
	}
	return jen.Qual(t.PkgPath(), t.Name()).Values(fields), nil
}

// basic returns a literal of a string, boolean or numeric value. Named
// types are converted explicitly. Unnamed values outside an interface are
// written untyped.
func basic(v reflect.Value, typed bool) jen.Code {
	t := v.Type()
	if t.PkgPath() != "" {
		return jen.Qual(t.PkgPath(), t.Name()).Call(basic(v.Convert(basicType(t.Kind())), false))
	}
	if typed {
		return jen.Lit(v.Interface())
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return jen.Op(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return jen.Op(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		return jen.Lit(v.Float())
	default:
		return jen.Lit(v.Interface())
	}
}

func basicType(k reflect.Kind) reflect.Type {
	switch k {
	case reflect.String:
		return reflect.TypeFor[string]()
	case reflect.Bool:
		return reflect.TypeFor[bool]()
	case reflect.Float32, reflect.Float64:
		return reflect.TypeFor[float64]()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.TypeFor[uint64]()
	default:
		return reflect.TypeFor[int64]()
	}
}

// typeOf returns the type expression of t.
func typeOf(t reflect.Type) *jen.Statement {
	switch {
	case t.Name() != "" && t.PkgPath() != "":
		return jen.Qual(t.PkgPath(), t.Name())
	case t.Name() != "":
		return jen.Id(t.Name())
	case t.Kind() == reflect.Pointer:
		return jen.Op("*").Add(typeOf(t.Elem()))
	case t.Kind() == reflect.Slice:
		return jen.Index().Add(typeOf(t.Elem()))
	case t.Kind() == reflect.Interface && t.NumMethod() == 0:
		return jen.Id("any")
	default:
		return jen.Id(t.String())
	}
}
