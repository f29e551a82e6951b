// Package migrix renders database-agnostic migration expressions into the
// literal SQL accepted by IBM Informix.
//
// The root package holds the error taxonomy shared by every layer:
//
//   - UnmappedTypeError: a semantic column type has no native mapping.
//   - UnimplementedFeatureError: the dialect lacks the feature and there is
//     no fallback text for it.
//   - UnsupportedOperationError: the operation is disallowed in the requested
//     context. Generators turn it into a compatibility fallback.
//   - ArgumentCountMismatchError: the expression is structurally invalid.
//
// # Packages
//
//   - schema: column, key, index and constraint definitions
//   - expr: the closed set of migration expressions
//   - dialect/sql: quoting, type maps, clause pipelines, compatibility policy
//   - dialect/sql/informix: the Informix generator and processor
//   - dialect/sql/schema: atlas interop, migration directories, validation
//   - plan, runner: YAML migration plans and their execution
//
// # Usage
//
//	gen := informix.NewGenerator()
//	query, err := gen.Generate(&expr.CreateTable{
//	    Table: "users",
//	    Columns: []*schema.Column{
//	        {Name: "id", Type: schema.TypeInt32, PrimaryKey: true},
//	        {Name: "name", Type: schema.TypeString, Size: 100, Nullable: schema.NullTrue},
//	    },
//	})
package migrix
