// Package plan reads migration plans from YAML.
//
// A plan names a migration and lists its steps. The kind of a step selects
// the expression its other fields describe:
//
//	name: create_users
//	version: "20240101000000"
//	steps:
//	  - kind: create_table
//	    table: users
//	    columns:
//	      - {name: id, type: Int32, primary_key: true}
//	      - {name: name, type: String, size: 100, nullable: true}
//	      - {name: created, type: DateTime, default: {method: CurrentDateTime}}
//	  - kind: insert_data
//	    table: users
//	    rows:
//	      - {id: 1, name: admin}
//
// Column types are semantic type names (String, Int32, DateTime, ...).
// Kinds are the snake case expression names; the expression names
// themselves (CreateTable) are accepted too.
package plan
