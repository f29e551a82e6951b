package informix

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/migrix/dialect/sql"
)

// Catalog queries. Informix stores undelimited names in lower case, the
// names are folded before they are compared against systables and friends.
const (
	tableExistsQuery      = "SELECT TABNAME FROM SYSTABLES WHERE %sTABNAME = '%s'"
	columnExistsQuery     = "SELECT c.colname FROM systables AS t INNER JOIN syscolumns AS c ON t.tabid = c.tabid WHERE %st.tabname = '%s' AND c.colname = '%s'"
	constraintExistsQuery = "SELECT c.constrname FROM sysconstraints c INNER JOIN systables t ON t.tabid = c.tabid WHERE %st.tabname = '%s' AND c.constrname = '%s'"
	indexExistsQuery      = "SELECT i.idxname FROM sysindexes i INNER JOIN systables t ON t.tabid = i.tabid WHERE %st.tabname = '%s' AND i.idxname = '%s'"
	// The default text is matched as a substring, a default that contains
	// the searched value also matches.
	defaultExistsQuery = "SELECT d.default FROM systables AS t INNER JOIN syscolumns AS c ON t.tabid = c.tabid " +
		"INNER JOIN sysdefaults AS d ON d.tabid = c.tabid AND d.colno = c.colno " +
		"WHERE %st.tabname = '%s' AND c.colname = '%s' AND d.default LIKE '%s'"
)

// catalog builds the catalog queries of the processor.
type catalog struct {
	quoter *sql.Quoter
	lower  cases.Caser
}

func newCatalog(q *sql.Quoter) *catalog {
	return &catalog{quoter: q, lower: cases.Lower(language.Und)}
}

// name returns the catalog form of an identifier: unquoted, lower-cased
// and safe to embed in a string literal.
func (c *catalog) name(s string) string {
	return escape(c.lower.String(c.quoter.Unquote(s)))
}

// owner returns the owner predicate for a schema, or nothing.
func (c *catalog) owner(alias, schema string) string {
	if schema == "" {
		return ""
	}
	return alias + "owner = '" + c.name(schema) + "' AND "
}

func (c *catalog) tableExists(schema, table string) string {
	owner := ""
	if schema != "" {
		owner = "OWNER = '" + c.name(schema) + "' AND "
	}
	return fmt.Sprintf(tableExistsQuery, owner, c.name(table))
}

func (c *catalog) columnExists(schema, table, column string) string {
	return fmt.Sprintf(columnExistsQuery, c.owner("t.", schema), c.name(table), c.name(column))
}

func (c *catalog) constraintExists(schema, table, constraint string) string {
	return fmt.Sprintf(constraintExistsQuery, c.owner("t.", schema), c.name(table), c.name(constraint))
}

func (c *catalog) indexExists(schema, table, index string) string {
	return fmt.Sprintf(indexExistsQuery, c.owner("t.", schema), c.name(table), c.name(index))
}

func (c *catalog) defaultExists(schema, table, column string, value any) string {
	pattern := "%" + escape(fmt.Sprint(value)) + "%"
	return fmt.Sprintf(defaultExistsQuery, c.owner("t.", schema), c.name(table), c.name(column), pattern)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
