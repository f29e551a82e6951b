package informix

import (
	"math"

	"github.com/syssam/migrix/dialect/sql"
	"github.com/syssam/migrix/schema"
)

// NewTypeMap returns the Informix native types of the semantic types.
// Types missing here (Double, Guid, Xml, unsigned integers, ...) fail to
// resolve and must be declared with a custom type.
func NewTypeMap() *sql.TypeMap {
	return sql.NewTypeMap().
		Set(schema.TypeAnsiString, "VARCHAR(255)").
		SetMax(schema.TypeAnsiString, 255, "VARCHAR($size)").
		Set(schema.TypeAnsiStringFixedLength, "CHAR(32767)").
		SetMax(schema.TypeAnsiStringFixedLength, 32767, "CHAR($size)").
		Set(schema.TypeBinary, "BLOB").
		Set(schema.TypeBoolean, "BOOLEAN").
		Set(schema.TypeByte, "BYTE").
		Set(schema.TypeDate, "DATE").
		Set(schema.TypeDateTime, "DATETIME YEAR TO FRACTION").
		Set(schema.TypeDecimal, "DECIMAL(19,5)").
		SetMax(schema.TypeDecimal, 31, "DECIMAL($size,$precision)").
		Set(schema.TypeInt16, "SMALLINT").
		Set(schema.TypeInt32, "INT").
		Set(schema.TypeInt64, "BIGINT").
		Set(schema.TypeSingle, "FLOAT").
		Set(schema.TypeString, "NVARCHAR(255)").
		SetMax(schema.TypeString, 255, "NVARCHAR($size)").
		SetMax(schema.TypeString, math.MaxInt32, "LVARCHAR($size)").
		Set(schema.TypeStringFixedLength, "NCHAR(32767)").
		SetMax(schema.TypeStringFixedLength, 32767, "NCHAR($size)")
}
