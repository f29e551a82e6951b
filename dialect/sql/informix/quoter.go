package informix

import (
	"github.com/syssam/migrix/dialect/sql"
)

// SpecialChars are the characters that force an Informix identifier to be
// delimited. Names without them stay unquoted and case-insensitive.
const SpecialChars = `"%'()*+|,{}-./:;<=>?^[]`

// NewQuoter returns the Informix quoter: double-quoted delimited
// identifiers, 't'/'f' booleans and millisecond timestamps.
func NewQuoter() *sql.Quoter {
	return &sql.Quoter{
		Open:           `"`,
		Close:          `"`,
		Special:        SpecialChars,
		DateTimeLayout: sql.DefaultDateTimeLayout,
		True:           "'t'",
		False:          "'f'",
	}
}
