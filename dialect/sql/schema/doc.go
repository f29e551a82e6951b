// Package schema connects migration expressions to atlas. It converts
// atlas schema changes and inspected tables into expressions, writes
// rendered expressions into versioned atlas migration directories and
// validates expression batches before they run.
package schema
