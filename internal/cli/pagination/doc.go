// Package pagination binds and validates the --limit/--offset and
// --page/--page-size flags used by list commands. Paging is applied by the
// backend; this package only turns flags into the query the facades send.
package pagination
