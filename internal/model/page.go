package model

import "strconv"

// Page is a limit/offset window.
type Page struct {
	Limit  int
	Offset int
}

// PageQuery holds the raw limit/offset query parameters. Values that are
// not integers are treated as absent and fall back to the listing defaults.
type PageQuery struct {
	Limit  string `form:"limit"`
	Offset string `form:"offset"`
}

// Values returns the parsed limit and offset, zero where unparsable.
func (q PageQuery) Values() (limit, offset int) {
	limit, _ = strconv.Atoi(q.Limit)
	offset, _ = strconv.Atoi(q.Offset)
	return limit, offset
}
