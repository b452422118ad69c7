package app

import (
	"regexp"
	"strings"
)

// maxTracedQueryLength caps db.statement span attributes; the bulk upserts of
// a full week would otherwise dominate trace storage.
const maxTracedQueryLength = 512

var (
	sqlLineComment = regexp.MustCompile(`--[^\n]*`)
	sqlWhitespace  = regexp.MustCompile(`\s+`)
)

// formatDBQueryForTrace is the otelsql query formatter. It drops line
// comments, collapses whitespace and truncates long statements.
func formatDBQueryForTrace(query string) string {
	query = sqlLineComment.ReplaceAllString(query, " ")
	query = strings.TrimSpace(sqlWhitespace.ReplaceAllString(query, " "))
	query = strings.TrimSuffix(query, ";")
	if len(query) <= maxTracedQueryLength {
		return query
	}
	return query[:maxTracedQueryLength] + "..."
}
