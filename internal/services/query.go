package services

import (
	"net/url"
	"strings"
)

// EncodeQuery percent-encodes q for use as a single query-parameter value.
//
// Everything but unreserved characters (letters, digits, "-", "_", ".", "~") is escaped, and spaces become "%20".
func EncodeQuery(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}
