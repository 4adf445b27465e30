package dialect

import "strings"

// reservedWords covers the names most often seen as column names in the
// wild that every supported flavor treats as keywords. Frequency and
// contingency queries interpolate raw column names, so these must be
// quoted there.
var reservedWords = map[string]bool{
	"all": true, "and": true, "any": true, "as": true, "asc": true,
	"between": true, "by": true, "case": true, "check": true, "column": true,
	"count": true, "create": true, "cross": true, "current": true,
	"date": true, "day": true, "default": true, "desc": true, "distinct": true,
	"else": true, "end": true, "exists": true, "false": true, "first": true,
	"for": true, "from": true, "full": true, "group": true, "having": true,
	"in": true, "index": true, "inner": true, "is": true, "join": true,
	"key": true, "last": true, "left": true, "level": true, "like": true,
	"limit": true, "month": true, "name": true, "not": true, "null": true,
	"on": true, "or": true, "order": true, "outer": true, "primary": true,
	"right": true, "row": true, "rows": true, "select": true, "set": true,
	"size": true, "some": true, "state": true, "table": true, "then": true,
	"time": true, "timestamp": true, "to": true, "true": true, "type": true,
	"union": true, "unique": true, "update": true, "user": true, "value": true,
	"values": true, "when": true, "where": true, "year": true,
}

// quoteIfNeeded wraps name in the quote character when it is a reserved
// word, contains non-identifier characters, or has embedded whitespace.
// Already-quoted names pass through untouched.
func quoteIfNeeded(name, quote string) string {
	if name == "" {
		return name
	}
	if strings.HasPrefix(name, quote) && strings.HasSuffix(name, quote) {
		return name
	}
	if reservedWords[strings.ToLower(name)] || !isPlainIdentifier(name) {
		return quote + name + quote
	}
	return name
}

func isPlainIdentifier(name string) bool {
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
