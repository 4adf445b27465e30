package dialect

import (
	"fmt"
	"strings"
)

// RewriteFunc renders one neutral template function call into flavor SQL.
// args are the raw argument texts, whitespace-trimmed, with nesting intact.
type RewriteFunc func(args []string) string

const fnMarker = "{{DKFN_"

// ApplyRewrites replaces every {{DKFN_NAME(args)}} call in sql using the
// dialect's rewrite table. Nested calls are resolved innermost-first.
// Unknown function names are an error: a template referencing a function a
// dialect cannot express must fail before dispatch, not at the database.
func ApplyRewrites(sql string, d Dialect) (string, error) {
	rewrites := d.FunctionRewrites()

	// Innermost-first: repeat until no markers remain. Each pass only
	// rewrites calls whose argument text contains no further marker.
	for i := 0; i < 32; i++ {
		if !strings.Contains(sql, fnMarker) {
			return sql, nil
		}
		out, err := rewriteOnePass(sql, rewrites, d)
		if err != nil {
			return "", err
		}
		sql = out
	}
	return "", fmt.Errorf("function rewrite did not converge (nesting too deep or malformed call)")
}

func rewriteOnePass(sql string, rewrites map[string]RewriteFunc, d Dialect) (string, error) {
	var b strings.Builder
	pos := 0

	for {
		idx := strings.Index(sql[pos:], fnMarker)
		if idx < 0 {
			b.WriteString(sql[pos:])
			return b.String(), nil
		}
		start := pos + idx
		b.WriteString(sql[pos:start])

		name, args, end, err := parseCall(sql, start)
		if err != nil {
			return "", err
		}

		// Defer outer calls that still contain unresolved inner calls.
		inner := false
		for _, a := range args {
			if strings.Contains(a, fnMarker) {
				inner = true
				break
			}
		}
		if inner {
			b.WriteString(sql[start : start+len(fnMarker)])
			pos = start + len(fnMarker)
			continue
		}

		fn, ok := rewrites[name]
		if !ok {
			return "", fmt.Errorf("dialect %s has no rewrite for template function %s", d.Flavor(), name)
		}
		b.WriteString(fn(args))
		pos = end
	}
}

// parseCall parses {{DKFN_NAME(arg, arg)}} starting at start. Returns the
// function name (without the DKFN_ prefix), top-level comma-split arguments,
// and the index just past the closing "}}".
func parseCall(sql string, start int) (string, []string, int, error) {
	rest := sql[start+len(fnMarker):]

	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return "", nil, 0, fmt.Errorf("malformed template function call at %q", truncateAt(sql[start:], 40))
	}
	name := rest[:open]

	depth := 1
	i := open + 1
	for ; i < len(rest) && depth > 0; i++ {
		switch rest[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	if depth != 0 {
		return "", nil, 0, fmt.Errorf("unbalanced parentheses in template function %s", name)
	}
	argText := rest[open+1 : i-1]

	if !strings.HasPrefix(rest[i:], "}}") {
		return "", nil, 0, fmt.Errorf("template function %s not closed with }}", name)
	}
	end := start + len(fnMarker) + i + 2

	return name, splitArgs(argText), end, nil
}

// splitArgs splits on top-level commas, respecting parentheses and single
// quotes so expression arguments pass through intact.
func splitArgs(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var args []string
	depth := 0
	inQuote := false
	last := 0

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\'':
			inQuote = !inQuote
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
			}
		case ',':
			if depth == 0 && !inQuote {
				args = append(args, strings.TrimSpace(text[last:i]))
				last = i + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(text[last:]))
	return args
}

func truncateAt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
