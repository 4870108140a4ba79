package pgviews

import (
	"fmt"
	"regexp"
)

// Q is a formatted query and its positional arguments.
type Q struct {
	query string
	args  []any
}

type Args map[string]any

var placeholderPattern = regexp.MustCompile(`{:(\w+)}`)

// Query replaces each `{:name}` placeholder in format with a positional parameter
// bound to args[name]. Repeated names share a parameter. A Q value without arguments
// (see Quote) is spliced in literally.
func Query(format string, args Args) Q {
	var (
		values  []any
		indexes = map[string]int{}
	)

	query := placeholderPattern.ReplaceAllStringFunc(format, func(placeholder string) string {
		name := placeholderPattern.FindStringSubmatch(placeholder)[1]

		value, ok := args[name]
		if !ok {
			panic(fmt.Sprintf("no arg supplied for %q", name))
		}

		if q, ok := value.(Q); ok {
			if len(q.args) != 0 {
				panic(fmt.Sprintf("arg %q is a parameterized query fragment", name))
			}

			return q.query
		}

		index, ok := indexes[name]
		if !ok {
			values = append(values, value)
			index = len(values)
			indexes[name] = index
		}

		return fmt.Sprintf("$%d", index)
	})

	return Q{query: query, args: values}
}

// Quote embeds trusted text (such as an already-quoted identifier) into a query.
func Quote(format string) Q {
	return RawQuery(format)
}

func RawQuery(format string, args ...any) Q {
	return Q{query: format, args: args}
}

func queryf(format string, args ...any) Q {
	return RawQuery(fmt.Sprintf(format, args...))
}

func (q Q) Format() (string, []any) {
	return q.query, q.args
}
