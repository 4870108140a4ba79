package pgviews

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lib/pq"
)

// IdentifierQuoter renders an identifier in the target database's quoted form.
type IdentifierQuoter interface {
	QuoteIdentifier(name string) string
}

type IdentifierQuoterFunc func(name string) string

func (f IdentifierQuoterFunc) QuoteIdentifier(name string) string {
	return f(name)
}

// PostgresIdentifierQuoter double-quotes identifiers and doubles embedded quotes.
var PostgresIdentifierQuoter IdentifierQuoter = IdentifierQuoterFunc(pq.QuoteIdentifier)

// DefaultNamespace is the schema whose members are emitted unqualified.
const DefaultNamespace = "public"

var ErrMalformedIdentifier = fmt.Errorf("malformed identifier")

var bareIdentifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func IsBareIdentifier(name string) bool {
	return bareIdentifierPattern.MatchString(name)
}

// QuoteIdentifier returns name unchanged when it is a valid bare identifier and the
// quoter's rendering of it otherwise.
func QuoteIdentifier(quoter IdentifierQuoter, name string) (string, error) {
	if err := validateIdentifier(name); err != nil {
		return "", err
	}

	if IsBareIdentifier(name) {
		return name, nil
	}

	return quoter.QuoteIdentifier(name), nil
}

// Qualify renders a view name for use in generated SQL. Members of the default
// namespace are emitted alone; everything else is `namespace.name`. Each part is
// quoted on its own.
func Qualify(quoter IdentifierQuoter, namespace, name string) (string, error) {
	return qualify(quoter, DefaultNamespace, namespace, name)
}

func qualify(quoter IdentifierQuoter, defaultNamespace, namespace, name string) (string, error) {
	quotedName, err := QuoteIdentifier(quoter, name)
	if err != nil {
		return "", err
	}

	if namespace == defaultNamespace {
		return quotedName, nil
	}

	quotedNamespace, err := QuoteIdentifier(quoter, namespace)
	if err != nil {
		return "", err
	}

	return quotedNamespace + "." + quotedName, nil
}

func validateIdentifier(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrMalformedIdentifier)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a NUL byte", ErrMalformedIdentifier, name)
	case !utf8.ValidString(name):
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrMalformedIdentifier, name)
	}

	return nil
}
