package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-nacelle/pgviews"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatSQL  = "sql"

	OrderCatalog = "catalog"
	OrderName    = "name"
)

var (
	Formats = []string{FormatJSON, FormatYAML, FormatSQL}
	Orders  = []string{OrderCatalog, OrderName}
)

// Views serializes views in the given format. Catalog order is kept unless order is
// OrderName; the input slice is never reordered.
func Views(views []pgviews.View, format, order string) (string, error) {
	switch order {
	case OrderCatalog:
	case OrderName:
		views = slices.Clone(views)
		slices.SortFunc(views, func(a, b pgviews.View) int {
			return strings.Compare(a.QualifiedName, b.QualifiedName)
		})
	default:
		return "", fmt.Errorf("unknown order %q (expected one of %s)", order, strings.Join(Orders, ", "))
	}

	switch format {
	case FormatJSON:
		serialized, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return "", err
		}

		return string(serialized) + "\n", nil

	case FormatYAML:
		serialized, err := yaml.Marshal(views)
		if err != nil {
			return "", err
		}

		return string(serialized), nil

	case FormatSQL:
		var b strings.Builder
		for _, view := range views {
			b.WriteString(view.Statement())
			b.WriteString("\n\n")
		}

		return b.String(), nil
	}

	return "", fmt.Errorf("unknown format %q (expected one of %s)", format, strings.Join(Formats, ", "))
}
