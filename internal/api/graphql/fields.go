package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/accountsvc/user-service/internal/core/redact"
)

// requestedFields reads the client's top-level selection set from the resolve
// info: the field names the query actually asked for.
func requestedFields(info graphql.ResolveInfo) []string {
	if len(info.FieldASTs) == 0 || info.FieldASTs[0].SelectionSet == nil {
		return nil
	}
	selections := info.FieldASTs[0].SelectionSet.Selections
	fields := make([]string, 0, len(selections))
	for _, sel := range selections {
		if f, ok := sel.(*ast.Field); ok && f.Name != nil {
			fields = append(fields, f.Name.Value)
		}
	}
	return fields
}

// selectedAttributes maps the requested field set to the persistence
// attributes to fetch: always the id, never anything sensitive.
func selectedAttributes(info graphql.ResolveInfo) []string {
	return redact.SelectAttributes(requestedFields(info))
}
