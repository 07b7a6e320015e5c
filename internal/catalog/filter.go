package catalog

import (
	"strings"

	"github.com/guerrinha/stoq-api-golang/internal/listings"
)

// TypeAll desliga o filtro de tipo.
const TypeAll = "all"

// Filter aplica a busca da vitrine sobre o conjunto já carregado: substring
// case-insensitive em nome ou localização, intersectada com o filtro de tipo.
// Nada disso vai para o servidor — é filtragem local, como no original.
func Filter(records []listings.Listing, query, typeFilter string) []listings.Listing {
	query = strings.ToLower(strings.TrimSpace(query))
	if typeFilter == "" {
		typeFilter = TypeAll
	}

	filtered := []listings.Listing{}
	for _, record := range records {
		if typeFilter != TypeAll && record.Type != typeFilter {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(record.Name), query) &&
			!strings.Contains(strings.ToLower(record.Location), query) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}
