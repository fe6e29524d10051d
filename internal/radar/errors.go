package radar

import (
	"fmt"
	"strings"
)

// CityNotFoundError reports that free-text city input did not confidently
// resolve against the catalog. Suggestions carries up to five candidate
// names, best first, for the caller to surface as a disambiguation hint.
type CityNotFoundError struct {
	City        string
	Suggestions []string
}

func (e *CityNotFoundError) Error() string {
	msg := fmt.Sprintf("Cidade %q não encontrada", e.City)
	if len(e.Suggestions) > 0 {
		msg += ". Tente: " + strings.Join(e.Suggestions, ", ")
	}
	return msg
}

// CatalogUnavailableError reports that the city catalog could not be read or
// was empty. This is an infrastructure failure, deliberately distinct from
// "no match" so the user is not told their city does not exist.
type CatalogUnavailableError struct {
	Err error
}

func (e *CatalogUnavailableError) Error() string {
	return "Erro ao buscar cidades disponíveis"
}

func (e *CatalogUnavailableError) Unwrap() error {
	return e.Err
}

// ProviderError reports a failed keyword-data provider call. Status carries
// the provider's own status code when the provider answered, 0 for transport
// failures.
type ProviderError struct {
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("Falha na consulta de palavras-chave (status %d)", e.Status)
	}
	return "Falha na consulta de palavras-chave"
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// InsufficientDataError reports that the provider answered but returned no
// keyword rows at all for the resolved query. Zero-volume rows are NOT this
// error; they feed a valid grade-D report.
type InsufficientDataError struct {
	Niche string
	City  string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("Sem dados de busca para %q em %s", e.Niche, e.City)
}
