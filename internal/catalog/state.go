package catalog

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/guerrinha/stoq-api-golang/internal/listings"
)

// ErrUnknownListing indica quantidade para um anúncio fora do snapshot.
var ErrUnknownListing = errors.New("unknown listing")

// digitsOnly reproduz a validação do input original (/^\d*$/): qualquer
// caractere não numérico faz a mudança ser ignorada, não clampada.
var digitsOnly = regexp.MustCompile(`^\d*$`)

// State é o estado da vitrine por sessão: o snapshot de produtos do último
// carregamento, as quantidades selecionadas e o carrinho.
type State struct {
	Products []listings.Listing `json:"products"`
	Selected map[int64]int      `json:"selected"`
	Cart     Cart               `json:"cart"`
}

// SetQuantity aplica uma mudança de quantidade vinda do usuário.
// Devolve false quando a entrada é rejeitada (não numérica); nesse caso a
// quantidade anterior permanece. O teto do clamp é o estoque do snapshot —
// capturado no carregamento, sem revalidar contra mudanças concorrentes.
func (state *State) SetQuantity(listingID int64, raw string) (bool, error) {
	if !digitsOnly.MatchString(raw) {
		return false, nil
	}

	record, ok := state.lookup(listingID)
	if !ok {
		return false, ErrUnknownListing
	}

	// Entrada vazia vira 0, igual ao parseInt(value) || 0 do original.
	value, err := strconv.Atoi(raw)
	if err != nil {
		value = 0
	}
	if value > record.Qty {
		value = record.Qty
	}
	if value < 0 {
		value = 0
	}

	if state.Selected == nil {
		state.Selected = make(map[int64]int)
	}

	if value > 0 {
		state.Selected[listingID] = value
		state.Cart.Set(record, value)
	} else {
		delete(state.Selected, listingID)
		state.Cart.Remove(listingID)
	}
	return true, nil
}

// SetProducts troca o snapshot (um novo "render" da vitrine).
func (state *State) SetProducts(records []listings.Listing) {
	state.Products = records
}

func (state *State) lookup(listingID int64) (listings.Listing, bool) {
	for _, record := range state.Products {
		if record.ID == listingID {
			return record, true
		}
	}
	return listings.Listing{}, false
}
