package catalog

import "github.com/guerrinha/stoq-api-golang/internal/listings"

// Line é um anúncio mais a quantidade reservada nesta sessão.
// O snapshot do anúncio (preço, estoque) é o do momento da seleção.
type Line struct {
	listings.Listing
	CartQty int `json:"cartQty"`
}

// Cart é o carrinho da sessão. As linhas ficam em ordem de inserção, e essa
// ordem é o único contrato de ordenação do checkout.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Set é a máquina de estados de uma linha: quantidade positiva cria ou
// atualiza a linha do anúncio; zero remove. Nenhum outro caminho mexe no
// carrinho.
func (cart *Cart) Set(record listings.Listing, quantity int) {
	if quantity <= 0 {
		cart.Remove(record.ID)
		return
	}

	for i := range cart.Lines {
		if cart.Lines[i].ID == record.ID {
			cart.Lines[i].CartQty = quantity
			return
		}
	}
	cart.Lines = append(cart.Lines, Line{Listing: record, CartQty: quantity})
}

// Remove tira a linha do anúncio, se existir.
func (cart *Cart) Remove(listingID int64) {
	for i := range cart.Lines {
		if cart.Lines[i].ID == listingID {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			return
		}
	}
}

// TotalItems soma as quantidades. Sempre derivado, nunca armazenado.
func (cart *Cart) TotalItems() int {
	total := 0
	for _, line := range cart.Lines {
		total += line.CartQty
	}
	return total
}

// TotalPrice soma preço × quantidade de cada linha.
func (cart *Cart) TotalPrice() float64 {
	total := 0.0
	for _, line := range cart.Lines {
		total += line.Price * float64(line.CartQty)
	}
	return total
}

// Clear esvazia o carrinho (pós-checkout).
func (cart *Cart) Clear() {
	cart.Lines = nil
}

// Empty informa se não há nenhuma linha.
func (cart *Cart) Empty() bool {
	return len(cart.Lines) == 0
}
