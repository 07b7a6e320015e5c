package listings

import "time"

// Table é o nome da tabela hospedada que os dois painéis compartilham.
const Table = "stoq"

// Tipos de anúncio aceitos (controlam o badge no front).
const (
	TypeCasa        = "casa"
	TypeApartamento = "apartamento"
)

// Data reúne os campos persistidos de um anúncio, exceto o id.
// É o payload de escrita: o id é gerado pelo servidor e imutável.
type Data struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Area        int       `json:"area"`
	Description string    `json:"description"`
	Featured    bool      `json:"featured"`
	Qty         int       `json:"qty"`
	Barcode     string    `json:"barcode"`
	Lote        time.Time `json:"lote"`
	UpdatedAt   time.Time `json:"update"`
}

// Listing é um registro persistido da tabela stoq.
// O id é a única chave estável do sistema.
type Listing struct {
	ID int64 `json:"id"`
	Data
}
