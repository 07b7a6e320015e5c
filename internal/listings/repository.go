package listings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/guerrinha/stoq-api-golang/internal/dataclient"
)

// DataAPI define o que o repositório precisa do cliente de dados.
// Permite testar com stubs sem rede nem banco.
type DataAPI interface {
	Select(ctx context.Context, table string, order *dataclient.Order) (json.RawMessage, error)
	Insert(ctx context.Context, table string, rows any) (json.RawMessage, error)
	Update(ctx context.Context, table string, patch any, filter dataclient.Filter) (json.RawMessage, error)
	Delete(ctx context.Context, table string, filter dataclient.Filter) error
}

// Repository acessa a tabela stoq via DataClient.
// Contém só o mapeamento operação → chamada remota; regra de negócio fica nos
// workflows (catalog/admin).
type Repository struct {
	client DataAPI
}

// NewRepository cria um repositório de anúncios.
func NewRepository(client DataAPI) *Repository {
	return &Repository{client: client}
}

// List busca a tabela inteira, mais recentes primeiro (order id desc, como o
// fetch original). Resposta vazia ou nula vira slice vazio.
func (repository *Repository) List(ctx context.Context) ([]Listing, error) {
	raw, err := repository.client.Select(ctx, Table, &dataclient.Order{Column: "id", Ascending: false})
	if err != nil {
		return nil, err
	}

	records := []Listing{}
	if len(raw) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decoding listings: %w", err)
	}
	return records, nil
}

// Create insere um anúncio novo. O id fica com o servidor.
func (repository *Repository) Create(ctx context.Context, data Data) error {
	_, err := repository.client.Insert(ctx, Table, []Data{data})
	return err
}

// Replace sobrescreve todos os campos editáveis do anúncio com o id dado.
// O update manda o registro completo, barcode e timestamps inclusos — é assim
// que o formulário original salvava uma edição.
func (repository *Repository) Replace(ctx context.Context, id int64, data Data) error {
	_, err := repository.client.Update(ctx, Table, data, dataclient.Filter{Column: "id", Value: id})
	return err
}

// UpdateQty grava o novo estoque de um anúncio (a dedução do checkout).
func (repository *Repository) UpdateQty(ctx context.Context, id int64, qty int) error {
	patch := map[string]int{"qty": qty}
	_, err := repository.client.Update(ctx, Table, patch, dataclient.Filter{Column: "id", Value: id})
	return err
}

// Delete remove um anúncio pelo id.
func (repository *Repository) Delete(ctx context.Context, id int64) error {
	return repository.client.Delete(ctx, Table, dataclient.Filter{Column: "id", Value: id})
}
