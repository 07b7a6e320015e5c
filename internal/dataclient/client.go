// Package dataclient fala com a tabela remota ("stoq") do jeito que o site
// original falava com o Supabase: operações genéricas por nome de tabela e
// filtro por coluna, devolvendo dado-ou-erro, nunca pânico.
package dataclient

import (
	"context"
	"encoding/json"
	"fmt"
)

// Order descreve a ordenação de um select.
type Order struct {
	Column    string
	Ascending bool
}

// Filter é um filtro de igualdade por coluna (o único que o sistema usa).
type Filter struct {
	Column string
	Value  any
}

// API é o contrato do cliente de dados. Os dois erros possíveis:
//   - *APIError: o servidor respondeu com um corpo de erro (o "error não-nulo"
//     do contrato original);
//   - qualquer outro error: falha de transporte (a "exceção" do original).
//
// Os workflows tratam os dois igual: logam e mostram para o usuário.
type API interface {
	Select(ctx context.Context, table string, order *Order) (json.RawMessage, error)
	Insert(ctx context.Context, table string, rows any) (json.RawMessage, error)
	Update(ctx context.Context, table string, patch any, filter Filter) (json.RawMessage, error)
	Delete(ctx context.Context, table string, filter Filter) error
	Ping(ctx context.Context) error
}

// APIError é o erro reportado pelo servidor de dados (não o de transporte).
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("data api error (status %d, code %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("data api error (status %d): %s", e.Status, e.Message)
}

// UserMessage devolve a mensagem reportada pelo servidor, para exibição direta.
func (e *APIError) UserMessage() string {
	return e.Message
}
