package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/guerrinha/stoq-api-golang/internal/listings"
	"github.com/guerrinha/stoq-api-golang/internal/session"
	"github.com/rs/zerolog"
)

// RepositoryAPI define o que a vitrine precisa do repositório.
type RepositoryAPI interface {
	List(ctx context.Context) ([]listings.Listing, error)
	UpdateQty(ctx context.Context, id int64, qty int) error
}

// CheckoutError nomeia o anúncio cuja dedução de estoque falhou.
// As linhas anteriores já foram deduzidas e NÃO são revertidas — o sistema
// original não tem rollback e esse comportamento é preservado.
type CheckoutError struct {
	ListingName string
	Err         error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout failed on %q: %v", e.ListingName, e.Err)
}

func (e *CheckoutError) Unwrap() error { return e.Err }

// View é a resposta da vitrine: o subconjunto filtrado e o total carregado.
type View struct {
	Listings []listings.Listing `json:"listings"`
	Total    int                `json:"total"`
}

// CartView resume o carrinho. Totais recalculados a cada leitura.
type CartView struct {
	Lines      []Line  `json:"lines"`
	TotalItems int     `json:"total_items"`
	TotalPrice float64 `json:"total_price"`
}

// CheckoutResult é o resultado de um checkout completo.
type CheckoutResult struct {
	Items   int    `json:"items"`
	Message string `json:"message,omitempty"`
}

// Service implementa a CatalogView: carregamento, busca local, quantidade e
// checkout. Todo estado mora na sessão; cada operação carrega, muda e salva.
type Service struct {
	repository RepositoryAPI
	sessions   session.Store
	logger     zerolog.Logger
}

// NewService cria o service da vitrine.
func NewService(repository RepositoryAPI, sessions session.Store, logger zerolog.Logger) *Service {
	return &Service{repository: repository, sessions: sessions, logger: logger}
}

const stateKeyPrefix = "catalog:"

// View recarrega a tabela inteira (o fetch de montagem do original) e aplica
// a busca local por cima.
func (service *Service) View(ctx context.Context, sid, query, typeFilter string) (View, error) {
	records, err := service.repository.List(ctx)
	if err != nil {
		service.logger.Error().Err(err).Msg("erro ao buscar produtos")
		return View{}, err
	}

	state := service.loadState(ctx, sid)
	state.SetProducts(records)
	if err := service.saveState(ctx, sid, state); err != nil {
		return View{}, err
	}

	return View{Listings: Filter(records, query, typeFilter), Total: len(records)}, nil
}

// SetQuantity aplica uma mudança de quantidade e devolve o carrinho
// resultante. Entrada não numérica é ignorada e o carrinho volta como está.
func (service *Service) SetQuantity(ctx context.Context, sid string, listingID int64, raw string) (CartView, error) {
	state := service.loadState(ctx, sid)

	// Sem snapshot ainda (sessão nova): carrega para ter o teto do clamp.
	if len(state.Products) == 0 {
		records, err := service.repository.List(ctx)
		if err != nil {
			service.logger.Error().Err(err).Msg("erro ao buscar produtos")
			return CartView{}, err
		}
		state.SetProducts(records)
	}

	applied, err := state.SetQuantity(listingID, raw)
	if err != nil {
		return CartView{}, err
	}
	if applied {
		if err := service.saveState(ctx, sid, state); err != nil {
			return CartView{}, err
		}
	}

	return cartView(state), nil
}

// Cart devolve o carrinho atual da sessão.
func (service *Service) Cart(ctx context.Context, sid string) (CartView, error) {
	state := service.loadState(ctx, sid)
	return cartView(state), nil
}

// Checkout deduz o estoque linha a linha, estritamente em ordem de inserção,
// esperando cada escrita antes da próxima. A primeira falha aborta o resto e
// mantém o carrinho como estava (linhas já deduzidas ficam deduzidas).
func (service *Service) Checkout(ctx context.Context, sid string) (CheckoutResult, error) {
	state := service.loadState(ctx, sid)
	if state.Cart.Empty() {
		return CheckoutResult{}, nil
	}

	for _, line := range state.Cart.Lines {
		if err := service.repository.UpdateQty(ctx, line.ID, line.Qty-line.CartQty); err != nil {
			service.logger.Error().Err(err).Int64("listing_id", line.ID).Msg("erro ao processar item")
			return CheckoutResult{}, &CheckoutError{ListingName: line.Name, Err: err}
		}
	}

	items := state.Cart.TotalItems()
	state.Cart.Clear()
	state.Selected = nil

	// Recarrega para a vitrine refletir o estoque novo. Falha aqui não
	// desfaz o checkout; fica o snapshot antigo (como o original).
	if records, err := service.repository.List(ctx); err == nil {
		state.SetProducts(records)
	} else {
		service.logger.Error().Err(err).Msg("erro ao recarregar produtos")
	}

	if err := service.saveState(ctx, sid, state); err != nil {
		return CheckoutResult{}, err
	}

	return CheckoutResult{
		Items:   items,
		Message: fmt.Sprintf("Pedido processado! %d itens foram subtraídos do estoque.", items),
	}, nil
}

func cartView(state State) CartView {
	lines := state.Cart.Lines
	if lines == nil {
		lines = []Line{}
	}
	return CartView{
		Lines:      lines,
		TotalItems: state.Cart.TotalItems(),
		TotalPrice: state.Cart.TotalPrice(),
	}
}

// loadState busca o estado da sessão; ausência ou estado corrompido viram
// estado zerado (sessão nova).
func (service *Service) loadState(ctx context.Context, sid string) State {
	var state State
	raw, ok, err := service.sessions.Get(ctx, stateKeyPrefix+sid)
	if err != nil {
		service.logger.Error().Err(err).Msg("erro ao carregar sessão")
		return state
	}
	if !ok {
		return state
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		service.logger.Error().Err(err).Msg("estado de sessão corrompido, recomeçando")
		return State{}
	}
	return state
}

func (service *Service) saveState(ctx context.Context, sid string, state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}
	return service.sessions.Put(ctx, stateKeyPrefix+sid, raw)
}
