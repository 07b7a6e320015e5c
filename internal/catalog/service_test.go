package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guerrinha/stoq-api-golang/internal/listings"
	"github.com/guerrinha/stoq-api-golang/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type qtyUpdate struct {
	id  int64
	qty int
}

// fakeRepository implementa RepositoryAPI para testes.
type fakeRepository struct {
	listRecords []listings.Listing
	listErr     error
	listCalls   int

	updates     []qtyUpdate
	updateErrOn map[int64]error
}

func (repo *fakeRepository) List(ctx context.Context) ([]listings.Listing, error) {
	repo.listCalls++
	if repo.listErr != nil {
		return nil, repo.listErr
	}
	return repo.listRecords, nil
}

func (repo *fakeRepository) UpdateQty(ctx context.Context, id int64, qty int) error {
	if err, ok := repo.updateErrOn[id]; ok {
		return err
	}
	repo.updates = append(repo.updates, qtyUpdate{id: id, qty: qty})
	return nil
}

func newTestService(repo *fakeRepository) *Service {
	return NewService(repo, session.NewMemory(time.Minute), zerolog.Nop())
}

func TestService_View(t *testing.T) {
	repo := &fakeRepository{listRecords: catalogRecords()}
	service := newTestService(repo)

	view, err := service.View(context.Background(), "sid-1", "casa", TypeAll)

	require.NoError(t, err)
	require.Equal(t, 3, view.Total)
	require.Len(t, view.Listings, 2)
	require.Equal(t, 1, repo.listCalls)
}

func TestService_ViewRemoteError(t *testing.T) {
	repo := &fakeRepository{listErr: errors.New("down")}
	service := newTestService(repo)

	_, err := service.View(context.Background(), "sid-1", "", "")

	require.Error(t, err)
}

func TestService_SetQuantityLoadsSnapshotOnFirstUse(t *testing.T) {
	repo := &fakeRepository{listRecords: snapshot()}
	service := newTestService(repo)

	cart, err := service.SetQuantity(context.Background(), "sid-1", 1, "2")

	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls)
	require.Equal(t, 2, cart.TotalItems)
	require.Len(t, cart.Lines, 1)
}

func TestService_SetQuantityPersistsAcrossCalls(t *testing.T) {
	repo := &fakeRepository{listRecords: snapshot()}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.SetQuantity(ctx, "sid-1", 1, "2")
	require.NoError(t, err)
	_, err = service.SetQuantity(ctx, "sid-1", 2, "1")
	require.NoError(t, err)

	cart, err := service.Cart(ctx, "sid-1")
	require.NoError(t, err)
	require.Equal(t, 3, cart.TotalItems)
	require.Equal(t, 2*500000+320000.0, cart.TotalPrice)
}

func TestService_SetQuantityIgnoredInputKeepsState(t *testing.T) {
	repo := &fakeRepository{listRecords: snapshot()}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.SetQuantity(ctx, "sid-1", 1, "3")
	require.NoError(t, err)

	cart, err := service.SetQuantity(ctx, "sid-1", 1, "abc")

	require.NoError(t, err)
	require.Equal(t, 3, cart.TotalItems)
}

func TestService_SetQuantityUnknownListing(t *testing.T) {
	repo := &fakeRepository{listRecords: snapshot()}
	service := newTestService(repo)

	_, err := service.SetQuantity(context.Background(), "sid-1", 42, "1")

	require.ErrorIs(t, err, ErrUnknownListing)
}

func TestService_SessionsAreIsolated(t *testing.T) {
	repo := &fakeRepository{listRecords: snapshot()}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.SetQuantity(ctx, "sid-a", 1, "2")
	require.NoError(t, err)

	cart, err := service.Cart(ctx, "sid-b")
	require.NoError(t, err)
	require.Zero(t, cart.TotalItems)
}

func TestService_CheckoutEmptyCartIsNoop(t *testing.T) {
	repo := &fakeRepository{listRecords: snapshot()}
	service := newTestService(repo)

	result, err := service.Checkout(context.Background(), "sid-1")

	require.NoError(t, err)
	require.Zero(t, result.Items)
	require.Empty(t, repo.updates)
	require.Zero(t, repo.listCalls)
}

func TestService_CheckoutSequentialDeduction(t *testing.T) {
	// Carrinho [{id:1, qty:5, cartQty:2}, {id:2, qty:3, cartQty:1}] →
	// exatamente dois updates em ordem, qty = estoque - reservado.
	repo := &fakeRepository{listRecords: snapshot()}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.SetQuantity(ctx, "sid-1", 1, "2")
	require.NoError(t, err)
	_, err = service.SetQuantity(ctx, "sid-1", 2, "1")
	require.NoError(t, err)

	result, err := service.Checkout(ctx, "sid-1")

	require.NoError(t, err)
	require.Equal(t, []qtyUpdate{{id: 1, qty: 3}, {id: 2, qty: 2}}, repo.updates)
	require.Equal(t, 3, result.Items)
	require.Equal(t, "Pedido processado! 3 itens foram subtraídos do estoque.", result.Message)

	// Carrinho e seleções limpos; vitrine recarregada.
	cart, err := service.Cart(ctx, "sid-1")
	require.NoError(t, err)
	require.Zero(t, cart.TotalItems)
	require.Empty(t, cart.Lines)
}

func TestService_CheckoutShortCircuitsOnFirstFailure(t *testing.T) {
	repo := &fakeRepository{
		listRecords: snapshot(),
		updateErrOn: map[int64]error{1: errors.New("conflict")},
	}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.SetQuantity(ctx, "sid-1", 1, "2")
	require.NoError(t, err)
	_, err = service.SetQuantity(ctx, "sid-1", 2, "1")
	require.NoError(t, err)

	_, err = service.Checkout(ctx, "sid-1")

	var checkoutErr *CheckoutError
	require.ErrorAs(t, err, &checkoutErr)
	require.Equal(t, "Casa Jardim", checkoutErr.ListingName)
	// A segunda escrita nunca acontece.
	require.Empty(t, repo.updates)

	// Carrinho fica como estava (sem rollback, sem limpeza).
	cart, err := service.Cart(ctx, "sid-1")
	require.NoError(t, err)
	require.Equal(t, 3, cart.TotalItems)
}

func TestService_CheckoutPartialFailureKeepsEarlierDeductions(t *testing.T) {
	repo := &fakeRepository{
		listRecords: snapshot(),
		updateErrOn: map[int64]error{2: errors.New("conflict")},
	}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.SetQuantity(ctx, "sid-1", 1, "2")
	require.NoError(t, err)
	_, err = service.SetQuantity(ctx, "sid-1", 2, "1")
	require.NoError(t, err)

	_, err = service.Checkout(ctx, "sid-1")

	var checkoutErr *CheckoutError
	require.ErrorAs(t, err, &checkoutErr)
	require.Equal(t, "Apto Centro", checkoutErr.ListingName)
	// A primeira dedução foi aplicada e não é revertida.
	require.Equal(t, []qtyUpdate{{id: 1, qty: 3}}, repo.updates)
}

func TestService_CheckoutReloadFailureDoesNotUndo(t *testing.T) {
	repo := &fakeRepository{listRecords: snapshot()}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.SetQuantity(ctx, "sid-1", 1, "1")
	require.NoError(t, err)

	repo.listErr = errors.New("down")
	result, err := service.Checkout(ctx, "sid-1")

	require.NoError(t, err)
	require.Equal(t, 1, result.Items)
}
