package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/guerrinha/stoq-api-golang/internal/listings"
	"github.com/guerrinha/stoq-api-golang/internal/session"
	"github.com/rs/zerolog"
)

// RepositoryAPI define o que o painel precisa do repositório.
type RepositoryAPI interface {
	List(ctx context.Context) ([]listings.Listing, error)
	Create(ctx context.Context, data listings.Data) error
	Replace(ctx context.Context, id int64, data listings.Data) error
	Delete(ctx context.Context, id int64) error
}

var (
	// ErrValidation indica campo obrigatório vazio; o draft fica intacto.
	ErrValidation = errors.New("campos obrigatórios não preenchidos")
	// ErrFormClosed indica operação de formulário sem formulário aberto.
	ErrFormClosed = errors.New("formulário não está aberto")
	// ErrNotFound indica edição de um imóvel que não está na listagem.
	ErrNotFound = errors.New("imóvel não encontrado")
	// ErrConfirmationRequired indica delete sem confirmação explícita.
	ErrConfirmationRequired = errors.New("exclusão não confirmada")
)

// ListResult é a listagem do painel.
type ListResult struct {
	Listings []listings.Listing `json:"listings"`
	Total    int                `json:"total"`
}

// SubmitResult carrega a mensagem de sucesso e a listagem recarregada.
// Listings fica nula quando o reload pós-gravação falha; a gravação em si
// não é desfeita.
type SubmitResult struct {
	Message  string             `json:"message"`
	Listings []listings.Listing `json:"listings,omitempty"`
}

// DeleteResult é o resultado de uma exclusão confirmada.
type DeleteResult struct {
	Message  string             `json:"message"`
	Listings []listings.Listing `json:"listings,omitempty"`
}

// Service implementa o painel administrativo: listagem, o formulário de
// modo duplo (criar/editar) e a exclusão. O formulário vive na sessão;
// cada operação carrega, muda e salva.
type Service struct {
	repository RepositoryAPI
	sessions   session.Store
	validate   *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService cria o service do painel.
func NewService(repository RepositoryAPI, sessions session.Store, logger zerolog.Logger) *Service {
	return &Service{
		repository: repository,
		sessions:   sessions,
		validate:   validator.New(),
		logger:     logger,
		now:        time.Now,
	}
}

const formKeyPrefix = "admin:form:"

// List devolve a tabela completa, sempre recarregada do remoto.
func (service *Service) List(ctx context.Context) (ListResult, error) {
	records, err := service.repository.List(ctx)
	if err != nil {
		service.logger.Error().Err(err).Msg("erro ao buscar imóveis")
		return ListResult{}, err
	}
	return ListResult{Listings: records, Total: len(records)}, nil
}

// Form devolve o estado atual do formulário da sessão.
func (service *Service) Form(ctx context.Context, sid string) (Form, error) {
	return service.loadForm(ctx, sid), nil
}

// OpenForm abre o formulário em modo criação, descartando qualquer draft.
func (service *Service) OpenForm(ctx context.Context, sid string) (Form, error) {
	form := service.loadForm(ctx, sid)
	form.Open()
	if err := service.saveForm(ctx, sid, form); err != nil {
		return Form{}, err
	}
	return form, nil
}

// OpenFormFor abre o formulário em modo edição pré-preenchido com o imóvel
// pedido. O registro vem da listagem corrente, como a linha da tabela de onde
// o clique de editar partia.
func (service *Service) OpenFormFor(ctx context.Context, sid string, id int64) (Form, error) {
	records, err := service.repository.List(ctx)
	if err != nil {
		service.logger.Error().Err(err).Msg("erro ao buscar imóveis")
		return Form{}, err
	}

	form := service.loadForm(ctx, sid)
	for _, record := range records {
		if record.ID == id {
			form.OpenFor(record)
			if err := service.saveForm(ctx, sid, form); err != nil {
				return Form{}, err
			}
			return form, nil
		}
	}
	return Form{}, ErrNotFound
}

// UpdateDraft mescla uma mudança parcial no draft do formulário aberto.
func (service *Service) UpdateDraft(ctx context.Context, sid string, patch DraftPatch) (Form, error) {
	form := service.loadForm(ctx, sid)
	if form.Mode == ModeClosed {
		return Form{}, ErrFormClosed
	}
	form.Apply(patch)
	if err := service.saveForm(ctx, sid, form); err != nil {
		return Form{}, err
	}
	return form, nil
}

// CancelForm fecha o formulário e descarta o draft.
func (service *Service) CancelForm(ctx context.Context, sid string) (Form, error) {
	form := service.loadForm(ctx, sid)
	form.Cancel()
	if err := service.saveForm(ctx, sid, form); err != nil {
		return Form{}, err
	}
	return form, nil
}

// SubmitForm valida, coere e grava o draft. Validação falha ou gravação
// falha deixam o formulário aberto com o draft como estava; sucesso fecha o
// formulário e recarrega a listagem.
func (service *Service) SubmitForm(ctx context.Context, sid string) (SubmitResult, error) {
	form := service.loadForm(ctx, sid)
	if form.Mode == ModeClosed {
		return SubmitResult{}, ErrFormClosed
	}

	if err := service.validate.Struct(form.Draft); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	data := form.Coerce(service.now())

	var err error
	var message string
	if form.Mode == ModeEdit {
		err = service.repository.Replace(ctx, form.EditingID, data)
		message = "Imóvel atualizado com sucesso!"
	} else {
		err = service.repository.Create(ctx, data)
		message = "Imóvel adicionado com sucesso!"
	}
	if err != nil {
		service.logger.Error().Err(err).Str("mode", string(form.Mode)).Msg("erro ao salvar imóvel")
		return SubmitResult{}, err
	}

	form.Cancel()
	if err := service.saveForm(ctx, sid, form); err != nil {
		return SubmitResult{}, err
	}

	return SubmitResult{Message: message, Listings: service.reload(ctx)}, nil
}

// Delete exclui um imóvel. Sem confirmação explícita devolve
// ErrConfirmationRequired e não toca no remoto.
func (service *Service) Delete(ctx context.Context, id int64, confirmed bool) (DeleteResult, error) {
	if !confirmed {
		return DeleteResult{}, ErrConfirmationRequired
	}

	if err := service.repository.Delete(ctx, id); err != nil {
		service.logger.Error().Err(err).Int64("listing_id", id).Msg("erro ao deletar imóvel")
		return DeleteResult{}, err
	}

	return DeleteResult{Message: "Imóvel deletado com sucesso!", Listings: service.reload(ctx)}, nil
}

// reload rebusca a listagem pós-gravação. Falha aqui só é logada: a escrita
// já aconteceu e a resposta segue sem a listagem.
func (service *Service) reload(ctx context.Context) []listings.Listing {
	records, err := service.repository.List(ctx)
	if err != nil {
		service.logger.Error().Err(err).Msg("erro ao recarregar imóveis")
		return nil
	}
	return records
}

// loadForm busca o formulário da sessão; ausência ou estado corrompido viram
// formulário fechado novo.
func (service *Service) loadForm(ctx context.Context, sid string) Form {
	raw, ok, err := service.sessions.Get(ctx, formKeyPrefix+sid)
	if err != nil {
		service.logger.Error().Err(err).Msg("erro ao carregar sessão")
		return NewForm()
	}
	if !ok {
		return NewForm()
	}
	var form Form
	if err := json.Unmarshal(raw, &form); err != nil {
		service.logger.Error().Err(err).Msg("formulário de sessão corrompido, recomeçando")
		return NewForm()
	}
	return form
}

func (service *Service) saveForm(ctx context.Context, sid string, form Form) error {
	raw, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("encoding form state: %w", err)
	}
	return service.sessions.Put(ctx, formKeyPrefix+sid, raw)
}
