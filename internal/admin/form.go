package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/guerrinha/stoq-api-golang/internal/listings"
)

// Mode é o estado do formulário de imóvel.
type Mode string

const (
	ModeClosed Mode = "closed"
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Draft guarda os campos como o usuário digitou: strings cruas, coeridas uma
// única vez no submit. As tags validate são o gate de campos obrigatórios —
// required em string é exatamente o teste de string vazia do original.
type Draft struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type"`
	Price       string `json:"price" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Bedrooms    string `json:"bedrooms" validate:"required"`
	Bathrooms   string `json:"bathrooms" validate:"required"`
	Area        string `json:"area" validate:"required"`
	Description string `json:"description"`
	Featured    bool   `json:"featured"`
	Qty         string `json:"qty"`
}

// DraftPatch é uma mudança parcial do draft: só os campos presentes no body
// são tocados, por isso ponteiros.
type DraftPatch struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Price       *string `json:"price"`
	Location    *string `json:"location"`
	Bedrooms    *string `json:"bedrooms"`
	Bathrooms   *string `json:"bathrooms"`
	Area        *string `json:"area"`
	Description *string `json:"description"`
	Featured    *bool   `json:"featured"`
	Qty         *string `json:"qty"`
}

func defaultDraft() Draft {
	return Draft{Type: listings.TypeCasa, Qty: "1"}
}

// Form é a máquina de estados do formulário por sessão:
// closed → create (Open) ou edit (OpenFor) → closed (Cancel ou submit ok).
type Form struct {
	Mode      Mode  `json:"mode"`
	EditingID int64 `json:"editing_id,omitempty"`
	Draft     Draft `json:"draft"`
}

// NewForm devolve o formulário fechado com o draft nos defaults.
func NewForm() Form {
	return Form{Mode: ModeClosed, Draft: defaultDraft()}
}

// Open entra em modo criação com o draft zerado.
func (form *Form) Open() {
	form.Mode = ModeCreate
	form.EditingID = 0
	form.Draft = defaultDraft()
}

// OpenFor entra em modo edição copiando cada campo do registro; numéricos
// viram a forma de exibição (string), como o formulário original.
func (form *Form) OpenFor(record listings.Listing) {
	form.Mode = ModeEdit
	form.EditingID = record.ID
	form.Draft = Draft{
		Name:        record.Name,
		Type:        record.Type,
		Price:       strconv.FormatFloat(record.Price, 'f', -1, 64),
		Location:    record.Location,
		Bedrooms:    strconv.Itoa(record.Bedrooms),
		Bathrooms:   strconv.Itoa(record.Bathrooms),
		Area:        strconv.Itoa(record.Area),
		Description: record.Description,
		Featured:    record.Featured,
		Qty:         strconv.Itoa(record.Qty),
	}
}

// Cancel fecha e descarta o draft, qualquer que fosse o modo.
func (form *Form) Cancel() {
	form.Mode = ModeClosed
	form.EditingID = 0
	form.Draft = defaultDraft()
}

// Apply mescla uma mudança parcial no draft.
func (form *Form) Apply(patch DraftPatch) {
	if patch.Name != nil {
		form.Draft.Name = *patch.Name
	}
	if patch.Type != nil {
		form.Draft.Type = *patch.Type
	}
	if patch.Price != nil {
		form.Draft.Price = *patch.Price
	}
	if patch.Location != nil {
		form.Draft.Location = *patch.Location
	}
	if patch.Bedrooms != nil {
		form.Draft.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		form.Draft.Bathrooms = *patch.Bathrooms
	}
	if patch.Area != nil {
		form.Draft.Area = *patch.Area
	}
	if patch.Description != nil {
		form.Draft.Description = *patch.Description
	}
	if patch.Featured != nil {
		form.Draft.Featured = *patch.Featured
	}
	if patch.Qty != nil {
		form.Draft.Qty = *patch.Qty
	}
}

// Coerce converte o draft num registro persistível. Só é chamado depois do
// gate de validação. Barcode novo e timestamps de agora em TODO submit,
// edição inclusive: o reset do lote original é comportamento preservado.
func (form *Form) Coerce(now time.Time) listings.Data {
	return listings.Data{
		Name:        strings.TrimSpace(form.Draft.Name),
		Type:        form.Draft.Type,
		Price:       parseFloatOrZero(form.Draft.Price),
		Location:    strings.TrimSpace(form.Draft.Location),
		Bedrooms:    parseIntOrZero(form.Draft.Bedrooms),
		Bathrooms:   parseIntOrZero(form.Draft.Bathrooms),
		Area:        parseIntOrZero(form.Draft.Area),
		Description: strings.TrimSpace(form.Draft.Description),
		Featured:    form.Draft.Featured,
		Qty:         parseIntOrOne(form.Draft.Qty),
		Barcode:     listings.NewBarcode(),
		Lote:        now,
		UpdatedAt:   now,
	}
}

// Cada campo numérico tem o seu parse-com-default, aplicado uma única vez no
// submit; o draft permanece string até lá.

func parseFloatOrZero(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}

func parseIntOrZero(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}

// parseIntOrOne reproduz o parseInt(x) || 1 do original: inválido E zero
// caem em 1 (zero é falsy em JS).
func parseIntOrOne(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value == 0 {
		return 1
	}
	return value
}
