package dataclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Supabase implementa API sobre o protocolo REST do PostgREST/Supabase.
// Nota: o http.Client não tem timeout de propósito — o sistema original não
// implementa timeout nem cancelamento em lugar nenhum, e uma chamada pendurada
// fica pendurada.
type Supabase struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewSupabase cria o cliente REST. URL e chave vêm do ambiente e não são
// validadas: sem elas as chamadas falham com erro opaco pelo caminho normal.
func NewSupabase(baseURL, anonKey string, logger zerolog.Logger) *Supabase {
	return &Supabase{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Select busca todos os registros da tabela, opcionalmente ordenados.
func (c *Supabase) Select(ctx context.Context, table string, order *Order) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("select", "*")
	if order != nil {
		direction := "desc"
		if order.Ascending {
			direction = "asc"
		}
		query.Set("order", order.Column+"."+direction)
	}
	return c.do(ctx, http.MethodGet, table, query, nil)
}

// Insert cria registros. rows é serializado como array JSON, igual ao
// insert([...]) do cliente original.
func (c *Supabase) Insert(ctx context.Context, table string, rows any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, table, url.Values{}, rows)
}

// Update aplica um patch parcial aos registros que casam com o filtro.
func (c *Supabase) Update(ctx context.Context, table string, patch any, filter Filter) (json.RawMessage, error) {
	query := url.Values{}
	query.Set(filter.Column, "eq."+formatFilterValue(filter.Value))
	return c.do(ctx, http.MethodPatch, table, query, patch)
}

// Delete remove os registros que casam com o filtro.
func (c *Supabase) Delete(ctx context.Context, table string, filter Filter) error {
	query := url.Values{}
	query.Set(filter.Column, "eq."+formatFilterValue(filter.Value))
	_, err := c.do(ctx, http.MethodDelete, table, query, nil)
	return err
}

// Ping verifica se o endpoint REST responde. Usado só pelo /ready.
func (c *Supabase) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("data api ping: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Supabase) do(ctx context.Context, method, table string, query url.Values, body any) (json.RawMessage, error) {
	endpoint := c.baseURL + "/rest/v1/" + table
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		// Escritas devolvem o registro resultante, como o .select() original.
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("table", table).Msg("data api transport failure")
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := decodeAPIError(resp.StatusCode, raw)
		c.logger.Error().Err(apiErr).Str("method", method).Str("table", table).Msg("data api error")
		return nil, apiErr
	}

	return json.RawMessage(raw), nil
}

func (c *Supabase) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("Accept", "application/json")
}

// decodeAPIError interpreta o corpo de erro do PostgREST ({message, code, ...}).
// Corpo fora desse formato vira mensagem crua, sem perder informação.
func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Code = ""
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}
	return apiErr
}

func formatFilterValue(value any) string {
	return fmt.Sprintf("%v", value)
}
