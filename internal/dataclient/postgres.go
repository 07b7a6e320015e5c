package dataclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier é o que o backend precisa do pool. Permite testar sem banco.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// Postgres implementa API direto contra o banco (Supabase é Postgres; em
// ambiente interno dá para apontar o serviço direto na base). A conversão de
// tipos JSON → coluna fica com o json_populate_record*, o mesmo mecanismo que
// o PostgREST usa, então os dois backends aceitam o mesmo payload.
type Postgres struct {
	database pgxQuerier
}

// NewPostgres cria o backend direto ao banco.
func NewPostgres(database pgxQuerier) *Postgres {
	return &Postgres{database: database}
}

// identPattern limita identificadores a nomes simples de coluna/tabela.
// Os nomes vêm do nosso próprio código, isto é só cinto de segurança.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var errBadIdentifier = errors.New("invalid identifier")

func checkIdent(names ...string) error {
	for _, name := range names {
		if !identPattern.MatchString(name) {
			return fmt.Errorf("%w: %q", errBadIdentifier, name)
		}
	}
	return nil
}

// Select devolve todos os registros da tabela como array JSON.
func (c *Postgres) Select(ctx context.Context, table string, order *Order) (json.RawMessage, error) {
	if err := checkIdent(table); err != nil {
		return nil, err
	}

	inner := fmt.Sprintf("SELECT * FROM %s", table)
	if order != nil {
		if err := checkIdent(order.Column); err != nil {
			return nil, err
		}
		direction := "DESC"
		if order.Ascending {
			direction = "ASC"
		}
		inner += fmt.Sprintf(" ORDER BY %q %s", order.Column, direction)
	}

	query := fmt.Sprintf("SELECT coalesce(json_agg(t), '[]'::json) FROM (%s) t", inner)

	var raw json.RawMessage
	if err := c.database.QueryRow(ctx, query).Scan(&raw); err != nil {
		return nil, translatePgError(err)
	}
	return raw, nil
}

// Insert cria registros a partir do array JSON. Só as colunas presentes no
// payload entram no INSERT; id e defaults ficam com o banco.
func (c *Postgres) Insert(ctx context.Context, table string, rows any) (json.RawMessage, error) {
	if err := checkIdent(table); err != nil {
		return nil, err
	}

	payload, columns, err := encodeRows(rows)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return json.RawMessage("[]"), nil
	}
	if err := checkIdent(columns...); err != nil {
		return nil, err
	}

	columnList := quoteJoin(columns)
	query := fmt.Sprintf(`
		WITH data AS (
			SELECT * FROM json_populate_recordset(null::%[1]s, $1::json)
		), inserted AS (
			INSERT INTO %[1]s (%[2]s) SELECT %[2]s FROM data RETURNING *
		)
		SELECT coalesce(json_agg(inserted), '[]'::json) FROM inserted;
	`, table, columnList)

	var raw json.RawMessage
	if err := c.database.QueryRow(ctx, query, string(payload)).Scan(&raw); err != nil {
		return nil, translatePgError(err)
	}
	return raw, nil
}

// Update aplica o patch aos registros que casam com o filtro de igualdade.
func (c *Postgres) Update(ctx context.Context, table string, patch any, filter Filter) (json.RawMessage, error) {
	if err := checkIdent(table, filter.Column); err != nil {
		return nil, err
	}

	payload, columns, err := encodePatch(patch)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return json.RawMessage("[]"), nil
	}
	if err := checkIdent(columns...); err != nil {
		return nil, err
	}

	assignments := make([]string, len(columns))
	for i, column := range columns {
		assignments[i] = fmt.Sprintf("%q = data.%q", column, column)
	}

	query := fmt.Sprintf(`
		WITH data AS (
			SELECT * FROM json_populate_record(null::%[1]s, $1::json)
		), updated AS (
			UPDATE %[1]s SET %[2]s FROM data WHERE %[1]s.%[3]q = $2 RETURNING %[1]s.*
		)
		SELECT coalesce(json_agg(updated), '[]'::json) FROM updated;
	`, table, strings.Join(assignments, ", "), filter.Column)

	var raw json.RawMessage
	if err := c.database.QueryRow(ctx, query, string(payload), filter.Value).Scan(&raw); err != nil {
		return nil, translatePgError(err)
	}
	return raw, nil
}

// Delete remove os registros que casam com o filtro.
func (c *Postgres) Delete(ctx context.Context, table string, filter Filter) error {
	if err := checkIdent(table, filter.Column); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %q = $1", table, filter.Column)
	if _, err := c.database.Exec(ctx, query, filter.Value); err != nil {
		return translatePgError(err)
	}
	return nil
}

// Ping valida a conexão com o banco. Usado só pelo /ready.
func (c *Postgres) Ping(ctx context.Context) error {
	return c.database.Ping(ctx)
}

// encodeRows serializa rows e extrai as colunas (ordenadas, para SQL estável).
func encodeRows(rows any) ([]byte, []string, error) {
	payload, err := json.Marshal(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding rows: %w", err)
	}

	var decoded []map[string]json.RawMessage
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, nil, fmt.Errorf("rows must encode to a JSON array of objects: %w", err)
	}
	if len(decoded) == 0 {
		return payload, nil, nil
	}
	return payload, sortedColumns(decoded[0]), nil
}

// encodePatch faz o mesmo para um patch (objeto único).
func encodePatch(patch any) ([]byte, []string, error) {
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding patch: %w", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, nil, fmt.Errorf("patch must encode to a JSON object: %w", err)
	}
	return payload, sortedColumns(decoded), nil
}

func sortedColumns(row map[string]json.RawMessage) []string {
	columns := make([]string, 0, len(row))
	for column := range row {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

func quoteJoin(columns []string) string {
	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = fmt.Sprintf("%q", column)
	}
	return strings.Join(quoted, ", ")
}

// translatePgError converte o erro reportado pelo banco no mesmo formato
// dado-ou-erro do backend REST. Erro de transporte passa como está.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &APIError{Status: 500, Code: pgErr.Code, Message: pgErr.Message}
	}
	return err
}
