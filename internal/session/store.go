// Package session dá identidade às sessões de navegação (carrinho e
// formulário vivem por sessão, como o estado de componente do site original).
package session

import (
	"context"
	"sync"
	"time"
)

// Store guarda blobs opacos por chave de sessão, com TTL.
// Os workflows serializam o próprio estado; o store não conhece o formato.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory é o store default: um mapa com TTL preguiçoso.
// Entradas vencidas são descartadas no acesso; não há goroutine de limpeza.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory cria um store em memória com o TTL dado.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (store *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entry, ok := store.entries[key]
	if !ok {
		return nil, false, nil
	}
	if store.now().After(entry.expiresAt) {
		delete(store.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (store *Memory) Put(ctx context.Context, key string, value []byte) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	// Limpeza oportunista: remove o que já venceu antes de crescer o mapa.
	now := store.now()
	for existing, entry := range store.entries {
		if now.After(entry.expiresAt) {
			delete(store.entries, existing)
		}
	}

	store.entries[key] = memoryEntry{value: value, expiresAt: now.Add(store.ttl)}
	return nil
}

func (store *Memory) Delete(ctx context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.entries, key)
	return nil
}
