package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

// DefaultStorageKey is the slot holding the serialized document list
const DefaultStorageKey = "legal_documents_repository"

// DocumentRepository is the in-memory document list backed by a single persisted slot
type DocumentRepository struct {
	store domain.SlotStore
	key   string
	now   func() time.Time

	mu        sync.RWMutex
	docs      []domain.LegalDocument
	lastStamp int64
}

// NewDocumentRepository creates a repository over store. An empty key uses DefaultStorageKey.
func NewDocumentRepository(store domain.SlotStore, key string) *DocumentRepository {
	if key == "" {
		key = DefaultStorageKey
	}
	return &DocumentRepository{
		store: store,
		key:   key,
		now:   time.Now,
	}
}

// Load reads the persisted list. An absent, empty or unreadable slot installs
// the default documents; Load itself never fails.
func (r *DocumentRepository) Load(ctx context.Context) {
	docs, err := r.read(ctx)
	if err == nil && len(docs) > 0 {
		r.mu.Lock()
		r.docs = docs
		r.mu.Unlock()
		log.Info().Int("documents", len(docs)).Msg("Document repository loaded")
		return
	}

	if err != nil && !errors.Is(err, domain.ErrSlotNotFound) {
		log.Warn().Err(err).Msg("Failed to load documents from storage, using defaults")
	}

	defaults := DefaultDocuments()
	r.mu.Lock()
	r.docs = defaults
	r.mu.Unlock()

	if err := r.write(ctx, defaults); err != nil {
		log.Error().Err(err).Msg("Failed to persist default documents")
		return
	}
	log.Info().Int("documents", len(defaults)).Msg("Default documents installed")
}

// List returns a copy of the documents in insertion order
func (r *DocumentRepository) List() []domain.LegalDocument {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.LegalDocument, len(r.docs))
	copy(out, r.docs)
	return out
}

// Len returns the number of documents
func (r *DocumentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// AddBatch appends inputs with fresh IDs and persists the full list
func (r *DocumentRepository) AddBatch(ctx context.Context, inputs []domain.DocumentInput) ([]domain.LegalDocument, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stamp := r.nextStamp(len(inputs))
	added := make([]domain.LegalDocument, len(inputs))
	for i, in := range inputs {
		added[i] = domain.LegalDocument{
			ID:      documentID(stamp, i),
			Title:   in.Title,
			Summary: in.Summary,
			Content: in.Content,
		}
	}

	next := make([]domain.LegalDocument, 0, len(r.docs)+len(added))
	next = append(next, r.docs...)
	next = append(next, added...)

	if err := r.write(ctx, next); err != nil {
		return nil, err
	}
	r.docs = next
	r.lastStamp = stamp

	return added, nil
}

// Delete removes the document with id. An unknown id is not an error.
func (r *DocumentRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]domain.LegalDocument, 0, len(r.docs))
	for _, d := range r.docs {
		if d.ID != id {
			next = append(next, d)
		}
	}
	removed := len(next) != len(r.docs)

	if err := r.write(ctx, next); err != nil {
		return false, err
	}
	r.docs = next

	return removed, nil
}

// nextStamp picks a millisecond stamp later than any previously issued one
// whose IDs do not collide with the current list. Caller holds mu.
func (r *DocumentRepository) nextStamp(n int) int64 {
	existing := make(map[string]struct{}, len(r.docs))
	for _, d := range r.docs {
		existing[d.ID] = struct{}{}
	}

	stamp := r.now().UnixMilli()
	if stamp <= r.lastStamp {
		stamp = r.lastStamp + 1
	}

	for {
		collides := false
		for i := 0; i < n; i++ {
			if _, ok := existing[documentID(stamp, i)]; ok {
				collides = true
				break
			}
		}
		if !collides {
			return stamp
		}
		stamp++
	}
}

func documentID(stamp int64, index int) string {
	return fmt.Sprintf("doc_%d_%d", stamp, index)
}

func (r *DocumentRepository) read(ctx context.Context) ([]domain.LegalDocument, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var docs []domain.LegalDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) write(ctx context.Context, docs []domain.LegalDocument) error {
	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}
	if err := r.store.Set(ctx, r.key, raw); err != nil {
		return fmt.Errorf("failed to persist documents: %w", err)
	}
	return nil
}
