package customer

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"
)

// MemoryStore is an in-process document collection for local runs and tests.
// Sessions are serialized and their writes applied only on commit.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

func (m *MemoryStore) Session(ctx context.Context, fn func(Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s := &memorySession{store: m, pending: make(map[string][]byte)}
	if err := fn(s); err != nil {
		return err
	}
	for id, doc := range s.pending {
		if doc == nil {
			delete(m.docs, id)
			continue
		}
		m.docs[id] = doc
	}
	return nil
}

// memorySession sees committed documents overlaid with its own pending
// writes. A nil pending entry marks a deletion.
type memorySession struct {
	store   *MemoryStore
	pending map[string][]byte
}

func (s *memorySession) lookup(id string) ([]byte, bool) {
	if doc, ok := s.pending[id]; ok {
		return doc, doc != nil
	}
	doc, ok := s.store.docs[id]
	return doc, ok
}

func (s *memorySession) all() ([]Customer, error) {
	customers := make([]Customer, 0, len(s.store.docs)+len(s.pending))
	for id := range s.store.docs {
		if _, ok := s.pending[id]; ok {
			continue
		}
		c, err := decodeDocument(s.store.docs[id])
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	for _, doc := range s.pending {
		if doc == nil {
			continue
		}
		c, err := decodeDocument(doc)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func decodeDocument(doc []byte) (Customer, error) {
	var c Customer
	err := json.Unmarshal(doc, &c)
	return c, err
}

func (s *memorySession) List(context.Context) ([]Customer, error) {
	customers, err := s.all()
	if err != nil {
		return nil, err
	}
	sort.Slice(customers, func(i, j int) bool {
		if customers[i].Name != customers[j].Name {
			return customers[i].Name < customers[j].Name
		}
		return customers[i].ID < customers[j].ID
	})
	return customers, nil
}

func (s *memorySession) Load(_ context.Context, id string) (Customer, error) {
	doc, ok := s.lookup(id)
	if !ok {
		return Customer{}, ErrNotFound
	}
	return decodeDocument(doc)
}

func (s *memorySession) FindByIDOrName(_ context.Context, id, name string) (Customer, error) {
	customers, err := s.all()
	if err != nil {
		return Customer{}, err
	}

	var byID *Customer
	for i := range customers {
		c := &customers[i]
		if c.ID != id && c.Name == name {
			return *c, nil
		}
		if c.ID == id && byID == nil {
			byID = c
		}
	}
	if byID == nil {
		return Customer{}, ErrNotFound
	}
	return *byID, nil
}

func (s *memorySession) Store(_ context.Context, c Customer) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.pending[c.ID] = doc
	return nil
}

func (s *memorySession) Delete(_ context.Context, id string) (bool, error) {
	_, existed := s.lookup(id)
	s.pending[id] = nil
	return existed, nil
}
