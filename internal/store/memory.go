package store

import (
	"context"
	"sync"

	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
)

// Memory keeps contacts in process memory. It is meant for local development and tests; its
// contents are lost when the process ends.
type Memory struct {
	mu       sync.RWMutex
	contacts map[string]model.Contact
	order    []string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{contacts: make(map[string]model.Contact)}
}

func (m *Memory) FindAll(context.Context) ([]model.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	contacts := make([]model.Contact, 0, len(m.order))
	for _, id := range m.order {
		contacts = append(contacts, m.contacts[id])
	}
	return contacts, nil
}

func (m *Memory) FindByID(_ context.Context, id string) (model.Contact, error) {
	id = normalizeID(id)
	m.mu.RLock()
	defer m.mu.RUnlock()
	contact, ok := m.contacts[id]
	if !ok {
		return model.Contact{}, ErrNotFound
	}
	return contact, nil
}

func (m *Memory) InsertOne(_ context.Context, contact model.ContactInput) (model.InsertResult, error) {
	id := NewID()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts[id] = contact.ToContact(id)
	m.order = append(m.order, id)
	return model.InsertResult{Acknowledged: true, InsertedId: id}, nil
}

func (m *Memory) ReplaceOne(_ context.Context, id string, contact model.ContactInput) (model.ReplaceResult, error) {
	id = normalizeID(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.contacts[id]
	if !ok {
		return model.ReplaceResult{}, nil
	}
	replaced := contact.ToContact(id)
	if replaced == existing {
		return model.ReplaceResult{MatchedCount: 1}, nil
	}
	m.contacts[id] = replaced
	return model.ReplaceResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *Memory) DeleteOne(_ context.Context, id string) (int64, error) {
	id = normalizeID(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contacts[id]; !ok {
		return 0, nil
	}
	delete(m.contacts, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (m *Memory) Close(context.Context) error {
	return nil
}
