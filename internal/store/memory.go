package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Memory keeps documents in process memory. Documents are stored serialized so
// callers never share state with the store.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte), now: time.Now}
}

func (m *Memory) Load(_ context.Context, userID string) (*Document, error) {
	if err := validUserID(userID); err != nil {
		return nil, err
	}

	m.mu.RLock()
	data, ok := m.docs[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (m *Memory) Merge(_ context.Context, userID string, patch Patch) (*Document, error) {
	if err := validUserID(userID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc := Document{UserID: userID}
	if data, ok := m.docs[userID]; ok {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	}

	patch.Apply(&doc, m.now())

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	m.docs[userID] = data

	return &doc, nil
}

func (m *Memory) Close() error {
	return nil
}
