package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"lovereel/internal/model"
)

// MemoryStore 进程内存储，用于本地开发和测试。记录以 JSON 形式保存，读写互不共享切片。
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, req model.CreationRequest, content model.Content) (string, error) {
	key, err := NewAccessKey()
	if err != nil {
		return "", fmt.Errorf("generate access key: %w", err)
	}
	story := model.StoredStory{
		ID:        NewID(),
		Request:   req,
		Content:   content,
		AccessKey: key,
		CreatedAt: time.Now().UTC(),
	}
	b, err := json.Marshal(story)
	if err != nil {
		return "", fmt.Errorf("encode story: %w", err)
	}
	s.mu.Lock()
	s.records[story.ID] = b
	s.mu.Unlock()
	return story.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.StoredStory, bool, error) {
	s.mu.RLock()
	b, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	var story model.StoredStory
	if err := json.Unmarshal(b, &story); err != nil {
		return nil, false, fmt.Errorf("decode story %s: %w", id, err)
	}
	return &story, true, nil
}

var _ Gateway = (*MemoryStore)(nil)
