package whitelist

import (
	"context"
	"sync"

	"github.com/blues/mintpad/pkg/validation"
)

// Store 白名单资格查询
type Store interface {
	IsEligible(ctx context.Context, whitelistId, address string) (bool, error)
	EntryCount(ctx context.Context, whitelistId string) (int64, error)
}

// MemoryStore 内存中的白名单集合
type MemoryStore struct {
	mu    sync.RWMutex
	lists map[string]map[string]struct{}
}

// NewMemoryStore 创建内存白名单
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: make(map[string]map[string]struct{})}
}

// Add 添加地址，返回新增的数量
func (s *MemoryStore) Add(whitelistId string, addresses ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.lists[whitelistId]
	if !ok {
		set = make(map[string]struct{})
		s.lists[whitelistId] = set
	}

	added := 0
	for _, addr := range addresses {
		addr = validation.NormalizeAddress(addr)
		if addr == "" {
			continue
		}
		if _, exists := set[addr]; !exists {
			set[addr] = struct{}{}
			added++
		}
	}
	return added
}

// Remove 删除地址
func (s *MemoryStore) Remove(whitelistId, address string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.lists[whitelistId]
	if !ok {
		return false
	}
	address = validation.NormalizeAddress(address)
	if _, exists := set[address]; !exists {
		return false
	}
	delete(set, address)
	return true
}

// Delete 删除整个白名单
func (s *MemoryStore) Delete(whitelistId string) {
	s.mu.Lock()
	delete(s.lists, whitelistId)
	s.mu.Unlock()
}

func (s *MemoryStore) IsEligible(_ context.Context, whitelistId, address string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.lists[whitelistId][validation.NormalizeAddress(address)]
	return ok, nil
}

func (s *MemoryStore) EntryCount(_ context.Context, whitelistId string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.lists[whitelistId])), nil
}
