package whitelist

import (
	"context"
	"fmt"

	"github.com/blues/mintpad/pkg/validation"
	lru "github.com/hashicorp/golang-lru"
)

// CachedStore 带 LRU 缓存的资格查询。
// 白名单条目变更时必须调用 Invalidate，否则会返回过期结果。
type CachedStore struct {
	next  Store
	cache *lru.Cache
}

type cacheKey struct {
	whitelistId string
	address     string
}

// NewCachedStore 创建带缓存的白名单查询
func NewCachedStore(next Store, size int) (*CachedStore, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create whitelist cache: %w", err)
	}
	return &CachedStore{next: next, cache: cache}, nil
}

func (s *CachedStore) IsEligible(ctx context.Context, whitelistId, address string) (bool, error) {
	key := cacheKey{whitelistId: whitelistId, address: validation.NormalizeAddress(address)}
	if v, ok := s.cache.Get(key); ok {
		return v.(bool), nil
	}

	eligible, err := s.next.IsEligible(ctx, whitelistId, address)
	if err != nil {
		return false, err
	}
	s.cache.Add(key, eligible)
	return eligible, nil
}

// EntryCount 不缓存，数量只用于展示和创建阶段时的提示
func (s *CachedStore) EntryCount(ctx context.Context, whitelistId string) (int64, error) {
	return s.next.EntryCount(ctx, whitelistId)
}

// Invalidate 清除某个白名单的全部缓存
func (s *CachedStore) Invalidate(whitelistId string) {
	for _, k := range s.cache.Keys() {
		if key, ok := k.(cacheKey); ok && key.whitelistId == whitelistId {
			s.cache.Remove(k)
		}
	}
}
