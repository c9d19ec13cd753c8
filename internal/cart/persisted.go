package cart

import (
	"context"
	"errors"

	"storefront/internal/domain/model"

	"go.uber.org/zap"
)

// 保存先にカートが無い
var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// カートの保存先の約束（DB / Redis など）
type Storage interface {
	// 無ければErrSnapshotNotFound
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// 保存キーの名前空間
const DefaultNamespace = "storefront-cart"

func StorageKey(namespace, sessionID string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return namespace + ":" + sessionID
}

// PersistedStore は Store を包み、変更のたびにカート全体を保存する。
type PersistedStore struct {
	store   *Store
	storage Storage
	key     string
	logger  *zap.Logger
}

// Open は保存済みのカートを読み込む。
// 無い・壊れている場合は空のカートで始める。
func Open(ctx context.Context, storage Storage, key string, logger *zap.Logger) (*PersistedStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &PersistedStore{
		store:   NewStore(),
		storage: storage,
		key:     key,
		logger:  logger,
	}

	data, err := storage.Load(ctx, key)
	if errors.Is(err, ErrSnapshotNotFound) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}

	state, err := Unmarshal(data)
	if err != nil {
		logger.Warn("discarding unreadable cart snapshot", zap.String("key", key), zap.Error(err))
		return p, nil
	}
	p.store = FromState(state)
	return p, nil
}

func (p *PersistedStore) AddItem(ctx context.Context, in AddItemInput) (model.CartLineItem, error) {
	it := p.store.AddItem(in)
	return it, p.persist(ctx)
}

// 無いキーは何もしない（保存もしない）
func (p *PersistedStore) RemoveItem(ctx context.Context, key string) error {
	if !p.store.RemoveItem(key) {
		return nil
	}
	return p.persist(ctx)
}

func (p *PersistedStore) Increment(ctx context.Context, key string) error {
	if !p.store.Increment(key) {
		return nil
	}
	return p.persist(ctx)
}

func (p *PersistedStore) Decrement(ctx context.Context, key string) error {
	if !p.store.Decrement(key) {
		return nil
	}
	return p.persist(ctx)
}

func (p *PersistedStore) SetQuantity(ctx context.Context, key string, n float64) error {
	if !p.store.SetQuantity(key, n) {
		return nil
	}
	return p.persist(ctx)
}

// Clear は空にして保存データも消す
func (p *PersistedStore) Clear(ctx context.Context) error {
	p.store.Clear()
	if err := p.storage.Delete(ctx, p.key); err != nil {
		p.logger.Error("failed to delete cart snapshot", zap.String("key", p.key), zap.Error(err))
		return err
	}
	return nil
}

func (p *PersistedStore) Items() []model.CartLineItem { return p.store.Items() }
func (p *PersistedStore) Totals() model.CartTotals    { return p.store.Totals() }
func (p *PersistedStore) State() model.CartState      { return p.store.State() }
func (p *PersistedStore) Len() int                    { return p.store.Len() }

func (p *PersistedStore) Get(key string) (model.CartLineItem, bool) {
	return p.store.Get(key)
}

// 書き込み失敗はメモリ上の変更を残したまま呼び出し元に返す
func (p *PersistedStore) persist(ctx context.Context) error {
	data, err := Marshal(p.store.State())
	if err != nil {
		return err
	}
	if err := p.storage.Save(ctx, p.key, data); err != nil {
		p.logger.Error("failed to save cart snapshot", zap.String("key", p.key), zap.Error(err))
		return err
	}
	return nil
}
