package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Node is one record of the tree, addressed by its parent path and key.
type Node struct {
	Parent    string         `gorm:"primaryKey;type:text"`
	Key       string         `gorm:"primaryKey;column:node_key;type:text"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (Node) TableName() string { return "store_nodes" }

// Service keeps records in PostgreSQL and announces changes over Redis Pub/Sub.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor. rdb may be nil when no live listeners are needed.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{DB: db, Redis: rdb}
}

// Migrate creates the node table.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(&Node{})
}

func changeChannel(parent string) string {
	return "store:changes:" + parent
}

func (s *Service) Read(ctx context.Context, path string) (Snapshot, error) {
	parent, key, err := splitPath(path)
	if err != nil {
		return Snapshot{}, err
	}

	var n Node
	err = s.DB.WithContext(ctx).Where("parent = ? AND node_key = ?", parent, key).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.ReadOrdered(ctx, path)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Snapshot{Key: n.Key, Value: json.RawMessage(n.Data)}, nil
}

func (s *Service) ReadOrdered(ctx context.Context, path string) (Snapshot, error) {
	p, err := cleanPath(path)
	if err != nil {
		return Snapshot{}, err
	}
	_, key, _ := splitPath(p)

	var nodes []Node
	// Byte order of keys, independent of the database collation.
	err = s.DB.WithContext(ctx).
		Where("parent = ?", p).
		Order(`node_key COLLATE "C" ASC`).
		Find(&nodes).Error
	if err != nil {
		return Snapshot{}, fmt.Errorf("read ordered %s: %w", path, err)
	}

	snap := Snapshot{Key: key}
	for _, n := range nodes {
		snap.Children = append(snap.Children, Snapshot{Key: n.Key, Value: json.RawMessage(n.Data)})
	}
	return snap, nil
}

func (s *Service) Update(ctx context.Context, path string, fields map[string]any) error {
	parent, key, err := splitPath(path)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n Node
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("parent = ? AND node_key = ?", parent, key).
			First(&n).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			n = Node{Parent: parent, Key: key}
		case err != nil:
			return err
		}

		merged, err := mergeFields(json.RawMessage(n.Data), fields)
		if err != nil {
			return err
		}
		n.Data = datatypes.JSON(merged)
		return tx.Save(&n).Error
	})
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}

	s.notify(ctx, parent, path)
	return nil
}

// notify announces a committed write. A lost notification only delays
// listeners until the next change, so failures are logged and swallowed.
func (s *Service) notify(ctx context.Context, parent, path string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Publish(ctx, changeChannel(parent), path).Err(); err != nil {
		slog.Warn("change notification failed", "path", path, "error", err)
	}
}

func (s *Service) Subscribe(ctx context.Context, path string, onChange func(Snapshot)) (Subscription, error) {
	p, err := cleanPath(path)
	if err != nil {
		return nil, err
	}
	if s.Redis == nil {
		return nil, ErrNoPubSub
	}

	pubsub := s.Redis.Subscribe(ctx, changeChannel(p))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", path, err)
	}

	read := func(ctx context.Context) (Snapshot, error) { return s.ReadOrdered(ctx, p) }
	return startPump(ctx, p, pubsub.Channel(), read, onChange, pubsub.Close), nil
}

func (s *Service) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Close()
}

func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
