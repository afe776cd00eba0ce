// Package storage is the client side of the record store: a path-addressed,
// key-ordered JSON tree with field-level merges and change subscriptions.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrInvalidPath = errors.New("storage: invalid path")
	ErrNotObject   = errors.New("storage: record is not an object")
	ErrNoPubSub    = errors.New("storage: change notifications are not configured")
)

// Storage is the record store as seen by the application.
type Storage interface {
	// Read returns the record at path, or the ordered children of path when
	// no record lives there.
	Read(ctx context.Context, path string) (Snapshot, error)
	// ReadOrdered returns the children of path ordered by key.
	ReadOrdered(ctx context.Context, path string) (Snapshot, error)
	// Update merges fields into the object record at path. Fields that are
	// not named keep their stored value.
	Update(ctx context.Context, path string, fields map[string]any) error
	// Subscribe calls onChange with the ordered children of path right away
	// and again after every change below path.
	Subscribe(ctx context.Context, path string, onChange func(Snapshot)) (Subscription, error)
	Unsubscribe(sub Subscription) error
	Ping(ctx context.Context) error
}

// Subscription is a live listener handle. Close detaches it; it is safe to
// call more than once.
type Subscription interface {
	Close() error
}

// Snapshot is the state of one path at read time.
type Snapshot struct {
	Key      string
	Value    json.RawMessage
	Children []Snapshot
}

func (s Snapshot) Exists() bool {
	return len(s.Value) > 0 || len(s.Children) > 0
}

// Decode unmarshals the record value into v.
func (s Snapshot) Decode(v any) error {
	if len(s.Value) == 0 {
		return json.Unmarshal([]byte("null"), v)
	}
	return json.Unmarshal(s.Value, v)
}

// Fields decodes an object record. ok is false for scalars and absent values.
func (s Snapshot) Fields() (map[string]any, bool) {
	var fields map[string]any
	if err := s.Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func cleanPath(path string) (string, error) {
	p := strings.Trim(path, "/")
	if p == "" {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if strings.TrimSpace(seg) == "" {
			return "", ErrInvalidPath
		}
	}
	return p, nil
}

// splitPath returns the parent and last segment of path.
func splitPath(path string) (parent, key string, err error) {
	p, err := cleanPath(path)
	if err != nil {
		return "", "", err
	}
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "", p, nil
	}
	return p[:i], p[i+1:], nil
}

// Join builds a store path from segments.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.Trim(s, "/"); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

func mergeFields(current json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	merged := map[string]any{}
	if len(current) > 0 {
		if err := json.Unmarshal(current, &merged); err != nil {
			return nil, ErrNotObject
		}
		if merged == nil {
			merged = map[string]any{}
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}
