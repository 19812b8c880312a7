// Package expanded persists which category nodes a user has expanded.
//
// The set is convenience state: losing it only collapses the tree back to its
// roots, so reads are forgiving and writes go straight through on every
// change.
package expanded

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-backoffice/internal/category/tree"
)

const keyPrefix = "expandedCategories"

// ErrCorrupt marks a stored value that could not be decoded.
var ErrCorrupt = errors.New("corrupt expanded categories")

// KV is the storage port the state reads and writes through.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Key returns the storage key for one user of one merchant.
func Key(merchantID, userID string) string {
	return keyPrefix + ":" + merchantID + ":" + userID
}

// State is the expanded set of a single user session.
type State struct {
	kv  KV
	key string
}

func NewState(kv KV, merchantID, userID string) *State {
	return &State{kv: kv, key: Key(merchantID, userID)}
}

// Load returns the stored set. A missing key is an empty set. An undecodable
// value is also returned as an empty set, together with an error wrapping
// ErrCorrupt so the caller can log it and overwrite the value.
func (s *State) Load(ctx context.Context) (tree.ExpandedSet, error) {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return tree.NewExpandedSet(), fmt.Errorf("load expanded categories: %w", err)
	}
	if !ok {
		return tree.NewExpandedSet(), nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return tree.NewExpandedSet(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return tree.NewExpandedSet(ids...), nil
}

func (s *State) Save(ctx context.Context, set tree.ExpandedSet) error {
	data, err := json.Marshal(set.IDs())
	if err != nil {
		return fmt.Errorf("encode expanded categories: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save expanded categories: %w", err)
	}
	return nil
}

// loadForWrite is Load for read-modify-write callers. A corrupt value is
// replaced; a storage failure aborts so the stored set is not overwritten.
func (s *State) loadForWrite(ctx context.Context) (tree.ExpandedSet, error) {
	set, err := s.Load(ctx)
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return nil, err
	}
	return set, nil
}

// Toggle flips id and saves the result.
func (s *State) Toggle(ctx context.Context, id string) (tree.ExpandedSet, error) {
	set, err := s.loadForWrite(ctx)
	if err != nil {
		return nil, err
	}
	if set.Has(id) {
		set.Remove(id)
	} else {
		set.Add(id)
	}
	return set, s.Save(ctx, set)
}

// Merge adds ids to the stored set and saves it. Nothing is removed.
func (s *State) Merge(ctx context.Context, add tree.ExpandedSet) (tree.ExpandedSet, error) {
	set, err := s.loadForWrite(ctx)
	if err != nil {
		return nil, err
	}
	before := len(set)
	for id := range add {
		set.Add(id)
	}
	if len(set) == before {
		return set, nil
	}
	return set, s.Save(ctx, set)
}

// ExpandAll replaces the stored set with ids.
func (s *State) ExpandAll(ctx context.Context, ids []string) (tree.ExpandedSet, error) {
	set := tree.NewExpandedSet(ids...)
	return set, s.Save(ctx, set)
}

func (s *State) CollapseAll(ctx context.Context) (tree.ExpandedSet, error) {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return tree.NewExpandedSet(), fmt.Errorf("clear expanded categories: %w", err)
	}
	return tree.NewExpandedSet(), nil
}
