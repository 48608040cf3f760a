package badgerfx

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type EntityFactory[T Entity] func() T

// Repository provides typed access to entities inside caller-managed
// transactions. Missing keys are reported as wrapped badger.ErrKeyNotFound.
type Repository[T Entity] struct {
	zero    T
	factory EntityFactory[T]
}

func NewRepository[T Entity](factory EntityFactory[T]) *Repository[T] {
	var zero T
	return &Repository[T]{
		zero:    zero,
		factory: factory,
	}
}

// List returns entities stored directly under prefix.
func (r *Repository[T]) List(txn *badger.Txn, prefix string, options badger.IteratorOptions) ([]T, error) {
	var entities []T
	err := r.iterate(txn, prefix, options, func(item *badger.Item) (bool, error) {
		entity := r.factory()
		if err := item.Value(func(val []byte) error {
			return entity.UnmarshalStorage(val)
		}); err != nil {
			return false, fmt.Errorf("failed to unmarshal entity: %w", err)
		}

		entities = append(entities, entity)
		return true, nil
	})

	return entities, err
}

// ListByIndex resolves every index key under prefix and calls fn for each
// entity until fn returns false.
func (r *Repository[T]) ListByIndex(
	txn *badger.Txn,
	prefix string,
	options badger.IteratorOptions,
	fn func(T) bool,
) error {
	return r.iterate(txn, prefix, options, func(item *badger.Item) (bool, error) {
		key, err := item.ValueCopy(nil)
		if err != nil {
			return false, fmt.Errorf("failed to get entity key: %w", err)
		}

		entity, err := r.Read(txn, string(key))
		if err != nil {
			return false, err
		}

		return fn(entity), nil
	})
}

func (r *Repository[T]) iterate(
	txn *badger.Txn,
	prefix string,
	options badger.IteratorOptions,
	fn func(*badger.Item) (bool, error),
) error {
	validPrefix := []byte(prefix)
	seekPrefix := []byte(prefix)
	if options.Reverse {
		seekPrefix = append(seekPrefix, SeekEnd)
	}

	it := txn.NewIterator(options)
	defer it.Close()

	for it.Seek(seekPrefix); it.ValidForPrefix(validPrefix); it.Next() {
		next, err := fn(it.Item())
		if err != nil {
			return err
		}
		if !next {
			break
		}
	}

	return nil
}

func (r *Repository[T]) Read(txn *badger.Txn, key string) (T, error) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return r.zero, fmt.Errorf("failed to get entity: %w", err)
	}

	entity := r.factory()
	if valErr := item.Value(func(val []byte) error {
		return entity.UnmarshalStorage(val)
	}); valErr != nil {
		return r.zero, fmt.Errorf("failed to unmarshal entity: %w", valErr)
	}

	return entity, nil
}

func (r *Repository[T]) ReadByIndex(txn *badger.Txn, index string) (T, error) {
	item, err := txn.Get([]byte(index))
	if err != nil {
		return r.zero, fmt.Errorf("failed to get entity: %w", err)
	}

	key, err := item.ValueCopy(nil)
	if err != nil {
		return r.zero, fmt.Errorf("failed to get entity key: %w", err)
	}

	return r.Read(txn, string(key))
}

// Exists reports whether key is present.
func (r *Repository[T]) Exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check key: %w", err)
	}

	return true, nil
}

func (r *Repository[T]) Write(txn *badger.Txn, entity T) error {
	data, err := entity.MarshalStorage()
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	if indexErr := r.CreateIndexes(txn, entity); indexErr != nil {
		return indexErr
	}

	if setErr := txn.Set([]byte(entity.StorageKey()), data); setErr != nil {
		return fmt.Errorf("failed to update entity: %w", setErr)
	}

	return nil
}

// Replace writes entity in place of old, dropping index keys that old had
// and entity no longer has.
func (r *Repository[T]) Replace(txn *badger.Txn, old, entity T) error {
	current := make(map[string]struct{})
	for _, index := range entity.StorageIndexes() {
		current[index] = struct{}{}
	}

	for _, index := range old.StorageIndexes() {
		if _, ok := current[index]; ok {
			continue
		}
		if err := txn.Delete([]byte(index)); err != nil {
			return fmt.Errorf("failed to delete entity index: %w", err)
		}
	}

	return r.Write(txn, entity)
}

func (r *Repository[T]) Delete(txn *badger.Txn, key string) error {
	entity, err := r.Read(txn, key)
	if err != nil {
		return err
	}

	if indexErr := r.DeleteIndexes(txn, entity); indexErr != nil {
		return indexErr
	}

	if delErr := txn.Delete([]byte(entity.StorageKey())); delErr != nil {
		return fmt.Errorf("failed to delete entity: %w", delErr)
	}

	return nil
}

func (r *Repository[T]) CreateIndexes(txn *badger.Txn, entity T) error {
	key := []byte(entity.StorageKey())
	for _, index := range entity.StorageIndexes() {
		if err := txn.Set([]byte(index), key); err != nil {
			return fmt.Errorf("failed to set entity index: %w", err)
		}
	}

	return nil
}

func (r *Repository[T]) DeleteIndexes(txn *badger.Txn, entity T) error {
	for _, index := range entity.StorageIndexes() {
		if err := txn.Delete([]byte(index)); err != nil {
			return fmt.Errorf("failed to delete entity index: %w", err)
		}
	}

	return nil
}
