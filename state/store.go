package state

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"

	liquiditybook "github.com/liqbook/liquidity-book-go/liquidity_book"
)

var ErrNotFound = errors.New("state: not found")

// Store keeps pool and receipt snapshots in a leveldb database.
type Store struct {
	db *leveldb.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("state: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func poolKey(id uuid.UUID) []byte {
	return []byte("pool/" + id.String())
}

func receiptKey(key string) []byte {
	return []byte("receipt/" + key)
}

func (s *Store) PutPool(snapshot *liquiditybook.PoolState) error {
	data, err := EncodePool(snapshot)
	if err != nil {
		return err
	}
	return s.db.Put(poolKey(snapshot.ID), data, nil)
}

func (s *Store) GetPool(id uuid.UUID) (*liquiditybook.PoolState, error) {
	data, err := s.db.Get(poolKey(id), nil)
	if errors.Is(err, ldberrors.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodePool(data)
}

func (s *Store) DeletePool(id uuid.UUID) error {
	return s.db.Delete(poolKey(id), nil)
}

// PutReceipt stores a receipt under a host-chosen key. The store does
// not confer ownership; custody of receipt keys stays with the host.
func (s *Store) PutReceipt(key string, r *liquiditybook.Receipt) error {
	data, err := EncodeReceipt(r)
	if err != nil {
		return err
	}
	return s.db.Put(receiptKey(key), data, nil)
}

func (s *Store) GetReceipt(key string) (*liquiditybook.Receipt, error) {
	data, err := s.db.Get(receiptKey(key), nil)
	if errors.Is(err, ldberrors.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeReceipt(data)
}

func (s *Store) DeleteReceipt(key string) error {
	return s.db.Delete(receiptKey(key), nil)
}
