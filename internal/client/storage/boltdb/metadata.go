package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

const (
	keyLocation   = "location"
	keyReturnPath = "return_path"
)

// SaveLocation saves the last opened route
func (s *Storage) SaveLocation(ctx context.Context, path string) error {
	return s.putString(keyLocation, path)
}

// GetLocation returns the last opened route or "" if none
func (s *Storage) GetLocation(ctx context.Context) (string, error) {
	return s.getString(keyLocation)
}

// SaveReturnPath remembers where to go after login
func (s *Storage) SaveReturnPath(ctx context.Context, path string) error {
	return s.putString(keyReturnPath, path)
}

// PopReturnPath returns the saved return path and clears it
func (s *Storage) PopReturnPath(ctx context.Context) (string, error) {
	var path string

	err := s.update(bucketMetadata, func(b *bbolt.Bucket) error {
		if v := b.Get([]byte(keyReturnPath)); v != nil {
			path = string(v)
		}
		return b.Delete([]byte(keyReturnPath))
	})
	if err != nil {
		return "", fmt.Errorf("failed to pop return path: %w", err)
	}

	return path, nil
}

func (s *Storage) putString(key, value string) error {
	err := s.update(bucketMetadata, func(b *bbolt.Bucket) error {
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *Storage) getString(key string) (string, error) {
	var value string

	err := s.view(bucketMetadata, func(b *bbolt.Bucket) error {
		// Если значение не найдено, возвращаем пустую строку
		if v := b.Get([]byte(key)); v != nil {
			value = string(v)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, nil
}
