package bookmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/mgpai22/lekh/internal/store"
)

// KV is a durable string key-value store.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// FileKV keeps every key in one JSON object on disk.
type FileKV struct {
	path string

	mu     sync.Mutex
	values map[string]string
	loaded bool
}

func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (kv *FileKV) Path() string {
	return kv.path
}

func (kv *FileKV) loadLocked() error {
	if kv.loaded {
		return nil
	}
	kv.values = make(map[string]string)

	data, err := os.ReadFile(kv.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			kv.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", kv.path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &kv.values); err != nil {
			return fmt.Errorf("failed to decode %s: %w", kv.path, err)
		}
	}
	kv.loaded = true
	return nil
}

func (kv *FileKV) flushLocked() error {
	data, err := json.MarshalIndent(kv.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bookmarks: %w", err)
	}
	return store.WriteFileAtomic(kv.path, data, 0o600)
}

func (kv *FileKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if err := kv.loadLocked(); err != nil {
		return "", false, err
	}
	v, ok := kv.values[key]
	return v, ok, nil
}

func (kv *FileKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if err := kv.loadLocked(); err != nil {
		return err
	}
	kv.values[key] = value
	return kv.flushLocked()
}

func (kv *FileKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if err := kv.loadLocked(); err != nil {
		return err
	}
	if _, ok := kv.values[key]; !ok {
		return nil
	}
	delete(kv.values, key)
	return kv.flushLocked()
}

// MemoryKV is an in-process KV, used where durability is not needed.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (kv *MemoryKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.values[key]
	return v, ok, nil
}

func (kv *MemoryKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.values[key] = value
	return nil
}

func (kv *MemoryKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.values, key)
	return nil
}
