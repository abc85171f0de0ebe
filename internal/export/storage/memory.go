package storage

import (
	"context"
	"sync"
)

// Object is one stored document.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// Memory is an in-memory store for tests and local runs. URLs use the
// memory:// scheme so callers can tell them apart from real object URLs.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]Object
	puts    int
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string]Object)}
}

func (s *Memory) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{
		Key:         key,
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	}
	s.puts++
	return "memory://" + key, nil
}

// Get returns the stored object, if any.
func (s *Memory) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Puts returns how many objects have been written. Tests use it to
// assert that rejected exports never reach storage.
func (s *Memory) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}
