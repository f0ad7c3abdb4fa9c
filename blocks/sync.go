package blocks

import "sync"

// Sync guards a Map with a read-write mutex. Writers are serialized;
// readers may run together. The zero value is ready to use.
type Sync[T any] struct {
	mutex sync.RWMutex
	m     Map[T]
}

// Load applies options to the underlying Map.
func (s *Sync[T]) Load(opt any) {
	s.mutex.Lock()
	s.m.Load(opt)
	s.mutex.Unlock()
}

// AddBlock calls Map.AddBlock under the write lock.
// handler runs while the lock is held and must not call back into s.
func (s *Sync[T]) AddBlock(addr Addr, size uint64, payload T, policy Policy, handler Handler[T]) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.m.AddBlock(addr, size, payload, policy, handler)
}

// GetBlock calls Map.GetBlock under the read lock.
func (s *Sync[T]) GetBlock(addr Addr) (Block[T], bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.m.GetBlock(addr)
}

// Contains calls Map.Contains under the read lock.
func (s *Sync[T]) Contains(addr Addr) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.m.Contains(addr)
}

// Slice calls Map.Slice under the read lock.
func (s *Sync[T]) Slice(start, stop *Addr) []Block[T] {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.m.Slice(start, stop)
}

// Len calls Map.Len under the read lock.
func (s *Sync[T]) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.m.Len()
}

// View runs fn with the read lock held. fn must not modify m.
func (s *Sync[T]) View(fn func(m *Map[T])) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	fn(&s.m)
}

// Update runs fn with the write lock held.
func (s *Sync[T]) Update(fn func(m *Map[T]) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return fn(&s.m)
}
