package storage

// MemoryStorage is an in-process backend for tests.
type MemoryStorage struct {
	data   []byte
	exists bool
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

func (s *MemoryStorage) Load() ([]byte, error) {
	if !s.exists {
		return nil, ErrNotExist
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemoryStorage) Save(data []byte) error {
	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.exists = true
	return nil
}
