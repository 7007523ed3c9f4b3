package storage

// StubStore is an in-memory Store for tests.
type StubStore struct {
	data    map[string]string
	GetErr  error
	SetErr  error
	SetKeys []string
}

func NewStubStore() *StubStore {
	return &StubStore{data: map[string]string{}}
}

func (s *StubStore) Get(key string) (string, bool, error) {
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *StubStore) Set(key, value string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.data[key] = value
	s.SetKeys = append(s.SetKeys, key)
	return nil
}

func (s *StubStore) Reset() {
	s.data = map[string]string{}
	s.GetErr = nil
	s.SetErr = nil
	s.SetKeys = nil
}
