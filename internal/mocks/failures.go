package mocks

import "sync"

// failures - ошибки, которые мок вернет вместо результата (по имени метода)
type failures struct {
	mu   sync.Mutex
	errs map[string]error
}

// FailOn заставляет метод вернуть err при каждом вызове
func (f *failures) FailOn(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = make(map[string]error)
	}
	f.errs[method] = err
}

func (f *failures) failure(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[method]
}
