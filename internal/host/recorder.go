package host

import (
	"errors"
	"sync"
)

// Write is one recorded SetProperty call.
type Write struct {
	Scope Scope
	Name  string
	Value string
}

// Recorder is an in-memory Display.
type Recorder struct {
	mu     sync.Mutex
	writes []Write
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetProperty(scope Scope, name string, value string) error {
	r.mu.Lock()
	r.writes = append(r.writes, Write{Scope: scope, Name: name, Value: value})
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Write(nil), r.writes...)
}

// Value returns the latest value written for the property.
func (r *Recorder) Value(scope Scope, name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.writes) - 1; i >= 0; i-- {
		w := r.writes[i]
		if w.Scope == scope && w.Name == name {
			return w.Value, true
		}
	}
	return "", false
}

// Multi writes to every display and joins their errors.
type Multi []Display

func (m Multi) SetProperty(scope Scope, name string, value string) error {
	var errs []error
	for _, d := range m {
		if d == nil {
			continue
		}
		if err := d.SetProperty(scope, name, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
