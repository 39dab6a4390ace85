package speech

import (
	"fmt"
	"sync"
)

// Registry holds speech collaborators by name. Like the provider registry,
// it is owned state injected where needed, not a package-level singleton.
type Registry struct {
	mu           sync.RWMutex
	transcribers map[string]Transcriber
	synthesizers map[string]Synthesizer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		transcribers: make(map[string]Transcriber),
		synthesizers: make(map[string]Synthesizer),
	}
}

// RegisterTranscriber adds a transcriber under its own name.
func (r *Registry) RegisterTranscriber(t Transcriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.transcribers[t.Name()]; exists {
		return fmt.Errorf("speech: transcriber %q already registered", t.Name())
	}
	r.transcribers[t.Name()] = t
	return nil
}

// RegisterSynthesizer adds a synthesizer under its own name.
func (r *Registry) RegisterSynthesizer(s Synthesizer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.synthesizers[s.Name()]; exists {
		return fmt.Errorf("speech: synthesizer %q already registered", s.Name())
	}
	r.synthesizers[s.Name()] = s
	return nil
}

// Transcriber returns the named transcriber.
func (r *Registry) Transcriber(name string) (Transcriber, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transcribers[name]
	return t, ok
}

// Synthesizer returns the named synthesizer.
func (r *Registry) Synthesizer(name string) (Synthesizer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.synthesizers[name]
	return s, ok
}
