package kb

import (
	"fmt"
	"sync"

	"github.com/signalsfoundry/dish-optics/model"
)

// EventType indicates what kind of change happened in the store.
type EventType int

const (
	EventConfigReplaced EventType = iota
)

// Event is emitted to subscribers when the configuration changes.
type Event struct {
	Type     EventType
	Version  uint64
	Previous model.Scenario
	Current  model.Scenario
}

// Validator checks a snapshot before it is installed.
type Validator func(model.Scenario) error

// ConfigStore is a thread-safe holder for the current configuration snapshot.
// Snapshots are values: readers get a copy, and writers replace the whole
// thing, so a sweep in flight never sees a half-applied change.
type ConfigStore struct {
	// writeMu serializes read-modify-write cycles; mu guards the fields.
	writeMu sync.Mutex
	mu      sync.RWMutex

	current  model.Scenario
	version  uint64
	validate Validator

	subs map[int]func(Event)
	next int
}

// NewConfigStore returns a store seeded with initial. The validators run on
// initial and on every later Replace.
func NewConfigStore(initial model.Scenario, validators ...Validator) (*ConfigStore, error) {
	s := &ConfigStore{
		subs:     make(map[int]func(Event)),
		validate: chain(validators),
	}
	if err := s.validate(initial); err != nil {
		return nil, fmt.Errorf("initial configuration: %w", err)
	}
	s.current = initial
	s.version = 1
	return s, nil
}

func chain(vs []Validator) Validator {
	return func(sc model.Scenario) error {
		for _, v := range vs {
			if v == nil {
				continue
			}
			if err := v(sc); err != nil {
				return err
			}
		}
		return nil
	}
}

// Current returns the installed snapshot and its version.
func (s *ConfigStore) Current() (model.Scenario, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.version
}

// Snapshot returns the installed snapshot.
func (s *ConfigStore) Snapshot() model.Scenario {
	sc, _ := s.Current()
	return sc
}

// Replace validates next and installs it wholesale. On error the previous
// snapshot stays in place.
func (s *ConfigStore) Replace(next model.Scenario) error {
	s.writeMu.Lock()
	event, subs, err := s.install(next)
	s.writeMu.Unlock()
	if err != nil {
		return err
	}
	notify(subs, event)
	return nil
}

// Update applies fn to a copy of the current snapshot and installs the result.
// Writers are serialized, so concurrent updates never overwrite each other.
func (s *ConfigStore) Update(fn func(*model.Scenario)) error {
	event, subs, err := func() (Event, []func(Event), error) {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		next := s.Snapshot()
		fn(&next)
		return s.install(next)
	}()
	if err != nil {
		return err
	}
	notify(subs, event)
	return nil
}

// install validates and swaps in next. The caller holds writeMu.
func (s *ConfigStore) install(next model.Scenario) (Event, []func(Event), error) {
	if err := s.validate(next); err != nil {
		return Event{}, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	event := Event{
		Type:     EventConfigReplaced,
		Previous: s.current,
		Current:  next,
	}
	s.current = next
	s.version++
	event.Version = s.version
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return event, subs, nil
}

// notify runs outside both locks so subscribers may call back into the store.
func notify(subs []func(Event), event Event) {
	for _, sub := range subs {
		sub(event)
	}
}

// Subscribe registers a callback for store events. It returns an unsubscribe
// function.
func (s *ConfigStore) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
