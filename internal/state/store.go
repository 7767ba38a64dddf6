package state

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"httpdctl/internal/config"
	"httpdctl/pkg/logging"
)

const (
	entityType = "state"
	entityName = "applied"
)

// Applied is the controller's persisted state: the module set most
// recently successfully applied and the readiness flag. It is owned by the
// reconciliation engine, passed in explicitly, and survives across passes
// through the Store.
//
// CurrentModules is never the desired set directly. Individual toggles can
// fail, and a module is only recorded once its toggle has succeeded.
type Applied struct {
	CurrentModules ModuleSet `yaml:"current_modules"`
	Ready          bool      `yaml:"ready"`
}

// NewApplied returns an initialized empty state, as written on install.
func NewApplied() *Applied {
	return &Applied{CurrentModules: NewModuleSet()}
}

// Store persists Applied snapshots between reconciliation passes. Saves
// are write-through: the file is flushed before Save returns.
type Store struct {
	storage *config.Storage
}

// NewStore creates a Store on top of the given storage.
func NewStore(storage *config.Storage) *Store {
	return &Store{storage: storage}
}

// Load reads the persisted state. A missing entry yields a fresh empty
// state rather than an error, so first-run behaves like post-install.
func (s *Store) Load() (*Applied, error) {
	data, err := s.storage.Load(entityType, entityName)
	if err != nil {
		if _, ok := err.(*config.NotFoundError); ok {
			logging.Debug("State", "No persisted state found, starting empty")
			return NewApplied(), nil
		}
		return nil, fmt.Errorf("failed to load applied state: %w", err)
	}

	var st Applied
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse applied state: %w", err)
	}
	if st.CurrentModules == nil {
		st.CurrentModules = NewModuleSet()
	}
	return &st, nil
}

// Save persists the state write-through.
func (s *Store) Save(st *Applied) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal applied state: %w", err)
	}
	if err := s.storage.Save(entityType, entityName, data); err != nil {
		return fmt.Errorf("failed to persist applied state: %w", err)
	}
	return nil
}

// Init writes a fresh empty state, as part of install.
func (s *Store) Init() error {
	logging.Info("State", "Initializing applied state")
	return s.Save(NewApplied())
}
