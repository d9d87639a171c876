// Package config persists the manager configuration through pluggable
// file drivers.
package config

// Driver reads and writes one serialized configuration.
type Driver interface {
	Exists() (bool, error)
	Write(config Config) error
	Read() (Config, error)
}

// Store is the configuration access point. A missing backing file is
// seeded with the defaults on construction.
type Store struct {
	driver Driver
}

func NewStore(driver Driver) (Store, error) {
	exists, err := driver.Exists()
	if err != nil {
		return Store{}, err
	}
	if !exists {
		if err := driver.Write(defaultConfig); err != nil {
			return Store{}, err
		}
	}

	return Store{driver: driver}, nil
}

func (s *Store) GetConfig() (Config, error) {
	return s.driver.Read()
}

// UpdateConfig applies fn to the stored configuration and writes the
// result back.
func (s *Store) UpdateConfig(fn func(cfg Config) (Config, error)) error {
	cfg, err := s.driver.Read()
	if err != nil {
		return err
	}

	cfg, err = fn(cfg)
	if err != nil {
		return err
	}

	return s.driver.Write(cfg)
}
