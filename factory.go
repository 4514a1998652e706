package icekit

import (
	"context"
	"fmt"
	"sync"
)

// Opener opens the driver instance that serves one bucket. Local and memory
// drivers receive an empty bucket for file locations.
type Opener func(ctx context.Context, loc Location) (FileReader, error)

// DriverFactory is a function that creates an Opener from a config
type DriverFactory func(cfg *Config) (Opener, error)

var (
	driverFactories = make(map[string]DriverFactory)
	factoryMutex    sync.RWMutex
)

// RegisterDriver registers a driver factory function
func RegisterDriver(name string, factory DriverFactory) {
	factoryMutex.Lock()
	defer factoryMutex.Unlock()
	driverFactories[name] = factory
}

// CreateDriver creates an opener for the named driver from config
func CreateDriver(name string, cfg *Config) (Opener, error) {
	factoryMutex.RLock()
	factory, exists := driverFactories[name]
	factoryMutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("driver %s not registered", name)
	}

	return factory(cfg)
}
