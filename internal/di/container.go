// internal/di/container.go

// Package di provides the service registry the app wires itself through.
// Services are registered by name during startup and looked up by the API
// layer; there is no lazy construction.
package di

import "sync"

// Container is a name-keyed service registry.
type Container struct {
	services map[string]interface{}
	mu       sync.RWMutex
}

var (
	globalContainer *Container
	once            sync.Once
)

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{services: make(map[string]interface{})}
}

// GetContainer returns the process-wide container.
func GetContainer() *Container {
	once.Do(func() {
		globalContainer = NewContainer()
	})
	return globalContainer
}

// Register stores a service instance under name, replacing any previous
// registration.
func (c *Container) Register(name string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

// Get returns the service registered under name, or nil.
func (c *Container) Get(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services[name]
}

// Has reports whether a service is registered under name.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.services[name]
	return ok
}

// Remove deletes the registration for name.
func (c *Container) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.services, name)
}

// Clear empties the container. Used by tests.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services = make(map[string]interface{})
}
