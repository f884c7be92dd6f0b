package game

import "context"

// Initializer prepares one dependency of a session, such as the label
// service or the image cache.
type Initializer interface {
	Name() string
	Initialize(ctx context.Context) error
}

type initializerFunc struct {
	name string
	fn   func(ctx context.Context) error
}

// NewInitializer adapts fn to an Initializer.
func NewInitializer(name string, fn func(ctx context.Context) error) Initializer {
	return &initializerFunc{name: name, fn: fn}
}

func (i *initializerFunc) Name() string {
	return i.name
}

func (i *initializerFunc) Initialize(ctx context.Context) error {
	return i.fn(ctx)
}
