package environment

import (
	"context"
	"os"
)

// OsEnvProvider reads from the process environment.
type OsEnvProvider struct{}

func NewOsEnvProvider() *OsEnvProvider {
	return &OsEnvProvider{}
}

func (p *OsEnvProvider) Get(_ context.Context, name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapProvider serves a fixed map, used in tests.
type MapProvider struct {
	values map[string]string
}

func NewMapProvider(values map[string]string) *MapProvider {
	return &MapProvider{values: values}
}

func (p *MapProvider) Get(_ context.Context, name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// MultiProvider queries providers in order and returns the first hit.
type MultiProvider struct {
	providers []Provider
}

func NewMultiProvider(providers ...Provider) *MultiProvider {
	return &MultiProvider{providers: providers}
}

func (p *MultiProvider) Get(ctx context.Context, name string) (string, bool) {
	for _, provider := range p.providers {
		if value, ok := provider.Get(ctx, name); ok {
			return value, true
		}
	}
	return "", false
}

// NewDefaultProvider returns the provider chain used outside tests.
func NewDefaultProvider() Provider {
	return NewOsEnvProvider()
}
