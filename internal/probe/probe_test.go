package probe

import (
	"context"
	"testing"

	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProber struct{ name string }

func (s *stubProber) Name() string                  { return s.name }
func (s *stubProber) Type() string                  { return "stub" }
func (s *stubProber) Probe(ctx context.Context) error { return nil }

func TestRegisterAndNew(t *testing.T) {
	Register("stub", func(cfg domain.ProviderConfig) (Prober, error) {
		return &stubProber{name: cfg.Name}, nil
	})

	p, err := New(domain.ProviderConfig{Name: "local", Type: "stub"})
	require.NoError(t, err)
	assert.Equal(t, "local", p.Name())
	assert.Equal(t, "stub", p.Type())
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(domain.ProviderConfig{Name: "x", Type: "does-not-exist"})
	assert.Error(t, err)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	Register("dup", func(cfg domain.ProviderConfig) (Prober, error) { return nil, nil })

	assert.Panics(t, func() {
		Register("dup", func(cfg domain.ProviderConfig) (Prober, error) { return nil, nil })
	})
}
