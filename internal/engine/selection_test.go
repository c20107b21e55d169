package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/nulzo/provider-engine/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSelectionRepo is an in-memory stand-in for the sqlite selection table.
type fakeSelectionRepo struct {
	name   string
	setErr error
	getErr error
	sets   int
}

func (f *fakeSelectionRepo) Get(ctx context.Context) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	if f.name == "" {
		return "", store.ErrNotFound
	}
	return f.name, nil
}

func (f *fakeSelectionRepo) Set(ctx context.Context, name string) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.name = name
	return nil
}

func selectionSnapshot() *domain.Snapshot {
	return domain.NewSnapshot([]domain.ProviderDescriptor{
		textProvider("openai", 1, true),
		textProvider("claude", 2, true),
		textProvider("legacy", 3, false),
	})
}

func TestSelection_SetValid(t *testing.T) {
	sel := newSelectionState(nil, zap.NewNop())
	snap := selectionSnapshot()

	err := sel.set(context.Background(), "claude", snap)
	require.NoError(t, err)

	p := sel.resolve(snap)
	require.NotNil(t, p)
	assert.Equal(t, "claude", p.Name)
}

func TestSelection_RejectedWritesLeaveStateUntouched(t *testing.T) {
	sel := newSelectionState(nil, zap.NewNop())
	snap := selectionSnapshot()
	require.NoError(t, sel.set(context.Background(), "claude", snap))

	cases := []struct {
		name   string
		reason domain.SelectionErrorReason
	}{
		{"", domain.SelectionEmptyName},
		{"missing", domain.SelectionUnknownProvider},
		{"legacy", domain.SelectionProviderDisabled},
	}

	for _, tc := range cases {
		err := sel.set(context.Background(), tc.name, snap)

		var selErr *domain.SelectionError
		require.ErrorAs(t, err, &selErr)
		assert.Equal(t, tc.reason, selErr.Reason)

		// previous selection survives the rejected write
		assert.Equal(t, "claude", sel.stored())
	}
}

func TestSelection_FallbackWhenSelectedDisappears(t *testing.T) {
	sel := newSelectionState(nil, zap.NewNop())
	require.NoError(t, sel.set(context.Background(), "claude", selectionSnapshot()))

	// next catalog refresh no longer carries claude
	shrunk := domain.NewSnapshot([]domain.ProviderDescriptor{
		textProvider("openai", 1, true),
	})

	p := sel.resolve(shrunk)
	require.NotNil(t, p)
	assert.Equal(t, "openai", p.Name)

	// the stored name is untouched; only explicit writes change it
	assert.Equal(t, "claude", sel.stored())
}

func TestSelection_FallbackWhenSelectedDisabled(t *testing.T) {
	sel := newSelectionState(nil, zap.NewNop())
	require.NoError(t, sel.set(context.Background(), "claude", selectionSnapshot()))

	disabled := domain.NewSnapshot([]domain.ProviderDescriptor{
		textProvider("openai", 1, true),
		textProvider("claude", 2, false),
	})

	p := sel.resolve(disabled)
	require.NotNil(t, p)
	assert.Equal(t, "openai", p.Name)
}

func TestSelection_EmptyCatalogResolvesNil(t *testing.T) {
	sel := newSelectionState(nil, zap.NewNop())

	assert.Nil(t, sel.resolve(domain.NewSnapshot(nil)))
}

func TestSelection_FallbackPrefersPriorityThenCatalogOrder(t *testing.T) {
	sel := newSelectionState(nil, zap.NewNop())

	snap := domain.NewSnapshot([]domain.ProviderDescriptor{
		textProvider("b", 2, true),
		textProvider("a", 2, true),
		textProvider("c", 5, true),
	})

	p := sel.resolve(snap)
	require.NotNil(t, p)
	assert.Equal(t, "b", p.Name)
}

func TestSelection_WriteThroughPersistence(t *testing.T) {
	repo := &fakeSelectionRepo{}
	sel := newSelectionState(repo, zap.NewNop())

	require.NoError(t, sel.set(context.Background(), "openai", selectionSnapshot()))
	assert.Equal(t, "openai", repo.name)
}

func TestSelection_PersistenceFailureIsNonFatal(t *testing.T) {
	repo := &fakeSelectionRepo{setErr: errors.New("disk full")}
	sel := newSelectionState(repo, zap.NewNop())
	snap := selectionSnapshot()

	err := sel.set(context.Background(), "openai", snap)
	require.NoError(t, err, "a failed disk write must not reject the selection")

	p := sel.resolve(snap)
	require.NotNil(t, p)
	assert.Equal(t, "openai", p.Name)
}

func TestSelection_LoadRestoresPersistedName(t *testing.T) {
	repo := &fakeSelectionRepo{name: "claude"}
	sel := newSelectionState(repo, zap.NewNop())

	sel.load(context.Background())

	p := sel.resolve(selectionSnapshot())
	require.NotNil(t, p)
	assert.Equal(t, "claude", p.Name)
}

func TestSelection_LoadToleratesEmptyStore(t *testing.T) {
	sel := newSelectionState(&fakeSelectionRepo{}, zap.NewNop())

	sel.load(context.Background())
	assert.Equal(t, "", sel.stored())
}
