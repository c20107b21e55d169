package domain

import (
	"errors"
	"fmt"
)

// ErrCatalogUnavailable is returned when a catalog refresh fails and the
// previous snapshot is retained instead of being cleared.
var ErrCatalogUnavailable = errors.New("provider list unavailable")

// SelectionErrorReason classifies why a selection write was rejected.
type SelectionErrorReason string

const (
	SelectionEmptyName        SelectionErrorReason = "empty_name"
	SelectionUnknownProvider  SelectionErrorReason = "unknown_provider"
	SelectionProviderDisabled SelectionErrorReason = "provider_disabled"
)

// SelectionError is returned when a selection write is rejected. The previous
// selection is always retained; callers may surface or ignore the error, but
// the engine state is never left inconsistent by a rejected write.
type SelectionError struct {
	Reason   SelectionErrorReason
	Provider string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("selection rejected (%s): %q", e.Reason, e.Provider)
}

// RejectSelection builds a SelectionError for the given provider name.
func RejectSelection(reason SelectionErrorReason, provider string) *SelectionError {
	return &SelectionError{Reason: reason, Provider: provider}
}
