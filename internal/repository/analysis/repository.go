// Package analysis persists the latest analysis result. The store
// holds exactly one result: every save replaces the previous one.
package analysis

import (
	"context"
	"errors"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// Store defines operations for the latest-analysis record.
type Store interface {
	Save(ctx context.Context, result *t.AnalysisResponse) error
	Load(ctx context.Context) (*t.AnalysisResponse, error)
	Clear(ctx context.Context) error
}

var ErrNotFound = errors.New("analysis not found")
