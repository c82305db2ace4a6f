package journal

import (
	"context"

	"dewpoint-server/internal/types"
)

// Recorder adapts a Repository to the service's recorder hook.
type Recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) Record(ctx context.Context, c types.Calculation) error {
	return r.repo.InsertCalculation(ctx, c)
}
