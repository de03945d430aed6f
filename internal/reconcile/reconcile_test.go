package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"likeshelf/internal/domain"
)

type fakeSource struct {
	exists  map[string]bool
	batches [][]string
	failAt  int // 1-based batch index to fail on, 0 = never
}

func (f *fakeSource) CheckExistence(_ context.Context, ids []string) ([]string, error) {
	f.batches = append(f.batches, ids)
	if f.failAt > 0 && len(f.batches) == f.failAt {
		return nil, errors.New("quota exceeded")
	}
	var out []string
	for _, id := range ids {
		if f.exists[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeSource) FetchLikedPage(context.Context, string) (*domain.LikedPage, error) {
	return nil, errors.New("not used")
}

func idRange(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("v%03d", i)
	}
	return out
}

func TestCheckAvailabilityBatching(t *testing.T) {
	ids := idRange(120)
	exists := make(map[string]bool, len(ids))
	for _, id := range ids {
		exists[id] = true
	}
	// Two ids in different batches have vanished.
	delete(exists, "v007")
	delete(exists, "v100")

	src := &fakeSource{exists: exists}
	r := NewReconciler(src, nil)

	missing, err := r.CheckAvailability(context.Background(), ids)
	require.NoError(t, err)

	// Exactly 3 batches: 50, 50, 20.
	require.Len(t, src.batches, 3)
	require.Len(t, src.batches[0], 50)
	require.Len(t, src.batches[1], 50)
	require.Len(t, src.batches[2], 20)

	require.ElementsMatch(t, []string{"v007", "v100"}, missing)
}

func TestCheckAvailabilityAllPresent(t *testing.T) {
	ids := idRange(10)
	exists := make(map[string]bool)
	for _, id := range ids {
		exists[id] = true
	}
	r := NewReconciler(&fakeSource{exists: exists}, nil)

	missing, err := r.CheckAvailability(context.Background(), ids)
	require.NoError(t, err)
	require.Empty(t, missing)
}

func TestCheckAvailabilityBatchErrorAborts(t *testing.T) {
	src := &fakeSource{exists: map[string]bool{}, failAt: 2}
	r := NewReconciler(src, nil)

	missing, err := r.CheckAvailability(context.Background(), idRange(120))
	require.Error(t, err)
	require.Nil(t, missing)

	// The third batch was never attempted.
	require.Len(t, src.batches, 2)
}

func TestCheckAvailabilityEmptyInput(t *testing.T) {
	src := &fakeSource{}
	r := NewReconciler(src, nil)

	missing, err := r.CheckAvailability(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, missing)
	require.Empty(t, src.batches)
}
