package annotation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemNorm/internal/conformer"
	"github.com/turtacn/ChemNorm/internal/convert"
	"github.com/turtacn/ChemNorm/internal/infrastructure/cache"
	"github.com/turtacn/ChemNorm/internal/infrastructure/sources"
	"github.com/turtacn/ChemNorm/internal/matcher"
	"github.com/turtacn/ChemNorm/pkg/errors"
	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

func molLines(elems []string, bonds [][2]int) string {
	var b strings.Builder
	b.WriteString("fixture\n  chemnorm\n\n")
	fmt.Fprintf(&b, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(elems), len(bonds))
	for i, e := range elems {
		fmt.Fprintf(&b, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0\n",
			float64(i)*0.7, 0.3, 0.4+float64(i)*0.05, e)
	}
	for _, bond := range bonds {
		fmt.Fprintf(&b, "%3d%3d  1  0\n", bond[0], bond[1])
	}
	b.WriteString("M  END\n")
	return b.String()
}

func caffeineSDF() string {
	return molLines(
		[]string{"N", "C", "N", "C", "C", "C", "N", "C", "N", "O", "O", "C", "C", "C"},
		[][2]int{
			{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 1},
			{5, 7}, {7, 8}, {8, 9}, {9, 4},
			{2, 10}, {6, 11},
			{1, 12}, {3, 13}, {7, 14},
		})
}

func ethanolSDF() string {
	return molLines([]string{"C", "C", "O", "H"}, [][2]int{{1, 2}, {2, 3}, {3, 4}})
}

type countingCache struct {
	inner cache.DetectionCache
	mu    sync.Mutex
	sets  int
}

func (c *countingCache) Get(ctx context.Context, key string) (*moltypes.GroupDetectionResult, bool) {
	return c.inner.Get(ctx, key)
}

func (c *countingCache) Set(ctx context.Context, key string, r *moltypes.GroupDetectionResult) {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	c.inner.Set(ctx, key, r)
}

type stubSource struct {
	name string
	text string
	err  error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(context.Context, sources.Query) (string, error) {
	return s.text, s.err
}

func newTestService(t *testing.T, steps ...sources.StructureSource) (*Service, *countingCache) {
	t.Helper()
	lib, err := matcher.NewLoader(nil, nil, nil).Default()
	require.NoError(t, err)

	store := &countingCache{inner: cache.NewMemory(64, time.Hour, nil, nil)}
	svc := NewService(
		conformer.NewResolverWithSources(steps, nil, nil),
		convert.New(nil, nil),
		matcher.NewDetector(nil, nil),
		matcher.StaticLibrary(lib),
		store,
		nil, nil,
	)
	return svc, store
}

func groupIDs(res *moltypes.AnnotationResult) []string {
	ids := make([]string, 0, len(res.Groups))
	for _, g := range res.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}

func TestAnnotateStructure_Caffeine(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.AnnotateStructure(context.Background(), caffeineSDF())
	require.NoError(t, err)

	assert.Equal(t, []string{"purine_core", "imide"}, groupIDs(res))
	assert.Equal(t, 14, res.Diagnostics.Conversion.AtomsParsed)
	assert.Equal(t, 15, res.Diagnostics.Conversion.BondsProcessed)
	assert.Zero(t, res.Diagnostics.Conversion.BondsDropped)
	assert.True(t, strings.HasPrefix(res.PDBText, "ATOM  "))
	assert.True(t, strings.HasSuffix(res.PDBText, "END\n"))
	assert.True(t, res.Dimensionality.Is3D())
	assert.False(t, res.Diagnostics.CacheHit)

	_, err = uuid.Parse(res.Diagnostics.RequestID)
	assert.NoError(t, err)
}

func TestAnnotateStructure_Ethanol(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.AnnotateStructure(context.Background(), ethanolSDF())
	require.NoError(t, err)
	require.Equal(t, []string{"hydroxyl"}, groupIDs(res))
	assert.Equal(t, []int{3, 4}, res.Groups[0].Atoms)
}

func TestAnnotateStructure_CacheHit(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first, err := svc.AnnotateStructure(ctx, caffeineSDF())
	require.NoError(t, err)
	assert.False(t, first.Diagnostics.CacheHit)

	second, err := svc.AnnotateStructure(ctx, caffeineSDF())
	require.NoError(t, err)
	assert.True(t, second.Diagnostics.CacheHit)
	assert.Equal(t, first.Groups, second.Groups)
	assert.Equal(t, 1, store.sets)

	// A CRLF copy of the same structure addresses the same entry.
	crlf := strings.ReplaceAll(caffeineSDF(), "\n", "\r\n")
	third, err := svc.AnnotateStructure(ctx, crlf)
	require.NoError(t, err)
	assert.True(t, third.Diagnostics.CacheHit)
}

func TestAnnotateStructure_SingleEvaluationUnderConcurrency(t *testing.T) {
	svc, store := newTestService(t)
	text := caffeineSDF()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AnnotateStructure(context.Background(), text)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, store.sets)
}

func TestAnnotateStructure_Malformed(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.AnnotateStructure(context.Background(), "nothing structural here\n")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedInput))
}

func TestAnnotateIdentifier_EndToEnd(t *testing.T) {
	svc, _ := newTestService(t, &stubSource{name: "stub", text: ethanolSDF()})

	res, err := svc.AnnotateIdentifier(context.Background(), Request{CID: "702"})
	require.NoError(t, err)
	assert.Equal(t, "stub", res.Source)
	assert.True(t, res.Dimensionality.Is3D())
	assert.Equal(t, []string{"hydroxyl"}, groupIDs(res))
	require.Len(t, res.Diagnostics.Attempts, 1)
	assert.Equal(t, "ok", res.Diagnostics.Attempts[0].Outcome)
}

func TestAnnotateIdentifier_EmptyRequest(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.AnnotateIdentifier(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIdentifierInvalid))
}

func TestAnnotateIdentifier_CascadeExhausted(t *testing.T) {
	svc, _ := newTestService(t, &stubSource{
		name: "stub",
		err:  errors.New(errors.ErrCodeSourceUnavailable, "down"),
	})
	_, err := svc.AnnotateIdentifier(context.Background(), Request{CID: "1"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureNotFound))
}

func TestDetectionKey(t *testing.T) {
	assert.Equal(t,
		detectionKey("lib", "text\n"),
		detectionKey("lib", "text\r\n"))
	assert.NotEqual(t,
		detectionKey("libA", "text"),
		detectionKey("libB", "text"))
	assert.NotEqual(t,
		detectionKey("lib", "text"),
		detectionKey("lib", "other"))
}
