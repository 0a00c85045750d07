package reconcile

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taxsync/pkg/authority"
	"github.com/agentstation/taxsync/pkg/errors"
	"github.com/agentstation/taxsync/pkg/logging"
	"github.com/agentstation/taxsync/pkg/seqinfo"
	"github.com/agentstation/taxsync/pkg/taxonomy"
)

const input = "seqname,tax_id,description\n" +
	"s1,9606,human\n" +
	"s2,99999,ground squirrel\n"

// mapResolver answers from a fixed table and counts calls.
type mapResolver struct {
	ids   map[string]string
	calls int32
}

func (m *mapResolver) Resolve(_ context.Context, id string) (taxonomy.Resolution, error) {
	atomic.AddInt32(&m.calls, 1)
	return taxonomy.NewResolution(id, m.ids[id]), nil
}

type harness struct {
	auth   *authority.Counting
	logs   *logging.TestLogger
	out    bytes.Buffer
	stales []Result
}

func newHarness(t *testing.T, ids ...string) *harness {
	t.Helper()
	return &harness{
		auth: &authority.Counting{Authority: authority.NewSet(ids...)},
		logs: logging.NewTestLogger(t),
	}
}

func (h *harness) run(t *testing.T, in string, resolver taxonomy.Resolver, opts ...Option) (*Summary, error) {
	t.Helper()

	reader, err := seqinfo.NewReader(strings.NewReader(in), "in.csv")
	require.NoError(t, err)
	writer := seqinfo.NewWriter(&h.out, "out.csv", reader.Schema())
	require.NoError(t, writer.WriteHeader())

	opts = append([]Option{
		WithLogger(h.logs.Logger),
		WithStaleHook(func(res Result) { h.stales = append(h.stales, res) }),
	}, opts...)
	r, err := New(h.auth, resolver, opts...)
	require.NoError(t, err)

	return r.Run(context.Background(), reader, writer)
}

func TestRun_CorrectedPresent(t *testing.T) {
	h := newHarness(t, "9606", "9999")
	resolver := &mapResolver{ids: map[string]string{"99999": "9999"}}

	sum, err := h.run(t, input, resolver)
	require.NoError(t, err)

	want := "seqname,tax_id,description\n" +
		"s1,9606,human\n" +
		"s2,9999,ground squirrel\n"
	assert.Equal(t, want, h.out.String())
	assert.Equal(t, int32(1), resolver.calls)
	assert.Empty(t, h.stales)
	h.logs.AssertNotContains(t, StaleMessage)

	assert.Equal(t, 2, sum.Rows)
	assert.Equal(t, 1, sum.Current)
	assert.Equal(t, 1, sum.Corrected)
	assert.Equal(t, 0, sum.Stale)
	assert.Equal(t, 1, sum.RemoteCalls)
	assert.Equal(t, 3, sum.AuthorityQueries)
	assert.False(t, sum.Aborted)
	assert.Equal(t, []string{"9606", "99999", "9999"}, h.auth.Queries())

	require.NotEmpty(t, sum.RunID)
	h.logs.AssertContains(t, `"run_id":"`+sum.RunID+`"`)
	assert.Positive(t, sum.Duration)
	assert.False(t, sum.StartedAt.IsZero())
}

func TestRun_CorrectedStale(t *testing.T) {
	h := newHarness(t, "9606")
	resolver := &mapResolver{ids: map[string]string{"99999": "9999"}}

	sum, err := h.run(t, input, resolver)
	require.NoError(t, err)

	want := "seqname,tax_id,description\n" +
		"s1,9606,human\n" +
		"s2,9999,ground squirrel\n"
	assert.Equal(t, want, h.out.String())

	assert.Equal(t, 1, h.logs.CountContaining(StaleMessage))
	h.logs.AssertContains(t, `"tax_id":"9999"`)
	h.logs.AssertContains(t, `"level":"warn"`)

	require.Len(t, h.stales, 1)
	assert.Equal(t, OutcomeStale, h.stales[0].Outcome)
	assert.Equal(t, "99999", h.stales[0].Original)
	assert.Equal(t, "9999", h.stales[0].TaxID)

	assert.Equal(t, 2, sum.Rows)
	assert.Equal(t, 1, sum.Stale)
	assert.Equal(t, []string{"9999"}, sum.StaleIDs)
	assert.False(t, sum.Aborted)
}

func TestRun_ResolutionFailureAborts(t *testing.T) {
	h := newHarness(t, "9606")
	var calls int32
	resolver := taxonomy.ResolverFunc(func(_ context.Context, id string) (taxonomy.Resolution, error) {
		atomic.AddInt32(&calls, 1)
		return taxonomy.Resolution{}, errors.NewResolutionError("entrez", id, "request failed", stderrors.New("connection refused"))
	})

	in := input + "s3,9606,human again\n"
	sum, err := h.run(t, in, resolver)
	require.Error(t, err)
	assert.True(t, errors.IsResolutionFailed(err))

	// Row one stays written, the failing row and everything after it do not.
	assert.Equal(t, "seqname,tax_id,description\ns1,9606,human\n", h.out.String())
	assert.Equal(t, int32(1), calls)

	require.NotNil(t, sum)
	assert.True(t, sum.Aborted)
	assert.Equal(t, 1, sum.Rows)
	assert.Equal(t, 1, sum.RemoteCalls)
	assert.Equal(t, 2, sum.AuthorityQueries)
}

func TestRun_Sentinel(t *testing.T) {
	h := newHarness(t, "1")
	resolver := &mapResolver{ids: map[string]string{}}

	sum, err := h.run(t, "tax_id\n424242\n", resolver)
	require.NoError(t, err)

	assert.Equal(t, "tax_id\n1\n", h.out.String())
	assert.Equal(t, 1, sum.Sentinel)
	assert.Equal(t, 1, sum.Corrected)
	h.logs.AssertNotContains(t, StaleMessage)
}

func TestRun_SentinelMissingFromAuthority(t *testing.T) {
	h := newHarness(t)
	resolver := &mapResolver{ids: map[string]string{}}

	sum, err := h.run(t, "tax_id\n424242\n", resolver)
	require.NoError(t, err)

	assert.Equal(t, "tax_id\n1\n", h.out.String())
	assert.Equal(t, 1, sum.Stale)
	assert.Equal(t, 1, sum.Sentinel)
	assert.Equal(t, 1, h.logs.CountContaining(StaleMessage))
}

func TestRun_AllCurrentIsIdentity(t *testing.T) {
	h := newHarness(t, "9606", "10090")
	resolver := &mapResolver{}

	in := "tax_id,seqname,notes\n" +
		"9606,s1,\"quoted, with comma\"\n" +
		"10090,s2,mouse\n" +
		"9606,s3,\n"
	sum, err := h.run(t, in, resolver)
	require.NoError(t, err)

	assert.Equal(t, in, h.out.String())
	assert.Equal(t, int32(0), resolver.calls)
	assert.Equal(t, 3, sum.Current)
	assert.Equal(t, 3, sum.AuthorityQueries)
	assert.Equal(t, []string{"9606", "10090", "9606"}, h.auth.Queries())
}

func TestRun_PreservesCardinalityAndSchema(t *testing.T) {
	h := newHarness(t, "2", "3")
	resolver := &mapResolver{ids: map[string]string{"5": "3", "7": "11"}}

	in := "a,tax_id,b\n" +
		"x,2,y\n" +
		"x,5,y\n" +
		"x,7,y\n" +
		"x,5,y\n"
	sum, err := h.run(t, in, resolver)
	require.NoError(t, err)

	reader, err := seqinfo.NewReader(strings.NewReader(h.out.String()), "out.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "tax_id", "b"}, reader.Schema().Columns())

	var got [][]string
	for {
		rec, err := reader.Next()
		if err != nil {
			break
		}
		got = append(got, rec.Values())
	}
	want := [][]string{
		{"x", "2", "y"},
		{"x", "3", "y"},
		{"x", "11", "y"},
		{"x", "3", "y"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output rows mismatch (-want +got):\n%s", diff)
	}

	// No caching: the repeated id is resolved again.
	assert.Equal(t, int32(3), resolver.calls)
	assert.Equal(t, 4, sum.Rows)
	assert.Equal(t, 1, sum.Stale)
	assert.Equal(t, []string{"11"}, sum.StaleIDs)
}

func TestRun_AuthorityErrorIsFatal(t *testing.T) {
	failing := authority.Func(func(_ context.Context, id string) (int, error) {
		return 0, errors.NewAuthorityError("query", "taxonomy.db", stderrors.New("disk I/O error"))
	})
	r, err := New(failing, &mapResolver{})
	require.NoError(t, err)

	reader, err := seqinfo.NewReader(strings.NewReader(input), "in.csv")
	require.NoError(t, err)
	var out bytes.Buffer
	writer := seqinfo.NewWriter(&out, "out.csv", reader.Schema())

	sum, err := r.Run(context.Background(), reader, writer)
	require.Error(t, err)
	assert.True(t, errors.IsAuthorityUnavailable(err))
	assert.True(t, sum.Aborted)
	assert.Zero(t, sum.Rows)
	assert.Empty(t, out.String())
}

func TestRun_MalformedRowIsFatal(t *testing.T) {
	h := newHarness(t, "9606")
	sum, err := h.run(t, "tax_id,name\n9606,a\n9606,b,extra\n9606,c\n", &mapResolver{})
	require.Error(t, err)

	var parseErr *errors.ParseError
	require.True(t, stderrors.As(err, &parseErr))
	assert.Equal(t, 3, parseErr.Line)
	assert.Equal(t, 1, sum.Rows)
	assert.Equal(t, "tax_id,name\n9606,a\n", h.out.String())
}

func TestRun_CustomColumn(t *testing.T) {
	h := newHarness(t, "9999")
	resolver := &mapResolver{ids: map[string]string{"99999": "9999"}}

	sum, err := h.run(t, "id,taxon\nx,99999\n", resolver, WithColumn("taxon"))
	require.NoError(t, err)
	assert.Equal(t, "id,taxon\nx,9999\n", h.out.String())
	assert.Equal(t, 1, sum.Corrected)
}

func TestRun_AbsentColumn(t *testing.T) {
	h := newHarness(t, "9999")
	resolver := &mapResolver{ids: map[string]string{"": "9999"}}

	in := "name,other\nghost,x\nghost2,y\n"
	sum, err := h.run(t, in, resolver)
	require.NoError(t, err)

	// Rows go out untouched and no column is added.
	assert.Equal(t, in, h.out.String())
	assert.Equal(t, int32(2), resolver.calls)
	assert.Equal(t, []string{"", ""}, h.auth.Queries())
	assert.Empty(t, h.stales)

	assert.Equal(t, 2, sum.Rows)
	assert.Equal(t, 2, sum.Absent)
	assert.Zero(t, sum.Corrected)
	assert.Zero(t, sum.Stale)
	assert.Zero(t, sum.Current)
	assert.Equal(t, 2, sum.RemoteCalls)
	assert.Equal(t, 2, sum.AuthorityQueries)
	assert.Equal(t, 2, h.logs.CountContaining("identifier column absent"))
}

func TestReconcile_AbsentColumnResult(t *testing.T) {
	r, err := New(authority.NewSet("9999"), &mapResolver{ids: map[string]string{"": "9999"}})
	require.NoError(t, err)

	rec := seqinfo.NewRecord(seqinfo.NewSchema([]string{"name"}), []string{"ghost"})
	res, err := r.Reconcile(context.Background(), rec, 2)
	require.NoError(t, err)

	assert.Equal(t, OutcomeAbsent, res.Outcome)
	assert.False(t, res.Changed())
	assert.Equal(t, "", res.TaxID)
	assert.Equal(t, res.Original, res.TaxID)
	assert.False(t, res.Sentinel)
	assert.Equal(t, []string{"ghost"}, rec.Values())
}

func TestReconcile_Result(t *testing.T) {
	auth := authority.NewSet("9999")
	resolver := taxonomy.ResolverFunc(func(_ context.Context, id string) (taxonomy.Resolution, error) {
		res := taxonomy.NewResolution(id, "9999")
		res.ScientificName = "Urocitellus parryii"
		return res, nil
	})
	r, err := New(auth, resolver)
	require.NoError(t, err)

	schema := seqinfo.NewSchema([]string{"tax_id"})
	rec := seqinfo.NewRecord(schema, []string{"99999"})

	res, err := r.Reconcile(context.Background(), rec, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Line)
	assert.Equal(t, "99999", res.Original)
	assert.Equal(t, "9999", res.TaxID)
	assert.Equal(t, OutcomeCorrected, res.Outcome)
	assert.True(t, res.Changed())
	assert.False(t, res.Sentinel)
	assert.True(t, res.Remote)
	assert.Equal(t, 2, res.AuthorityQueries)
	require.NotNil(t, res.Resolution)
	assert.Equal(t, "Urocitellus parryii", res.Resolution.ScientificName)

	got, _ := rec.Get("tax_id")
	assert.Equal(t, "9999", got)
}

func TestNew_Validation(t *testing.T) {
	auth := authority.NewSet()
	resolver := &mapResolver{}

	_, err := New(nil, resolver)
	assert.True(t, errors.IsValidationError(err))

	_, err = New(auth, nil)
	assert.True(t, errors.IsValidationError(err))

	_, err = New(auth, resolver, WithColumn(""))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(auth, resolver, WithLogger(nil))
	assert.True(t, errors.IsValidationError(err))

	r, err := New(auth, resolver)
	require.NoError(t, err)
	assert.Equal(t, "tax_id", r.Column())
}
