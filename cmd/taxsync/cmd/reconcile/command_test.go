package reconcile

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/agentstation/taxsync/internal/appcontext"
	"github.com/agentstation/taxsync/pkg/errors"
	"github.com/agentstation/taxsync/pkg/logging"
)

const seqInfo = "seqname,tax_id,description\n" +
	"s1,9606,human\n" +
	"s2,99999,ground squirrel\n"

func newTaxonomyDB(t *testing.T, ids ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "taxonomy.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE nodes (tax_id TEXT PRIMARY KEY, parent_id TEXT, rank TEXT)`)
	require.NoError(t, err)
	for _, id := range ids {
		_, err := db.Exec("INSERT INTO nodes (tax_id, parent_id, rank) VALUES (?, '1', 'species')", id)
		require.NoError(t, err)
	}
	return path
}

// newEntrez fakes efetch: 99999 was merged into 9999, anything else fails.
func newEntrez(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Query().Get("email") == "" {
			http.Error(w, "missing email", http.StatusBadRequest)
			return
		}
		switch r.URL.Query().Get("id") {
		case "99999":
			_, _ = w.Write([]byte(`<TaxaSet><Taxon><TaxId>9999</TaxId><ScientificName>Urocitellus parryii</ScientificName></Taxon></TaxaSet>`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

type run struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
	logs   *logging.TestLogger
	err    error
}

func execute(t *testing.T, settings appcontext.Settings, stdin string, args ...string) *run {
	t.Helper()

	r := &run{logs: logging.NewTestLogger(t)}
	app := &appcontext.Mock{
		LoggerFunc:   func() *zerolog.Logger { return r.logs.Logger },
		SettingsFunc: func() appcontext.Settings { return settings },
	}

	cmd := NewCommand(app)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&r.stdout)
	cmd.SetErr(&r.stderr)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	r.err = cmd.ExecuteContext(context.Background())
	return r
}

func TestReconcile_StdinToStdout(t *testing.T) {
	db := newTaxonomyDB(t, "9606", "9999")
	server, calls := newEntrez(t)

	r := execute(t, appcontext.Settings{}, seqInfo,
		"--db", db, "--email", "curator@example.org", "--entrez-url", server.URL, "--rate-limit", "-1")
	require.NoError(t, r.err)

	assert.Equal(t, "seqname,tax_id,description\ns1,9606,human\ns2,9999,ground squirrel\n", r.stdout.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	r.logs.AssertNotContains(t, "authority is stale")
	assert.Empty(t, r.stderr.String())
}

func TestReconcile_FilesWithStaleWarningAndSummary(t *testing.T) {
	db := newTaxonomyDB(t, "9606")
	server, _ := newEntrez(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "seq_info.csv")
	out := filepath.Join(dir, "fixed.csv")
	require.NoError(t, os.WriteFile(in, []byte(seqInfo), 0o644))

	r := execute(t, appcontext.Settings{DB: db, Email: "curator@example.org", EntrezURL: server.URL}, "",
		in, out, "--rate-limit", "-1", "--summary", "json")
	require.NoError(t, r.err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "seqname,tax_id,description\ns1,9606,human\ns2,9999,ground squirrel\n", string(got))
	assert.Empty(t, r.stdout.String())

	assert.Equal(t, 1, r.logs.CountContaining("authority is stale, missing replacement id"))
	r.logs.AssertContains(t, `"tax_id":"9999"`)

	var summary map[string]any
	require.NoError(t, json.Unmarshal(r.stderr.Bytes(), &summary))
	assert.Equal(t, "completed", summary["status"])
	assert.EqualValues(t, 2, summary["rows"])
	assert.EqualValues(t, 1, summary["stale"])
	assert.Equal(t, []any{"9999"}, summary["stale_ids"])
}

func TestReconcile_RemoteFailureKeepsWrittenRows(t *testing.T) {
	db := newTaxonomyDB(t, "9606")
	server, _ := newEntrez(t)

	in := seqInfo + "s3,123,unreachable\ns4,9606,never reached\n"
	summaryFile := filepath.Join(t.TempDir(), "summary.yaml")
	r := execute(t, appcontext.Settings{}, strings.Replace(in, "99999", "9606", 1),
		"--db", db, "--email", "curator@example.org", "--entrez-url", server.URL, "--rate-limit", "-1",
		"--summary", "yaml", "--summary-file", summaryFile)

	require.Error(t, r.err)
	assert.True(t, errors.IsResolutionFailed(r.err))
	assert.Equal(t, "seqname,tax_id,description\ns1,9606,human\ns2,9606,ground squirrel\n", r.stdout.String())

	summary, err := os.ReadFile(summaryFile)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "status: aborted")
	assert.Contains(t, string(summary), "rows: 2")
}

func TestReconcile_SummaryFileDetectsFormat(t *testing.T) {
	db := newTaxonomyDB(t, "9606", "9999")
	server, _ := newEntrez(t)

	summaryFile := filepath.Join(t.TempDir(), "reports", "run", "summary.out")
	r := execute(t, appcontext.Settings{SummaryFile: summaryFile}, seqInfo,
		"--db", db, "--email", "curator@example.org", "--entrez-url", server.URL, "--rate-limit", "-1")
	require.NoError(t, r.err)
	assert.Empty(t, r.stderr.String())

	data, err := os.ReadFile(summaryFile)
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, json.Unmarshal(data, &summary), "a file is not a terminal, so JSON")
	assert.EqualValues(t, 1, summary["corrected"])
	assert.EqualValues(t, 0, summary["absent"])
}

func TestReconcile_SummaryAuto(t *testing.T) {
	db := newTaxonomyDB(t, "9606", "9999")
	server, _ := newEntrez(t)

	r := execute(t, appcontext.Settings{}, seqInfo,
		"--db", db, "--email", "curator@example.org", "--entrez-url", server.URL, "--rate-limit", "-1",
		"--summary", "auto")
	require.NoError(t, r.err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal(r.stderr.Bytes(), &summary))
	assert.Equal(t, "completed", summary["status"])
}

func TestReconcile_SummaryTable(t *testing.T) {
	db := newTaxonomyDB(t, "9606", "9999")
	server, _ := newEntrez(t)

	r := execute(t, appcontext.Settings{}, seqInfo,
		"--db", db, "--email", "curator@example.org", "--entrez-url", server.URL, "--rate-limit", "-1",
		"--summary", "table")
	require.NoError(t, r.err)

	out := strings.ToLower(r.stderr.String())
	assert.Contains(t, out, "corrected")
	assert.Contains(t, out, "remote calls")
	assert.NotContains(t, out, "{")
}

func TestReconcile_LogsToInjectedLogger(t *testing.T) {
	global := logging.NewTestLogger(t)
	previous := *logging.Default()
	logging.SetDefault(*global.Logger)
	t.Cleanup(func() { logging.SetDefault(previous) })

	db := newTaxonomyDB(t, "9606")
	server, _ := newEntrez(t)

	r := execute(t, appcontext.Settings{}, seqInfo,
		"--db", db, "--email", "curator@example.org", "--entrez-url", server.URL, "--rate-limit", "-1")
	require.NoError(t, r.err)

	r.logs.AssertContains(t, "reconciling")
	r.logs.AssertContains(t, "authority is stale, missing replacement id")
	assert.Empty(t, global.Output(), "nothing may go through the process-wide logger")
}

func TestReconcile_FatalBeforeOutput(t *testing.T) {
	server, calls := newEntrez(t)

	t.Run("missing database", func(t *testing.T) {
		dir := t.TempDir()
		out := filepath.Join(dir, "fixed.csv")
		r := execute(t, appcontext.Settings{}, seqInfo, "-", out,
			"--db", filepath.Join(dir, "missing.db"), "--email", "curator@example.org", "--entrez-url", server.URL)

		require.Error(t, r.err)
		assert.True(t, errors.IsAuthorityUnavailable(r.err))
		assert.NoFileExists(t, out)
	})

	t.Run("empty input", func(t *testing.T) {
		r := execute(t, appcontext.Settings{}, "",
			"--db", newTaxonomyDB(t), "--email", "curator@example.org", "--entrez-url", server.URL)

		require.Error(t, r.err)
		assert.True(t, errors.IsSchema(r.err))
		assert.Empty(t, r.stdout.String())
	})

	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestReconcile_ConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		settings  appcontext.Settings
		args      []string
		component string
	}{
		{"no db", appcontext.Settings{Email: "a@b.c"}, nil, "db"},
		{"no email", appcontext.Settings{DB: "taxonomy.db"}, nil, "email"},
		{"bad summary", appcontext.Settings{DB: "taxonomy.db", Email: "a@b.c"}, []string{"--summary", "xml"}, "summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := execute(t, tt.settings, seqInfo, tt.args...)
			require.Error(t, r.err)

			var cfgErr *errors.ConfigError
			require.ErrorAs(t, r.err, &cfgErr)
			assert.Equal(t, tt.component, cfgErr.Component)
		})
	}
}

func TestFlags_Merge(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	require.NoError(t, cmd.ParseFlags([]string{"--db", "flag.db", "--timeout", "0"}))

	flags := &Flags{}
	flags.DB, _ = cmd.Flags().GetString("db")
	flags.merge(cmd, appcontext.Settings{
		DB:          "env.db",
		Email:       "env@example.org",
		Column:      "taxid",
		Timeout:     30,
		RateLimit:   2.5,
		SummaryFile: "summary.json",
	})

	assert.Equal(t, "flag.db", flags.DB)
	assert.Equal(t, "env@example.org", flags.Email)
	assert.Equal(t, "taxid", flags.Column)
	assert.Zero(t, flags.Timeout, "explicit flag wins over config")
	assert.Equal(t, 2.5, flags.RateLimit)
	assert.Equal(t, "summary.json", flags.SummaryFile)

	t.Run("explicit rate limit wins", func(t *testing.T) {
		cmd := NewCommand(&appcontext.Mock{})
		require.NoError(t, cmd.ParseFlags([]string{"--rate-limit", "-1"}))

		flags := &Flags{}
		flags.RateLimit, _ = cmd.Flags().GetFloat64("rate-limit")
		flags.merge(cmd, appcontext.Settings{RateLimit: 2.5})
		assert.Equal(t, -1.0, flags.RateLimit)
	})
}
