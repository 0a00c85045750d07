package reconcile

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/agentstation/taxsync/internal/appcontext"
	"github.com/agentstation/taxsync/internal/cmd/output"
	"github.com/agentstation/taxsync/internal/sources/entrez"
	"github.com/agentstation/taxsync/pkg/authority"
	"github.com/agentstation/taxsync/pkg/constants"
	"github.com/agentstation/taxsync/pkg/errors"
	"github.com/agentstation/taxsync/pkg/logging"
	"github.com/agentstation/taxsync/pkg/reconcile"
	"github.com/agentstation/taxsync/pkg/seqinfo"
)

// Streams are the standard streams used for "-" paths and the summary.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Execute runs a reconciliation from inPath to outPath.
//
// The input header is read and the authority opened before the output is
// created, so a schema or authority failure leaves no output behind.
func Execute(ctx context.Context, app appcontext.Interface, flags *Flags, inPath, outPath string, streams Streams) error {
	if err := flags.validate(); err != nil {
		return err
	}

	logger := app.Logger()

	in, inName, err := openInput(inPath, streams.In)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	reader, err := seqinfo.NewReader(in, inName)
	if err != nil {
		return err
	}
	if !reader.Schema().Has(flags.Column) {
		logger.Warn().
			Str("column", flags.Column).
			Strs("columns", reader.Schema().Columns()).
			Msg("identifier column not in header, every row will be resolved as empty")
	}

	auth, err := authority.Open(ctx, flags.DB)
	if err != nil {
		return err
	}
	defer func() { _ = auth.Close() }()

	resolver, err := entrez.NewClient(entrez.Config{
		BaseURL:   flags.EntrezURL,
		Email:     flags.Email,
		Tool:      flags.Tool,
		APIKey:    flags.APIKey,
		Timeout:   flags.Timeout,
		RateLimit: flags.RateLimit,
	}, entrez.WithLogger(logging.Component(logger, "entrez")))
	if err != nil {
		return errors.NewConfigError("entrez", "invalid settings", err)
	}

	out, outName, err := createOutput(outPath, streams.Out)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	writer := seqinfo.NewWriter(out, outName, reader.Schema())
	if err := writer.WriteHeader(); err != nil {
		return err
	}

	rec, err := reconcile.New(auth, resolver,
		reconcile.WithColumn(flags.Column),
		reconcile.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	logger.Info().
		Str("input", inName).
		Str("output", outName).
		Str("db", auth.Path()).
		Msg("reconciling")

	sum, runErr := rec.Run(ctx, reader, writer)
	if err := writeSummary(flags, sum, streams.Err, logger); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func openInput(path string, stdin io.Reader) (io.ReadCloser, string, error) {
	if seqinfo.IsStdio(path) && stdin != nil {
		return io.NopCloser(stdin), "stdin", nil
	}
	return seqinfo.OpenInput(path)
}

func createOutput(path string, stdout io.Writer) (io.WriteCloser, string, error) {
	if seqinfo.IsStdio(path) && stdout != nil {
		return nopCloser{stdout}, "stdout", nil
	}
	return seqinfo.CreateOutput(path)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// writeSummary prints the run summary if one was requested.
func writeSummary(flags *Flags, sum *reconcile.Summary, stderr io.Writer, logger *zerolog.Logger) error {
	if !flags.wantsSummary() || sum == nil {
		return nil
	}

	if flags.SummaryFile == "" {
		tty, _ := stderr.(*os.File)
		return output.FormatSummary(stderr, flags.summaryFormat(tty), sum)
	}

	if err := os.MkdirAll(filepath.Dir(flags.SummaryFile), constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", filepath.Dir(flags.SummaryFile), err)
	}
	f, err := os.OpenFile(flags.SummaryFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", flags.SummaryFile, err)
	}
	if err := output.FormatSummary(f, flags.summaryFormat(f), sum); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", flags.SummaryFile, err)
	}
	logger.Debug().Str("file", flags.SummaryFile).Msg("summary written")
	return errors.WrapIO("close", flags.SummaryFile, f.Close())
}
