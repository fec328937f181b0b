package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"phishfeatures/pkg/features"
	"phishfeatures/pkg/logger"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-faster/jx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

type extractOptions struct {
	Format string
	// Columns restricts and orders the output. Empty means the whole schema.
	Columns     []string
	Concurrency int
}

// readURLs returns the non-blank lines of r, trimmed.
func readURLs(r io.Reader) ([]string, error) {
	var URLs []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		URLs = append(URLs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read URLs: %w", err)
	}

	return URLs, nil
}

// readColumns reads the header row of a CSV file, e.g. the training set of a model.
func readColumns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open columns file: %w", err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, fmt.Errorf("could not read columns header: %w", err)
	}

	columns := make([]string, 0, len(header))
	for _, c := range header {
		if c = strings.TrimSpace(c); c != "" {
			columns = append(columns, c)
		}
	}

	return columns, nil
}

// extractAll computes the vectors of URLs with at most concurrency goroutines.
// The result is in input order.
func extractAll(ctx context.Context, URLs []string, concurrency int) ([]features.Vector, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	vectors := make([]features.Vector, len(URLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, URL := range URLs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			vectors[i] = features.Extract(URL)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return vectors, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeJSONLines(w io.Writer, URLs []string, vectors []features.Vector, columns []string) error {
	var e jx.Encoder
	for i, vec := range vectors {
		e.Reset()
		e.ObjStart()
		e.FieldStart("url")
		e.Str(URLs[i])
		e.FieldStart("features")
		if len(columns) == 0 {
			vec.Encode(&e)
		} else {
			e.ObjStart()
			for j, v := range vec.Select(columns) {
				e.FieldStart(columns[j])
				e.Float64(v)
			}
			e.ObjEnd()
		}
		e.ObjEnd()

		if _, err := w.Write(append(e.Bytes(), '\n')); err != nil {
			return fmt.Errorf("could not write output: %w", err)
		}
	}

	return nil
}

func writeCSV(w io.Writer, URLs []string, vectors []features.Vector, columns []string) error {
	if len(columns) == 0 {
		columns = features.Names()
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"url"}, columns...)); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}

	row := make([]string, len(columns)+1)
	for i, vec := range vectors {
		row[0] = URLs[i]
		for j, v := range vec.Select(columns) {
			row[j+1] = formatValue(v)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("could not write row: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}

// runExtract writes the vector of every URL to out in the requested format.
func runExtract(ctx context.Context, URLs []string, opts extractOptions, out io.Writer) error {
	vectors, err := extractAll(ctx, URLs, opts.Concurrency)
	if err != nil {
		return err
	}

	switch opts.Format {
	case formatJSON:
		return writeJSONLines(out, URLs, vectors, opts.Columns)
	case formatCSV:
		return writeCSV(out, URLs, vectors, opts.Columns)
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
}

// extractCommand constructs the 'extract' subcommand that prints feature
// vectors of URLs given as arguments, or read line by line from --input or stdin.
func extractCommand() *cobra.Command {
	var (
		input       string
		columnsPath string
		opts        extractOptions
	)

	cmd := &cobra.Command{
		Use:   "extract [urls...]",
		Short: "Prints the feature vectors of URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			URLs := args
			if len(URLs) == 0 {
				in := cmd.InOrStdin()
				if input != "" && input != "-" {
					f, err := os.Open(input)
					if err != nil {
						return fmt.Errorf("could not open input: %w", err)
					}
					defer f.Close()
					in = f
				}

				var err error
				if URLs, err = readURLs(in); err != nil {
					return err
				}
			}

			if columnsPath != "" {
				var err error
				if opts.Columns, err = readColumns(columnsPath); err != nil {
					return err
				}
			}

			logger.Debug(ctx, "extracting features",
				zap.Int("urls", len(URLs)),
				zap.String("format", opts.Format),
				zap.Int("columns", len(opts.Columns)))

			return runExtract(ctx, URLs, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "File with one URL per line, - for stdin")
	cmd.Flags().StringVar(&opts.Format, "format", formatJSON, "Output format: json or csv")
	cmd.Flags().StringVar(&columnsPath, "columns", "", "CSV file whose header selects and orders the output columns")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", runtime.GOMAXPROCS(0), "Number of URLs processed concurrently")

	return cmd
}
