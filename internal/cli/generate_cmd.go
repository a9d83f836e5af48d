package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/noah-isme/ssp-api/internal/dto"
	"github.com/noah-isme/ssp-api/internal/service"
)

type generateOptions struct {
	catalogPath string
	requestPath string
	maxResults  int
	maxExplored int
	timeout     time.Duration
	asJSON      bool
	format      string
	outPath     string
}

func newGenerateCmd(app *App) *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate every conflict-free schedule from a catalog file",
		Example: `  ssp generate --catalog catalog.yaml --request request.json
  ssp generate --catalog catalog.yaml --request - --json < request.json
  ssp generate --catalog catalog.yaml --request request.json --format pdf --out schedules.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), app, cmd.InOrStdin(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "YAML catalog file")
	cmd.Flags().StringVar(&opts.requestPath, "request", "", "JSON request file, - for stdin")
	cmd.Flags().IntVar(&opts.maxResults, "max-results", 500, "Stop after this many schedules (0 for no limit)")
	cmd.Flags().IntVar(&opts.maxExplored, "max-explored", 250000, "Stop after trying this many placements (0 for no limit)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "Search time budget")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().StringVar(&opts.format, "format", "", "Write a csv or pdf export instead of printing")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "Export destination (defaults to schedules.<format>)")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("request")

	return cmd
}

func runGenerate(ctx context.Context, app *App, stdin io.Reader, opts generateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	catalog, err := LoadCatalog(opts.catalogPath)
	if err != nil {
		return err
	}

	req, err := readRequest(opts.requestPath, stdin)
	if err != nil {
		return err
	}

	generator := service.NewScheduleGeneratorService(catalog, nil, nil, app.Logger, service.ScheduleGeneratorConfig{
		MaxResults:  opts.maxResults,
		MaxExplored: opts.maxExplored,
		Timeout:     opts.timeout,
	})
	resp, err := generator.Generate(ctx, req)
	if err != nil {
		return err
	}

	if opts.format != "" {
		return writeExport(app, resp, opts)
	}
	if opts.asJSON {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		_, err = fmt.Fprintln(app.Out, string(out))
		return err
	}
	return printSchedules(app.Out, resp)
}

func readRequest(path string, stdin io.Reader) (dto.GenerateScheduleRequest, error) {
	var req dto.GenerateScheduleRequest
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return req, fmt.Errorf("read request: %w", err)
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func writeExport(app *App, resp *dto.GenerateScheduleResponse, opts generateOptions) error {
	format, err := service.NormalizeExportFormat(opts.format)
	if err != nil {
		return err
	}
	if format == service.ExportFormatJSON {
		return fmt.Errorf("use --json for JSON output")
	}
	file, err := service.NewScheduleExportService(nil, nil, app.Logger).Render(resp, format)
	if err != nil {
		return err
	}
	dest := opts.outPath
	if dest == "" {
		dest = file.Filename
	}
	if err := os.WriteFile(dest, file.Data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	_, err = fmt.Fprintf(app.Out, "wrote %d schedule(s) to %s\n", resp.Count, dest)
	return err
}

func printSchedules(out io.Writer, resp *dto.GenerateScheduleResponse) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, schedule := range resp.Schedules {
		fmt.Fprintf(tw, "Schedule %d\n", i+1)
		for _, s := range schedule.Sections {
			fmt.Fprintf(tw, "  %s %s-%s\t%s\t%s\t%s-%s\n", s.DepartmentID, s.CourseNumber, s.SectionID, s.Instructor, shortDays(s.Days), s.StartTime, s.EndTime)
		}
	}
	if len(resp.Reserved) > 0 {
		fmt.Fprintln(tw, "Reserved")
		for _, r := range resp.Reserved {
			fmt.Fprintf(tw, "  %s\t\t%s\t%s-%s\n", r.Description, shortDays(r.Days), r.StartTime, r.EndTime)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%d schedule(s), %d placement(s) explored\n", resp.Count, resp.Explored)
	if resp.Message != "" {
		fmt.Fprintln(out, resp.Message)
	}
	return nil
}

func shortDays(days []string) string {
	short := make([]string, len(days))
	for i, d := range days {
		if len(d) > 3 {
			d = d[:3]
		}
		short[i] = d
	}
	return strings.Join(short, " ")
}
