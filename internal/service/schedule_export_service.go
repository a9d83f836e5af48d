package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/ssp-api/internal/dto"
	appErrors "github.com/noah-isme/ssp-api/pkg/errors"
	"github.com/noah-isme/ssp-api/pkg/export"
)

// Export formats accepted by the generate endpoint.
const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
	ExportFormatPDF  = "pdf"
)

var scheduleExportHeaders = []string{"course", "section", "instructor", "days", "start", "end"}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ScheduleExportService renders generated schedules as CSV or PDF.
type ScheduleExportService struct {
	csv    documentRenderer
	pdf    documentRenderer
	logger *zap.Logger
}

// NewScheduleExportService constructs the export service. Nil renderers use the defaults.
func NewScheduleExportService(csv, pdf documentRenderer, logger *zap.Logger) *ScheduleExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleExportService{csv: csv, pdf: pdf, logger: logger}
}

// NormalizeExportFormat lower-cases the format and defaults to JSON.
func NormalizeExportFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", ExportFormatJSON:
		return ExportFormatJSON, nil
	case ExportFormatCSV, ExportFormatPDF:
		return f, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
}

// Render builds the download for a generation result.
func (s *ScheduleExportService) Render(resp *dto.GenerateScheduleResponse, format string) (*ExportFile, error) {
	doc := ScheduleDocument(resp)
	var (
		data []byte
		err  error
		file = &ExportFile{}
	)
	switch format {
	case ExportFormatCSV:
		data, err = s.csv.Render(doc)
		file.Filename, file.ContentType = "schedules.csv", "text/csv"
	case ExportFormatPDF:
		data, err = s.pdf.Render(doc)
		file.Filename, file.ContentType = "schedules.pdf", "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		s.logger.Error("schedule export failed", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	file.Data = data
	return file, nil
}

// ScheduleDocument lays out one table per schedule followed by the reserved times.
func ScheduleDocument(resp *dto.GenerateScheduleResponse) export.Document {
	doc := export.Document{Title: "Generated schedules", Headers: scheduleExportHeaders}
	if resp == nil {
		return doc
	}
	if resp.Truncated {
		doc.Title = fmt.Sprintf("Generated schedules (first %d, %s)", resp.Count, resp.TruncationReason)
	}
	for i, schedule := range resp.Schedules {
		rows := make([][]string, 0, len(schedule.Sections))
		for _, section := range schedule.Sections {
			rows = append(rows, []string{
				section.DepartmentID + " " + section.CourseNumber,
				section.SectionID,
				section.Instructor,
				strings.Join(section.Days, " "),
				section.StartTime,
				section.EndTime,
			})
		}
		doc.Tables = append(doc.Tables, export.Table{Caption: fmt.Sprintf("Schedule %d", i+1), Rows: rows})
	}
	if len(resp.Reserved) > 0 {
		rows := make([][]string, 0, len(resp.Reserved))
		for _, r := range resp.Reserved {
			rows = append(rows, []string{r.Description, "", "", strings.Join(r.Days, " "), r.StartTime, r.EndTime})
		}
		doc.Tables = append(doc.Tables, export.Table{Caption: "Reserved", Rows: rows})
	}
	return doc
}
