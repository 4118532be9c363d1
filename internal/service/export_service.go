package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-calendar-api/internal/models"
	appErrors "github.com/noah-isme/academic-calendar-api/pkg/errors"
	"github.com/noah-isme/academic-calendar-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders term summaries into downloadable files.
type ExportService struct {
	aggregations summaryComputer
	calendars    calendarLookup
	csv          documentRenderer
	pdf          documentRenderer
	logger       *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(aggregations summaryComputer, calendars calendarLookup, csv, pdf documentRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	return &ExportService{aggregations: aggregations, calendars: calendars, csv: csv, pdf: pdf, logger: logger}
}

// ExportTermSummary renders the term and vacation summaries of a calendar.
func (s *ExportService) ExportTermSummary(ctx context.Context, calendarID, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	var renderer documentRenderer
	contentType := ""
	switch format {
	case ExportFormatCSV:
		renderer, contentType = s.csv, "text/csv; charset=utf-8"
	case ExportFormatPDF:
		renderer, contentType = s.pdf, "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	summary, err := s.aggregations.TermSummary(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	title := "Term summary"
	filename := "term-summary-" + calendarID
	if s.calendars != nil {
		if calendar, err := loadCalendar(ctx, s.calendars, calendarID); err == nil {
			title = fmt.Sprintf("%s (%d)", calendar.Name, calendar.FiscalYear)
			filename = fmt.Sprintf("term-summary-%d-%s", calendar.FiscalYear, calendarID)
		}
	}

	payload, err := renderer.Render(buildSummaryDocument(title, summary))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("term summary exported", zap.String("calendar_id", calendarID), zap.String("format", format), zap.Int("bytes", len(payload)))
	return &ExportFile{Filename: filename + "." + format, ContentType: contentType, Data: payload}, nil
}

func buildSummaryDocument(title string, summary *models.TermSummaryResult) export.Document {
	termHeaders := []string{"term"}
	for w := 1; w <= models.WeekdaySlots; w++ {
		termHeaders = append(termHeaders, models.WeekdayLabel(w))
	}
	termHeaders = append(termHeaders, "total")

	terms := export.Dataset{Title: "Classes per weekday", Headers: termHeaders}
	for _, row := range summary.TermSummaries {
		record := []string{row.DisplayName}
		for _, count := range row.WeekdayCounts {
			record = append(record, strconv.Itoa(count))
		}
		record = append(record, strconv.Itoa(row.Total()))
		terms.Rows = append(terms.Rows, record)
	}

	vacations := export.Dataset{Title: "Vacation days", Headers: []string{"vacation", "days"}}
	for _, row := range summary.VacationSummaries {
		vacations.Rows = append(vacations.Rows, []string{row.Label, strconv.Itoa(row.Count)})
	}

	return export.Document{Title: title, Sections: []export.Dataset{terms, vacations}}
}
