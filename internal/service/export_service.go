package service

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-tracker-api/internal/dto"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
	"github.com/noah-isme/placement-tracker-api/pkg/export"
)

const exportTimeLayout = "2006-01-02 15:04:05"

// Export datasets, also used as metric labels.
const (
	DatasetMentorStudents = "mentor_students"
	DatasetStudents       = "students"
	DatasetPlacements     = "placements"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService turns query results into downloadable CSV or PDF files.
type ExportService struct {
	csv     csvRenderer
	pdf     pdfRenderer
	metrics *MetricsService
	logger  *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the default exporters.
func NewExportService(csv csvRenderer, pdf pdfRenderer, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{csv: csv, pdf: pdf, metrics: metrics, logger: logger}
}

// MentorStudents renders a mentor's filtered cohort.
func (s *ExportService) MentorStudents(views []placement.StudentView, rawFormat string) (*dto.ExportFile, error) {
	ds := export.Dataset{
		Title:   "Mentor Students",
		Headers: []string{"Name", "Email", "Branch", "CGPA", "Placed", "Top Company", "Top Role", "Top Package (LPA)"},
	}
	for _, v := range views {
		company, role, pkg := topOfferCells(v)
		ds.AddRow(v.Name, v.Email, v.Branch, formatDecimal(v.CGPA), yesNo(v.Placed()), company, role, pkg)
	}
	return s.render(DatasetMentorStudents, "mentor_students.csv", ds, rawFormat)
}

// Students renders the institution-wide student list.
func (s *ExportService) Students(views []placement.StudentView, rawFormat string) (*dto.ExportFile, error) {
	ds := export.Dataset{
		Title:   "Students",
		Headers: []string{"Name", "Email", "Branch", "Mentor", "CGPA", "Placement Status", "Top Company", "Top Role", "Top Package (LPA)"},
	}
	for _, v := range views {
		mentor := ""
		if v.MentorName != nil {
			mentor = *v.MentorName
		}
		company, role, pkg := topOfferCells(v)
		ds.AddRow(v.Name, v.Email, v.Branch, mentor, formatDecimal(v.CGPA), string(v.Status), company, role, pkg)
	}
	return s.render(DatasetStudents, "students.csv", ds, rawFormat)
}

// Placements renders the placement listing.
func (s *ExportService) Placements(views []placement.PlacementView, rawFormat string) (*dto.ExportFile, error) {
	ds := export.Dataset{
		Title:   "Placements",
		Headers: []string{"Student Name", "Email", "Branch", "Company", "Position", "Package", "Unit", "Package (LPA)", "Status", "Created At"},
	}
	for _, v := range views {
		ds.AddRow(
			v.StudentName,
			v.StudentEmail,
			v.StudentBranch,
			v.Company,
			v.Position,
			strconv.FormatFloat(v.Package, 'f', -1, 64),
			string(v.PackageUnit),
			formatDecimal(v.PackageLPA),
			string(v.Status),
			v.CreatedAt.UTC().Format(exportTimeLayout),
		)
	}
	return s.render(DatasetPlacements, "placements_export.csv", ds, rawFormat)
}

func (s *ExportService) render(dataset, filename string, ds export.Dataset, rawFormat string) (*dto.ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}

	var body []byte
	switch format {
	case export.FormatPDF:
		body, err = s.pdf.Render(ds)
	default:
		body, err = s.csv.Render(ds)
	}
	if err != nil {
		s.logger.Error("export render failed", zap.String("dataset", dataset), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.metrics.RecordExport(dataset, string(format))
	return &dto.ExportFile{
		Filename:    format.Filename(filename),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

func topOfferCells(v placement.StudentView) (company, role, pkg string) {
	if v.TopOffer == nil {
		return "", "", ""
	}
	return v.TopOffer.Company, v.TopOffer.Position, formatDecimal(v.TopOffer.PackageLPA)
}

func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
