package service

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examcell/results-api/internal/models"
	"github.com/examcell/results-api/internal/repository"
)

const reportTemplateText = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; padding: 20px; }
table { width: 100%; border-collapse: collapse; margin-top: 15px; font-size: 10pt; }
th, td { border: 1px solid #ccc; padding: 6px; text-align: left; }
th { background-color: #eee; font-weight: bold; }
h2 { border-bottom: 1px solid #ccc; padding-bottom: 5px; }
@media print { body { padding: 5px; font-size: 9pt; } }
</style>
</head>
<body>
{{if .Rows}}
<h2>Semester Results: {{.Semester}}</h2>
<p>Generated on: {{.GeneratedAt}}</p>
<table>
<thead>
<tr>
<th>Student ID</th>
<th>Student Name</th>
<th>Subject</th>
<th>Code</th>
<th>Marks</th>
<th>Grade</th>
<th>Status</th>
</tr>
</thead>
<tbody>
{{range .Rows}}
<tr>
<td>{{.StudentID}}</td>
<td>{{.StudentName}}</td>
<td>{{.SubjectName}}</td>
<td>{{.SubjectCode}}</td>
<td>{{.Marks}}</td>
<td>{{.Grade}}</td>
<td>{{.Status}}</td>
</tr>
{{end}}
</tbody>
</table>
{{else}}
<h2>No Results Found</h2>
<p>No results data available for semester: {{.Semester}}</p>
{{end}}
</body>
</html>
`

var reportTemplate = template.Must(template.New("semester_report").Parse(reportTemplateText))

type reportRow struct {
	StudentID   string
	StudentName string
	SubjectName string
	SubjectCode string
	Marks       float64
	Grade       string
	Status      string
}

type reportData struct {
	Title       string
	Semester    string
	GeneratedAt string
	Rows        []reportRow
}

// ReportService renders semester result reports as self-contained HTML.
type ReportService interface {
	SemesterReport(ctx context.Context, semester string) (string, error)
}

type reportService struct {
	results  repository.ResultRepository
	students repository.StudentRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewReportService constructs a report service. cache may be nil, in which
// case every request renders from the store.
func NewReportService(results repository.ResultRepository, students repository.StudentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ReportService {
	return &reportService{
		results:  results,
		students: students,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "report_service").Logger(),
		now:      time.Now,
	}
}

func (s *reportService) SemesterReport(ctx context.Context, semester string) (string, error) {
	cacheKey := fmt.Sprintf("report:semester:%s", semester)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			s.logger.Debug().Str("semester", semester).Msg("report cache hit")
			return cached, nil
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read report cache")
		}
	}

	results, err := s.results.ListBySemester(ctx, semester)
	if err != nil {
		return "", err
	}

	data := reportData{
		Title:       "Semester Results - " + semester,
		Semester:    semester,
		GeneratedAt: s.now().Format("2006-01-02 15:04:05"),
	}

	if len(results) == 0 {
		data.Title = "No Results Found"
	} else {
		names, err := s.studentNames(ctx, results)
		if err != nil {
			return "", err
		}

		rows := make([]reportRow, 0, len(results))
		for _, result := range results {
			name, ok := names[result.StudentID]
			if !ok {
				s.logger.Warn().Str("student_id", result.StudentID).Str("semester", semester).Msg("no student found for result row")
				name = "Unknown"
			}
			rows = append(rows, reportRow{
				StudentID:   result.StudentID,
				StudentName: name,
				SubjectName: result.SubjectName,
				SubjectCode: result.SubjectCode,
				Marks:       result.Marks,
				Grade:       result.Grade,
				Status:      result.Status,
			})
		}
		data.Rows = rows
	}

	var builder strings.Builder
	if err := reportTemplate.Execute(&builder, data); err != nil {
		return "", err
	}
	html := builder.String()

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, html, s.cacheTTL).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to store report cache")
		}
	}

	s.logger.Info().Str("semester", semester).Int("rows", len(data.Rows)).Msg("semester report generated")
	return html, nil
}

func (s *reportService) studentNames(ctx context.Context, results []models.Result) (map[string]string, error) {
	ids := make([]string, 0, len(results))
	seen := make(map[string]struct{}, len(results))
	for _, result := range results {
		if _, ok := seen[result.StudentID]; ok {
			continue
		}
		seen[result.StudentID] = struct{}{}
		ids = append(ids, result.StudentID)
	}

	students, err := s.students.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(students))
	for _, student := range students {
		names[student.ID] = student.Name
	}

	return names, nil
}
