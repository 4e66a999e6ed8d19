package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/vendorguard/vendorguard/internal/models"
)

type ExportStore interface {
	ListSubmissionsByTenant(tenantID string) ([]*models.Submission, error)
	ListSuppliersByTenant(tenantID string) ([]*models.Supplier, error)
	GetAssessment(id string) (*models.Assessment, error)
	AddAudit(e AuditEntry)
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders vendor-scoped CSV exports of submission
// results. Report formatting beyond CSV (PDF and the like) is handled
// elsewhere.
type ExportService struct {
	store ExportStore
	now   func() time.Time
}

func NewExportService(store ExportStore) *ExportService {
	return &ExportService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// ResultRow is one submission in the export.
type ResultRow struct {
	SupplierName      string
	AssessmentName    string
	Status            string
	OverallScore      float64
	BusinessScore     float64
	IntegrityScore    float64
	AvailabilityScore float64
	BIVScore          float64
	RiskLevel         string
	UpdatedAt         string
}

// ExportResults builds the tenant's submission-results CSV.
func (s *ExportService) ExportResults(actor Actor) (*ExportResult, error) {
	if err := requireVendor(actor); err != nil {
		return nil, err
	}
	subs, err := s.store.ListSubmissionsByTenant(actor.TenantID)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.store.ListSuppliersByTenant(actor.TenantID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(suppliers))
	for _, sup := range suppliers {
		names[sup.ID] = sup.Name
	}
	assessments := map[string]string{}
	rows := make([]ResultRow, 0, len(subs))
	for _, sub := range subs {
		aname, ok := assessments[sub.AssessmentID]
		if !ok {
			if a, err := s.store.GetAssessment(sub.AssessmentID); err == nil && a != nil {
				aname = a.Name
			}
			assessments[sub.AssessmentID] = aname
		}
		rows = append(rows, ResultRow{
			SupplierName:      names[sub.SupplierID],
			AssessmentName:    aname,
			Status:            sub.Status,
			OverallScore:      sub.Score,
			BusinessScore:     sub.BusinessScore,
			IntegrityScore:    sub.IntegrityScore,
			AvailabilityScore: sub.AvailabilityScore,
			BIVScore:          sub.BIVScore,
			RiskLevel:         sub.RiskLevel,
			UpdatedAt:         sub.UpdatedAt.Format(time.RFC3339),
		})
	}
	b, err := ExportResultsCSV(rows)
	if err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor.UserID, Action: "export.results", Target: actor.TenantID})
	return &ExportResult{Filename: "results.csv", ContentType: "text/csv; charset=utf-8", Data: b}, nil
}

// ExportResultsCSV renders rows into CSV.
func ExportResultsCSV(rows []ResultRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{
		"supplier", "assessment", "status",
		"overall_score", "business_score", "integrity_score", "availability_score", "biv_score",
		"risk_level", "updated_at",
	})
	for _, r := range rows {
		rec := []string{
			r.SupplierName,
			r.AssessmentName,
			r.Status,
			ftoa(r.OverallScore),
			ftoa(r.BusinessScore),
			ftoa(r.IntegrityScore),
			ftoa(r.AvailabilityScore),
			ftoa(r.BIVScore),
			r.RiskLevel,
			r.UpdatedAt,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
