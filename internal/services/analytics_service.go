package services

import (
	"github.com/vendorguard/vendorguard/internal/models"
)

type AnalyticsStore interface {
	ListSuppliersByTenant(tenantID string) ([]*models.Supplier, error)
	ListSubmissionsByTenant(tenantID string) ([]*models.Submission, error)
}

// AnalyticsService computes the vendor dashboard's read side: the
// risk distribution across the supplier portfolio and the review
// pipeline state. Pure aggregation over persisted values; it never
// rescores anything.
type AnalyticsService struct {
	store AnalyticsStore
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

type PortfolioSummary struct {
	Suppliers        int            `json:"suppliers"`
	Assessed         int            `json:"assessed"`
	RiskCounts       map[string]int `json:"risk_counts"`
	NIS2Compliant    int            `json:"nis2_compliant"`
	NIS2Rate         float64        `json:"nis2_rate"`
	MeanOverallScore float64        `json:"mean_overall_score"`
	StatusCounts     map[string]int `json:"status_counts"`
}

// Summary aggregates the tenant's suppliers and submissions.
// Suppliers without a completed review cycle (no lastAssessmentDate)
// count toward totals but not toward risk or NIS2 figures.
func (s *AnalyticsService) Summary(actor Actor) (*PortfolioSummary, error) {
	if err := requireVendor(actor); err != nil {
		return nil, err
	}
	suppliers, err := s.store.ListSuppliersByTenant(actor.TenantID)
	if err != nil {
		return nil, err
	}
	subs, err := s.store.ListSubmissionsByTenant(actor.TenantID)
	if err != nil {
		return nil, err
	}

	out := &PortfolioSummary{
		Suppliers:    len(suppliers),
		RiskCounts:   map[string]int{},
		StatusCounts: map[string]int{},
	}
	var scoreSum float64
	for _, sup := range suppliers {
		if sup.LastAssessmentDate == nil {
			continue
		}
		out.Assessed++
		out.RiskCounts[sup.RiskLevel]++
		if sup.NIS2Compliant {
			out.NIS2Compliant++
		}
		scoreSum += sup.OverallScore
	}
	if out.Assessed > 0 {
		out.NIS2Rate = round2(100 * float64(out.NIS2Compliant) / float64(out.Assessed))
		out.MeanOverallScore = round2(scoreSum / float64(out.Assessed))
	}
	for _, sub := range subs {
		out.StatusCounts[sub.Status]++
	}
	return out, nil
}
