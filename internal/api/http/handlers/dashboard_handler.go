package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/exam-compliance/internal/api/dto"
	"github.com/spec-kit/exam-compliance/internal/domain"
	"github.com/spec-kit/exam-compliance/internal/service"
)

// DashboardHandler serves the overview: counters, detailed table and alerts.
type DashboardHandler struct {
	dashboard *service.DashboardService
	clock     service.Clock
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService, clock service.Clock) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, clock: clock}
}

// Summary handles GET /api/summary.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.dashboard.Summary(c.UserContext(), h.clock())
	if err != nil {
		return respondOrWarn(c, nil, dto.SummaryResponse{Counts: []dto.StatusCount{}}, err)
	}
	resp := dto.SummaryResponse{
		Counts:     make([]dto.StatusCount, 0, len(domain.Statuses)),
		RawRows:    summary.RawRows,
		Classified: summary.Classified,
		Dropped:    summary.Dropped,
	}
	for _, status := range domain.Statuses {
		resp.Counts = append(resp.Counts, dto.StatusCount{
			Status: dto.NewStatusResponse(status),
			Count:  summary.Counts[status],
		})
	}
	return respondOrWarn(c, resp, nil, nil)
}

// Records handles GET /api/records.
func (h *DashboardHandler) Records(c *fiber.Ctx) error {
	filter := service.RecordFilter{
		Company:  c.Query("company"),
		ExamType: c.Query("exam_type"),
		Status:   domain.Status(c.Query("status")),
	}
	empty := fiber.Map{"records": []dto.RecordResponse{}, "options": dto.FilterOptionsResponse{
		Companies: []string{},
		ExamTypes: []string{},
		Statuses:  []dto.StatusResponse{},
	}}

	view, err := h.dashboard.Records(c.UserContext(), filter, h.clock())
	if err != nil {
		return respondOrWarn(c, nil, empty, err)
	}

	records := make([]dto.RecordResponse, 0, len(view.Records))
	for _, rec := range view.Records {
		records = append(records, dto.NewRecordResponse(rec))
	}
	statuses := make([]dto.StatusResponse, 0, len(view.Options.Statuses))
	for _, s := range view.Options.Statuses {
		statuses = append(statuses, dto.NewStatusResponse(s))
	}
	return respondOrWarn(c, fiber.Map{
		"records": records,
		"options": dto.FilterOptionsResponse{
			Companies: view.Options.Companies,
			ExamTypes: view.Options.ExamTypes,
			Statuses:  statuses,
		},
	}, nil, nil)
}

// Alerts handles GET /api/alerts.
func (h *DashboardHandler) Alerts(c *fiber.Ctx) error {
	alerts, err := h.dashboard.Alerts(c.UserContext(), h.clock())
	if err != nil {
		return respondOrWarn(c, nil, dto.AlertsResponse{Expired: []dto.AlertResponse{}, ExpiringSoon: []dto.AlertResponse{}}, err)
	}
	return respondOrWarn(c, dto.AlertsResponse{
		Expired:      alertResponses(alerts.Expired),
		ExpiringSoon: alertResponses(alerts.ExpiringSoon),
	}, nil, nil)
}

func alertResponses(entries []service.AlertEntry) []dto.AlertResponse {
	out := make([]dto.AlertResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AlertResponse{EmployeeName: e.EmployeeName, Role: e.Role})
	}
	return out
}
