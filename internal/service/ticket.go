package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tressahealth/moneyback/internal/api/dto"
	"github.com/tressahealth/moneyback/internal/domain/ticket"
	"github.com/tressahealth/moneyback/internal/types"
)

// TicketService raises and serves money-back tickets. Creation runs the
// eligibility engine and routes the ticket by its verdict: eligible tickets
// go to the doctor queue, ineligible ones to the complaints queue.
type TicketService interface {
	CreateTicket(ctx context.Context, req *dto.CreateTicketRequest) (*dto.TicketResponse, error)
	GetTicket(ctx context.Context, id string) (*dto.TicketResponse, error)
	ListTickets(ctx context.Context, req *dto.ListTicketsRequest) (*dto.ListTicketsResponse, error)
}

type ticketService struct {
	ServiceParams
}

// NewTicketService creates a new ticket service
func NewTicketService(params ServiceParams) TicketService {
	return &ticketService{ServiceParams: params}
}

func (s *ticketService) CreateTicket(ctx context.Context, req *dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	eligibilityService := NewEligibilityService(s.ServiceParams)
	eligibility, err := eligibilityService.CheckEligibility(ctx, cust.ID)
	if err != nil {
		return nil, err
	}

	t := &ticket.Ticket{
		ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TICKET),
		TicketNumber:         generateTicketNumber(),
		CustomerID:           cust.ID,
		PrescriptionID:       eligibility.PrescriptionID,
		Subcategory:          types.SubcategoryForTreatmentPeriod(eligibility.RecommendedTreatmentPeriod),
		Source:               req.Source,
		Reason:               req.Reason,
		IsEligible:           eligibility.IsEligible,
		EligibleRefundAmount: eligibility.EligibleRefundAmount,
		EngagementID:         req.EngagementID,
		BaseModel:            types.GetDefaultBaseModel(ctx),
	}

	if eligibility.IsEligible {
		t.Category = types.TicketCategoryA
		t.Status = types.TicketStatusAssignedToDoctor
		t.AssignedTo = types.TicketAssigneeDoctor
		t.AssignedToRole = types.TicketRoleDoctor
		t.EstimatedTATHours = types.TicketTATCategoryA
	} else {
		t.Category = types.TicketCategoryB
		t.Status = types.TicketStatusAssignedToComplaints
		t.AssignedTo = types.TicketAssigneeComplaints
		t.AssignedToRole = types.TicketRoleComplaints
		t.EstimatedTATHours = types.TicketTATCategoryB
		t.IneligibilityReason = strings.Join(eligibility.Reasons, " | ")
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.TicketRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.Logger.Infow("created money-back ticket",
		"ticket_id", t.ID,
		"ticket_number", t.TicketNumber,
		"customer_id", t.CustomerID,
		"category", t.Category,
		"is_eligible", t.IsEligible,
		"assigned_to", t.AssignedTo)

	return &dto.TicketResponse{
		Ticket:            t,
		EligibilityResult: eligibility,
	}, nil
}

func (s *ticketService) GetTicket(ctx context.Context, id string) (*dto.TicketResponse, error) {
	t, err := s.TicketRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TicketResponse{Ticket: t}, nil
}

func (s *ticketService) ListTickets(ctx context.Context, req *dto.ListTicketsRequest) (*dto.ListTicketsResponse, error) {
	qf := types.NewDefaultQueryFilter()
	if req.Limit != nil {
		qf.Limit = req.Limit
	}
	if req.Offset != nil {
		qf.Offset = req.Offset
	}
	filter := &ticket.Filter{
		QueryFilter: qf,
		CustomerID:  req.CustomerID,
		AssignedTo:  req.AssignedTo,
	}
	if req.Category != "" {
		filter.Category = types.TicketCategory(req.Category)
	}
	if req.Status != "" {
		filter.Status = types.TicketStatus(req.Status)
	}

	items, err := s.TicketRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListTicketsResponse{
		Items: items,
		Total: len(items),
	}, nil
}

// generateTicketNumber produces a human-facing number like
// TKT-MB-1756444800000-A1B2C3.
func generateTicketNumber() string {
	return fmt.Sprintf("TKT-MB-%d-%s", time.Now().UnixMilli(), types.GenerateShortCode(6))
}
