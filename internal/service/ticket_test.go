package service

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/tressahealth/moneyback/internal/api/dto"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/types"
)

type TicketServiceSuite struct {
	ServiceTestSuite
	service TicketService
}

func TestTicketService(t *testing.T) {
	suite.Run(t, new(TicketServiceSuite))
}

func (s *TicketServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTicketService(s.params())
}

func (s *TicketServiceSuite) seedEligibleCustomer() {
	planStart := planStartDaysAgo(120)
	s.seedCustomer("cust_1")
	s.seedProduct("prod_serum", "Hair Growth Serum")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0, 30, 60, 90, 120})
	s.seedConnectedCalls("cust_1", 3)
}

func (s *TicketServiceSuite) TestEligibleTicketRoutedToDoctor() {
	s.seedEligibleCustomer()

	resp, err := s.service.CreateTicket(s.GetContext(), &dto.CreateTicketRequest{
		CustomerID: "cust_1",
		Source:     types.TicketSourceApp,
		Reason:     "No visible results after completing the plan",
	})
	s.NoError(err)

	t := resp.Ticket
	s.True(t.IsEligible)
	s.Equal(types.TicketCategoryA, t.Category)
	s.Equal(types.TicketSubcategoryFiveMonthsMoneyback, t.Subcategory)
	s.Equal(types.TicketStatusAssignedToDoctor, t.Status)
	s.Equal(types.TicketAssigneeDoctor, t.AssignedTo)
	s.Equal(types.TicketRoleDoctor, t.AssignedToRole)
	s.Equal(types.TicketTATCategoryA, t.EstimatedTATHours)
	s.Empty(t.IneligibilityReason)
	s.True(strings.HasPrefix(t.TicketNumber, "TKT-MB-"))
	s.Equal("presc_1", t.PrescriptionID)
	s.NotNil(resp.EligibilityResult)
	s.True(resp.EligibilityResult.IsEligible)

	// Persisted.
	stored, err := s.GetStores().TicketRepo.Get(s.GetContext(), t.ID)
	s.NoError(err)
	s.Equal(t.TicketNumber, stored.TicketNumber)
}

func (s *TicketServiceSuite) TestIneligibleTicketRoutedToComplaints() {
	s.seedCustomer("cust_1")

	resp, err := s.service.CreateTicket(s.GetContext(), &dto.CreateTicketRequest{
		CustomerID: "cust_1",
		Source:     types.TicketSourceInbound,
		Reason:     "Wants a refund",
	})
	s.NoError(err)

	t := resp.Ticket
	s.False(t.IsEligible)
	s.Equal(types.TicketCategoryB, t.Category)
	s.Equal(types.TicketStatusAssignedToComplaints, t.Status)
	s.Equal(types.TicketAssigneeComplaints, t.AssignedTo)
	s.Equal(types.TicketRoleComplaints, t.AssignedToRole)
	s.Equal(types.TicketTATCategoryB, t.EstimatedTATHours)
	s.Contains(t.IneligibilityReason, "No active prescription found for this customer.")
}

func (s *TicketServiceSuite) TestIneligibilityReasonsJoined() {
	planStart := planStartDaysAgo(60)
	s.seedCustomer("cust_1")
	s.seedProduct("prod_serum", "Hair Growth Serum")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0, 30})

	resp, err := s.service.CreateTicket(s.GetContext(), &dto.CreateTicketRequest{
		CustomerID: "cust_1",
		Source:     types.TicketSourceAgent,
		Reason:     "Wants a refund",
	})
	s.NoError(err)
	s.Contains(resp.Ticket.IneligibilityReason, " | ")
	s.Contains(resp.Ticket.IneligibilityReason, "calls with Hair Coach")
}

func (s *TicketServiceSuite) TestUnknownCustomer() {
	_, err := s.service.CreateTicket(s.GetContext(), &dto.CreateTicketRequest{
		CustomerID: "cust_missing",
		Source:     types.TicketSourceApp,
		Reason:     "Wants a refund",
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TicketServiceSuite) TestCreateTicketValidation() {
	_, err := s.service.CreateTicket(s.GetContext(), &dto.CreateTicketRequest{
		CustomerID: "cust_1",
		Source:     "pigeon",
		Reason:     "Wants a refund",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TicketServiceSuite) TestGetTicketNotFound() {
	_, err := s.service.GetTicket(s.GetContext(), "tkt_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TicketServiceSuite) TestListTicketsFiltered() {
	s.seedCustomer("cust_1")
	s.seedCustomer("cust_2")
	for _, customerID := range []string{"cust_1", "cust_2"} {
		_, err := s.service.CreateTicket(s.GetContext(), &dto.CreateTicketRequest{
			CustomerID: customerID,
			Source:     types.TicketSourceApp,
			Reason:     "Wants a refund",
		})
		s.NoError(err)
	}

	resp, err := s.service.ListTickets(s.GetContext(), &dto.ListTicketsRequest{CustomerID: "cust_1"})
	s.NoError(err)
	s.Equal(1, resp.Total)
	s.Equal("cust_1", resp.Items[0].CustomerID)

	resp, err = s.service.ListTickets(s.GetContext(), &dto.ListTicketsRequest{Category: string(types.TicketCategoryB)})
	s.NoError(err)
	s.Equal(2, resp.Total)
}
