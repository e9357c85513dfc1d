package account_test

import (
	"sync"
	"testing"

	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/amirasaad/accounts/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type AccountE2ETestSuite struct {
	testutils.E2ETestSuite
}

func TestAccountE2ETestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Postgres end-to-end tests in short mode")
	}
	suite.Run(t, new(AccountE2ETestSuite))
}

func (s *AccountE2ETestSuite) TestCreateAndLookupEndToEnd() {
	// 1. Create
	resp := s.MakeRequest(fiber.MethodPost, "/accounts/create", nicolasBody)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	created := testutils.DecodeJSON[account.Account](s.T(), resp)
	s.Equal(int64(1), created.ID)

	// 2. Event emitted after commit
	published := s.Bus().Published()
	s.Require().Len(published, 1)
	s.Equal(events.EventTypeAccountCreated.String(), published[0].Type())

	// 3. Lookups
	resp = s.MakeRequest(fiber.MethodGet, "/accounts/1", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Equal(created, testutils.DecodeJSON[account.Account](s.T(), resp))

	resp = s.MakeRequest(fiber.MethodGet, "/accounts/find_by_email?email=nicolas@domain.com", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Equal([]account.Account{created}, testutils.DecodeJSON[[]account.Account](s.T(), resp))

	// 4. Duplicate rejected
	resp = s.MakeRequest(fiber.MethodPost, "/accounts/create", nicolasBody)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	problem := testutils.DecodeProblem(s.T(), resp)
	s.Equal("An account with this name already exist in database", problem.Detail)

	// 5. List
	resp = s.MakeRequest(fiber.MethodGet, "/accounts", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Len(testutils.DecodeJSON[[]account.Account](s.T(), resp), 1)
}

func (s *AccountE2ETestSuite) TestConcurrentCreatesKeepNamesUnique() {
	const workers = 8
	var wg sync.WaitGroup
	statuses := make([]int, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := s.MakeRequest(fiber.MethodPost, "/accounts/create", nicolasBody)
			statuses[i] = resp.StatusCode
			_ = resp.Body.Close()
		}()
	}
	wg.Wait()

	created := 0
	for _, status := range statuses {
		switch status {
		case fiber.StatusCreated:
			created++
		default:
			s.Equal(fiber.StatusBadRequest, status)
		}
	}
	s.Equal(1, created)

	resp := s.MakeRequest(fiber.MethodGet, "/accounts", "")
	s.Len(testutils.DecodeJSON[[]account.Account](s.T(), resp), 1)
}
