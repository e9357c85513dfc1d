package account

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/amirasaad/accounts/pkg/domain/account"
	accountsvc "github.com/amirasaad/accounts/pkg/service/account"
	"github.com/amirasaad/accounts/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the account endpoints. The fixed paths are registered
// before /accounts/:id so they are not captured by it.
func Routes(app fiber.Router, accountSvc *accountsvc.Service) {
	app.Get("/accounts", AllAccounts(accountSvc))
	app.Get("/accounts/find_by_name", FindByName(accountSvc))
	app.Get("/accounts/find_by_email", FindByEmail(accountSvc))
	app.Post("/accounts/create", CreateAccount(accountSvc))
	app.Post("/accounts/create_check_parameters", CheckParameters(accountSvc))
	app.Get("/accounts/:id", GetAccount(accountSvc))
}

// AllAccounts returns a Fiber handler listing every account.
// @Summary List accounts
// @Description List every account in creation order; empty array when there are none
// @Tags accounts
// @Produce json
// @Success 200 {array} account.Account
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /accounts [get]
func AllAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accs, err := accountSvc.AllAccounts(c.UserContext())
		if err != nil {
			return storageFailure(c, "Failed to list accounts", err)
		}
		return c.JSON(accs)
	}
}

// GetAccount returns a Fiber handler for retrieving an account by id.
// @Summary Get account by id
// @Description Get a single account by its id
// @Tags accounts
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} account.Account
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /accounts/{id} [get]
func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err,
				"Account id must be an integer", fiber.StatusBadRequest)
		}
		acc, err := accountSvc.FindByID(c.UserContext(), id)
		if err != nil {
			return storageFailure(c, "Failed to get account", err)
		}
		if acc == nil {
			return common.ProblemDetailsJSON(c, "Account not found", nil,
				fmt.Sprintf("Account id:%d doesn't exist", id), fiber.StatusNotFound)
		}
		return c.JSON(acc)
	}
}

// FindByName returns a Fiber handler looking up an account by exact name.
// @Summary Find account by name
// @Description Find an account by its name (exact match). Returns [account] or []
// @Tags accounts
// @Produce json
// @Param name query string true "Account name"
// @Success 200 {array} account.Account
// @Failure 400 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /accounts/find_by_name [get]
func FindByName(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, ok := queryParam(c, "name")
		if !ok {
			return nil
		}
		acc, err := accountSvc.FindByName(c.UserContext(), name)
		if err != nil {
			return storageFailure(c, "Failed to find account", err)
		}
		return c.JSON(asList(acc))
	}
}

// FindByEmail returns a Fiber handler looking up an account by exact email.
// @Summary Find account by email
// @Description Find an account by its email (exact match, case-insensitive input). Returns [account] or []
// @Tags accounts
// @Produce json
// @Param email query string true "Account email"
// @Success 200 {array} account.Account
// @Failure 400 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /accounts/find_by_email [get]
func FindByEmail(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, ok := queryParam(c, "email")
		if !ok {
			return nil
		}
		acc, err := accountSvc.FindByEmail(c.UserContext(), strings.ToLower(email))
		if err != nil {
			return storageFailure(c, "Failed to find account", err)
		}
		return c.JSON(asList(acc))
	}
}

// CreateAccount creates a new account.
// @Summary Create a new account
// @Description Create an account. Every field is required; values are trimmed, the email lower-cased and the postal code upper-cased
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account data"
// @Success 201 {object} account.Account
// @Failure 400 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /accounts/create [post]
func CreateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		acc, err := accountSvc.Add(c.UserContext(), input.ToInput())
		if err != nil {
			if errors.Is(err, account.ErrStorage) {
				return storageFailure(c, "Couldn't create account", err)
			}
			return common.ProblemDetailsJSON(c, "Couldn't create account", err)
		}
		return c.Status(fiber.StatusCreated).JSON(acc)
	}
}

// CheckParameters reports every problem that would prevent the account from
// being created.
// @Summary Check account parameters
// @Description Validate account data and check name/email availability. Returns [{"field": "message"}, ...], empty when the account can be created
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account data"
// @Success 200 {array} object
// @Failure 400 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /accounts/create_check_parameters [post]
func CheckParameters(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		errs, err := accountSvc.Check(c.UserContext(), input.ToInput())
		if err != nil {
			return storageFailure(c, "Couldn't check account parameters", err)
		}
		return c.JSON(toParameterErrors(errs))
	}
}

// queryParam returns the trimmed query value, writing the 400 response
// when it is missing or blank.
func queryParam(c *fiber.Ctx, key string) (string, bool) {
	args := c.Context().QueryArgs()
	if !args.Has(key) {
		_ = common.ProblemDetailsJSON(c, "Invalid query", nil,
			fmt.Sprintf("Missing required '%s' url parameter", key), fiber.StatusBadRequest)
		return "", false
	}
	value := strings.TrimSpace(string(args.Peek(key)))
	if value == "" {
		_ = common.ProblemDetailsJSON(c, "Invalid query", nil,
			fmt.Sprintf("'%s' url parameter cannot be empty", key), fiber.StatusBadRequest)
		return "", false
	}
	return value, true
}

func storageFailure(c *fiber.Ctx, title string, err error) error {
	log.Errorf("%s: %v", title, err)
	return common.ProblemDetailsJSON(c, title, err, account.ErrStorage.Error(), fiber.StatusInternalServerError)
}

func asList(acc *account.Account) []account.Account {
	if acc == nil {
		return []account.Account{}
	}
	return []account.Account{*acc}
}
