package commands

import (
	"fmt"
	"strconv"

	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/spf13/cobra"
)

// inputFlags binds the seven account fields to flags of cmd.
func inputFlags(cmd *cobra.Command) *account.Input {
	in := &account.Input{}
	cmd.Flags().StringVar(&in.Name, "name", "", "account name")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.PhoneNumber, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.Address, "address", "", "street address")
	cmd.Flags().StringVar(&in.City, "city", "", "city")
	cmd.Flags().StringVar(&in.PostalCode, "postal-code", "", "postal code")
	cmd.Flags().StringVar(&in.Country, "country", "", "country")
	for _, name := range []string{"name", "email", "phone", "address", "city", "postal-code", "country"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return in
}

func createCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
	}
	in := inputFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		acc, err := c.service.Add(cmd.Context(), in.Normalize())
		if err != nil {
			return err
		}
		return c.out.Account(*acc)
	}
	return cmd
}

func validateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check account parameters without creating the account",
		Args:  cobra.NoArgs,
	}
	in := inputFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		errs, err := c.service.Check(cmd.Context(), in.Normalize())
		if err != nil {
			return err
		}
		if err := c.out.FieldErrors(errs); err != nil {
			return err
		}
		if len(errs) > 0 {
			return ErrInvalidParameters
		}
		return nil
	}
	return cmd
}

func getCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show the account with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("account id must be an integer: %q", args[0])
			}
			acc, err := c.service.FindByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if acc == nil {
				return fmt.Errorf("Account id:%d doesn't exist", id) //nolint:staticcheck
			}
			return c.out.Account(*acc)
		},
	}
}

func findByNameCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "find-by-name <name>",
		Short: "Find the account with exactly this name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := c.service.FindByName(cmd.Context(), account.Input{Name: args[0]}.Normalize().Name)
			if err != nil {
				return err
			}
			return c.out.Accounts(asList(acc))
		},
	}
}

func findByEmailCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "find-by-email <email>",
		Short: "Find the account with exactly this email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := c.service.FindByEmail(cmd.Context(), account.Input{Email: args[0]}.Normalize().Email)
			if err != nil {
				return err
			}
			return c.out.Accounts(asList(acc))
		},
	}
}

func listCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every account in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accs, err := c.service.AllAccounts(cmd.Context())
			if err != nil {
				return err
			}
			return c.out.Accounts(accs)
		},
	}
}

func asList(acc *account.Account) []account.Account {
	if acc == nil {
		return []account.Account{}
	}
	return []account.Account{*acc}
}
