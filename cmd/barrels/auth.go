package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/millesime/barrels/internal/session"
	"github.com/millesime/barrels/pkg/domain"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			p := newPrompter(cmd)
			email, err := p.valueOr(cmd, "email", "Email: ")
			if err != nil {
				return err
			}
			password, err := p.Password("Password: ")
			if err != nil {
				return err
			}
			resp, err := s.session.Login(cmd.Context(), domain.Credentials{Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", describeUser(resp.User)) //nolint:errcheck
			return nil
		}),
	}
	cmd.Flags().String("email", "", "Account email")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a customer account",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			p := newPrompter(cmd)
			email, err := p.valueOr(cmd, "email", "Email: ")
			if err != nil {
				return err
			}
			password, err := p.Password("Password: ")
			if err != nil {
				return err
			}
			confirm, err := p.Password("Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			f := cmd.Flags()
			str := func(name string) string {
				v, _ := f.GetString(name) //nolint:errcheck
				return v
			}
			resp, err := s.session.Register(cmd.Context(), domain.RegisterRequest{
				Email:       email,
				Password:    password,
				FirstName:   str("first-name"),
				LastName:    str("last-name"),
				Role:        domain.Role(str("role")),
				CompanyName: str("company"),
				PhoneNumber: str("phone"),
			})
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", describeUser(resp.User)) //nolint:errcheck
			return nil
		}),
	}
	f := cmd.Flags()
	f.String("email", "", "Account email")
	f.String("role", string(domain.RoleB2C), "Account type: b2c or b2b")
	f.String("first-name", "", "First name")
	f.String("last-name", "", "Last name")
	f.String("company", "", "Company name (b2b accounts)")
	f.String("phone", "", "Phone number")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear your session",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			if !s.session.Authenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Already logged out.") //nolint:errcheck
				return nil
			}
			s.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.") //nolint:errcheck
			return nil
		}),
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			u := s.session.User()
			if u == nil {
				printGreeting(cmd.OutOrStdout())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeUser(u)) //nolint:errcheck
			return nil
		}),
	}
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		Long:  "Without flags, fetches the profile from the shop. With any of the update flags, applies a partial update.",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			upd := profileUpdateFromFlags(cmd)
			var (
				u   *domain.User
				err error
			)
			if upd.Empty() {
				u, err = s.session.FetchProfile(cmd.Context())
			} else {
				u, err = s.session.UpdateProfile(cmd.Context(), upd)
			}
			if errors.Is(err, session.ErrUnauthenticated) {
				return errors.New("not signed in -- run: barrels login")
			}
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), u)
			return nil
		}),
	}
	f := cmd.Flags()
	f.String("first-name", "", "New first name")
	f.String("last-name", "", "New last name")
	f.String("company", "", "New company name")
	f.String("phone", "", "New phone number")
	return cmd
}

// profileUpdateFromFlags sets only the fields whose flags were given, so
// an explicit empty value clears the field.
func profileUpdateFromFlags(cmd *cobra.Command) domain.ProfileUpdate {
	var upd domain.ProfileUpdate
	f := cmd.Flags()
	field := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name) //nolint:errcheck
		return &v
	}
	upd.FirstName = field("first-name")
	upd.LastName = field("last-name")
	upd.CompanyName = field("company")
	upd.PhoneNumber = field("phone")
	return upd
}

func newPasswdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			if !s.session.Authenticated() {
				return errors.New("not signed in -- run: barrels login")
			}
			p := newPrompter(cmd)
			current, err := p.Password("Current password: ")
			if err != nil {
				return err
			}
			next, err := p.Password("New password: ")
			if err != nil {
				return err
			}
			confirm, err := p.Password("Confirm new password: ")
			if err != nil {
				return err
			}
			if next != confirm {
				return errors.New("passwords do not match")
			}
			if err := s.session.ChangePassword(cmd.Context(), current, next); err != nil {
				return fmt.Errorf("password change failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed.") //nolint:errcheck
			return nil
		}),
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Trade your token for a fresh one",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			if !s.session.RefreshToken(cmd.Context()) {
				return errors.New("token refresh failed -- run: barrels login")
			}
			exp, ok := s.session.TokenExpiry()
			if ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Token refreshed, valid until %s\n", exp.Local().Format(time.DateTime)) //nolint:errcheck
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token refreshed.") //nolint:errcheck
			return nil
		}),
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and cart state",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			printStatus(cmd.Context(), cmd.OutOrStdout(), s, time.Now())
			return nil
		}),
	}
}
