package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
	"github.com/freelanceos/backend/internal/infrastructure/secrets"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep-overdue",
	Short: "Mark every past-due pending payment overdue once",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		n, err := a.SweepOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Marked %d payment(s) overdue.\n", n)
		return nil
	},
}

var importClientsCmd = &cobra.Command{
	Use:   "import-clients",
	Short: "Import clients from a CSV file into an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		path, _ := cmd.Flags().GetString("file")

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		res, err := a.Services.Clients.ImportCSV(cmd.Context(), owner, f)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d client(s).\n", len(res.Imported))
		for _, e := range res.Errors {
			fmt.Printf("  %s\n", e)
		}
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a password account (prompts for the password)",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		admin, _ := cmd.Flags().GetBool("admin")

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		if term.IsTerminal(int(os.Stdin.Fd())) {
			confirm, err := readPassword("Confirm password: ")
			if err != nil {
				return err
			}
			if confirm != password {
				return errors.New("passwords do not match")
			}
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		role := domain.RoleUser
		if admin {
			role = domain.RoleAdmin
		}
		u, err := a.Services.Auth.Register(cmd.Context(), ports.RegisterInput{
			Email:    email,
			Password: password,
			Name:     name,
			Role:     role,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created %s account %s (%s)\n", u.Role, u.Email, u.ID)
		return nil
	},
}

var keygenCmd = &cobra.Command{
	Use:   "mfa-keygen",
	Short: "Print a new age identity for MFA_AGE_IDENTITY",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := secrets.GenerateIdentity()
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

func init() {
	importClientsCmd.Flags().String("owner", "", "ID of the account that receives the clients")
	importClientsCmd.Flags().String("file", "", "path to the CSV file")
	_ = importClientsCmd.MarkFlagRequired("owner")
	_ = importClientsCmd.MarkFlagRequired("file")

	userCreateCmd.Flags().String("email", "", "login email")
	userCreateCmd.Flags().String("name", "", "display name")
	userCreateCmd.Flags().Bool("admin", false, "grant the admin role")
	_ = userCreateCmd.MarkFlagRequired("email")
	userCmd.AddCommand(userCreateCmd)
}

// readPassword reads without echo from a terminal, or one line from piped stdin.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
