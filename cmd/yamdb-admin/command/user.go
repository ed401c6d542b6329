package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/service"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: run(func(a *app, out io.Writer, _ []string) error {
		if err := a.migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		success.Fprintln(out, "✓ Schema is up to date")
		return nil
	}),
}

var (
	suUsername string
	suEmail    string
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an admin account that signs in through the email code flow",
	Args:  cobra.NoArgs,
	RunE: run(func(a *app, out io.Writer, _ []string) error {
		u := &models.User{
			Username:    suUsername,
			Email:       suEmail,
			Role:        models.RoleAdmin,
			IsSuperuser: true,
		}
		if err := a.users.Create(context.Background(), u); err != nil {
			return describe(err)
		}
		success.Fprintf(out, "✓ Superuser %s <%s> created\n", u.Username, u.Email)
		return nil
	}),
}

var setRoleCmd = &cobra.Command{
	Use:   "set-role [username] [user|moderator|admin]",
	Short: "Change the role of an existing user",
	Args:  cobra.ExactArgs(2),
	RunE: run(func(a *app, out io.Writer, args []string) error {
		role := strings.ToLower(args[1])
		u, err := a.users.Update(context.Background(), args[0], service.UserChanges{Role: &role})
		if err != nil {
			return describe(err)
		}
		success.Fprintf(out, "✓ %s is now %s\n", u.Username, u.Role)
		return nil
	}),
}

// describe turns service errors into messages for a terminal.
func describe(err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]string, 0, len(verr.Fields))
		for field := range verr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, field+": "+strings.Join(verr.Fields[field], " "))
		}
		return errors.New(strings.Join(parts, "; "))
	case errors.Is(err, service.ErrNotFound):
		return errors.New("no such user")
	}
	return err
}

func init() {
	createSuperuserCmd.Flags().StringVar(&suUsername, "username", "", "username (required)")
	createSuperuserCmd.Flags().StringVar(&suEmail, "email", "", "email address (required)")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	_ = createSuperuserCmd.MarkFlagRequired("email")
}
