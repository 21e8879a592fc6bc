package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/doclabel/internal/auth"
	"github.com/mrlokans/doclabel/internal/config"
	"github.com/mrlokans/doclabel/internal/database"
	"github.com/mrlokans/doclabel/internal/entities"
)

// passwordEnv lets scripts pass the password without exposing it in the process list.
const passwordEnv = "DOCLABEL_PASSWORD"

// CreateUserCommand adds a login account for local auth mode.
type CreateUserCommand struct {
	Username     string
	Email        string
	Password     string
	Role         entities.UserRole
	Token        bool
	DatabasePath string
	Auth         config.Auth

	out io.Writer
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{
		Auth: config.NewConfig().Auth,
		out:  os.Stdout,
	}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)

	var superuser bool
	fs.StringVar(&cmd.Username, "username", "", "Login name (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password, at least 12 characters (default: $"+passwordEnv+")")
	fs.BoolVar(&superuser, "superuser", false, "Grant access to the dataset, label and export pages")
	fs.BoolVar(&cmd.Token, "token", false, "Also print an API token for the new user")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> -email <email> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}
	if cmd.Email == "" {
		return fmt.Errorf("required flag -email not provided")
	}
	if cmd.Password == "" {
		cmd.Password = os.Getenv(passwordEnv)
	}
	if cmd.Password == "" {
		return fmt.Errorf("no password given: use -password or set %s", passwordEnv)
	}

	cmd.Role = entities.UserRoleAnnotator
	if superuser {
		cmd.Role = entities.UserRoleAdmin
	}
	return nil
}

func (cmd *CreateUserCommand) Run() error {
	if len(cmd.Password) < auth.MinPasswordLength {
		return auth.ErrPasswordTooShort
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(db.DB, cmd.Auth)
	user, err := service.CreateUser(cmd.Username, cmd.Email, cmd.Password, cmd.Role)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.out, "Created %s %q (id %d)\n", user.Role, user.Username, user.ID)

	if cmd.Token {
		token, err := service.GenerateToken(user.ID)
		if err != nil {
			return fmt.Errorf("failed to generate API token: %w", err)
		}
		fmt.Fprintf(cmd.out, "API token: %s\n", token)
	}
	return nil
}
