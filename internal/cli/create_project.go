package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/doclabel/internal/config"
	"github.com/mrlokans/doclabel/internal/database"
	"github.com/mrlokans/doclabel/internal/database/projects"
	userrepo "github.com/mrlokans/doclabel/internal/database/users"
	"github.com/mrlokans/doclabel/internal/entities"
)

// CreateProjectCommand creates an empty project.
type CreateProjectCommand struct {
	Name         string
	Description  string
	Guideline    string
	ProjectType  entities.ProjectType
	Members      []string
	DatabasePath string

	out io.Writer
}

func NewCreateProjectCommand() *CreateProjectCommand {
	return &CreateProjectCommand{out: os.Stdout}
}

func (cmd *CreateProjectCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-project", flag.ContinueOnError)

	var projectType, members string
	fs.StringVar(&cmd.Name, "name", "", "Project name (required)")
	fs.StringVar(&cmd.Description, "description", "", "Short description shown in the project list")
	fs.StringVar(&cmd.Guideline, "guideline", "", "Annotation guideline (markdown)")
	fs.StringVar(&projectType, "type", string(entities.ProjectTypeDocumentClassification), "Project type: DocumentClassification, SequenceLabeling or Seq2seq")
	fs.StringVar(&members, "members", "", "Comma separated usernames allowed to annotate")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-project -name <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return fmt.Errorf("required flag -name not provided")
	}

	cmd.ProjectType = entities.ProjectType(projectType)
	if !cmd.ProjectType.Valid() {
		return fmt.Errorf("unknown project type %q", projectType)
	}

	for _, m := range strings.Split(members, ",") {
		if m = strings.TrimSpace(m); m != "" {
			cmd.Members = append(cmd.Members, m)
		}
	}
	return nil
}

func (cmd *CreateProjectCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repo := projects.NewRepository(db.DB)
	users := userrepo.NewRepository(db.DB)
	project := &entities.Project{
		Name:        cmd.Name,
		Description: cmd.Description,
		Guideline:   cmd.Guideline,
		ProjectType: cmd.ProjectType,
	}
	if err := repo.CreateProject(project); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	for _, username := range cmd.Members {
		user, err := users.GetUserByLogin(username)
		if err != nil {
			return fmt.Errorf("member %q: %w", username, err)
		}
		if err := repo.AddMember(project.ID, user.ID); err != nil {
			return fmt.Errorf("failed to add member %q: %w", username, err)
		}
	}

	fmt.Fprintf(cmd.out, "Created project %d: %s (%s)\n", project.ID, project.Name, project.ProjectType.DisplayName())
	return nil
}
