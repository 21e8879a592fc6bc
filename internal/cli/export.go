package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/doclabel/internal/config"
	"github.com/mrlokans/doclabel/internal/database"
	"github.com/mrlokans/doclabel/internal/database/projects"
	"github.com/mrlokans/doclabel/internal/exporters"
)

// ExportCommand writes the annotated documents of a project to a file or stdout.
type ExportCommand struct {
	ProjectID    uint
	Format       string
	OutputPath   string
	DatabasePath string

	out io.Writer
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{out: os.Stdout}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)

	var projectID uint64
	fs.Uint64Var(&projectID, "project", 0, "ID of the project to export (required)")
	fs.StringVar(&cmd.Format, "format", "csv", "Export format: csv, json or bio")
	fs.StringVar(&cmd.OutputPath, "output", "", "Output file or directory; '-' writes to stdout (default: <project>.<ext> in the current directory)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export -project <id> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export annotated documents of a project.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if projectID == 0 {
		return fmt.Errorf("required flag -project not provided")
	}
	cmd.ProjectID = uint(projectID)
	return nil
}

func (cmd *ExportCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repo := projects.NewRepository(db.DB)
	project, err := repo.GetProjectByID(cmd.ProjectID)
	if err != nil {
		return fmt.Errorf("project %d: %w", cmd.ProjectID, err)
	}

	output, err := exporters.NewExporter(repo, nil).Export(project, cmd.Format)
	if err != nil {
		return err
	}

	if cmd.OutputPath == "-" {
		_, err := cmd.out.Write(output.Data)
		return err
	}

	path := cmd.OutputPath
	if path == "" {
		path = output.Filename
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, output.Filename)
	}

	if err := os.WriteFile(path, output.Data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Fprintf(cmd.out, "Exported %d documents to %s\n", output.Documents, path)
	return nil
}
