package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/doclabel/internal/audit"
	"github.com/mrlokans/doclabel/internal/config"
	"github.com/mrlokans/doclabel/internal/database"
	auditrepo "github.com/mrlokans/doclabel/internal/database/audit"
	"github.com/mrlokans/doclabel/internal/database/projects"
	"github.com/mrlokans/doclabel/internal/importers"
)

// ImportCommand loads a dataset file into a project, the same way the upload page does.
type ImportCommand struct {
	ProjectID    uint
	Format       string
	FilePath     string
	DatabasePath string
	DryRun       bool

	out io.Writer
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{out: os.Stdout}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)

	var projectID uint64
	fs.Uint64Var(&projectID, "project", 0, "ID of the project receiving the documents (required)")
	fs.StringVar(&cmd.Format, "format", "", "File format: csv, json, txt or excel (default: from the file extension)")
	fs.StringVar(&cmd.FilePath, "file", "", "Path to the dataset file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse the file and report the document count without storing anything")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -project <id> -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import documents into a project.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -project 1 -file reviews.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -project 1 -file export.jsonl -format json -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if projectID == 0 {
		return fmt.Errorf("required flag -project not provided")
	}
	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	cmd.ProjectID = uint(projectID)

	if cmd.Format == "" {
		cmd.Format = formatFromExtension(cmd.FilePath)
	}
	return nil
}

func (cmd *ImportCommand) Run() error {
	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	if cmd.DryRun {
		parser, err := importers.DefaultRegistry().Get(cmd.Format)
		if err != nil {
			return err
		}
		docs, err := parser.Parse(file)
		if err != nil {
			return fmt.Errorf("failed to parse %s file: %w", cmd.Format, err)
		}
		fmt.Fprintf(cmd.out, "%s would import %d documents\n", filepath.Base(cmd.FilePath), len(docs))
		return nil
	}

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

	auditor := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditor.Wait()

	result, err := importers.NewPipeline(repo, nil).Import(project.ID, cmd.Format, file)
	auditor.LogImport(0, project.ID, cmd.Format, filepath.Base(cmd.FilePath), result.Documents, err)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.out, "Imported %d documents into %q (batch %s)\n", result.Documents, project.Name, result.Batch)
	return nil
}

// formatFromExtension maps a file name to the import format it most likely holds.
func formatFromExtension(path string) string {
	switch filepath.Ext(path) {
	case ".csv":
		return "csv"
	case ".json", ".jsonl":
		return "json"
	case ".xls", ".xlsx":
		return "excel"
	default:
		return "txt"
	}
}
