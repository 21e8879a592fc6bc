// Command generate_demo creates a demo database with one sample project per project type.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mrlokans/doclabel/internal/auth"
	"github.com/mrlokans/doclabel/internal/config"
	"github.com/mrlokans/doclabel/internal/database"
	"github.com/mrlokans/doclabel/internal/database/projects"
	"github.com/mrlokans/doclabel/internal/entities"
	"github.com/mrlokans/doclabel/internal/utils"
)

const defaultDemoDatabasePath = "./demo/demo.db"

// span marks a named entity by rune offsets.
type span struct {
	start, end int
	label      string
}

// demoDocument is a sample text with the annotation the demo user made on it.
type demoDocument struct {
	text   string
	label  string // classification
	spans  []span // sequence labeling
	output string // seq2seq
}

type demoProject struct {
	project   entities.Project
	labels    []entities.Label
	documents []demoDocument
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	user, err := auth.NewService(db.DB, config.Auth{Mode: config.AuthModeNone}).EnsureAnonymousUser()
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	repo := projects.NewRepository(db.DB)
	for _, demo := range demoProjects() {
		if err := seed(repo, user, demo); err != nil {
			log.Printf("Failed to seed %s: %v", demo.project.Name, err)
			continue
		}
		log.Printf("Saved: %s (%d documents)", demo.project.Name, len(demo.documents))
	}

	log.Println("Demo database generated successfully!")
}

func seed(repo *projects.Repository, user *entities.User, demo demoProject) error {
	project := demo.project
	if err := repo.CreateProject(&project); err != nil {
		return err
	}
	if err := repo.AddMember(project.ID, user.ID); err != nil {
		return err
	}

	labelIDs := make(map[string]uint, len(demo.labels))
	for _, label := range demo.labels {
		label.ProjectID = project.ID
		label.TextColor = utils.ContrastTextColor(label.BackgroundColor)
		if err := repo.CreateLabel(&label); err != nil {
			return err
		}
		labelIDs[label.Text] = label.ID
	}

	docs := make([]entities.Document, 0, len(demo.documents))
	for _, d := range demo.documents {
		docs = append(docs, entities.Document{ProjectID: project.ID, Text: d.text})
	}
	if err := repo.BulkCreateDocuments(docs); err != nil {
		return err
	}

	for i, d := range demo.documents {
		docID := docs[i].ID
		switch {
		case d.label != "":
			err := repo.AddDocumentAnnotation(&project, &entities.DocumentAnnotation{
				DocumentID: docID, UserID: user.ID, LabelID: labelIDs[d.label], Manual: true,
			})
			if err != nil {
				return err
			}
		case d.output != "":
			err := repo.AddSeq2seqAnnotation(&project, &entities.Seq2seqAnnotation{
				DocumentID: docID, UserID: user.ID, Text: d.output, Manual: true,
			})
			if err != nil {
				return err
			}
		}
		for _, s := range d.spans {
			err := repo.AddSequenceAnnotation(&project, &entities.SequenceAnnotation{
				DocumentID: docID, UserID: user.ID, LabelID: labelIDs[s.label],
				StartOffset: s.start, EndOffset: s.end, Manual: true,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func demoProjects() []demoProject {
	return []demoProject{
		{
			project: entities.Project{
				Name:        "Movie reviews",
				Description: "Sentiment of short movie reviews",
				Guideline:   "Pick the sentiment the reviewer expresses about the film as a whole.",
				ProjectType: entities.ProjectTypeDocumentClassification,
			},
			labels: []entities.Label{
				{Text: "positive", Shortcut: "p", BackgroundColor: "#23d160"},
				{Text: "negative", Shortcut: "n", BackgroundColor: "#ff3860"},
				{Text: "neutral", Shortcut: "u", BackgroundColor: "#dbdbdb"},
			},
			documents: []demoDocument{
				{text: "A beautifully shot film with a story that stays with you for days.", label: "positive"},
				{text: "Two hours I will never get back. The plot makes no sense.", label: "negative"},
				{text: "The acting was fine, the soundtrack forgettable.", label: "neutral"},
				{text: "Funny, warm and surprisingly clever."},
				{text: "The sequel nobody asked for, and it shows."},
			},
		},
		{
			project: entities.Project{
				Name:        "News entities",
				Description: "People, places and organizations in headlines",
				Guideline:   "Select the shortest span that names the entity. Do not include titles such as Mr or Dr.",
				ProjectType: entities.ProjectTypeSequenceLabeling,
			},
			labels: []entities.Label{
				{Text: "PER", Shortcut: "p", BackgroundColor: "#209cee"},
				{Text: "LOC", Shortcut: "l", BackgroundColor: "#ffdd57"},
				{Text: "ORG", Shortcut: "o", BackgroundColor: "#7957d5"},
			},
			documents: []demoDocument{
				{
					text:  "Ada Lovelace was born in London.",
					spans: []span{{0, 12, "PER"}, {25, 31, "LOC"}},
				},
				{
					text:  "The United Nations met in Geneva on Monday.",
					spans: []span{{4, 18, "ORG"}, {26, 32, "LOC"}},
				},
				{text: "Marie Curie worked at the University of Paris."},
			},
		},
		{
			project: entities.Project{
				Name:        "English to French",
				Description: "Short phrases for a phrasebook",
				Guideline:   "Translate into everyday French. Keep the punctuation of the source.",
				ProjectType: entities.ProjectTypeSeq2seq,
			},
			documents: []demoDocument{
				{text: "Good morning!", output: "Bonjour !"},
				{text: "Where is the train station?", output: "Où est la gare ?"},
				{text: "Thank you very much."},
			},
		},
	}
}
