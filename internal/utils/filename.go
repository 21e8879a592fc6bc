package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
)

// ExportFilename builds the download name for a project dataset:
// the project name lower-cased with every run of whitespace collapsed to "_",
// followed by the extension. "My Project" + "csv" gives "my_project.csv".
func ExportFilename(projectName, ext string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(projectName)), "_")

	// The name ends up inside a quoted Content-Disposition parameter
	slug = invalidFilenameChars.ReplaceAllString(slug, "")

	// Limit length without splitting a multi-byte character
	if len(slug) > 200 {
		slug = slug[:200]
		for !utf8.ValidString(slug) {
			slug = slug[:len(slug)-1]
		}
	}

	if slug == "" {
		slug = "dataset"
	}

	if ext == "" {
		return slug
	}
	return slug + "." + ext
}
