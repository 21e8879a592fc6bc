// Package importers turns uploaded dataset files into project documents.
//
// # Architecture
//
// An import follows a single flow:
//
//	file bytes → Parser (chosen by format tag) → []RawDocument → Pipeline → DocumentStore
//
// Each supported file format implements the Parser interface and is looked up
// in a Registry by its format tag. The Pipeline stamps every parsed record with
// the project and a fresh import batch ID, then hands the whole batch to the
// store in one call so that an upload is stored completely or not at all.
//
// # Formats
//
//   - csv: the first field of every row, trimmed
//   - json: one JSON object per line, its "text" field
//   - txt: every line, trimmed
//   - excel: legacy .xls workbooks; first columns are logged but nothing is stored
//
// Blank lines and rows are skipped by every format.
//
// # Adding a Format
//
//  1. Create a new file: tsv.go
//
//  2. Implement the Parser interface:
//
//     type TSVParser struct{}
//
//     func (TSVParser) Format() string { return "tsv" }
//
//     func (TSVParser) Parse(r io.Reader) ([]RawDocument, error) {
//     // read r, return one RawDocument per record
//     }
//
//     // Compile-time check
//     var _ Parser = TSVParser{}
//
//  3. Register it in DefaultRegistry.
//
// # Example Usage
//
//	pipeline := importers.NewPipeline(projectsRepo, importers.DefaultRegistry())
//	result, err := pipeline.Import(projectID, "csv", file)
package importers
