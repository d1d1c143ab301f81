// Package dataset decodes reference data files (catalog, question sets and
// result templates) and ships a default copy embedded in the binary.
package dataset

import (
	"dronediag/internal/model"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default/*.yaml
var defaultFS embed.FS

// File name conventions inside a dataset directory. JSON works too since
// the YAML decoder accepts it.
const (
	catalogPrefix   = "catalog"
	questionsPrefix = "questions"
	templatesPrefix = "templates"
)

var (
	ErrNoCatalog      = errors.New("dataset has no catalog file")
	ErrNoQuestionSets = errors.New("dataset has no question set files")
)

// Bundle is one complete set of reference data
type Bundle struct {
	Catalog      *model.Catalog
	QuestionSets []*model.QuestionSet
	Templates    *model.ResultTemplateSet
}

// Default decodes the embedded dataset
func Default() (*Bundle, error) {
	sub, err := fs.Sub(defaultFS, "default")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// LoadDir decodes the dataset files found in dir
func LoadDir(dir string) (*Bundle, error) {
	return Load(os.DirFS(dir))
}

// Load decodes catalog.*, questions*.* and templates.* files at the root of
// fsys. Other files are ignored.
func Load(fsys fs.FS) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isDataFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	b := &Bundle{}
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		switch {
		case strings.HasPrefix(name, catalogPrefix):
			var c model.Catalog
			if err := yaml.Unmarshal(raw, &c); err != nil {
				return nil, fmt.Errorf("decode %s: %w", name, err)
			}
			b.Catalog = &c
		case strings.HasPrefix(name, questionsPrefix):
			var qs model.QuestionSet
			if err := yaml.Unmarshal(raw, &qs); err != nil {
				return nil, fmt.Errorf("decode %s: %w", name, err)
			}
			b.QuestionSets = append(b.QuestionSets, &qs)
		case strings.HasPrefix(name, templatesPrefix):
			var ts model.ResultTemplateSet
			if err := yaml.Unmarshal(raw, &ts); err != nil {
				return nil, fmt.Errorf("decode %s: %w", name, err)
			}
			b.Templates = &ts
		default:
			slog.Debug("dataset: skipping file", "name", name)
		}
	}
	return b, nil
}

// Prepare normalizes and validates every record in the bundle. It returns the
// catalog integrity issues, which are warnings rather than errors.
func (b *Bundle) Prepare() ([]model.IntegrityIssue, error) {
	if b.Catalog == nil {
		return nil, ErrNoCatalog
	}
	if len(b.QuestionSets) == 0 {
		return nil, ErrNoQuestionSets
	}

	b.Catalog.Normalize()
	if err := b.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", b.Catalog.Version, err)
	}

	seen := make(map[string]bool, len(b.QuestionSets))
	for _, qs := range b.QuestionSets {
		qs.Normalize()
		if err := qs.Validate(); err != nil {
			return nil, fmt.Errorf("question set %s: %w", qs.ID, err)
		}
		if seen[qs.ID] {
			return nil, model.NewValidationError("questionSet.id", qs.ID, model.ErrDuplicateID)
		}
		seen[qs.ID] = true
	}

	if b.Templates == nil {
		b.Templates = &model.ResultTemplateSet{Version: b.Catalog.Version}
	}
	if b.Templates.Templates == nil {
		b.Templates.Templates = map[model.CategoryKey]model.ResultTemplate{}
	}

	return b.Catalog.Integrity(), nil
}

// QuestionSet finds a question set by id
func (b *Bundle) QuestionSet(id string) (*model.QuestionSet, bool) {
	for _, qs := range b.QuestionSets {
		if qs.ID == id {
			return qs, true
		}
	}
	return nil, false
}

func isDataFile(name string) bool {
	switch path.Ext(name) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
