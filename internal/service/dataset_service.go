package service

import (
	"context"
	"dronediag/internal/dataset"
	"dronediag/internal/diagnosis"
	"dronediag/internal/model"
	"dronediag/internal/repository"
	"fmt"
	"log/slog"
)

// CategoryDetail is a category with everything its result page needs
type CategoryDetail struct {
	Key          model.CategoryKey     `json:"key"`
	Label        string                `json:"label"`
	Summary      string                `json:"summary,omitempty"`
	Template     *model.ResultTemplate `json:"template,omitempty"`
	Primary      *model.Product        `json:"primary,omitempty"`
	Alternatives []model.Product       `json:"alternatives"`
}

// DatasetService serves the read-only reference data. Load must complete
// before any accessor is used; the data is never modified afterwards.
type DatasetService struct {
	catalogRepo     repository.CatalogRepo
	questionSetRepo repository.QuestionSetRepo
	templateRepo    repository.TemplateRepo

	bundle *dataset.Bundle
	scorer *diagnosis.Scorer
}

// NewDatasetService creates a new dataset service. Any repo may be nil, in
// which case Load uses the embedded dataset.
func NewDatasetService(
	catalogRepo repository.CatalogRepo,
	questionSetRepo repository.QuestionSetRepo,
	templateRepo repository.TemplateRepo,
) *DatasetService {
	return &DatasetService{
		catalogRepo:     catalogRepo,
		questionSetRepo: questionSetRepo,
		templateRepo:    templateRepo,
	}
}

// Load reads the reference data from MongoDB, falling back to the embedded
// dataset when the database holds no catalog or question sets.
func (s *DatasetService) Load(ctx context.Context) error {
	b, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	if b == nil {
		slog.Warn("no reference data in database, using embedded dataset")
		if b, err = dataset.Default(); err != nil {
			return fmt.Errorf("failed to decode embedded dataset: %w", err)
		}
	}
	return s.Use(b)
}

func (s *DatasetService) fetch(ctx context.Context) (*dataset.Bundle, error) {
	if s.catalogRepo == nil || s.questionSetRepo == nil {
		return nil, nil
	}

	catalog, err := s.catalogRepo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}
	sets, err := s.questionSetRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get question sets: %w", err)
	}
	if catalog == nil || len(sets) == 0 {
		return nil, nil
	}

	b := &dataset.Bundle{Catalog: catalog, QuestionSets: sets}
	if s.templateRepo != nil {
		if b.Templates, err = s.templateRepo.Latest(ctx); err != nil {
			return nil, fmt.Errorf("failed to get result templates: %w", err)
		}
	}
	return b, nil
}

// Use validates b and installs it as the served dataset
func (s *DatasetService) Use(b *dataset.Bundle) error {
	issues, err := b.Prepare()
	if err != nil {
		return fmt.Errorf("invalid reference data: %w", err)
	}
	for _, issue := range issues {
		slog.Warn("catalog integrity", "issue", issue.String())
	}

	s.bundle = b
	s.scorer = diagnosis.NewScorer(b.Catalog.CategoryPriority())
	slog.Info("reference data loaded",
		"catalog", b.Catalog.Version,
		"products", len(b.Catalog.Products),
		"questionSets", len(b.QuestionSets),
		"integrityIssues", len(issues),
	)
	return nil
}

// Catalog returns the loaded catalog
func (s *DatasetService) Catalog() *model.Catalog {
	return s.bundle.Catalog
}

// Templates returns the loaded result templates
func (s *DatasetService) Templates() *model.ResultTemplateSet {
	return s.bundle.Templates
}

// Scorer returns a scorer over the catalog's category priority
func (s *DatasetService) Scorer() *diagnosis.Scorer {
	return s.scorer
}

// QuestionSet looks up a question set by id
func (s *DatasetService) QuestionSet(id string) (*model.QuestionSet, error) {
	qs, ok := s.bundle.QuestionSet(id)
	if !ok {
		return nil, ErrQuestionSetNotFound
	}
	return qs, nil
}

// Category returns the static result page data for one category
func (s *DatasetService) Category(key model.CategoryKey) (*CategoryDetail, error) {
	catalog := s.bundle.Catalog
	cat, ok := catalog.Category(key)
	if !ok {
		return nil, ErrCategoryNotFound
	}

	alts := catalog.ResolveAlternatives(key)
	if alts == nil {
		alts = []model.Product{}
	}
	return &CategoryDetail{
		Key:          key,
		Label:        cat.Label,
		Summary:      cat.Summary,
		Template:     s.bundle.Templates.Template(key),
		Primary:      catalog.ResolvePrimary(key),
		Alternatives: alts,
	}, nil
}

// Categories returns every category in priority order
func (s *DatasetService) Categories() []CategoryDetail {
	seen := make(map[model.CategoryKey]bool)
	out := make([]CategoryDetail, 0, len(s.bundle.Catalog.Categories))
	for _, key := range s.bundle.Catalog.CategoryPriority() {
		if seen[key] {
			continue
		}
		seen[key] = true
		if detail, err := s.Category(key); err == nil {
			out = append(out, *detail)
		}
	}
	return out
}

// Products returns every catalog product, optionally filtered by category tag
func (s *DatasetService) Products(tag model.CategoryKey) []model.Product {
	out := make([]model.Product, 0, len(s.bundle.Catalog.Products))
	for _, p := range s.bundle.Catalog.Products {
		if tag == "" || hasTag(p.CategoryTags, tag) {
			out = append(out, p)
		}
	}
	return out
}

// Product looks up a product by id
func (s *DatasetService) Product(id string) (*model.Product, error) {
	p, ok := s.bundle.Catalog.Product(id)
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// ResolveProducts maps ids to catalog products, skipping unknown and
// repeated ids
func (s *DatasetService) ResolveProducts(ids []string) []model.Product {
	out := make([]model.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := s.bundle.Catalog.Product(id); ok {
			out = append(out, *p)
		}
	}
	return out
}

func hasTag(tags []model.CategoryKey, tag model.CategoryKey) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
