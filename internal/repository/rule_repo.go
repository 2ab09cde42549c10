package repository

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/anyulbade/commission-engine/internal/dto"
	"github.com/anyulbade/commission-engine/internal/model"
)

type RuleRepository struct {
	path string
}

func NewRuleRepository(path string) *RuleRepository {
	return &RuleRepository{path: path}
}

func (r *RuleRepository) List(ctx context.Context) ([]model.CommissionRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	rules, err := DecodeRules(data, FormatFromPath(r.path))
	if err != nil {
		return nil, fmt.Errorf("load rules from %s: %w", r.path, err)
	}

	log.Info().Str("path", r.path).Int("count", len(rules)).Msg("loaded commission rules")
	return rules, nil
}

// DecodeRules converts every document, collecting all validation failures
// before giving up so a broken file is reported in one pass.
func DecodeRules(data []byte, format Format) ([]model.CommissionRule, error) {
	docs, err := decodeList[dto.RuleDocument](data, format, "rules")
	if err != nil {
		return nil, err
	}

	var validationErrors dto.ValidationErrors
	rules := make([]model.CommissionRule, 0, len(docs))
	seen := make(map[string]int, len(docs))

	for i, doc := range docs {
		rule, err := doc.ToModel(i)
		if err != nil {
			var ve dto.ValidationErrors
			if errors.As(err, &ve) {
				validationErrors = append(validationErrors, ve...)
				continue
			}
			return nil, err
		}
		if first, dup := seen[rule.ID]; dup {
			validationErrors = append(validationErrors, dto.ValidationError{
				Index:   i,
				Field:   "id",
				Message: fmt.Sprintf("duplicate rule id %q (first at index %d)", rule.ID, first),
			})
			continue
		}
		seen[rule.ID] = i
		rules = append(rules, rule)
	}

	if len(validationErrors) > 0 {
		return nil, validationErrors
	}
	return rules, nil
}
