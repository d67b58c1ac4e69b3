package database

import (
	"github.com/goaltrack/goaltrack/internal/models"
	"github.com/goaltrack/goaltrack/internal/rules"

	"gorm.io/gorm"
)

// RuleStore handles persistence of user-defined goal rules.
type RuleStore struct {
	db *DB
}

// NewRuleStore creates a new rule store instance.
func NewRuleStore(db *DB) *RuleStore {
	return &RuleStore{db: db}
}

// LoadRules returns every stored rule in its runtime form, oldest first.
func (s *RuleStore) LoadRules() ([]*rules.Rule, error) {
	var stored []*models.GoalRule
	result := s.db.Order("id ASC").Find(&stored)
	if result.Error != nil {
		return nil, wrapStoreError(result.Error, "failed to load goal rules")
	}

	ruleSet := make([]*rules.Rule, 0, len(stored))
	for _, row := range stored {
		ruleSet = append(ruleSet, rules.FromStored(row))
	}
	return ruleSet, nil
}

// SaveRule inserts or updates one stored rule.
func (s *RuleStore) SaveRule(rule *models.GoalRule) error {
	result := s.db.Save(rule)
	if result.Error != nil {
		return wrapStoreError(result.Error, "failed to save goal rule")
	}
	return nil
}

// SaveRules persists a batch of stored rules.
func (s *RuleStore) SaveRules(ruleRows []*models.GoalRule) error {
	for _, row := range ruleRows {
		if err := s.SaveRule(row); err != nil {
			return err
		}
	}
	return nil
}

// DeleteRule removes a stored rule by ID; a missing ID is not an error.
func (s *RuleStore) DeleteRule(id uint) error {
	result := s.db.Delete(&models.GoalRule{}, id)
	if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
		return wrapStoreError(result.Error, "failed to delete goal rule")
	}
	return nil
}

// GetRule retrieves one stored rule by ID.
func (s *RuleStore) GetRule(id uint) (*models.GoalRule, error) {
	var row models.GoalRule
	result := s.db.First(&row, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, wrapStoreError(result.Error, "failed to get goal rule")
	}
	return &row, nil
}

// Clear removes all stored rules.
func (s *RuleStore) Clear() error {
	result := s.db.Exec("DELETE FROM goal_rules")
	if result.Error != nil {
		return wrapStoreError(result.Error, "failed to clear goal rules")
	}
	return nil
}
