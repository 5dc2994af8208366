package services

import (
	"context"

	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/models"
)

type PreferencesInput struct {
	DefaultView          *string `json:"defaultView" validate:"omitempty,oneof=grid list"`
	Theme                *string `json:"theme" validate:"omitempty,oneof=light dark system"`
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
}

type Preferences struct {
	repo      PreferencesRepository
	validator *Validator
}

func NewPreferences(repo PreferencesRepository) *Preferences {
	return &Preferences{repo: repo, validator: NewValidator()}
}

// Get returns the owner's saved preferences or the defaults.
func (p *Preferences) Get(ctx context.Context, ownerID string) (*models.UserPreferences, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}
	prefs, err := p.repo.Get(ctx, ownerID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user preferences", err)
	}
	if prefs == nil {
		defaults := models.DefaultPreferences(ownerID)
		return &defaults, nil
	}
	return prefs, nil
}

// Update merges in over the current preferences and saves the result.
func (p *Preferences) Update(ctx context.Context, ownerID string, in PreferencesInput) (*models.UserPreferences, error) {
	if err := p.validator.Validate(in); err != nil {
		return nil, err
	}
	prefs, err := p.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if in.DefaultView != nil && *in.DefaultView != "" {
		prefs.DefaultView = *in.DefaultView
	}
	if in.Theme != nil && *in.Theme != "" {
		prefs.Theme = *in.Theme
	}
	if in.NotificationsEnabled != nil {
		prefs.NotificationsEnabled = *in.NotificationsEnabled
	}
	if err := p.repo.Upsert(ctx, prefs); err != nil {
		return nil, errs.NewDatabaseError("save", "user preferences", err)
	}
	return prefs, nil
}
