package types

import (
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// RiskRating is the coarse verdict attached to an order plan.
type RiskRating string

const (
	RiskRatingSkip      RiskRating = "skip"
	RiskRatingLowReward RiskRating = "low-reward"
	RiskRatingNeutral   RiskRating = "neutral"
	RiskRatingFavorable RiskRating = "favorable"
)

// OrderPlan is a fully sized long entry.
type OrderPlan struct {
	Symbol string  `yaml:"symbol" json:"symbol"`
	Entry  float64 `yaml:"entry" json:"entry" validate:"gt=0"`
	Stop   float64 `yaml:"stop" json:"stop" validate:"gt=0,ltfield=Entry"`
	Target float64 `yaml:"target" json:"target" validate:"gt=0"`
	// Quantity is a whole number of lots and never costs more than the capital.
	Quantity int64 `yaml:"quantity" json:"quantity" validate:"gte=0"`
	// RiskAmount is capital times the requested risk fraction.
	RiskAmount float64 `yaml:"risk_amount" json:"risk_amount" validate:"gte=0"`
	// RealizedRisk is Quantity times the per-share risk.
	RealizedRisk float64 `yaml:"realized_risk" json:"realized_risk" validate:"gte=0"`
	// RealizedRiskPct is RealizedRisk over capital.
	RealizedRiskPct float64 `yaml:"realized_risk_pct" json:"realized_risk_pct"`
	// CapitalCapped is set when the capital limit reduced the quantity.
	CapitalCapped bool       `yaml:"capital_capped" json:"capital_capped"`
	PositionValue float64    `yaml:"position_value" json:"position_value"`
	RMultiple     float64    `yaml:"r_multiple" json:"r_multiple"`
	Rating        RiskRating `yaml:"rating" json:"rating" validate:"required,oneof=skip low-reward neutral favorable"`
	// Score is the composite score the rating was given, if any.
	Score *float64 `yaml:"score,omitempty" json:"score,omitempty"`
}

func (p OrderPlan) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid order plan", err)
	}

	return nil
}
