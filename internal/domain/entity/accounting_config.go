package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountingConfig configuración contable de un grupo (uno a uno).
// Se crea atómicamente junto con el grupo; nunca de forma independiente.
type AccountingConfig struct {
	ID                    int64
	GroupID               int64
	AmountDecimals        int
	ExchangeRateDecimals  int
	AllowClosedPeriod     bool // permitir asientos en período cerrado
	RequireGlobalApproval bool
	AllowUnbalanced       bool // permitir asientos desbalanceados
	MinApprovalAmount     decimal.Decimal
	CreatedAt             time.Time
}

// DefaultAccountingConfig valores con los que nace toda configuración.
func DefaultAccountingConfig(groupID int64) AccountingConfig {
	return AccountingConfig{
		GroupID:               groupID,
		AmountDecimals:        2,
		ExchangeRateDecimals:  4,
		AllowClosedPeriod:     false,
		RequireGlobalApproval: false,
		AllowUnbalanced:       false,
		MinApprovalAmount:     decimal.RequireFromString("50000.00"),
	}
}
