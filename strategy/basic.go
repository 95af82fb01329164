package strategy

import (
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// Profit scores every compatible pair with its current profit.
type Profit struct {
	Passthrough
}

var _ types.Strategy = (*Profit)(nil)

// NewProfit creates the profit-only strategy.
//
// Example:
//
//	sim, err := mcap.NewSimulator(cfg, inst, strategy.NewProfit())
func NewProfit() *Profit {
	return &Profit{}
}

// Name returns "profit".
func (s *Profit) Name() string { return "profit" }

// Mode returns an empty string; profit scoring has a single mode.
func (s *Profit) Mode() string { return "" }

// Profits returns each task's raw profit vector.
func (s *Profit) Profits(tasks []*types.Task, agents []types.Agent) ([][]int64, error) {
	return profitVectors(tasks, agents), nil
}

// Affinity scores every compatible pair with its affinity counter, so the
// longest unused agent is preferred.
type Affinity struct {
	Passthrough
}

var _ types.Strategy = (*Affinity)(nil)

// NewAffinity creates the affinity-only strategy.
func NewAffinity() *Affinity {
	return &Affinity{}
}

// Name returns "affinity".
func (s *Affinity) Name() string { return "affinity" }

// Mode returns an empty string.
func (s *Affinity) Mode() string { return "" }

// Profits returns each task's raw affinity vector.
func (s *Affinity) Profits(tasks []*types.Task, agents []types.Agent) ([][]int64, error) {
	return affinityVectors(tasks, agents), nil
}

// ProductCombination scores every compatible pair with profit × affinity.
type ProductCombination struct {
	Passthrough
}

var _ types.Strategy = (*ProductCombination)(nil)

// NewProductCombination creates the product-combination strategy.
func NewProductCombination() *ProductCombination {
	return &ProductCombination{}
}

// Name returns "productcomb".
func (s *ProductCombination) Name() string { return "productcomb" }

// Mode returns an empty string.
func (s *ProductCombination) Mode() string { return "" }

// Profits returns the element-wise product of profit and affinity vectors.
func (s *ProductCombination) Profits(tasks []*types.Task, agents []types.Agent) ([][]int64, error) {
	profits := profitVectors(tasks, agents)
	affinities := affinityVectors(tasks, agents)
	for i := range profits {
		for j := range profits[i] {
			profits[i][j] *= affinities[i][j]
		}
	}

	return profits, nil
}
