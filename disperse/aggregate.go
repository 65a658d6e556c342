package disperse

import (
	"fmt"
	"math/big"

	"github.com/AlexZinkM/disperse/internal/model"
)

// Aggregate combines validated entries into a batch plan, preserving entry order.
// The total is summed with big.Int so it can neither overflow nor drift.
func Aggregate(entries []model.RecipientEntry) (*model.BatchPlan, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyBatch
	}

	plan := &model.BatchPlan{
		Addresses: make([]string, 0, len(entries)),
		Amounts:   make([]*big.Int, 0, len(entries)),
		Total:     new(big.Int),
	}

	for i, entry := range entries {
		if entry.Address == "" {
			return nil, &InvariantError{
				Check:   "entry has address",
				Details: fmt.Sprintf("entry %d (%q)", i, entry.RawLine),
			}
		}
		if entry.Amount == nil || entry.Amount.Sign() < 0 {
			return nil, &InvariantError{
				Check:   "amount is non-negative",
				Details: fmt.Sprintf("entry %d (%q) amount %v", i, entry.RawLine, entry.Amount),
			}
		}

		amount := new(big.Int).Set(entry.Amount)
		plan.Addresses = append(plan.Addresses, entry.Address)
		plan.Amounts = append(plan.Amounts, amount)
		plan.Total.Add(plan.Total, amount)
	}

	return plan, nil
}

// CheckPlan re-verifies the plan invariants right before a plan leaves the engine.
func CheckPlan(plan *model.BatchPlan) error {
	if plan == nil {
		return &InvariantError{Check: "plan present", Details: "nil plan"}
	}
	if len(plan.Addresses) != len(plan.Amounts) {
		return &InvariantError{
			Check:   "len(addresses) == len(amounts)",
			Details: fmt.Sprintf("%d addresses, %d amounts", len(plan.Addresses), len(plan.Amounts)),
		}
	}
	if len(plan.Addresses) == 0 {
		return &InvariantError{Check: "plan not empty", Details: "0 recipients"}
	}

	sum := new(big.Int)
	for i, a := range plan.Amounts {
		if a == nil || a.Sign() < 0 {
			return &InvariantError{
				Check:   "amount is non-negative",
				Details: fmt.Sprintf("amount %d is %v", i, a),
			}
		}
		sum.Add(sum, a)
	}
	if plan.Total == nil || sum.Cmp(plan.Total) != 0 {
		return &InvariantError{
			Check:   "total == sum(amounts)",
			Details: fmt.Sprintf("total %v, sum %s", plan.Total, sum),
		}
	}
	return nil
}
