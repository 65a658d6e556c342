package model

import "math/big"

// BatchPlan is the positionally paired recipient/amount lists plus their exact sum.
// Total == sum(Amounts) and len(Addresses) == len(Amounts).
type BatchPlan struct {
	Addresses []string
	Amounts   []*big.Int
	Total     *big.Int
}

// Len returns the number of recipients in the plan
func (p *BatchPlan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Addresses)
}

// Clone returns a deep copy so the caller can't mutate amounts shared with the plan.
func (p *BatchPlan) Clone() *BatchPlan {
	if p == nil {
		return nil
	}
	out := &BatchPlan{
		Addresses: append([]string(nil), p.Addresses...),
		Amounts:   make([]*big.Int, len(p.Amounts)),
		Total:     new(big.Int).Set(p.Total),
	}
	for i, a := range p.Amounts {
		out.Amounts[i] = new(big.Int).Set(a)
	}
	return out
}

// ReceiptStatus final status reported by the chain
type ReceiptStatus string

const (
	ReceiptStatusSuccess  ReceiptStatus = "success"
	ReceiptStatusReverted ReceiptStatus = "reverted"
)

// Receipt is the confirmation of a submitted transaction
type Receipt struct {
	Status      ReceiptStatus `json:"status"`
	Hash        string        `json:"hash"`
	BlockNumber uint64        `json:"blockNumber"`
	GasUsed     uint64        `json:"gasUsed"`
}
