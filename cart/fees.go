package cart

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FeeTier charges Fee once the cart holds at least MinItems items.
type FeeTier struct {
	MinItems int   `json:"min_items"`
	Fee      Paise `json:"fee"`
}

// FeeSchedule is the takeaway surcharge table, sorted by MinItems.
type FeeSchedule []FeeTier

// DefaultFeeSchedule charges ₹10 for a single item and ₹20 for two or more.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		{MinItems: 1, Fee: 1000},
		{MinItems: 2, Fee: 2000},
	}
}

// For returns the surcharge for a cart holding itemCount items.
func (fs FeeSchedule) For(itemCount int) Paise {
	var fee Paise
	for _, tier := range fs {
		if itemCount < tier.MinItems {
			break
		}
		fee = tier.Fee
	}
	return fee
}

// ParseFeeSchedule reads "min:fee" pairs separated by commas, for example
// "1:1000,2:2000". Fees are in paise. An empty string yields the default.
func ParseFeeSchedule(s string) (FeeSchedule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultFeeSchedule(), nil
	}

	var fs FeeSchedule
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		minStr, feeStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("fee tier %q: expected min:fee", part)
		}
		minItems, err := strconv.Atoi(strings.TrimSpace(minStr))
		if err != nil || minItems < 1 {
			return nil, fmt.Errorf("fee tier %q: min items must be a positive integer", part)
		}
		fee, err := strconv.ParseInt(strings.TrimSpace(feeStr), 10, 64)
		if err != nil || fee < 0 {
			return nil, fmt.Errorf("fee tier %q: fee must be a non-negative integer", part)
		}
		if seen[minItems] {
			return nil, fmt.Errorf("fee tier %q: duplicate min items %d", part, minItems)
		}
		seen[minItems] = true
		fs = append(fs, FeeTier{MinItems: minItems, Fee: Paise(fee)})
	}
	if len(fs) == 0 {
		return nil, fmt.Errorf("fee schedule %q has no tiers", s)
	}

	sort.Slice(fs, func(i, j int) bool { return fs[i].MinItems < fs[j].MinItems })
	return fs, nil
}
