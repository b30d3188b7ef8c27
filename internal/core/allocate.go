package core

// Allocate splits the paycheck across the requested categories.
//
// Each allocation is rounded half-to-even to the cent, and Remaining is
// paycheck minus the sum of the rounded allocations, so the result always
// adds back up to the paycheck exactly. Remaining may be negative when the
// categories ask for more than the paycheck.
//
// The total of all allocations is bounded like any single amount.
//
// Either a complete result or an error is returned, never both.
func Allocate(req BudgetRequest) (BudgetResult, error) {
	if err := req.Validate(); err != nil {
		return BudgetResult{}, err
	}

	result := BudgetResult{Allocations: make([]Allocation, 0, len(req.Categories))}
	var spent Money
	for _, c := range req.Categories {
		amount, err := c.Amount(req.Paycheck)
		if err != nil {
			return BudgetResult{}, err
		}
		result.Allocations = append(result.Allocations, Allocation{Name: c.Name, Amount: amount})
		spent = spent.Add(amount)
		if spent.Cents > maxAmountCents || spent.Cents < -maxAmountCents {
			return BudgetResult{}, newValidationError(ErrInvalidValue, c.Name,
				"total allocation is out of range at category '%s'", c.Name)
		}
	}
	result.Remaining = req.Paycheck.Sub(spent)
	return result, nil
}
