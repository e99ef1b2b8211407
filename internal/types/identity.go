package types

// SameService reports whether two items refer to the same billing concept.
// Items with a code are identified by the code alone; items without one by
// the (label, price, currency, unit) tuple.
//
// This comparator is the only duplication guard in the pipeline. The
// importer and the aggregator both go through FindService.
func SameService(a, b ServiceItem) bool {
	if b.Code != "" {
		return a.Code == b.Code
	}
	return a.Code == "" &&
		a.Label == b.Label &&
		a.Price == b.Price &&
		a.Currency == b.Currency &&
		a.Unit == b.Unit
}

// FindService returns a pointer to the item in items that is the same
// service as candidate, or nil.
func FindService(items []ServiceItem, candidate ServiceItem) *ServiceItem {
	for i := range items {
		if SameService(items[i], candidate) {
			return &items[i]
		}
	}
	return nil
}
