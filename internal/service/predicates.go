package service

import (
	"strconv"

	"github.com/ltc-mds-engine/internal/domain"
)

// Summary fields reported as trigger evidence. C0500, D0160 and D0600 are the
// instrument's own summary items; the ADL total has none.
const (
	FieldBIMSSummary  domain.FieldID = "C0500"
	FieldPHQInterview domain.FieldID = "D0160"
	FieldPHQStaff     domain.FieldID = "D0600"
	FieldADLScore     domain.FieldID = "ADL_SCORE"
)

// evidence evaluates a condition and returns the items that satisfied it,
// or nil when it is not met. Met conditions always return at least one item.
type evidence func(a *domain.Assessment, s domain.Scores) []domain.TriggerItem

// fieldIn is met when the field is recorded with one of the codes.
func fieldIn(field domain.FieldID, codes ...string) evidence {
	return func(a *domain.Assessment, _ domain.Scores) []domain.TriggerItem {
		v, ok := a.Value(field)
		if !ok {
			return nil
		}
		for _, c := range codes {
			if v == c {
				return []domain.TriggerItem{{Field: field, Value: v}}
			}
		}
		return nil
	}
}

// checked is met when a yes/no item or checklist option reads 1.
func checked(field domain.FieldID) evidence {
	return fieldIn(field, "1")
}

// fieldBetween is met when the numeric code lies in [lo, hi].
func fieldBetween(field domain.FieldID, lo, hi int) evidence {
	return func(a *domain.Assessment, _ domain.Scores) []domain.TriggerItem {
		v, ok := a.Value(field)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < lo || n > hi {
			return nil
		}
		return []domain.TriggerItem{{Field: field, Value: v}}
	}
}

// fieldAtLeast is met when the numeric code is at least n. Use fieldBetween
// for items whose domain carries a high "unable" code.
func fieldAtLeast(field domain.FieldID, n int) evidence {
	return fieldBetween(field, n, int(^uint(0)>>1))
}

// adlAtLeast is met when the ADL total reaches n.
func adlAtLeast(n int) evidence {
	return func(_ *domain.Assessment, s domain.Scores) []domain.TriggerItem {
		if s.ADL.Score < n {
			return nil
		}
		return []domain.TriggerItem{{Field: FieldADLScore, Value: strconv.Itoa(s.ADL.Score)}}
	}
}

// allOf is met when every condition is met; it reports all their items.
func allOf(conds ...evidence) evidence {
	return func(a *domain.Assessment, s domain.Scores) []domain.TriggerItem {
		var items []domain.TriggerItem
		for _, c := range conds {
			got := c(a, s)
			if got == nil {
				return nil
			}
			items = append(items, got...)
		}
		return items
	}
}

// anyOf is met when at least one condition is met; it reports the items of
// every condition that was.
func anyOf(conds ...evidence) evidence {
	return func(a *domain.Assessment, s domain.Scores) []domain.TriggerItem {
		var items []domain.TriggerItem
		for _, c := range conds {
			items = append(items, c(a, s)...)
		}
		return dedupeItems(items)
	}
}

// anyFieldIn applies fieldIn to several fields with the same codes.
func anyFieldIn(fields []domain.FieldID, codes ...string) evidence {
	conds := make([]evidence, len(fields))
	for i, f := range fields {
		conds[i] = fieldIn(f, codes...)
	}
	return anyOf(conds...)
}

// anyFieldAtLeast applies fieldAtLeast to several fields.
func anyFieldAtLeast(fields []domain.FieldID, n int) evidence {
	conds := make([]evidence, len(fields))
	for i, f := range fields {
		conds[i] = fieldAtLeast(f, n)
	}
	return anyOf(conds...)
}

func dedupeItems(items []domain.TriggerItem) []domain.TriggerItem {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[domain.FieldID]bool, len(items))
	out := items[:0:0]
	for _, it := range items {
		if seen[it.Field] {
			continue
		}
		seen[it.Field] = true
		out = append(out, it)
	}
	return out
}

func itemFields(items []domain.TriggerItem) []domain.FieldID {
	out := make([]domain.FieldID, len(items))
	for i, it := range items {
		out[i] = it.Field
	}
	return out
}
