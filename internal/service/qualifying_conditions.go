package service

import (
	"github.com/ltc-mds-engine/internal/domain"
)

// QualifyingConditionRule is one row of a nursing flag table: the flag is set
// when any of its rows is met.
type QualifyingConditionRule struct {
	Flag      domain.NursingFlag
	Condition string
	Met       evidence
}

// qualifyingConditions returns the flag tables. Rows are grouped by flag in
// nursing-tier priority order; the classifier evaluates every row.
func qualifyingConditions() []QualifyingConditionRule {
	return []QualifyingConditionRule{
		// special care high
		{domain.SpecialCareHigh, "comatose and completely dependent", allOf(checked("B0100"), adlAtLeast(24))},
		{domain.SpecialCareHigh, "septicemia", checked("I2100")},
		{domain.SpecialCareHigh, "diabetes with daily insulin and order changes",
			allOf(checked("I2900"), fieldAtLeast("N0350A", 7), fieldAtLeast("N0350B", 2))},
		{domain.SpecialCareHigh, "quadriplegia", allOf(checked("I5100"), adlAtLeast(10))},
		{domain.SpecialCareHigh, "COPD with shortness of breath lying flat", allOf(checked("I6200"), checked("J1100C"))},
		{domain.SpecialCareHigh, "fever with pneumonia, vomiting, weight loss or feeding tube",
			allOf(checked("J1550A"), anyOf(checked("I2000"), checked("J1550B"), fieldIn("K0300", "1", "2"), checked("K0510B")))},
		{domain.SpecialCareHigh, "parenteral/IV feeding", checked("K0510A")},
		{domain.SpecialCareHigh, "respiratory therapy all 7 days", fieldAtLeast("O0400D2", 7)},

		// special care low
		{domain.SpecialCareLow, "cerebral palsy, multiple sclerosis or Parkinson's",
			allOf(anyOf(checked("I4400"), checked("I5200"), checked("I5300")), adlAtLeast(10))},
		{domain.SpecialCareLow, "respiratory failure with oxygen", allOf(checked("I6300"), checked("O0100C"))},
		{domain.SpecialCareLow, "feeding tube", checked("K0510B")},
		{domain.SpecialCareLow, "pressure ulcers",
			anyOf(fieldAtLeast("M0300B1", 2), fieldAtLeast("M0300C1", 1), fieldAtLeast("M0300D1", 1))},
		{domain.SpecialCareLow, "foot infection", checked("M1040A")},
		{domain.SpecialCareLow, "radiation", checked("O0100B")},
		{domain.SpecialCareLow, "dialysis", checked("O0100J")},

		// clinically complex
		{domain.ComplexMedical, "pneumonia", checked("I2000")},
		{domain.ComplexMedical, "hemiplegia", allOf(checked("I4900"), adlAtLeast(10))},
		{domain.ComplexMedical, "surgical wounds", checked("M1040E")},
		{domain.ComplexMedical, "burns", checked("M1040F")},
		{domain.ComplexMedical, "open lesions", checked("M1040D")},
		{domain.ComplexMedical, "chemotherapy", checked("O0100A")},
		{domain.ComplexMedical, "oxygen therapy", checked("O0100C")},
		{domain.ComplexMedical, "IV medications", checked("O0100H")},
		{domain.ComplexMedical, "transfusions", checked("O0100I")},

		// reduced physical function
		{domain.ReducedPhysicalFunction, "low ADL independence", adlAtLeast(17)},
		{domain.ReducedPhysicalFunction, "bilateral range of motion impairment",
			anyOf(fieldIn("G0400A", "2"), fieldIn("G0400B", "2"))},
	}
}
