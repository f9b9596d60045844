package domain

// CareArea is one of the twenty clinical domains the trigger catalog covers.
type CareArea string

const (
	CareAreaDelirium            CareArea = "delirium"
	CareAreaCognitiveLoss       CareArea = "cognitive_loss_dementia"
	CareAreaVisualFunction      CareArea = "visual_function"
	CareAreaCommunication       CareArea = "communication"
	CareAreaADLRehab            CareArea = "adl_functional_rehab_potential"
	CareAreaUrinaryIncontinence CareArea = "urinary_incontinence_catheter"
	CareAreaPsychosocial        CareArea = "psychosocial_well_being"
	CareAreaMoodState           CareArea = "mood_state"
	CareAreaBehavioralSymptoms  CareArea = "behavioral_symptoms"
	CareAreaActivities          CareArea = "activities"
	CareAreaFalls               CareArea = "falls"
	CareAreaNutritionalStatus   CareArea = "nutritional_status"
	CareAreaFeedingTube         CareArea = "feeding_tube"
	CareAreaDehydration         CareArea = "dehydration_fluid_maintenance"
	CareAreaDentalCare          CareArea = "dental_care"
	CareAreaPressureUlcer       CareArea = "pressure_ulcer"
	CareAreaPsychotropicDrugs   CareArea = "psychotropic_drug_use"
	CareAreaPhysicalRestraints  CareArea = "physical_restraints"
	CareAreaPain                CareArea = "pain"
	CareAreaReturnToCommunity   CareArea = "return_to_community_referral"
)

var careAreaOrder = []CareArea{
	CareAreaDelirium,
	CareAreaCognitiveLoss,
	CareAreaVisualFunction,
	CareAreaCommunication,
	CareAreaADLRehab,
	CareAreaUrinaryIncontinence,
	CareAreaPsychosocial,
	CareAreaMoodState,
	CareAreaBehavioralSymptoms,
	CareAreaActivities,
	CareAreaFalls,
	CareAreaNutritionalStatus,
	CareAreaFeedingTube,
	CareAreaDehydration,
	CareAreaDentalCare,
	CareAreaPressureUlcer,
	CareAreaPsychotropicDrugs,
	CareAreaPhysicalRestraints,
	CareAreaPain,
	CareAreaReturnToCommunity,
}

// AllCareAreas lists the care areas in instrument order.
func AllCareAreas() []CareArea {
	out := make([]CareArea, len(careAreaOrder))
	copy(out, careAreaOrder)
	return out
}

// Ordinal is the care area's 1-based position in instrument order, or 0.
func (c CareArea) Ordinal() int {
	for i, a := range careAreaOrder {
		if a == c {
			return i + 1
		}
	}
	return 0
}

func (c CareArea) IsValid() bool { return c.Ordinal() > 0 }

func (c CareArea) String() string { return string(c) }
