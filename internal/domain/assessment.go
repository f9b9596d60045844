package domain

// SectionID is the letter of an instrument section.
type SectionID string

const (
	SectionIdentification   SectionID = "A"
	SectionSensory          SectionID = "B"
	SectionCognition        SectionID = "C"
	SectionMood             SectionID = "D"
	SectionBehavior         SectionID = "E"
	SectionPreferences      SectionID = "F"
	SectionFunction         SectionID = "G"
	SectionContinence       SectionID = "H"
	SectionDiagnoses        SectionID = "I"
	SectionHealthConditions SectionID = "J"
	SectionNutrition        SectionID = "K"
	SectionDental           SectionID = "L"
	SectionSkin             SectionID = "M"
	SectionMedications      SectionID = "N"
	SectionTreatments       SectionID = "O"
	SectionRestraints       SectionID = "P"
	SectionParticipation    SectionID = "Q"
)

// IsValid reports whether the letter names a section this engine models.
func (s SectionID) IsValid() bool {
	_, ok := sectionIndex[s]
	return ok
}

func (s SectionID) String() string { return string(s) }

// FieldID is an instrument item code such as "G0110A". Checklist options are
// addressed by appending the option letter ("O0100M").
type FieldID string

func (f FieldID) String() string { return string(f) }

// Section is implemented by every section record.
type Section interface {
	SectionID() SectionID
	IsCompleted() bool
}

// SectionStatus carries the completion flag the editing workflow sets.
type SectionStatus struct {
	Completed bool `json:"completed"`
}

// IsCompleted reports the workflow's completion flag.
func (s SectionStatus) IsCompleted() bool { return s.Completed }

// Assessment is one immutable assessment snapshot. A nil section was not
// charted at all; a nil field inside a section was left blank.
type Assessment struct {
	ID         string
	ResidentID string

	Identification   *IdentificationSection   `section:"A"`
	Sensory          *SensorySection          `section:"B"`
	Cognition        *CognitionSection        `section:"C"`
	Mood             *MoodSection             `section:"D"`
	Behavior         *BehaviorSection         `section:"E"`
	Preferences      *PreferencesSection      `section:"F"`
	Function         *FunctionSection         `section:"G"`
	Continence       *ContinenceSection       `section:"H"`
	Diagnoses        *DiagnosesSection        `section:"I"`
	HealthConditions *HealthConditionsSection `section:"J"`
	Nutrition        *NutritionSection        `section:"K"`
	Dental           *DentalSection           `section:"L"`
	Skin             *SkinSection             `section:"M"`
	Medications      *MedicationsSection      `section:"N"`
	Treatments       *TreatmentsSection       `section:"O"`
	Restraints       *RestraintsSection       `section:"P"`
	Participation    *ParticipationSection    `section:"Q"`
}

// IdentificationSection is section A.
type IdentificationSection struct {
	SectionStatus
	OBRAReason              *OBRAReason           `mds:"A0310A"`
	PPSReason               *PPSReason            `mds:"A0310B"`
	EntryDischarge          *EntryDischargeReason `mds:"A0310F"`
	EntryDate               *Date                 `mds:"A1600"`
	AssessmentReferenceDate *Date                 `mds:"A2300"`
}

func (IdentificationSection) SectionID() SectionID { return SectionIdentification }

// SensorySection is section B: hearing, speech and vision.
type SensorySection struct {
	SectionStatus
	Comatose            *YesNo          `mds:"B0100"`
	Hearing             *HearingAbility `mds:"B0200"`
	MakesSelfUnderstood *Understanding  `mds:"B0700"`
	AbilityToUnderstand *Understanding  `mds:"B0800"`
	Vision              *VisionAbility  `mds:"B1000"`
}

func (SensorySection) SectionID() SectionID { return SectionSensory }

// CognitionSection is section C. C0200-C0400 form the brief interview for
// mental status; C0700-C1000 are the staff assessment used when the interview
// is not conducted.
type CognitionSection struct {
	SectionStatus
	InterviewConducted *YesNo            `mds:"C0100"`
	Repetition         *WordRepetition   `mds:"C0200"`
	RecallYear         *YearOrientation  `mds:"C0300A"`
	RecallMonth        *MonthOrientation `mds:"C0300B"`
	RecallDay          *DayOrientation   `mds:"C0300C"`
	RecallSock         *WordRecall       `mds:"C0400A"`
	RecallBlue         *WordRecall       `mds:"C0400B"`
	RecallBed          *WordRecall       `mds:"C0400C"`
	ShortTermMemory    *MemoryStatus     `mds:"C0700"`
	LongTermMemory     *MemoryStatus     `mds:"C0800"`
	DecisionMaking     *DecisionMaking   `mds:"C1000"`
	AcuteOnset         *YesNo            `mds:"C1310A"`
	Inattention        *DeliriumPresence `mds:"C1310B"`
	DisorganizedThink  *DeliriumPresence `mds:"C1310C"`
	AlteredLevel       *DeliriumPresence `mds:"C1310D"`
}

func (CognitionSection) SectionID() SectionID { return SectionCognition }

// SymptomItem is one PHQ row: presence plus frequency.
type SymptomItem struct {
	Presence      *YesNoUnable
	Frequency     *SymptomFrequency
	PresenceField FieldID
}

// MoodSection is section D. D0150 is the resident interview (PHQ-9),
// D0500 the staff assessment (PHQ-9-OV).
type MoodSection struct {
	SectionStatus
	InterviewConducted *YesNo `mds:"D0100"`

	InterestPresence       *YesNoUnable      `mds:"D0150A1"`
	InterestFrequency      *SymptomFrequency `mds:"D0150A2"`
	DepressedPresence      *YesNoUnable      `mds:"D0150B1"`
	DepressedFrequency     *SymptomFrequency `mds:"D0150B2"`
	SleepPresence          *YesNoUnable      `mds:"D0150C1"`
	SleepFrequency         *SymptomFrequency `mds:"D0150C2"`
	TiredPresence          *YesNoUnable      `mds:"D0150D1"`
	TiredFrequency         *SymptomFrequency `mds:"D0150D2"`
	AppetitePresence       *YesNoUnable      `mds:"D0150E1"`
	AppetiteFrequency      *SymptomFrequency `mds:"D0150E2"`
	FailurePresence        *YesNoUnable      `mds:"D0150F1"`
	FailureFrequency       *SymptomFrequency `mds:"D0150F2"`
	ConcentrationPresence  *YesNoUnable      `mds:"D0150G1"`
	ConcentrationFrequency *SymptomFrequency `mds:"D0150G2"`
	MovementPresence       *YesNoUnable      `mds:"D0150H1"`
	MovementFrequency      *SymptomFrequency `mds:"D0150H2"`
	SelfHarmPresence       *YesNoUnable      `mds:"D0150I1"`
	SelfHarmFrequency      *SymptomFrequency `mds:"D0150I2"`

	StaffInterestPresence       *YesNo            `mds:"D0500A1"`
	StaffInterestFrequency      *SymptomFrequency `mds:"D0500A2"`
	StaffDepressedPresence      *YesNo            `mds:"D0500B1"`
	StaffDepressedFrequency     *SymptomFrequency `mds:"D0500B2"`
	StaffSleepPresence          *YesNo            `mds:"D0500C1"`
	StaffSleepFrequency         *SymptomFrequency `mds:"D0500C2"`
	StaffTiredPresence          *YesNo            `mds:"D0500D1"`
	StaffTiredFrequency         *SymptomFrequency `mds:"D0500D2"`
	StaffAppetitePresence       *YesNo            `mds:"D0500E1"`
	StaffAppetiteFrequency      *SymptomFrequency `mds:"D0500E2"`
	StaffFailurePresence        *YesNo            `mds:"D0500F1"`
	StaffFailureFrequency       *SymptomFrequency `mds:"D0500F2"`
	StaffConcentrationPresence  *YesNo            `mds:"D0500G1"`
	StaffConcentrationFrequency *SymptomFrequency `mds:"D0500G2"`
	StaffMovementPresence       *YesNo            `mds:"D0500H1"`
	StaffMovementFrequency      *SymptomFrequency `mds:"D0500H2"`
	StaffSelfHarmPresence       *YesNo            `mds:"D0500I1"`
	StaffSelfHarmFrequency      *SymptomFrequency `mds:"D0500I2"`
	StaffIrritablePresence      *YesNo            `mds:"D0500J1"`
	StaffIrritableFrequency     *SymptomFrequency `mds:"D0500J2"`
}

func (MoodSection) SectionID() SectionID { return SectionMood }

// InterviewItems returns the nine resident interview rows in item order.
func (m *MoodSection) InterviewItems() []SymptomItem {
	return []SymptomItem{
		{m.InterestPresence, m.InterestFrequency, "D0150A1"},
		{m.DepressedPresence, m.DepressedFrequency, "D0150B1"},
		{m.SleepPresence, m.SleepFrequency, "D0150C1"},
		{m.TiredPresence, m.TiredFrequency, "D0150D1"},
		{m.AppetitePresence, m.AppetiteFrequency, "D0150E1"},
		{m.FailurePresence, m.FailureFrequency, "D0150F1"},
		{m.ConcentrationPresence, m.ConcentrationFrequency, "D0150G1"},
		{m.MovementPresence, m.MovementFrequency, "D0150H1"},
		{m.SelfHarmPresence, m.SelfHarmFrequency, "D0150I1"},
	}
}

// StaffItems returns the ten staff assessment rows in item order. Staff
// presence has no "no response" code, so it is lifted into YesNoUnable.
func (m *MoodSection) StaffItems() []SymptomItem {
	lift := func(v *YesNo) *YesNoUnable {
		if v == nil {
			return nil
		}
		r := YesNoUnable(*v)
		return &r
	}
	return []SymptomItem{
		{lift(m.StaffInterestPresence), m.StaffInterestFrequency, "D0500A1"},
		{lift(m.StaffDepressedPresence), m.StaffDepressedFrequency, "D0500B1"},
		{lift(m.StaffSleepPresence), m.StaffSleepFrequency, "D0500C1"},
		{lift(m.StaffTiredPresence), m.StaffTiredFrequency, "D0500D1"},
		{lift(m.StaffAppetitePresence), m.StaffAppetiteFrequency, "D0500E1"},
		{lift(m.StaffFailurePresence), m.StaffFailureFrequency, "D0500F1"},
		{lift(m.StaffConcentrationPresence), m.StaffConcentrationFrequency, "D0500G1"},
		{lift(m.StaffMovementPresence), m.StaffMovementFrequency, "D0500H1"},
		{lift(m.StaffSelfHarmPresence), m.StaffSelfHarmFrequency, "D0500I1"},
		{lift(m.StaffIrritablePresence), m.StaffIrritableFrequency, "D0500J1"},
	}
}

// BehaviorSection is section E. Frequencies cover the 7-day look-back.
type BehaviorSection struct {
	SectionStatus
	Psychosis        *Checklist[PsychosisOption] `mds:"E0100"`
	PhysicalToOthers *BehaviorFrequency          `mds:"E0200A"`
	VerbalToOthers   *BehaviorFrequency          `mds:"E0200B"`
	OtherBehavior    *BehaviorFrequency          `mds:"E0200C"`
	RejectionOfCare  *BehaviorFrequency          `mds:"E0800"`
	Wandering        *BehaviorFrequency          `mds:"E0900"`
	ChangeInBehavior *BehaviorChange             `mds:"E1100"`
}

func (BehaviorSection) SectionID() SectionID { return SectionBehavior }

// PreferencesSection is section F.
type PreferencesSection struct {
	SectionStatus
	InterviewConducted *YesNo              `mds:"F0300"`
	ReadingPreference  *ActivityPreference `mds:"F0500A"`
	MusicPreference    *ActivityPreference `mds:"F0500B"`
	AnimalsPreference  *ActivityPreference `mds:"F0500C"`
	NewsPreference     *ActivityPreference `mds:"F0500D"`
	GroupPreference    *ActivityPreference `mds:"F0500E"`
	OutdoorsPreference *ActivityPreference `mds:"F0500F"`
}

func (PreferencesSection) SectionID() SectionID { return SectionPreferences }

// FunctionSection is section G.
type FunctionSection struct {
	SectionStatus
	BedMobility             *ADLSelfPerformance `mds:"G0110A"`
	Transfer                *ADLSelfPerformance `mds:"G0110B"`
	WalkInRoom              *ADLSelfPerformance `mds:"G0110C"`
	LocomotionOnUnit        *ADLSelfPerformance `mds:"G0110E"`
	Dressing                *ADLSelfPerformance `mds:"G0110G"`
	Eating                  *ADLSelfPerformance `mds:"G0110H"`
	ToiletUse               *ADLSelfPerformance `mds:"G0110I"`
	PersonalHygiene         *ADLSelfPerformance `mds:"G0110J"`
	UpperExtremityROM       *RangeOfMotion      `mds:"G0400A"`
	LowerExtremityROM       *RangeOfMotion      `mds:"G0400B"`
	ResidentBelievesCapable *YesNoUnable        `mds:"G0900A"`
	StaffBelievesCapable    *YesNo              `mds:"G0900B"`
}

func (FunctionSection) SectionID() SectionID { return SectionFunction }

// ADLItem pairs one scored ADL item with its field code.
type ADLItem struct {
	Field FieldID
	Value *ADLSelfPerformance
}

// ADLItems returns the eight scored ADL self-performance items.
func (g *FunctionSection) ADLItems() []ADLItem {
	return []ADLItem{
		{"G0110A", g.BedMobility},
		{"G0110B", g.Transfer},
		{"G0110C", g.WalkInRoom},
		{"G0110E", g.LocomotionOnUnit},
		{"G0110G", g.Dressing},
		{"G0110H", g.Eating},
		{"G0110I", g.ToiletUse},
		{"G0110J", g.PersonalHygiene},
	}
}

// ContinenceSection is section H.
type ContinenceSection struct {
	SectionStatus
	IndwellingCatheter *YesNo      `mds:"H0100A"`
	Urinary            *Continence `mds:"H0300"`
	Bowel              *Continence `mds:"H0400"`
}

func (ContinenceSection) SectionID() SectionID { return SectionContinence }

// DiagnosesSection is section I; each item is a checkbox.
type DiagnosesSection struct {
	SectionStatus
	Pneumonia          *YesNo `mds:"I2000"`
	Septicemia         *YesNo `mds:"I2100"`
	Diabetes           *YesNo `mds:"I2900"`
	HipFracture        *YesNo `mds:"I3900"`
	Alzheimers         *YesNo `mds:"I4200"`
	CerebralPalsy      *YesNo `mds:"I4400"`
	Dementia           *YesNo `mds:"I4800"`
	Hemiplegia         *YesNo `mds:"I4900"`
	Quadriplegia       *YesNo `mds:"I5100"`
	MultipleSclerosis  *YesNo `mds:"I5200"`
	Parkinsons         *YesNo `mds:"I5300"`
	Anxiety            *YesNo `mds:"I5700"`
	Depression         *YesNo `mds:"I5800"`
	COPD               *YesNo `mds:"I6200"`
	RespiratoryFailure *YesNo `mds:"I6300"`
}

func (DiagnosesSection) SectionID() SectionID { return SectionDiagnoses }

// HealthConditionsSection is section J.
type HealthConditionsSection struct {
	SectionStatus
	PainPresence          *YesNoUnable   `mds:"J0300"`
	PainFrequency         *PainFrequency `mds:"J0400"`
	PainIntensity         *PainIntensity `mds:"J0600A"`
	ShortnessOfBreathFlat *YesNo         `mds:"J1100C"`
	Fever                 *YesNo         `mds:"J1550A"`
	Vomiting              *YesNo         `mds:"J1550B"`
	Dehydrated            *YesNo         `mds:"J1550C"`
	FallBeforeEntry       *YesNoUnable   `mds:"J1700A"`
	FallSinceAdmission    *YesNo         `mds:"J1800"`
}

func (HealthConditionsSection) SectionID() SectionID { return SectionHealthConditions }

// NutritionSection is section K.
type NutritionSection struct {
	SectionStatus
	WeightLoss          *WeightLoss `mds:"K0300"`
	ParenteralFeeding   *YesNo      `mds:"K0510A"`
	FeedingTube         *YesNo      `mds:"K0510B"`
	MechanicallyAltered *YesNo      `mds:"K0510C"`
}

func (NutritionSection) SectionID() SectionID { return SectionNutrition }

// DentalSection is section L.
type DentalSection struct {
	SectionStatus
	Problems *Checklist[DentalOption] `mds:"L0200"`
}

func (DentalSection) SectionID() SectionID { return SectionDental }

// SkinSection is section M.
type SkinSection struct {
	SectionStatus
	UlcerRisk   *YesNo                        `mds:"M0150"`
	Stage2Count *UlcerCount                   `mds:"M0300B1"`
	Stage3Count *UlcerCount                   `mds:"M0300C1"`
	Stage4Count *UlcerCount                   `mds:"M0300D1"`
	Problems    *Checklist[SkinProblemOption] `mds:"M1040"`
}

func (SkinSection) SectionID() SectionID { return SectionSkin }

// MedicationsSection is section N; counts are days in the look-back.
type MedicationsSection struct {
	SectionStatus
	InsulinDays        *Days `mds:"N0350A"`
	OrderChangeDays    *Days `mds:"N0350B"`
	AntipsychoticDays  *Days `mds:"N0410A"`
	AntianxietyDays    *Days `mds:"N0410B"`
	AntidepressantDays *Days `mds:"N0410C"`
	HypnoticDays       *Days `mds:"N0410D"`
}

func (MedicationsSection) SectionID() SectionID { return SectionMedications }

// TreatmentsSection is section O.
type TreatmentsSection struct {
	SectionStatus
	Treatments *Checklist[TreatmentOption] `mds:"O0100"`

	SpeechTherapyDays       *Days `mds:"O0400A4"`
	OccupationalTherapyDays *Days `mds:"O0400B4"`
	PhysicalTherapyDays     *Days `mds:"O0400C4"`
	RespiratoryTherapyDays  *Days `mds:"O0400D2"`

	PassiveROMDays         *Days `mds:"O0500A"`
	ActiveROMDays          *Days `mds:"O0500B"`
	SplintDays             *Days `mds:"O0500C"`
	BedMobilityTrainDays   *Days `mds:"O0500D"`
	TransferTrainDays      *Days `mds:"O0500E"`
	WalkingTrainDays       *Days `mds:"O0500F"`
	DressingTrainDays      *Days `mds:"O0500G"`
	EatingTrainDays        *Days `mds:"O0500H"`
	ProsthesisCareDays     *Days `mds:"O0500I"`
	CommunicationTrainDays *Days `mds:"O0500J"`
}

func (TreatmentsSection) SectionID() SectionID { return SectionTreatments }

// Received reports whether a special treatment was checked.
func (o *TreatmentsSection) Received(t TreatmentOption) bool {
	return o != nil && o.Treatments != nil && o.Treatments.Has(t)
}

// DaysItem pairs a day-count item with its field code.
type DaysItem struct {
	Field FieldID
	Value *Days
}

// TherapyDisciplines returns the speech, occupational and physical therapy
// day counts.
func (o *TreatmentsSection) TherapyDisciplines() []DaysItem {
	return []DaysItem{
		{"O0400A4", o.SpeechTherapyDays},
		{"O0400B4", o.OccupationalTherapyDays},
		{"O0400C4", o.PhysicalTherapyDays},
	}
}

// RestorativePrograms returns the O0500 restorative nursing programs.
func (o *TreatmentsSection) RestorativePrograms() []DaysItem {
	return []DaysItem{
		{"O0500A", o.PassiveROMDays},
		{"O0500B", o.ActiveROMDays},
		{"O0500C", o.SplintDays},
		{"O0500D", o.BedMobilityTrainDays},
		{"O0500E", o.TransferTrainDays},
		{"O0500F", o.WalkingTrainDays},
		{"O0500G", o.DressingTrainDays},
		{"O0500H", o.EatingTrainDays},
		{"O0500I", o.ProsthesisCareDays},
		{"O0500J", o.CommunicationTrainDays},
	}
}

// RestraintsSection is section P.
type RestraintsSection struct {
	SectionStatus
	BedRail             *RestraintUse `mds:"P0100A"`
	TrunkInBed          *RestraintUse `mds:"P0100B"`
	LimbInBed           *RestraintUse `mds:"P0100C"`
	TrunkInChair        *RestraintUse `mds:"P0100E"`
	LimbInChair         *RestraintUse `mds:"P0100F"`
	ChairPreventsRising *RestraintUse `mds:"P0100G"`
}

func (RestraintsSection) SectionID() SectionID { return SectionRestraints }

// ParticipationSection is section Q.
type ParticipationSection struct {
	SectionStatus
	ActiveDischargePlan *YesNo       `mds:"Q0400A"`
	WantsCommunityInfo  *YesNoUnable `mds:"Q0500B"`
}

func (ParticipationSection) SectionID() SectionID { return SectionParticipation }
