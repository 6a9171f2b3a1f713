// Package concepts holds the well-known OMOP standard concept ids this
// service depends on: the per-context "unknown" sentinels, the episode and
// modifier concepts used when composing oncology episodes, and the TNM
// staging groups. Ids are literal reference data; nothing here talks to the
// database.
package concepts

// Unknown sentinels. Each vocabulary lookup context resolves unmatched input
// to the sentinel for its own semantic context, never to a generic zero.
const (
	UnknownGeneric      ConceptID = 4129922  // SNOMED Unknown
	UnknownGender       ConceptID = 4214687  // SNOMED Gender unknown
	UnknownCondition    ConceptID = 44790729 // SNOMED Unknown problem
	UnknownCancer       ConceptID = 36402660 // ICDO3 Unknown histology of unknown primary site
	UnknownGrade        ConceptID = 4264626  // SNOMED Grade not determined
	UnknownStage        ConceptID = 36768646 // Cancer Modifier Origin Grade X
	UnknownStageEdition ConceptID = 1634449  // For unknown edition, default to current (8th)

	// Unknown treatment regimen assignments.
	DrugTrial          ConceptID = 4090378 // Clinical drug trial (SNOMED)
	TherapeuticRegimen ConceptID = 4207655 // Prescription of therapeutic regimen (SNOMED)
)

var Unknown = NewCatalog("Unknown",
	Entry{"generic", UnknownGeneric},
	Entry{"gender", UnknownGender},
	Entry{"condition", UnknownCondition},
	Entry{"cancer", UnknownCancer},
	Entry{"grade", UnknownGrade},
	Entry{"stage", UnknownStage},
	Entry{"stage_edition", UnknownStageEdition},
	Entry{"drug_trial", DrugTrial},
	Entry{"therapeutic_regimen", TherapeuticRegimen},
)

// IsUnknown reports whether val is absent or one of the unknown sentinels.
func IsUnknown(val ConceptID) bool {
	return Unknown.IsMember(val)
}

// Episode-event field concepts: which clinical table column an episode event
// points at.
const (
	FieldConditionOccurrenceID ConceptID = 1147127
	FieldDrugExposureID        ConceptID = 1147707
	FieldProcedureOccurrenceID ConceptID = 1147082
	FieldEpisodeID             ConceptID = 756290
)

var ModifierFields = NewCatalog("ModifierFields",
	Entry{"condition_occurrence_id", FieldConditionOccurrenceID},
	Entry{"drug_exposure_id", FieldDrugExposureID},
	Entry{"procedure_occurrence_id", FieldProcedureOccurrenceID},
	Entry{"episode_id", FieldEpisodeID},
)

var ModifierTables = NewCatalog("ModifierTables",
	Entry{"drug_exposure", 1147339},
	Entry{"episode", 35225440},
	Entry{"observation", 1147304},
)

// Treatment episode concepts.
const (
	TreatmentRegimen ConceptID = 32531 // Assignment to or derivation of treatment regimen
	TreatmentCycle   ConceptID = 32532 // Assignment to or derivation of treatment cycle
	CancerSurgery    ConceptID = 32939 // Surgical treatment episode
	Radiotherapy     ConceptID = 32940 // Radiotherapy treatment episode
)

var TreatmentEpisode = NewCatalog("TreatmentEpisode",
	Entry{"treatment_regimen", TreatmentRegimen},
	Entry{"treatment_cycle", TreatmentCycle},
	Entry{"cancer_surgery", CancerSurgery},
	Entry{"radiotherapy", Radiotherapy},
)

var Modality = NewCatalog("Modality",
	Entry{"chemotherapy", 35803401},
	Entry{"radiotherapy", 35803411},
)

// Disease episode concepts. partial_response and complete_response share
// 32947 in the source vocabulary; kept as-is, see Catalog.Validate.
const (
	EpisodeOfCare ConceptID = 32533 // Overarching disease episode

	ExtentConfined   ConceptID = 32528
	ExtentInvasive   ConceptID = 32677
	ExtentMetastatic ConceptID = 32944

	StableDisease      ConceptID = 32948
	DiseaseProgression ConceptID = 32949
	PartialResponse    ConceptID = 32947
	CompleteResponse   ConceptID = 32947
)

var DiseaseEpisode = NewCatalog("DiseaseEpisode",
	Entry{"episode_of_care", EpisodeOfCare},
	Entry{"confined", ExtentConfined},
	Entry{"invasive", ExtentInvasive},
	Entry{"metastatic", ExtentMetastatic},
	Entry{"stable_disease", StableDisease},
	Entry{"disease_progression", DiseaseProgression},
	Entry{"partial_response", PartialResponse},
	Entry{"complete_response", CompleteResponse},
)

// Episode provenance types.
const (
	EpisodeEHRDefined    ConceptID = 32544 // Episode defined in EHR
	EpisodeEHRDerived    ConceptID = 32545 // Episode derived algorithmically from EHR
	EHRPrescription      ConceptID = 32838
	EHRPlannedDispensing ConceptID = 32837
	EHREncounterRecord   ConceptID = 32827
)

var EpisodeTypes = NewCatalog("EpisodeTypes",
	Entry{"ehr_defined", EpisodeEHRDefined},
	Entry{"ehr_derived", EpisodeEHRDerived},
	Entry{"ehr_prescription", EHRPrescription},
	Entry{"ehr_planned_dispensing", EHRPlannedDispensing},
	Entry{"ehr_encounter_record", EHREncounterRecord},
)

// Condition modifier grouping concepts (measurement_concept_id grouping).
const (
	InitialDiagnosis ConceptID = 734306   // Cancer Modifier - Initial Diagnosis
	TNMParent        ConceptID = 734320   // Cancer Modifier - Parent AJCC/UICC concept
	MetsParent       ConceptID = 36769180 // Cancer Modifier - Metastasis hierarchy parent
)

var ConditionModifiers = NewCatalog("ConditionModifiers",
	Entry{"init_diag", InitialDiagnosis},
	Entry{"tnm", TNMParent},
	Entry{"mets", MetsParent},
)

// TNM stage grouping catalogs. tx, ta and tis share 1635682 and stageIII /
// stageIV share 1633650 in the source vocabulary; kept literally.
var TStage = NewCatalog("TStage",
	Entry{"t0", 1634213},
	Entry{"t1", 1635564},
	Entry{"t2", 1635562},
	Entry{"t3", 1634376},
	Entry{"t4", 1634654},
	Entry{"ta", 1635682},
	Entry{"tx", 1635682},
	Entry{"tis", 1635682},
)

var NStage = NewCatalog("NStage",
	Entry{"n0", 1633440},
	Entry{"n1", 1634434},
	Entry{"n2", 1634119},
	Entry{"n3", 1635320},
	Entry{"n4", 1635445},
	Entry{"nx", 1633885},
)

var MStage = NewCatalog("MStage",
	Entry{"m0", 1635624},
	Entry{"m1", 1635142},
	Entry{"mx", 1633547},
)

var GroupStage = NewCatalog("GroupStage",
	Entry{"stage0", 1633754},
	Entry{"stageI", 1633306},
	Entry{"stageII", 1634209},
	Entry{"stageIII", 1633650},
	Entry{"stageIV", 1633650},
)

var ConditionConcepts = NewCatalog("ConditionConcepts",
	Entry{"ehr_problem_list", 32840},
	Entry{"resolved_condition", 32906},
	Entry{"confirmed_diagnosis", 32893},
)

var StageType = NewCatalog("StageType",
	Entry{"c", 0},
	Entry{"p", 1},
)

var StageEdition = NewCatalog("StageEdition",
	Entry{"6th", 1634647},
	Entry{"7th", 1633496},
	Entry{"8th", 1634449},
)

var ModifierConcepts = NewCatalog("ModifierConcepts",
	Entry{"grade", 35918328},
	Entry{"laterality", 35918306},
	Entry{"derived_value", 45754907},
	Entry{"tumor_size", 4139794},
	Entry{"primary_tumor", 36768229},
)

var DrugExposureConcepts = NewCatalog("DrugExposureConcepts",
	Entry{"drug_dose", 4162374},
	Entry{"ehr_drug_admin", 32818},
	Entry{"placebo", 1379408},
)

// All enumerates every catalog for startup validation.
func All() []Catalog {
	return []Catalog{
		Unknown,
		ModifierFields,
		ModifierTables,
		TreatmentEpisode,
		Modality,
		DiseaseEpisode,
		EpisodeTypes,
		ConditionModifiers,
		TStage,
		NStage,
		MStage,
		GroupStage,
		ConditionConcepts,
		StageType,
		StageEdition,
		ModifierConcepts,
		DrugExposureConcepts,
	}
}
