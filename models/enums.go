package models

// VerificationStatus is the trust level recorded on an address
type VerificationStatus string

const (
	StatusUnverified VerificationStatus = "unverified"
	StatusPending    VerificationStatus = "pending"
	StatusVerified   VerificationStatus = "verified"
	StatusDisputed   VerificationStatus = "disputed"
)

// IsValid checks if the status is one of the four known values
func (s VerificationStatus) IsValid() bool {
	switch s {
	case StatusUnverified, StatusPending, StatusVerified, StatusDisputed:
		return true
	default:
		return false
	}
}

// DataSource records how an address was collected
type DataSource string

const (
	SourceAIDetected   DataSource = "ai_detected"
	SourceManualSurvey DataSource = "manual_survey"
	SourceCrowdsourced DataSource = "crowdsourced"
	SourceImported     DataSource = "imported"
)

func (d DataSource) IsValid() bool {
	switch d {
	case SourceAIDetected, SourceManualSurvey, SourceCrowdsourced, SourceImported:
		return true
	default:
		return false
	}
}

// DetectionMethod records how a building footprint was produced
type DetectionMethod string

const (
	DetectionAI        DetectionMethod = "ai"
	DetectionManual    DetectionMethod = "manual"
	DetectionSatellite DetectionMethod = "satellite"
	DetectionSurvey    DetectionMethod = "survey"
)

func (m DetectionMethod) IsValid() bool {
	switch m {
	case DetectionAI, DetectionManual, DetectionSatellite, DetectionSurvey:
		return true
	default:
		return false
	}
}

type PhotoType string

const (
	PhotoStreetSign PhotoType = "street_sign"
	PhotoBuilding   PhotoType = "building"
	PhotoContext    PhotoType = "context"
	PhotoSurvey     PhotoType = "survey"
)

func (p PhotoType) IsValid() bool {
	switch p {
	case PhotoStreetSign, PhotoBuilding, PhotoContext, PhotoSurvey:
		return true
	default:
		return false
	}
}

type SurveyStatus string

const (
	SurveyActive    SurveyStatus = "active"
	SurveyCompleted SurveyStatus = "completed"
	SurveyPaused    SurveyStatus = "paused"
)

type JobType string

const (
	JobBuildingDetection JobType = "building_detection"
	JobAddressGeneration JobType = "address_generation"
	JobChangeDetection   JobType = "change_detection"
)

func (j JobType) IsValid() bool {
	switch j {
	case JobBuildingDetection, JobAddressGeneration, JobChangeDetection:
		return true
	default:
		return false
	}
}

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// processing states for uploaded photo files
const (
	ProcessingNotRequired = "notRequired"
	ProcessingPending     = "pending"
	ProcessingInProgress  = "processing"
	ProcessingDone        = "done"
	ProcessingError       = "error"
)
