package models

type QualityBand string

const (
	QualityExcellent QualityBand = "Excellent"
	QualityGood      QualityBand = "Good"
	QualityAverage   QualityBand = "Average"
	QualityPoor      QualityBand = "Poor"
)

type ExportKind string

const (
	ExportMastersheet ExportKind = "mastersheet"
	ExportCSV         ExportKind = "csv"
)

type ExportStatus string

const (
	ExportQueued    ExportStatus = "queued"
	ExportRunning   ExportStatus = "running"
	ExportCompleted ExportStatus = "completed"
	ExportFailed    ExportStatus = "failed"
)

type SurveyEventType string

const (
	SurveySubmitted SurveyEventType = "submitted"
	SurveyApproved  SurveyEventType = "approved"
	SurveyDeleted   SurveyEventType = "deleted"
)
