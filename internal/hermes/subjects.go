package hermes

import "strconv"

const (
	SubjectAllAssessments = "dss.assessment.>"
	SubjectAllPaths       = "dss.path.>"
	SubjectAll            = "dss.>"

	StreamName   = "DSS_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

var StreamSubjects = []string{SubjectAllAssessments, SubjectAllPaths}

func SubjectAssessmentCompleted(assessmentID string) string {
	return "dss.assessment." + assessmentID + ".completed"
}

func SubjectPathCreated(pathID int64) string {
	return "dss.path." + strconv.FormatInt(pathID, 10) + ".created"
}
