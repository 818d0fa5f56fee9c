package workflow

import "fmt"

// Messages shown to the student. Failure messages are deliberately generic; the cause
// goes to the log.
const (
	MsgEnrollFailed     = "Could not complete the enrollment. Please try again."
	MsgCancelFailed     = "Could not complete the cancellation. Please try again."
	MsgNoEnrollments    = "You are not enrolled in any exam yet."
	MsgNoOpenSubjects   = "There are no subjects open for enrollment right now."
	msgEnrolledTemplate = "You have been enrolled in %s."
	msgCanceledTemplate = "Your enrollment in %s has been cancelled."
)

// EnrolledMessage is the success notice for an enrollment.
func EnrolledMessage(subjectName string) string {
	return fmt.Sprintf(msgEnrolledTemplate, subjectName)
}

// CanceledMessage is the success notice for a cancellation.
func CanceledMessage(subjectName string) string {
	return fmt.Sprintf(msgCanceledTemplate, subjectName)
}
