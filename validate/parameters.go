package validate

import (
	"fmt"

	"github.com/brightgrove-schools/classrooms/apitypes"
)

// Parameters validates the (numStudents, numClasses) pair before any
// strategy runs, in the order spec.md §4.2 specifies. A nil return means
// the pair is safe to hand to a strategy.
func Parameters(numStudents, numClasses int) error {
	if numClasses <= 0 {
		return apitypes.New(apitypes.InvalidClassCount,
			"number of classes must be positive", "numClasses", numClasses)
	}
	if numStudents <= 0 {
		return apitypes.New(apitypes.InvalidStudentCount,
			"number of students must be positive", "numStudents", numStudents)
	}
	if numClasses > numStudents {
		return apitypes.New(apitypes.TooManyClasses,
			fmt.Sprintf("cannot create %d classes with only %d students", numClasses, numStudents),
			"numClasses", numClasses, "numStudents", numStudents)
	}
	if numStudents/numClasses < 1 {
		return apitypes.New(apitypes.ClassSizeTooSmall,
			fmt.Sprintf("class size too small: %d", numStudents/numClasses),
			"minClassSize", numStudents/numClasses)
	}
	return nil
}
