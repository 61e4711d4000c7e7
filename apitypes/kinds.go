// Package apitypes defines the interface surface that the (out-of-scope)
// HTTP endpoint layer, CLI wrapper, and localized template renderer would
// sit on top of: the stable machine-readable error codes, the error
// envelope shape, and the request/response DTOs. spec.md §1 calls these
// "thin glue over the core" and scopes them out of the engine itself;
// this package exists only so the core has a concrete, compilable contract
// to produce values for — it contains no routing, rendering, or
// localization logic.
package apitypes

// Kind is a stable, machine-readable error code, intended for client-side
// translation (spec.md §7). Every Kind below is part of the wire contract;
// each group's comment names which layer actually raises it — most are
// raised by validate or assign, a few only ever by the (unimplemented)
// outer HTTP layer and are declared here purely so Envelope has a
// complete, stable code set to model.
type Kind string

const (
	// Request/shape errors — raised only by the out-of-scope HTTP layer.
	InvalidContentType Kind = "INVALID_CONTENT_TYPE"
	MissingParameter    Kind = "MISSING_PARAMETER"
	InvalidStudentData  Kind = "INVALID_STUDENT_DATA"

	// Input-data validation — raised by package validate.
	EmptyStudentData      Kind = "EMPTY_STUDENT_DATA"
	MissingRequiredFields Kind = "MISSING_REQUIRED_FIELDS"
	DuplicateStudentNames Kind = "DUPLICATE_STUDENT_NAMES"
	StudentNoFriends      Kind = "STUDENT_NO_FRIENDS"
	UnknownFriend         Kind = "UNKNOWN_FRIEND"
	IsolatedStudents      Kind = "ISOLATED_STUDENTS"

	// Parameter validation — raised by package validate.
	InvalidClassCount   Kind = "INVALID_CLASS_COUNT"
	InvalidStudentCount Kind = "INVALID_STUDENT_COUNT"
	TooManyClasses      Kind = "TOO_MANY_CLASSES"
	ClassSizeTooSmall   Kind = "CLASS_SIZE_TOO_SMALL"

	// Assignment execution — NoSolutionFound and OptimizationTimeout are
	// raised by package assign; AssignmentFailed is not raised by the core.
	AssignmentFailed    Kind = "ASSIGNMENT_FAILED"
	NoSolutionFound     Kind = "NO_SOLUTION_FOUND"
	OptimizationTimeout Kind = "OPTIMIZATION_TIMEOUT"

	// System — UnsupportedLanguage/TemplateNotAvailable belong to the
	// out-of-scope localized-template layer; InternalServerError is the
	// outer boundary's catch-all for any panic/unexpected failure bubbling
	// up from the core (spec.md §7 "Propagation policy").
	UnsupportedLanguage  Kind = "UNSUPPORTED_LANGUAGE"
	TemplateNotAvailable Kind = "TEMPLATE_NOT_AVAILABLE"
	InternalServerError  Kind = "INTERNAL_SERVER_ERROR"
)
