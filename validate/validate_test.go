package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightgrove-schools/classrooms/apitypes"
	"github.com/brightgrove-schools/classrooms/student"
	"github.com/brightgrove-schools/classrooms/validate"
)

func validTable() student.Table {
	return student.Table{
		{Name: "Alice", Gender: student.Female, Academic: student.High, Behavioral: student.Medium, Friends: [4]string{"Bob", "", "", ""}},
		{Name: "Bob", Gender: student.Male, Academic: student.Medium, Behavioral: student.Medium, Friends: [4]string{"Alice", "", "", ""}},
	}
}

func TestStudentsValidTablePasses(t *testing.T) {
	assert.NoError(t, validate.Students(validTable()))
}

func TestStudentsEmptyTable(t *testing.T) {
	err := validate.Students(student.Table{})
	requireKind(t, err, apitypes.EmptyStudentData)
}

func TestStudentsMissingName(t *testing.T) {
	table := validTable()
	table[0].Name = ""
	requireKind(t, validate.Students(table), apitypes.MissingRequiredFields)
}

func TestStudentsInvalidGender(t *testing.T) {
	table := validTable()
	table[0].Gender = "NEITHER"
	requireKind(t, validate.Students(table), apitypes.MissingRequiredFields)
}

func TestStudentsInvalidAcademicGrade(t *testing.T) {
	table := validTable()
	table[0].Academic = "EXCELLENT"
	requireKind(t, validate.Students(table), apitypes.MissingRequiredFields)
}

func TestStudentsDuplicateNames(t *testing.T) {
	table := validTable()
	table[1].Name = "Alice"
	requireKind(t, validate.Students(table), apitypes.DuplicateStudentNames)
}

func TestStudentsNoFriends(t *testing.T) {
	table := validTable()
	table[0].Friends = [4]string{"", "", "", ""}
	requireKind(t, validate.Students(table), apitypes.StudentNoFriends)
}

func TestStudentsUnknownFriend(t *testing.T) {
	table := validTable()
	table[0].Friends = [4]string{"Ghost", "", "", ""}
	requireKind(t, validate.Students(table), apitypes.UnknownFriend)
}

func TestParametersPositive(t *testing.T) {
	assert.NoError(t, validate.Parameters(30, 3))
}

func TestParametersZeroClasses(t *testing.T) {
	requireKind(t, validate.Parameters(30, 0), apitypes.InvalidClassCount)
}

func TestParametersZeroStudents(t *testing.T) {
	requireKind(t, validate.Parameters(0, 3), apitypes.InvalidStudentCount)
}

func TestParametersTooManyClasses(t *testing.T) {
	requireKind(t, validate.Parameters(3, 10), apitypes.TooManyClasses)
}

func requireKind(t *testing.T, err error, kind apitypes.Kind) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*apitypes.Error)
	require.True(t, ok, "expected *apitypes.Error, got %T", err)
	assert.Equal(t, kind, apiErr.Kind)
}
