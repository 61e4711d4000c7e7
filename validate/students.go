// Package validate rejects ill-formed or socially-impossible inputs before
// any assignment strategy runs (spec.md §4.2). Every failure is an
// *apitypes.Error carrying a stable Kind plus the parameters needed to
// render a localized message; callers branch on the Kind, never on the
// Message string.
package validate

import (
	"fmt"
	"sort"

	"github.com/brightgrove-schools/classrooms/apitypes"
	"github.com/brightgrove-schools/classrooms/friendgraph"
	"github.com/brightgrove-schools/classrooms/student"
)

// Students runs the input-data validation pipeline in the order spec.md
// §4.2 specifies; the first failing check stops the pipeline and its
// *apitypes.Error is returned. A nil return means table is safe to pass to
// friendgraph.Build.
func Students(table student.Table) error {
	if len(table) == 0 {
		return apitypes.New(apitypes.EmptyStudentData, "student data is empty")
	}

	if err := checkRequiredFields(table); err != nil {
		return err
	}
	if err := checkUniqueNames(table); err != nil {
		return err
	}
	if err := checkEveryoneHasAFriend(table); err != nil {
		return err
	}
	idx := table.Index()
	if err := checkFriendsExist(table, idx); err != nil {
		return err
	}
	if err := checkNoIsolates(table); err != nil {
		return err
	}

	return nil
}

// checkRequiredFields is the Go analogue of the original DataFrame
// "missing required columns" check: since student.Student is a fixed
// struct, every column structurally exists, so the check instead verifies
// that the per-row values required to classify the student (name, gender,
// academic grade, behavioral grade) are actually populated with one of the
// declared enumeration values. A record with an empty name or an
// unrecognized gender/grade is, for validation purposes, "missing" the
// field the same way an absent DataFrame column would be.
func checkRequiredFields(table student.Table) error {
	for i, s := range table {
		switch {
		case s.Name == "":
			return apitypes.New(apitypes.MissingRequiredFields,
				fmt.Sprintf("row %d is missing a name", i), "row", i, "field", "name")
		case !s.Gender.Valid():
			return apitypes.New(apitypes.MissingRequiredFields,
				fmt.Sprintf("student %q has an invalid or missing gender", s.Name),
				"studentName", s.Name, "field", "gender")
		case !s.Academic.Valid():
			return apitypes.New(apitypes.MissingRequiredFields,
				fmt.Sprintf("student %q has an invalid or missing academic grade", s.Name),
				"studentName", s.Name, "field", "academicPerformance")
		case !s.Behavioral.Valid():
			return apitypes.New(apitypes.MissingRequiredFields,
				fmt.Sprintf("student %q has an invalid or missing behavioral grade", s.Name),
				"studentName", s.Name, "field", "behavioralPerformance")
		}
	}
	return nil
}

func checkUniqueNames(table student.Table) error {
	seen := make(map[string]bool, len(table))
	var dupes []string
	for _, s := range table {
		if seen[s.Name] {
			dupes = append(dupes, s.Name)
			continue
		}
		seen[s.Name] = true
	}
	if len(dupes) == 0 {
		return nil
	}
	sort.Strings(dupes)
	return apitypes.New(apitypes.DuplicateStudentNames,
		fmt.Sprintf("duplicate student names found: %v", dupes),
		"duplicateNames", dupes)
}

func checkEveryoneHasAFriend(table student.Table) error {
	for _, s := range table {
		if len(s.FriendList()) == 0 {
			return apitypes.New(apitypes.StudentNoFriends,
				fmt.Sprintf("student %q has no friends listed", s.Name),
				"studentName", s.Name)
		}
	}
	return nil
}

func checkFriendsExist(table student.Table, idx map[string]student.Student) error {
	for _, s := range table {
		for _, friend := range s.FriendList() {
			if _, ok := idx[friend]; !ok {
				return apitypes.New(apitypes.UnknownFriend,
					fmt.Sprintf("student %q lists unknown friend %q", s.Name, friend),
					"studentName", s.Name, "friendName", friend)
			}
		}
	}
	return nil
}

// checkNoIsolates rebuilds the friendship graph and rejects any vertex left
// with zero edges. Given the two checks above already passed (every
// student has at least one friend slot, and every named friend exists in
// the table), every friend entry naming another student yields a mirrored
// undirected edge, so after checkFriendsExist succeeds this check fires
// only for a student whose friend entries all name themselves:
// friendgraph.Build drops a self-declared friendship instead of adding a
// loop edge. It is also kept because spec.md §4.2 lists it as an explicit,
// independent check.
func checkNoIsolates(table student.Table) error {
	g, _ := friendgraph.Build(table)
	isolated := g.IsolatedVertices()
	if len(isolated) == 0 {
		return nil
	}
	return apitypes.New(apitypes.IsolatedStudents,
		fmt.Sprintf("students with no valid friendships: %v", isolated),
		"isolatedStudents", isolated)
}
