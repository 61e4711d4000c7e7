package assign

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/brightgrove-schools/classrooms/friendgraph"
	"github.com/brightgrove-schools/classrooms/student"
)

// FriendlessStudent names a student with zero friends in their own class.
type FriendlessStudent struct {
	Student string
	Class   int // 1-indexed, per spec.md §6 output numbering
}

// NotWithViolation names a student sharing a class with someone on their
// forbidden list.
type NotWithViolation struct {
	Student            string
	UnwantedClassmates []string
	Class              int
}

// ClassFriendshipStats is one class's entry in Metrics.FriendshipDistribution.
type ClassFriendshipStats struct {
	Class                   int
	TotalFriendshipsInClass int
	AvgFriendsPerStudent    float64
}

// SizeDistributionEntry is one class's entry in Metrics.SizeDistribution.
type SizeDistributionEntry struct {
	Class int
	Size  int
}

// GenderDistributionEntry is one class's entry in Metrics.GenderDistribution.
type GenderDistributionEntry struct {
	Class             int
	MaleCount         int
	FemaleCount       int
	MaleRatio         float64
	BalanceDeviation  float64
}

// PerformanceDistributionEntry is one class's entry in Metrics.Academic/
// BehavioralDistribution.
type PerformanceDistributionEntry struct {
	Class        int
	AverageScore float64
	Low          int
	Medium       int
	High         int
}

// ClusterReport summarizes how diagnostic cluster labels (student.Student's
// ClusterID) ended up split across classes. Clusters are advisory groupings,
// never a hard constraint on assignment, so a broken cluster is not a
// violation — it is reported for a human reviewer to judge. A cluster
// counts as "broken" once it spans two or more classes and "badly broken"
// once it spans three or more, matching the original cluster-distribution
// diagnostic this engine is grounded on.
type ClusterReport struct {
	TotalClusters       int
	BrokenClusters      int
	BadlyBrokenClusters int
}

// Metrics is the Evaluator's output (spec.md §4.5): hard-violation
// counters, friendship metrics, balance metrics, and the overall 0-100
// quality score. Evaluate is a pure function — it never mutates classes
// and never returns an error; violations are reported as data, never
// raised (spec.md §7 "The Evaluator never raises").
type Metrics struct {
	StudentsWithoutFriends   []FriendlessStudent
	NotWithViolations        []NotWithViolation
	UnassignedStudents       []string
	MultiplyAssignedStudents []string

	FriendshipSatisfactionRate float64
	TotalSatisfiedFriendships  int
	TotalPossibleFriendships   int
	FriendshipDistribution     []ClassFriendshipStats

	SizeVariance      int
	MaxSizeDifference int
	SizeDistribution  []SizeDistributionEntry
	AverageSize       float64

	GenderDistribution     []GenderDistributionEntry
	AverageGenderDeviation float64

	AcademicDistribution     []PerformanceDistributionEntry
	AverageAcademicDeviation float64

	BehavioralDistribution     []PerformanceDistributionEntry
	AverageBehavioralDeviation float64

	Clusters *ClusterReport

	OverallScore float64
}

// Evaluate scores classes against graph and forbidden (spec.md §4.5).
// Running Evaluate twice on the same inputs yields identical metrics
// (spec.md §8 property 5) since it reads only its arguments and allocates
// fresh output on every call.
func Evaluate(g *friendgraph.Graph, forbidden friendgraph.ForbiddenMap, classes Assignment) *Metrics {
	m := &Metrics{}

	allStudents := make(map[string]bool)
	for _, v := range g.Vertices() {
		allStudents[v] = true
	}

	allAssigned := make(map[string]bool, len(allStudents))
	for _, c := range classes {
		for _, s := range c {
			if allAssigned[s] {
				m.MultiplyAssignedStudents = append(m.MultiplyAssignedStudents, s)
			}
			allAssigned[s] = true
		}
	}
	for s := range allStudents {
		if !allAssigned[s] {
			m.UnassignedStudents = append(m.UnassignedStudents, s)
		}
	}
	sort.Strings(m.UnassignedStudents)
	sort.Strings(m.MultiplyAssignedStudents)

	var totalFriendships, satisfiedFriendships int
	sizeInts := make([]int, len(classes))
	clusterClasses := make(map[int]map[int]bool)

	for i, c := range classes {
		classSet := make(map[string]bool, len(c))
		for _, s := range c {
			classSet[s] = true
		}
		sizeInts[i] = len(c)

		names := append([]string(nil), c...)
		sort.Strings(names)

		classFriendships := 0
		for _, s := range names {
			neighbors := g.Neighbors(s)
			friendsInClass := 0
			for _, f := range neighbors {
				if classSet[f] {
					friendsInClass++
				}
			}
			totalFriendships += len(neighbors)
			satisfiedFriendships += friendsInClass
			classFriendships += friendsInClass

			if friendsInClass == 0 {
				m.StudentsWithoutFriends = append(m.StudentsWithoutFriends, FriendlessStudent{s, i + 1})
			}

			if unwanted := presentIn(forbidden.Of(s), classSet); len(unwanted) > 0 {
				m.NotWithViolations = append(m.NotWithViolations, NotWithViolation{s, unwanted, i + 1})
			}

			if st, ok := g.Attrs(s); ok && st.ClusterID != nil {
				if clusterClasses[*st.ClusterID] == nil {
					clusterClasses[*st.ClusterID] = make(map[int]bool)
				}
				clusterClasses[*st.ClusterID][i] = true
			}
		}

		avgFriends := 0.0
		if len(c) > 0 {
			avgFriends = float64(classFriendships) / float64(len(c))
		}
		m.FriendshipDistribution = append(m.FriendshipDistribution,
			ClassFriendshipStats{i + 1, classFriendships / 2, avgFriends})

		if len(c) == 0 {
			continue
		}

		var males int
		academicScores := make([]float64, 0, len(c))
		behavioralScores := make([]float64, 0, len(c))
		for _, s := range names {
			st, _ := g.Attrs(s)
			if st.Gender == student.Male {
				males++
			}
			academicScores = append(academicScores, st.Academic.Score())
			behavioralScores = append(behavioralScores, st.Behavioral.Score())
		}
		total := len(c)
		maleRatio := float64(males) / float64(total)
		m.GenderDistribution = append(m.GenderDistribution, GenderDistributionEntry{
			Class: i + 1, MaleCount: males, FemaleCount: total - males,
			MaleRatio: maleRatio, BalanceDeviation: math.Abs(0.5 - maleRatio),
		})

		academicAvg := stat.Mean(academicScores, nil)
		behavioralAvg := stat.Mean(behavioralScores, nil)
		m.AcademicDistribution = append(m.AcademicDistribution, PerformanceDistributionEntry{
			Class: i + 1, AverageScore: academicAvg,
			Low: countScore(academicScores, 1), Medium: countScore(academicScores, 2), High: countScore(academicScores, 3),
		})
		m.BehavioralDistribution = append(m.BehavioralDistribution, PerformanceDistributionEntry{
			Class: i + 1, AverageScore: behavioralAvg,
			Low: countScore(behavioralScores, 1), Medium: countScore(behavioralScores, 2), High: countScore(behavioralScores, 3),
		})
	}

	if totalFriendships > 0 {
		m.FriendshipSatisfactionRate = float64(satisfiedFriendships) / float64(totalFriendships)
	}
	m.TotalSatisfiedFriendships = satisfiedFriendships
	m.TotalPossibleFriendships = totalFriendships

	if len(sizeInts) > 0 {
		maxS, minS := sizeInts[0], sizeInts[0]
		sizeFloats := make([]float64, len(sizeInts))
		for i, s := range sizeInts {
			if s > maxS {
				maxS = s
			}
			if s < minS {
				minS = s
			}
			sizeFloats[i] = float64(s)
			m.SizeDistribution = append(m.SizeDistribution, SizeDistributionEntry{i + 1, s})
		}
		m.SizeVariance = maxS - minS
		m.MaxSizeDifference = maxS - minS
		m.AverageSize = stat.Mean(sizeFloats, nil)
	}

	if len(m.GenderDistribution) > 0 {
		devs := make([]float64, len(m.GenderDistribution))
		for i, gd := range m.GenderDistribution {
			devs[i] = gd.BalanceDeviation
		}
		m.AverageGenderDeviation = stat.Mean(devs, nil)
	}
	if len(m.AcademicDistribution) > 0 {
		devs := make([]float64, len(m.AcademicDistribution))
		for i, p := range m.AcademicDistribution {
			devs[i] = math.Abs(p.AverageScore - 2.0)
		}
		m.AverageAcademicDeviation = stat.Mean(devs, nil)
	}
	if len(m.BehavioralDistribution) > 0 {
		devs := make([]float64, len(m.BehavioralDistribution))
		for i, p := range m.BehavioralDistribution {
			devs[i] = math.Abs(p.AverageScore - 2.0)
		}
		m.AverageBehavioralDeviation = stat.Mean(devs, nil)
	}

	if len(clusterClasses) > 0 {
		report := &ClusterReport{TotalClusters: len(clusterClasses)}
		for _, spannedClasses := range clusterClasses {
			if len(spannedClasses) > 1 {
				report.BrokenClusters++
			}
			if len(spannedClasses) > 2 {
				report.BadlyBrokenClusters++
			}
		}
		m.Clusters = report
	}

	m.OverallScore = overallScore(m)
	return m
}

// overallScore implements spec.md §4.5's exact additive formula, clamped
// to [0, 100].
func overallScore(m *Metrics) float64 {
	score := 100.0
	score -= float64(len(m.StudentsWithoutFriends)) * 20
	score -= float64(len(m.NotWithViolations)) * 25
	score -= float64(len(m.UnassignedStudents)) * 30
	score -= float64(len(m.MultiplyAssignedStudents)) * 30
	score -= float64(m.SizeVariance) * 2
	score -= m.AverageGenderDeviation * 10
	score -= m.AverageAcademicDeviation * 5
	score -= m.AverageBehavioralDeviation * 5
	score += m.FriendshipSatisfactionRate * 10

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// presentIn returns the sorted subset of names that appear in classSet.
func presentIn(names []string, classSet map[string]bool) []string {
	var out []string
	for _, n := range names {
		if classSet[n] {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func countScore(scores []float64, want float64) int {
	count := 0
	for _, s := range scores {
		if s == want {
			count++
		}
	}
	return count
}
