package roster

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brightgrove-schools/classrooms/apitypes"
	"github.com/brightgrove-schools/classrooms/student"
)

// SaveYAML writes table to path as a sequence of apitypes.StudentRecord,
// the same wire shape the request layer round-trips. Fixtures saved this
// way are reloaded with LoadYAML, giving tests a way to pin a generated
// roster to disk without hand-writing one.
func SaveYAML(path string, table student.Table) error {
	records := toRecords(table)
	out, err := yaml.Marshal(records)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// LoadYAML reads a roster previously written by SaveYAML.
func LoadYAML(path string) (student.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []apitypes.StudentRecord
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return fromRecords(records), nil
}

func toRecords(table student.Table) []apitypes.StudentRecord {
	out := make([]apitypes.StudentRecord, len(table))
	for i, s := range table {
		var notWith string
		if len(s.NotWith) > 0 {
			notWith = s.NotWith[0]
			for _, n := range s.NotWith[1:] {
				notWith += "," + n
			}
		}
		out[i] = apitypes.StudentRecord{
			Name:                  s.Name,
			School:                s.School,
			Gender:                string(s.Gender),
			AcademicPerformance:   string(s.Academic),
			BehavioralPerformance: string(s.Behavioral),
			Comments:              s.Comments,
			Friend1:               s.Friends[0],
			Friend2:               s.Friends[1],
			Friend3:               s.Friends[2],
			Friend4:               s.Friends[3],
			NotWith:               notWith,
			ClusterID:             s.ClusterID,
		}
	}
	return out
}

func fromRecords(records []apitypes.StudentRecord) student.Table {
	table := make(student.Table, len(records))
	for i, r := range records {
		var notWith []string
		if r.NotWith != "" {
			for _, n := range strings.Split(r.NotWith, ",") {
				if n = strings.TrimSpace(n); n != "" {
					notWith = append(notWith, n)
				}
			}
		}
		table[i] = student.Student{
			Name:       r.Name,
			Gender:     student.Gender(r.Gender),
			Academic:   student.Grade(r.AcademicPerformance),
			Behavioral: student.Grade(r.BehavioralPerformance),
			Friends:    [4]string{r.Friend1, r.Friend2, r.Friend3, r.Friend4},
			NotWith:    notWith,
			ClusterID:  r.ClusterID,
			School:     r.School,
			Comments:   r.Comments,
		}
	}
	return table
}
