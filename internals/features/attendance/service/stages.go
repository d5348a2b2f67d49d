package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	offeringModel "campusku_backend/internals/features/academics/class_offerings/model"
	"campusku_backend/internals/features/attendance/dto"
	attendanceModel "campusku_backend/internals/features/attendance/model"
	helper "campusku_backend/internals/helpers"
)

// Aggregations run as select -> join -> group -> derive -> sort.
// select lives in the Repository; the remaining stages are pure.

type studentMark struct {
	SessionID   uuid.UUID
	OfferingID  uuid.UUID
	SubjectName string
	FormType    string
	Present     bool
	SessionDate time.Time
	Position    int
}

// joinStudentMarks attaches session and offering data to a student's entries.
// Entries whose session or offering is gone are dropped.
func joinStudentMarks(
	entries []attendanceModel.ClassAttendanceParticipantModel,
	sessions []attendanceModel.ClassAttendanceSessionModel,
	offerings []offeringModel.ClassOfferingModel,
) []studentMark {
	sessionByID := make(map[uuid.UUID]attendanceModel.ClassAttendanceSessionModel, len(sessions))
	for _, s := range sessions {
		sessionByID[s.ClassAttendanceSessionID] = s
	}
	offeringByID := make(map[uuid.UUID]offeringModel.ClassOfferingModel, len(offerings))
	for _, o := range offerings {
		offeringByID[o.ClassOfferingID] = o
	}

	out := make([]studentMark, 0, len(entries))
	for _, e := range entries {
		s, ok := sessionByID[e.ClassAttendanceParticipantSessionID]
		if !ok {
			continue
		}
		o, ok := offeringByID[s.ClassAttendanceSessionOfferingID]
		if !ok {
			continue
		}
		out = append(out, studentMark{
			SessionID:   s.ClassAttendanceSessionID,
			OfferingID:  o.ClassOfferingID,
			SubjectName: o.ClassOfferingSubjectName,
			FormType:    o.ClassOfferingFormType,
			Present:     e.ClassAttendanceParticipantPresent,
			SessionDate: s.ClassAttendanceSessionDate,
			Position:    e.ClassAttendanceParticipantPosition,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SessionDate.Equal(out[j].SessionDate) {
			return out[i].SessionDate.Before(out[j].SessionDate)
		}
		return out[i].Position < out[j].Position
	})
	return out
}

type subjectGroup struct {
	SubjectName string
	FormType    string
	Total       int
	Present     int
}

// groupBySubject keeps (subject, form type) groups in discovery order.
func groupBySubject(marks []studentMark) []subjectGroup {
	index := map[[2]string]int{}
	var groups []subjectGroup
	for _, m := range marks {
		key := [2]string{m.SubjectName, m.FormType}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, subjectGroup{SubjectName: m.SubjectName, FormType: m.FormType})
		}
		groups[i].Total++
		if m.Present {
			groups[i].Present++
		}
	}
	return groups
}

func deriveSubjectAttendance(groups []subjectGroup) []dto.SubjectAttendance {
	out := make([]dto.SubjectAttendance, 0, len(groups))
	for _, g := range groups {
		if g.Total == 0 {
			continue
		}
		out = append(out, dto.SubjectAttendance{
			SubjectName: g.SubjectName,
			FormType:    g.FormType,
			Total:       g.Total,
			Present:     g.Present,
			Percentage:  helper.Round2(float64(g.Present) / float64(g.Total) * 100),
		})
	}
	return out
}

type offeringTally struct {
	Offering   offeringModel.ClassOfferingModel
	Sessions   int
	Present    int
	RosterSeen int
}

// tallyOfferings joins sessions and entries onto offerings and groups per offering.
func tallyOfferings(
	offerings []offeringModel.ClassOfferingModel,
	sessions []attendanceModel.ClassAttendanceSessionModel,
	entries []attendanceModel.ClassAttendanceParticipantModel,
) []offeringTally {
	tallies := make([]offeringTally, len(offerings))
	pos := make(map[uuid.UUID]int, len(offerings))
	for i, o := range offerings {
		tallies[i].Offering = o
		pos[o.ClassOfferingID] = i
	}

	sessionOffering := make(map[uuid.UUID]int, len(sessions))
	for _, s := range sessions {
		i, ok := pos[s.ClassAttendanceSessionOfferingID]
		if !ok {
			continue
		}
		if _, dup := sessionOffering[s.ClassAttendanceSessionID]; dup {
			continue
		}
		sessionOffering[s.ClassAttendanceSessionID] = i
		tallies[i].Sessions++
	}

	seen := make([]map[uuid.UUID]bool, len(offerings))
	for _, e := range entries {
		i, ok := sessionOffering[e.ClassAttendanceParticipantSessionID]
		if !ok {
			continue
		}
		if seen[i] == nil {
			seen[i] = map[uuid.UUID]bool{}
		}
		seen[i][e.ClassAttendanceParticipantStudentID] = true
		if e.ClassAttendanceParticipantPresent {
			tallies[i].Present++
		}
	}
	for i := range tallies {
		tallies[i].RosterSeen = len(seen[i])
	}
	return tallies
}

// offeringPercentage is present / (sessions * roster) * 100; an empty denominator yields 0.
func offeringPercentage(t offeringTally) float64 {
	denom := t.Sessions * t.RosterSeen
	if denom == 0 {
		return 0
	}
	return helper.Round2(float64(t.Present) / float64(denom) * 100)
}

func deriveOfferingAttendance(tallies []offeringTally) []dto.OfferingAttendance {
	out := make([]dto.OfferingAttendance, 0, len(tallies))
	for _, t := range tallies {
		o := t.Offering
		out = append(out, dto.OfferingAttendance{
			OfferingID:   o.ClassOfferingID,
			SubjectName:  o.ClassOfferingSubjectName,
			FormType:     o.ClassOfferingFormType,
			ClassSection: o.ClassOfferingClassSection,
			Year:         o.ClassOfferingYear,
			Sessions:     t.Sessions,
			Present:      t.Present,
			RosterSeen:   t.RosterSeen,
			Percentage:   offeringPercentage(t),
		})
	}
	return out
}

// sortBySection orders by class section, then subject, then form type.
func sortBySection(list []dto.OfferingAttendance) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.ClassSection != b.ClassSection {
			return a.ClassSection < b.ClassSection
		}
		if a.SubjectName != b.SubjectName {
			return a.SubjectName < b.SubjectName
		}
		return a.FormType < b.FormType
	})
}
