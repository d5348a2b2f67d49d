package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"campusku_backend/internals/constants"
	offeringModel "campusku_backend/internals/features/academics/class_offerings/model"
	"campusku_backend/internals/features/attendance/dto"
	attendanceModel "campusku_backend/internals/features/attendance/model"
	studentModel "campusku_backend/internals/features/users/user_students/model"
	"campusku_backend/internals/helpers/apperr"
)

// Repository is the select stage of every aggregation plus the session write path.
// Missing single records are reported as apperr NotFound.
type Repository interface {
	GetStudent(ctx context.Context, id uuid.UUID) (*studentModel.UserStudentModel, error)
	GetOffering(ctx context.Context, id uuid.UUID) (*offeringModel.ClassOfferingModel, error)
	DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error)

	ParticipantsByStudent(ctx context.Context, studentID uuid.UUID) ([]attendanceModel.ClassAttendanceParticipantModel, error)
	ParticipantsBySessions(ctx context.Context, sessionIDs []uuid.UUID) ([]attendanceModel.ClassAttendanceParticipantModel, error)
	SessionsByIDs(ctx context.Context, ids []uuid.UUID) ([]attendanceModel.ClassAttendanceSessionModel, error)
	SessionsByOfferings(ctx context.Context, offeringIDs []uuid.UUID) ([]attendanceModel.ClassAttendanceSessionModel, error)
	OfferingsByIDs(ctx context.Context, ids []uuid.UUID) ([]offeringModel.ClassOfferingModel, error)
	OfferingsByDepartment(ctx context.Context, departmentID uuid.UUID) ([]offeringModel.ClassOfferingModel, error)

	// StudentsBySection returns students of one stored section ordered by roll number.
	StudentsBySection(ctx context.Context, departmentID uuid.UUID, year, section string) ([]studentModel.UserStudentModel, error)
	CountStudentsInDepartment(ctx context.Context, departmentID uuid.UUID, ids []uuid.UUID) (int64, error)

	CreateSession(ctx context.Context, session *attendanceModel.ClassAttendanceSessionModel, entries []attendanceModel.ClassAttendanceParticipantModel) error
}

type Service struct {
	repo  Repository
	cache *cache.Cache
	split BatchSplit
	now   func() time.Time
}

// NewSummaryCache returns nil for a zero ttl, which disables caching.
func NewSummaryCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		return nil
	}
	return cache.New(ttl, 2*ttl)
}

// New builds the aggregator. A cacheTTL of zero disables the read cache.
func New(repo Repository, split BatchSplit, cacheTTL time.Duration) *Service {
	return NewWithCache(repo, split, NewSummaryCache(cacheTTL))
}

// NewWithCache shares c with other writers that need to evict summaries.
// A nil c disables the read cache.
func NewWithCache(repo Repository, split BatchSplit, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c, split: split, now: time.Now}
}

func (s *Service) cached(key string) (any, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *Service) remember(key string, v any) {
	if s.cache != nil {
		s.cache.Set(key, v, cache.DefaultExpiration)
	}
}

func (s *Service) forget(keys ...string) {
	if s.cache == nil {
		return
	}
	for _, k := range keys {
		s.cache.Delete(k)
	}
}

// cloneStudent and cloneOfferings keep callers off the cached backing arrays.
func cloneStudent(v *dto.StudentAttendance) *dto.StudentAttendance {
	out := *v
	out.Subjects = append([]dto.SubjectAttendance(nil), v.Subjects...)
	return &out
}

func cloneOfferings(v []dto.OfferingAttendance) []dto.OfferingAttendance {
	return append(make([]dto.OfferingAttendance, 0, len(v)), v...)
}

func uniqueIDs[T any](rows []T, id func(T) uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, r := range rows {
		v := id(r)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

/* ========================= per student ========================= */

func (s *Service) StudentSummary(ctx context.Context, studentID uuid.UUID) (*dto.StudentAttendance, error) {
	key := "student:" + studentID.String()
	if v, ok := s.cached(key); ok {
		return cloneStudent(v.(*dto.StudentAttendance)), nil
	}

	if _, err := s.repo.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}

	// select
	entries, err := s.repo.ParticipantsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	sessionIDs := uniqueIDs(entries, func(e attendanceModel.ClassAttendanceParticipantModel) uuid.UUID {
		return e.ClassAttendanceParticipantSessionID
	})
	var sessions []attendanceModel.ClassAttendanceSessionModel
	var offerings []offeringModel.ClassOfferingModel
	if len(sessionIDs) > 0 {
		if sessions, err = s.repo.SessionsByIDs(ctx, sessionIDs); err != nil {
			return nil, err
		}
		offeringIDs := uniqueIDs(sessions, func(x attendanceModel.ClassAttendanceSessionModel) uuid.UUID {
			return x.ClassAttendanceSessionOfferingID
		})
		if offerings, err = s.repo.OfferingsByIDs(ctx, offeringIDs); err != nil {
			return nil, err
		}
	}

	// join -> group -> derive
	marks := joinStudentMarks(entries, sessions, offerings)
	out := &dto.StudentAttendance{
		StudentID: studentID,
		Subjects:  deriveSubjectAttendance(groupBySubject(marks)),
	}
	s.remember(key, cloneStudent(out))
	return out, nil
}

/* ========================= per offering ========================= */

func (s *Service) summarize(ctx context.Context, offerings []offeringModel.ClassOfferingModel) ([]dto.OfferingAttendance, error) {
	if len(offerings) == 0 {
		return []dto.OfferingAttendance{}, nil
	}
	ids := uniqueIDs(offerings, func(o offeringModel.ClassOfferingModel) uuid.UUID { return o.ClassOfferingID })

	sessions, err := s.repo.SessionsByOfferings(ctx, ids)
	if err != nil {
		return nil, err
	}
	var entries []attendanceModel.ClassAttendanceParticipantModel
	if len(sessions) > 0 {
		sessionIDs := uniqueIDs(sessions, func(x attendanceModel.ClassAttendanceSessionModel) uuid.UUID {
			return x.ClassAttendanceSessionID
		})
		if entries, err = s.repo.ParticipantsBySessions(ctx, sessionIDs); err != nil {
			return nil, err
		}
	}
	return deriveOfferingAttendance(tallyOfferings(offerings, sessions, entries)), nil
}

func (s *Service) OfferingSummary(ctx context.Context, offeringID uuid.UUID) (*dto.OfferingAttendance, error) {
	key := "offering:" + offeringID.String()
	if v, ok := s.cached(key); ok {
		o := v.(dto.OfferingAttendance)
		return &o, nil
	}

	o, err := s.repo.GetOffering(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	list, err := s.summarize(ctx, []offeringModel.ClassOfferingModel{*o})
	if err != nil {
		return nil, err
	}
	s.remember(key, list[0])
	out := list[0]
	return &out, nil
}

// DepartmentSummaries lists every offering of the department ordered by class section.
func (s *Service) DepartmentSummaries(ctx context.Context, departmentID uuid.UUID) ([]dto.OfferingAttendance, error) {
	key := "department:" + departmentID.String()
	if v, ok := s.cached(key); ok {
		return cloneOfferings(v.([]dto.OfferingAttendance)), nil
	}

	ok, err := s.repo.DepartmentExists(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("department not found")
	}

	offerings, err := s.repo.OfferingsByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	list, err := s.summarize(ctx, offerings)
	if err != nil {
		return nil, err
	}
	sortBySection(list)
	s.remember(key, cloneOfferings(list))
	return list, nil
}

/* ========================= class roster ========================= */

// ClassRoster resolves a section label to students. Labels like "A1" select
// batch 1 of section A by roll number.
func (s *Service) ClassRoster(ctx context.Context, departmentID uuid.UUID, section, year string) (*dto.ClassRosterResponse, error) {
	switch year {
	case constants.YearFirst, constants.YearSecond, constants.YearThird, constants.YearFinal:
	default:
		return nil, apperr.Input("year must be one of FY, SY, TY, BY")
	}
	sel := selectRoster(section)
	if sel.Section == "" {
		return nil, apperr.Input("section is required")
	}

	ok, err := s.repo.DepartmentExists(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("department not found")
	}

	students, err := s.repo.StudentsBySection(ctx, departmentID, year, sel.Section)
	if err != nil {
		return nil, err
	}

	out := &dto.ClassRosterResponse{Section: sel.Section, Year: year, Batch: sel.Batch, Students: []dto.RosterEntry{}}
	for _, st := range students {
		batch := 0
		if sel.Batch > 0 {
			batch = s.split.BatchOf(st.UserStudentRollNo, year)
			if batch != sel.Batch {
				continue
			}
		}
		out.Students = append(out.Students, dto.RosterEntry{
			StudentID:    st.UserStudentID,
			FullName:     st.UserStudentFullName,
			RollNo:       st.UserStudentRollNo,
			ClassSection: st.UserStudentClassSection,
			Batch:        batch,
		})
	}
	return out, nil
}

/* ========================= session write path ========================= */

func (s *Service) CreateSession(ctx context.Context, offeringID uuid.UUID, req dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	if len(req.Entries) == 0 {
		return nil, apperr.Input("entries are required")
	}
	o, err := s.repo.GetOffering(ctx, offeringID)
	if err != nil {
		return nil, err
	}

	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0, len(req.Entries))
	var rowErrs []apperr.RowError
	for i, e := range req.Entries {
		if seen[e.StudentID] {
			rowErrs = append(rowErrs, apperr.RowError{Roster: "entries", Row: i, Reason: "student listed twice"})
			continue
		}
		seen[e.StudentID] = true
		ids = append(ids, e.StudentID)
	}
	if len(rowErrs) > 0 {
		return nil, apperr.Input("duplicate students in session", rowErrs...)
	}

	n, err := s.repo.CountStudentsInDepartment(ctx, o.ClassOfferingDepartmentID, ids)
	if err != nil {
		return nil, err
	}
	if int(n) != len(ids) {
		return nil, apperr.Input("every student must belong to the offering's department")
	}

	date := s.now()
	if req.SessionDate != nil && !req.SessionDate.IsZero() {
		date = *req.SessionDate
	}
	session := &attendanceModel.ClassAttendanceSessionModel{
		ClassAttendanceSessionID:         uuid.New(),
		ClassAttendanceSessionOfferingID: offeringID,
		ClassAttendanceSessionDate:       date,
	}
	entries := make([]attendanceModel.ClassAttendanceParticipantModel, len(req.Entries))
	present := 0
	for i, e := range req.Entries {
		entries[i] = attendanceModel.ClassAttendanceParticipantModel{
			ClassAttendanceParticipantID:        uuid.New(),
			ClassAttendanceParticipantSessionID: session.ClassAttendanceSessionID,
			ClassAttendanceParticipantStudentID: e.StudentID,
			ClassAttendanceParticipantPresent:   e.Present,
			ClassAttendanceParticipantPosition:  i,
		}
		if e.Present {
			present++
		}
	}

	if err := s.repo.CreateSession(ctx, session, entries); err != nil {
		return nil, err
	}

	keys := []string{"offering:" + offeringID.String(), "department:" + o.ClassOfferingDepartmentID.String()}
	for _, id := range ids {
		keys = append(keys, "student:"+id.String())
	}
	s.forget(keys...)

	log.Printf("[ATTENDANCE] session=%s offering=%s date=%s entries=%d present=%d",
		session.ClassAttendanceSessionID, offeringID, date.Format(time.RFC3339), len(entries), present)

	return &dto.SessionResponse{
		SessionID:   session.ClassAttendanceSessionID,
		OfferingID:  offeringID,
		SessionDate: date,
		Entries:     len(entries),
		Present:     present,
	}, nil
}
