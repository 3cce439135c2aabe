package service

import (
	"context"
	"io"
	"sort"

	"delaurel.com/schoolportal/internal/model"
	"delaurel.com/schoolportal/internal/repository"
	"delaurel.com/schoolportal/pkg/mailer"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users           map[uuid.UUID]*model.User
	studentSubjects map[uuid.UUID]map[uuid.UUID]bool // student -> subject set
	parentChildren  map[uuid.UUID]map[uuid.UUID]bool // parent -> child set
	replaceCalls    int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:           map[uuid.UUID]*model.User{},
		studentSubjects: map[uuid.UUID]map[uuid.UUID]bool{},
		parentChildren:  map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeUserRepo) add(u *model.User) *model.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserRepo) giveSubject(studentID, subjectID uuid.UUID) {
	if f.studentSubjects[studentID] == nil {
		f.studentSubjects[studentID] = map[uuid.UUID]bool{}
	}
	f.studentSubjects[studentID][subjectID] = true
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.add(user)
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.IsBanned = banned
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) FindStudents(ctx context.Context, filter repository.StudentFilter) ([]*model.User, error) {
	var out []*model.User
	for _, user := range f.users {
		if user.Role != model.RoleStudent || user.StudentProfile == nil {
			continue
		}
		if filter.ClassLevel != "" && user.StudentProfile.ClassLevel != filter.ClassLevel {
			continue
		}
		if filter.Branch != "" && user.StudentProfile.Branch != filter.Branch {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserRepo) FindStudentsBySubject(ctx context.Context, subjectID uuid.UUID) ([]*model.User, error) {
	var out []*model.User
	for studentID, subjects := range f.studentSubjects {
		if subjects[subjectID] {
			if user, ok := f.users[studentID]; ok {
				out = append(out, user)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeUserRepo) CountStudentsBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	students, _ := f.FindStudentsBySubject(ctx, subjectID)
	return int64(len(students)), nil
}

func (f *fakeUserRepo) CountStudentsBySubjects(ctx context.Context, subjectIDs []uuid.UUID) (int64, error) {
	seen := map[uuid.UUID]bool{}
	for _, subjectID := range subjectIDs {
		for studentID, subjects := range f.studentSubjects {
			if subjects[subjectID] {
				seen[studentID] = true
			}
		}
	}
	return int64(len(seen)), nil
}

func (f *fakeUserRepo) StudentHasSubject(ctx context.Context, studentUserID, subjectID uuid.UUID) (bool, error) {
	return f.studentSubjects[studentUserID][subjectID], nil
}

func (f *fakeUserRepo) ReplaceStudentSubjects(ctx context.Context, studentUserID uuid.UUID, subjects []model.Subject) error {
	f.replaceCalls++
	set := map[uuid.UUID]bool{}
	for _, subject := range subjects {
		set[subject.ID] = true
	}
	f.studentSubjects[studentUserID] = set
	return nil
}

func (f *fakeUserRepo) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	_, err := f.FindStudentByStudentID(ctx, studentID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeUserRepo) FindStudentByStudentID(ctx context.Context, studentID string) (*model.User, error) {
	for _, user := range f.users {
		if user.StudentProfile != nil && user.StudentProfile.StudentID == studentID {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) LinkChild(ctx context.Context, parentID, childID uuid.UUID) error {
	if f.parentChildren[parentID] == nil {
		f.parentChildren[parentID] = map[uuid.UUID]bool{}
	}
	f.parentChildren[parentID][childID] = true
	return nil
}

func (f *fakeUserRepo) UnlinkChild(ctx context.Context, parentID, childID uuid.UUID) error {
	delete(f.parentChildren[parentID], childID)
	return nil
}

func (f *fakeUserRepo) IsParentOfChild(ctx context.Context, parentID, childID uuid.UUID) (bool, error) {
	return f.parentChildren[parentID][childID], nil
}

func (f *fakeUserRepo) FindChildren(ctx context.Context, parentID uuid.UUID) ([]*model.User, error) {
	var out []*model.User
	for childID := range f.parentChildren[parentID] {
		if user, ok := f.users[childID]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) FindParentsOfStudent(ctx context.Context, studentID uuid.UUID) ([]*model.User, error) {
	var out []*model.User
	for parentID, children := range f.parentChildren {
		if children[studentID] {
			if user, ok := f.users[parentID]; ok {
				out = append(out, user)
			}
		}
	}
	return out, nil
}

type fakeSpecRepo struct {
	specs map[uuid.UUID]*model.Specialization
}

func newFakeSpecRepo() *fakeSpecRepo {
	return &fakeSpecRepo{specs: map[uuid.UUID]*model.Specialization{}}
}

func (f *fakeSpecRepo) Create(ctx context.Context, spec *model.Specialization) error {
	if spec.ID == uuid.Nil {
		spec.ID = uuid.New()
	}
	f.specs[spec.ID] = spec
	return nil
}

func (f *fakeSpecRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Specialization, error) {
	spec, ok := f.specs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return spec, nil
}

func (f *fakeSpecRepo) FindAll(ctx context.Context) ([]model.Specialization, error) {
	var out []model.Specialization
	for _, spec := range f.specs {
		out = append(out, *spec)
	}
	return out, nil
}

func (f *fakeSpecRepo) Update(ctx context.Context, spec *model.Specialization) error {
	f.specs[spec.ID] = spec
	return nil
}

func (f *fakeSpecRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.specs, id)
	return nil
}

func (f *fakeSpecRepo) CountTeachers(ctx context.Context, id uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeSubjectRepo struct {
	subjects map[uuid.UUID]*model.Subject
	teachers map[uuid.UUID]map[uuid.UUID]bool // subject -> teacher set
	addCalls int
}

func newFakeSubjectRepo() *fakeSubjectRepo {
	return &fakeSubjectRepo{
		subjects: map[uuid.UUID]*model.Subject{},
		teachers: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeSubjectRepo) add(s *model.Subject) *model.Subject {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.subjects[s.ID] = s
	return s
}

func (f *fakeSubjectRepo) assign(subjectID, teacherID uuid.UUID) {
	if f.teachers[subjectID] == nil {
		f.teachers[subjectID] = map[uuid.UUID]bool{}
	}
	f.teachers[subjectID][teacherID] = true
}

func (f *fakeSubjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	f.add(subject)
	return nil
}

func (f *fakeSubjectRepo) Save(ctx context.Context, subject *model.Subject) error {
	f.subjects[subject.ID] = subject
	return nil
}

func (f *fakeSubjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	subject, ok := f.subjects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return subject, nil
}

func (f *fakeSubjectRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Subject, error) {
	var out []model.Subject
	for _, id := range ids {
		if subject, ok := f.subjects[id]; ok {
			out = append(out, *subject)
		}
	}
	return out, nil
}

func (f *fakeSubjectRepo) FindAll(ctx context.Context, filter repository.SubjectFilter) ([]model.Subject, error) {
	var out []model.Subject
	for _, subject := range f.subjects {
		if !subject.IsActive {
			continue
		}
		if filter.Branch != "" && subject.Branch != filter.Branch && subject.Branch != model.BranchAll {
			continue
		}
		if filter.ClassLevel != "" && !subject.OffersClassLevel(filter.ClassLevel) {
			continue
		}
		out = append(out, *subject)
	}
	return out, nil
}

func (f *fakeSubjectRepo) FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Subject, error) {
	var out []model.Subject
	for subjectID, teachers := range f.teachers {
		if teachers[teacherID] {
			if subject, ok := f.subjects[subjectID]; ok {
				out = append(out, *subject)
			}
		}
	}
	return out, nil
}

func (f *fakeSubjectRepo) AddTeacher(ctx context.Context, subjectID, teacherID uuid.UUID) error {
	f.addCalls++
	f.assign(subjectID, teacherID)
	return nil
}

func (f *fakeSubjectRepo) TeacherAssigned(ctx context.Context, subjectID, teacherID uuid.UUID) (bool, error) {
	return f.teachers[subjectID][teacherID], nil
}

type fakeResultRepo struct {
	results map[uuid.UUID]*model.Result
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: map[uuid.UUID]*model.Result{}}
}

func (f *fakeResultRepo) add(r *model.Result) *model.Result {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = model.ResultStatusDraft
	}
	f.results[r.ID] = r
	return r
}

func (f *fakeResultRepo) Create(ctx context.Context, result *model.Result) error {
	f.add(result)
	return nil
}

func (f *fakeResultRepo) Save(ctx context.Context, result *model.Result) error {
	f.results[result.ID] = result
	return nil
}

func (f *fakeResultRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.results, id)
	return nil
}

func (f *fakeResultRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Result, error) {
	result, ok := f.results[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return result, nil
}

func (f *fakeResultRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Result, error) {
	var out []model.Result
	for _, id := range ids {
		if result, ok := f.results[id]; ok {
			out = append(out, *result)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) FindByTuple(ctx context.Context, studentID, subjectID uuid.UUID, term, session string) (*model.Result, error) {
	for _, result := range f.results {
		if result.StudentID == studentID && result.SubjectID == subjectID &&
			result.Term == term && result.Session == session {
			return result, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResultRepo) FindByStudent(ctx context.Context, studentID uuid.UUID, filter repository.ResultFilter) ([]model.Result, error) {
	var out []model.Result
	for _, result := range f.results {
		if result.StudentID != studentID {
			continue
		}
		if filter.Term != "" && result.Term != filter.Term {
			continue
		}
		if filter.Session != "" && result.Session != filter.Session {
			continue
		}
		if filter.Status != "" && result.Status != filter.Status {
			continue
		}
		if filter.SubjectID != uuid.Nil && result.SubjectID != filter.SubjectID {
			continue
		}
		out = append(out, *result)
	}
	return out, nil
}

func (f *fakeResultRepo) FindBySubjectPeriod(ctx context.Context, subjectID uuid.UUID, term, session string, studentIDs []uuid.UUID) ([]model.Result, error) {
	allowed := map[uuid.UUID]bool{}
	for _, id := range studentIDs {
		allowed[id] = true
	}
	var out []model.Result
	for _, result := range f.results {
		if result.SubjectID != subjectID || result.Term != term || result.Session != session {
			continue
		}
		if len(studentIDs) > 0 && !allowed[result.StudentID] {
			continue
		}
		out = append(out, *result)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

func (f *fakeResultRepo) FindPending(ctx context.Context, term, session string) ([]model.Result, error) {
	var out []model.Result
	for _, result := range f.results {
		if result.Status != model.ResultStatusPending {
			continue
		}
		if term != "" && result.Term != term {
			continue
		}
		if session != "" && result.Session != session {
			continue
		}
		out = append(out, *result)
	}
	return out, nil
}

func (f *fakeResultRepo) FindByUploader(ctx context.Context, uploaderID uuid.UUID, filter repository.ResultFilter) ([]model.Result, error) {
	var out []model.Result
	for _, result := range f.results {
		if result.UploadedByID != uploaderID {
			continue
		}
		if filter.Term != "" && result.Term != filter.Term {
			continue
		}
		if filter.Session != "" && result.Session != filter.Session {
			continue
		}
		if filter.Status != "" && result.Status != filter.Status {
			continue
		}
		if filter.SubjectID != uuid.Nil && result.SubjectID != filter.SubjectID {
			continue
		}
		out = append(out, *result)
	}
	return out, nil
}

func (f *fakeResultRepo) CountByUploader(ctx context.Context, uploaderID uuid.UUID, filter repository.ResultFilter) (int64, error) {
	results, _ := f.FindByUploader(ctx, uploaderID, filter)
	return int64(len(results)), nil
}

func (f *fakeResultRepo) UpdateStatusByIDs(ctx context.Context, ids []uuid.UUID, uploaderID *uuid.UUID, fromStatuses []string, updates map[string]interface{}) (int64, error) {
	from := map[string]bool{}
	for _, status := range fromStatuses {
		from[status] = true
	}

	var count int64
	for _, id := range ids {
		result, ok := f.results[id]
		if !ok {
			continue
		}
		if uploaderID != nil && result.UploadedByID != *uploaderID {
			continue
		}
		if len(from) > 0 && !from[result.Status] {
			continue
		}
		if status, ok := updates["status"].(string); ok {
			result.Status = status
		}
		if reason, ok := updates["rejection_reason"].(string); ok {
			result.RejectionReason = reason
		}
		if approver, ok := updates["approved_by_id"].(uuid.UUID); ok {
			result.ApprovedByID = &approver
		}
		count++
	}
	return count, nil
}

type fakeCardRepo struct {
	cards map[uuid.UUID]*model.ReportCard
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: map[uuid.UUID]*model.ReportCard{}}
}

func (f *fakeCardRepo) add(c *model.ReportCard) *model.ReportCard {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = model.ReportCardStatusDraft
	}
	f.cards[c.ID] = c
	return c
}

func (f *fakeCardRepo) Create(ctx context.Context, card *model.ReportCard) error {
	f.add(card)
	return nil
}

func (f *fakeCardRepo) Save(ctx context.Context, card *model.ReportCard) error {
	f.cards[card.ID] = card
	return nil
}

func (f *fakeCardRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ReportCard, error) {
	card, ok := f.cards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return card, nil
}

func (f *fakeCardRepo) FindByTuple(ctx context.Context, studentID uuid.UUID, term, session string) (*model.ReportCard, error) {
	for _, card := range f.cards {
		if card.StudentID == studentID && card.Term == term && card.Session == session {
			return card, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCardRepo) FindPublishedByTuple(ctx context.Context, studentID uuid.UUID, term, session string) (*model.ReportCard, error) {
	card, err := f.FindByTuple(ctx, studentID, term, session)
	if err != nil {
		return nil, err
	}
	if card.Status != model.ReportCardStatusPublished {
		return nil, gorm.ErrRecordNotFound
	}
	return card, nil
}

func (f *fakeCardRepo) FindForReview(ctx context.Context, filter repository.ReportCardFilter) ([]model.ReportCard, error) {
	var out []model.ReportCard
	for _, card := range f.cards {
		if card.Term != filter.Term || card.Session != filter.Session {
			continue
		}
		if filter.Status != "" && card.Status != filter.Status {
			continue
		}
		out = append(out, *card)
	}
	return out, nil
}

func (f *fakeCardRepo) ReplaceResults(ctx context.Context, card *model.ReportCard, results []model.Result) error {
	card.Results = results
	f.cards[card.ID] = card
	return nil
}

type fakeNotificationRepo struct {
	notifications []*model.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *model.Notification) error {
	f.notifications = append(f.notifications, notification)
	return nil
}

func (f *fakeNotificationRepo) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	var out []model.Notification
	for _, notification := range f.notifications {
		if notification.UserID == userID {
			out = append(out, *notification)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, notification := range f.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

type sentMail struct {
	to     string
	report *mailer.ReportCardNotice
	reject *mailer.RejectionNotice
}

type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

func (f *fakeMailer) SendReportCardNotice(toEmail string, notice mailer.ReportCardNotice) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: toEmail, report: &notice})
	return nil
}

func (f *fakeMailer) SendRejectionNotice(toEmail string, notice mailer.RejectionNotice) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: toEmail, reject: &notice})
	return nil
}

type fakeFileStorage struct {
	uploads   []string
	uploadErr error
}

func (f *fakeFileStorage) UploadFile(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	url := "https://files.test/" + folder + "/" + fileName + ".pdf"
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeFileStorage) DeleteFile(ctx context.Context, publicID string) error { return nil }
