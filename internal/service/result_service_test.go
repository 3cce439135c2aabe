package service

import (
	"context"
	"testing"

	"delaurel.com/schoolportal/internal/dto"
	"delaurel.com/schoolportal/internal/model"
	"delaurel.com/schoolportal/internal/repository"
	"delaurel.com/schoolportal/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resultFixture struct {
	svc           ResultService
	users         *fakeUserRepo
	subjects      *fakeSubjectRepo
	results       *fakeResultRepo
	mail          *fakeMailer
	notifications *fakeNotificationRepo

	teacher *model.User
	student *model.User
	subject *model.Subject
}

func newResultFixture() *resultFixture {
	f := &resultFixture{
		users:         newFakeUserRepo(),
		subjects:      newFakeSubjectRepo(),
		results:       newFakeResultRepo(),
		mail:          &fakeMailer{},
		notifications: &fakeNotificationRepo{},
	}

	f.teacher = f.users.add(&model.User{
		Name:  "Mr. Okafor",
		Email: "okafor@school.test",
		Role:  model.RoleTeacher,
	})
	f.student = f.users.add(&model.User{
		Name:  "Ada Obi",
		Email: "ada@school.test",
		Role:  model.RoleStudent,
		StudentProfile: &model.StudentProfile{
			StudentID:  "ST202610001",
			ClassLevel: "JSS1",
			Branch:     model.BranchJunior,
		},
	})
	f.subject = f.subjects.add(&model.Subject{
		Name:        "Mathematics",
		Code:        "MTH101",
		ClassLevels: []string{"JSS1"},
		Branch:      model.BranchAll,
		IsActive:    true,
	})
	f.subjects.assign(f.subject.ID, f.teacher.ID)
	f.users.giveSubject(f.student.ID, f.subject.ID)

	notifier := NewNotificationService(f.notifications, nil)
	f.svc = NewResultService(f.results, f.subjects, f.users, f.mail, notifier)
	return f
}

func scorePtr(v float64) *float64 { return &v }

func uploadInput(f *resultFixture, firstCA, secondCA, exam float64) dto.UploadResultInput {
	return dto.UploadResultInput{
		StudentID: f.student.ID,
		SubjectID: f.subject.ID,
		Term:      model.TermFirst,
		Session:   "2025/2026",
		FirstCA:   scorePtr(firstCA),
		SecondCA:  scorePtr(secondCA),
		Exam:      scorePtr(exam),
	}
}

func TestUploadResultCreatesRow(t *testing.T) {
	f := newResultFixture()

	result, created, err := f.svc.UploadResult(context.Background(), f.teacher.ID, uploadInput(f, 15, 8, 50))
	require.NoError(t, err)
	require.True(t, created)

	assert.Equal(t, float64(73), result.Total)
	assert.Equal(t, "A", result.Grade)
	assert.Equal(t, "Excellent", result.Remark)
	assert.Equal(t, model.ResultStatusDraft, result.Status)
	assert.Equal(t, f.teacher.ID, result.UploadedByID)
	assert.Nil(t, result.LastEditedByID)
}

func TestUploadResultUpsertsInPlace(t *testing.T) {
	f := newResultFixture()
	ctx := context.Background()

	first, created, err := f.svc.UploadResult(ctx, f.teacher.ID, uploadInput(f, 10, 5, 30))
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := f.svc.UploadResult(ctx, f.teacher.ID, uploadInput(f, 18, 9, 60))
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, first.ID, second.ID, "second upload must update the same row")
	assert.Equal(t, float64(87), second.Total)
	assert.Equal(t, "A", second.Grade)
	require.NotNil(t, second.LastEditedByID)
	assert.Equal(t, f.teacher.ID, *second.LastEditedByID)
	assert.Len(t, f.results.results, 1)
}

func TestUploadResultUnassignedTeacher(t *testing.T) {
	f := newResultFixture()
	other := f.users.add(&model.User{Name: "Mrs. Bello", Role: model.RoleTeacher})

	_, _, err := f.svc.UploadResult(context.Background(), other.ID, uploadInput(f, 10, 5, 30))
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, f.results.results)
}

func TestUploadResultStudentNotTakingSubject(t *testing.T) {
	f := newResultFixture()
	outsider := f.users.add(&model.User{
		Name: "Chidi Eze",
		Role: model.RoleStudent,
		StudentProfile: &model.StudentProfile{
			StudentID:  "ST202610002",
			ClassLevel: "JSS1",
			Branch:     model.BranchJunior,
		},
	})

	input := uploadInput(f, 10, 5, 30)
	input.StudentID = outsider.ID
	_, _, err := f.svc.UploadResult(context.Background(), f.teacher.ID, input)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUploadResultStudentNotFound(t *testing.T) {
	f := newResultFixture()

	input := uploadInput(f, 10, 5, 30)
	input.StudentID = uuid.New()
	_, _, err := f.svc.UploadResult(context.Background(), f.teacher.ID, input)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestBulkUploadPartialSuccess(t *testing.T) {
	f := newResultFixture()

	codes := []string{"ST202610010", "ST202610011", "ST202610012", "ST202610013"}
	for _, code := range codes {
		student := f.users.add(&model.User{
			Name: "Student " + code,
			Role: model.RoleStudent,
			StudentProfile: &model.StudentProfile{
				StudentID:  code,
				ClassLevel: "JSS1",
				Branch:     model.BranchJunior,
			},
		})
		f.users.giveSubject(student.ID, f.subject.ID)
	}

	items := make([]dto.BulkResultItem, 0, 5)
	for _, code := range codes {
		items = append(items, dto.BulkResultItem{
			StudentID: code,
			FirstCA:   scorePtr(12),
			SecondCA:  scorePtr(6),
			Exam:      scorePtr(40),
		})
	}
	items = append(items, dto.BulkResultItem{
		StudentID: "ST202699999",
		FirstCA:   scorePtr(12),
		SecondCA:  scorePtr(6),
		Exam:      scorePtr(40),
	})

	resp, err := f.svc.BulkUpload(context.Background(), f.teacher.ID, dto.BulkUploadInput{
		SubjectID: f.subject.ID,
		Term:      model.TermFirst,
		Session:   "2025/2026",
		Results:   items,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Uploaded)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "ST202699999", resp.Failures[0].StudentID)
	assert.Equal(t, "student not found", resp.Failures[0].Reason)
	assert.Len(t, f.results.results, 4)
}

func TestSubmitForApprovalOwnDraftsOnly(t *testing.T) {
	f := newResultFixture()
	other := f.users.add(&model.User{Name: "Mrs. Bello", Role: model.RoleTeacher})

	ownDraft := f.results.add(&model.Result{
		StudentID: f.student.ID, SubjectID: f.subject.ID,
		Term: model.TermFirst, Session: "2025/2026",
		Status: model.ResultStatusDraft, UploadedByID: f.teacher.ID,
	})
	ownApproved := f.results.add(&model.Result{
		StudentID: f.student.ID, SubjectID: f.subject.ID,
		Term: model.TermSecond, Session: "2025/2026",
		Status: model.ResultStatusApproved, UploadedByID: f.teacher.ID,
	})
	othersDraft := f.results.add(&model.Result{
		StudentID: f.student.ID, SubjectID: f.subject.ID,
		Term: model.TermThird, Session: "2025/2026",
		Status: model.ResultStatusDraft, UploadedByID: other.ID,
	})

	updated, err := f.svc.SubmitForApproval(context.Background(), f.teacher.ID,
		[]uuid.UUID{ownDraft.ID, ownApproved.ID, othersDraft.ID})
	require.NoError(t, err)

	assert.Equal(t, int64(1), updated)
	assert.Equal(t, model.ResultStatusPending, ownDraft.Status)
	assert.Equal(t, model.ResultStatusApproved, ownApproved.Status)
	assert.Equal(t, model.ResultStatusDraft, othersDraft.Status)
}

func TestSubmitForApprovalResubmitsRejected(t *testing.T) {
	f := newResultFixture()

	rejected := f.results.add(&model.Result{
		StudentID: f.student.ID, SubjectID: f.subject.ID,
		Term: model.TermFirst, Session: "2025/2026",
		Status: model.ResultStatusRejected, UploadedByID: f.teacher.ID,
	})

	updated, err := f.svc.SubmitForApproval(context.Background(), f.teacher.ID, []uuid.UUID{rejected.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)
	assert.Equal(t, model.ResultStatusPending, rejected.Status)
}

func TestSubmitForApprovalNoEligibleRows(t *testing.T) {
	f := newResultFixture()

	approved := f.results.add(&model.Result{
		StudentID: f.student.ID, SubjectID: f.subject.ID,
		Term: model.TermFirst, Session: "2025/2026",
		Status: model.ResultStatusApproved, UploadedByID: f.teacher.ID,
	})

	_, err := f.svc.SubmitForApproval(context.Background(), f.teacher.ID, []uuid.UUID{approved.ID})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestApproveResultsSkipsNonPending(t *testing.T) {
	f := newResultFixture()
	admin := f.users.add(&model.User{Name: "Admin", Role: model.RoleAdmin})

	pending := f.results.add(&model.Result{
		StudentID: f.student.ID, SubjectID: f.subject.ID,
		Term: model.TermFirst, Session: "2025/2026",
		Status: model.ResultStatusPending, UploadedByID: f.teacher.ID,
	})
	draft := f.results.add(&model.Result{
		StudentID: f.student.ID, SubjectID: f.subject.ID,
		Term: model.TermSecond, Session: "2025/2026",
		Status: model.ResultStatusDraft, UploadedByID: f.teacher.ID,
	})

	updated, err := f.svc.ApproveResults(context.Background(), admin.ID, []uuid.UUID{pending.ID, draft.ID})
	require.NoError(t, err)

	assert.Equal(t, int64(1), updated)
	assert.Equal(t, model.ResultStatusApproved, pending.Status)
	require.NotNil(t, pending.ApprovedByID)
	assert.Equal(t, admin.ID, *pending.ApprovedByID)
	assert.Equal(t, model.ResultStatusDraft, draft.Status)
}

func TestRejectResultsNotifiesUploader(t *testing.T) {
	f := newResultFixture()
	admin := f.users.add(&model.User{Name: "Admin", Role: model.RoleAdmin})

	pending := f.results.add(&model.Result{
		StudentID: f.student.ID, SubjectID: f.subject.ID,
		Term: model.TermFirst, Session: "2025/2026",
		Status: model.ResultStatusPending, UploadedByID: f.teacher.ID,
		UploadedBy: f.teacher, Subject: f.subject,
	})

	updated, err := f.svc.RejectResults(context.Background(), admin.ID, []uuid.UUID{pending.ID}, "scores look transposed")
	require.NoError(t, err)

	assert.Equal(t, int64(1), updated)
	assert.Equal(t, model.ResultStatusRejected, pending.Status)
	assert.Equal(t, "scores look transposed", pending.RejectionReason)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, f.teacher.Email, f.mail.sent[0].to)
	require.NotNil(t, f.mail.sent[0].reject)
	assert.Equal(t, "scores look transposed", f.mail.sent[0].reject.Reason)

	require.Len(t, f.notifications.notifications, 1)
	notification := f.notifications.notifications[0]
	assert.Equal(t, f.teacher.ID, notification.UserID)
	assert.Equal(t, model.NotificationResultRejected, notification.Type)
}

func TestRejectResultsNonPendingIsNoop(t *testing.T) {
	f := newResultFixture()
	admin := f.users.add(&model.User{Name: "Admin", Role: model.RoleAdmin})

	draft := f.results.add(&model.Result{
		StudentID: f.student.ID, SubjectID: f.subject.ID,
		Term: model.TermFirst, Session: "2025/2026",
		Status: model.ResultStatusDraft, UploadedByID: f.teacher.ID,
	})

	updated, err := f.svc.RejectResults(context.Background(), admin.ID, []uuid.UUID{draft.ID}, "late")
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)
	assert.Equal(t, model.ResultStatusDraft, draft.Status)
	assert.Empty(t, f.mail.sent)
}

func TestStudentResultsAccess(t *testing.T) {
	f := newResultFixture()
	ctx := context.Background()

	f.results.add(&model.Result{
		StudentID: f.student.ID, SubjectID: f.subject.ID,
		Term: model.TermFirst, Session: "2025/2026",
		Total: 73, Grade: "A", Status: model.ResultStatusApproved,
		UploadedByID: f.teacher.ID,
	})
	filter := repository.ResultFilter{Term: model.TermFirst, Session: "2025/2026"}

	otherStudent := f.users.add(&model.User{Name: "Chidi Eze", Role: model.RoleStudent})
	_, err := f.svc.StudentResults(ctx, otherStudent.ID, model.RoleStudent, f.student.ID, filter)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	parent := f.users.add(&model.User{Name: "Mrs. Obi", Role: model.RoleParent})
	_, err = f.svc.StudentResults(ctx, parent.ID, model.RoleParent, f.student.ID, filter)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, f.users.LinkChild(ctx, parent.ID, f.student.ID))
	resp, err := f.svc.StudentResults(ctx, parent.ID, model.RoleParent, f.student.ID, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.NumberOfSubjects)
	assert.Equal(t, float64(73), resp.Summary.TotalScore)
	assert.Equal(t, float64(73), resp.Summary.AverageScore)
	assert.Equal(t, 100, resp.Summary.MaxPossible)

	resp, err = f.svc.StudentResults(ctx, f.student.ID, model.RoleStudent, f.student.ID, filter)
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

func TestStudentResultsEmptyLedger(t *testing.T) {
	f := newResultFixture()

	_, err := f.svc.StudentResults(context.Background(), f.student.ID, model.RoleStudent, f.student.ID, repository.ResultFilter{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteResultOwnership(t *testing.T) {
	f := newResultFixture()
	ctx := context.Background()
	other := f.users.add(&model.User{Name: "Mrs. Bello", Role: model.RoleTeacher})

	result := f.results.add(&model.Result{
		StudentID: f.student.ID, SubjectID: f.subject.ID,
		Term: model.TermFirst, Session: "2025/2026",
		Status: model.ResultStatusDraft, UploadedByID: f.teacher.ID,
	})

	err := f.svc.DeleteResult(ctx, other.ID, model.RoleTeacher, result.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, f.svc.DeleteResult(ctx, f.teacher.ID, model.RoleTeacher, result.ID))
	assert.Empty(t, f.results.results)
}

func TestDeleteResultAdminOverride(t *testing.T) {
	f := newResultFixture()
	ctx := context.Background()
	admin := f.users.add(&model.User{Name: "Dr. Adenuga", Role: model.RoleProprietress})

	result := f.results.add(&model.Result{
		StudentID: f.student.ID, SubjectID: f.subject.ID,
		Term: model.TermFirst, Session: "2025/2026",
		Status: model.ResultStatusDraft, UploadedByID: f.teacher.ID,
	})

	// Admin roles may delete rows uploaded by anyone.
	require.NoError(t, f.svc.DeleteResult(ctx, admin.ID, model.RoleProprietress, result.ID))
	assert.Empty(t, f.results.results)
}
