package service

import (
	"context"
	"testing"

	"delaurel.com/schoolportal/internal/dto"
	"delaurel.com/schoolportal/internal/model"
	"delaurel.com/schoolportal/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subjectFixture struct {
	svc      SubjectService
	users    *fakeUserRepo
	subjects *fakeSubjectRepo

	student *model.User
	teacher *model.User
}

func newSubjectFixture() *subjectFixture {
	f := &subjectFixture{
		users:    newFakeUserRepo(),
		subjects: newFakeSubjectRepo(),
	}
	f.student = f.users.add(&model.User{
		Name: "Ada Obi",
		Role: model.RoleStudent,
		StudentProfile: &model.StudentProfile{
			StudentID:  "ST202610001",
			ClassLevel: "SS1",
			Branch:     model.BranchScience,
		},
	})
	f.teacher = f.users.add(&model.User{
		Name: "Mr. Okafor",
		Role: model.RoleTeacher,
	})
	f.svc = NewSubjectService(f.subjects, f.users)
	return f
}

func (f *subjectFixture) addSubject(name, code string, classLevels []string, branch string) *model.Subject {
	return f.subjects.add(&model.Subject{
		Name:        name,
		Code:        code,
		ClassLevels: classLevels,
		Branch:      branch,
		Type:        model.SubjectTypeCore,
		IsActive:    true,
	})
}

func TestAssignTeacherIdempotent(t *testing.T) {
	f := newSubjectFixture()
	ctx := context.Background()
	subject := f.addSubject("Physics", "PHY101", []string{"SS1"}, model.BranchScience)

	already, err := f.svc.AssignTeacher(ctx, subject.ID, f.teacher.ID)
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, 1, f.subjects.addCalls)

	already, err = f.svc.AssignTeacher(ctx, subject.ID, f.teacher.ID)
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, 1, f.subjects.addCalls, "second assignment must not touch the join table")
}

func TestAssignTeacherRejectsNonTeacher(t *testing.T) {
	f := newSubjectFixture()
	subject := f.addSubject("Physics", "PHY101", []string{"SS1"}, model.BranchScience)

	_, err := f.svc.AssignTeacher(context.Background(), subject.ID, f.student.ID)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestAssignTeacherUnknownSubject(t *testing.T) {
	f := newSubjectFixture()

	_, err := f.svc.AssignTeacher(context.Background(), uuid.New(), f.teacher.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAssignSubjectsReplacesSet(t *testing.T) {
	f := newSubjectFixture()
	ctx := context.Background()
	physics := f.addSubject("Physics", "PHY101", []string{"SS1"}, model.BranchScience)
	english := f.addSubject("English", "ENG101", []string{"SS1"}, model.BranchAll)
	old := f.addSubject("Chemistry", "CHM101", []string{"SS1"}, model.BranchScience)
	f.users.giveSubject(f.student.ID, old.ID)

	student, err := f.svc.AssignSubjectsToStudent(ctx, f.student.ID, []uuid.UUID{physics.ID, english.ID})
	require.NoError(t, err)
	require.NotNil(t, student)

	assert.Equal(t, 1, f.users.replaceCalls)
	assert.True(t, f.users.studentSubjects[f.student.ID][physics.ID])
	assert.True(t, f.users.studentSubjects[f.student.ID][english.ID])
	assert.False(t, f.users.studentSubjects[f.student.ID][old.ID], "previous assignment must be replaced")
}

func TestAssignSubjectsAllOrNothing(t *testing.T) {
	f := newSubjectFixture()
	ctx := context.Background()
	physics := f.addSubject("Physics", "PHY101", []string{"SS1"}, model.BranchScience)
	juniorMath := f.addSubject("Basic Maths", "BMA101", []string{"JSS1"}, model.BranchAll)

	_, err := f.svc.AssignSubjectsToStudent(ctx, f.student.ID, []uuid.UUID{physics.ID, juniorMath.ID})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Zero(t, f.users.replaceCalls, "a single invalid subject must leave the assignment untouched")

	_, err = f.svc.AssignSubjectsToStudent(ctx, f.student.ID, []uuid.UUID{physics.ID, uuid.New()})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Zero(t, f.users.replaceCalls)
}

func TestAssignSubjectsBranchMismatch(t *testing.T) {
	f := newSubjectFixture()
	literature := f.addSubject("Literature", "LIT101", []string{"SS1"}, model.BranchArts)

	_, err := f.svc.AssignSubjectsToStudent(context.Background(), f.student.ID, []uuid.UUID{literature.ID})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestAssignSubjectsInactiveSubject(t *testing.T) {
	f := newSubjectFixture()
	retired := f.addSubject("Latin", "LAT101", []string{"SS1"}, model.BranchAll)
	retired.IsActive = false

	_, err := f.svc.AssignSubjectsToStudent(context.Background(), f.student.ID, []uuid.UUID{retired.ID})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreateSubjectNormalizesCode(t *testing.T) {
	f := newSubjectFixture()

	subject, err := f.svc.CreateSubject(context.Background(), dto.CreateSubjectInput{
		Name:        "Further Maths",
		Code:        "fmt201",
		ClassLevels: []string{"SS2"},
	})
	require.NoError(t, err)

	assert.Equal(t, "FMT201", subject.Code)
	assert.Equal(t, model.BranchAll, subject.Branch)
	assert.Equal(t, model.SubjectTypeCore, subject.Type)
	assert.True(t, subject.IsActive)
}

func TestAvailableSubjectsMatchProfile(t *testing.T) {
	f := newSubjectFixture()
	physics := f.addSubject("Physics", "PHY101", []string{"SS1"}, model.BranchScience)
	english := f.addSubject("English", "ENG101", []string{"SS1"}, model.BranchAll)
	f.addSubject("Literature", "LIT101", []string{"SS1"}, model.BranchArts)
	f.addSubject("Basic Maths", "BMA101", []string{"JSS1"}, model.BranchAll)

	available, err := f.svc.AvailableSubjects(context.Background(), f.student.ID)
	require.NoError(t, err)

	ids := map[uuid.UUID]bool{}
	for _, subject := range available {
		ids[subject.ID] = true
	}
	assert.Len(t, available, 2)
	assert.True(t, ids[physics.ID])
	assert.True(t, ids[english.ID])
}
