package repository

import (
	"context"

	"delaurel.com/schoolportal/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentFilter struct {
	ClassLevel string
	Branch     string
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	FindStudents(ctx context.Context, filter StudentFilter) ([]*model.User, error)
	FindStudentsBySubject(ctx context.Context, subjectID uuid.UUID) ([]*model.User, error)
	CountStudentsBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error)
	CountStudentsBySubjects(ctx context.Context, subjectIDs []uuid.UUID) (int64, error)
	StudentHasSubject(ctx context.Context, studentUserID, subjectID uuid.UUID) (bool, error)
	ReplaceStudentSubjects(ctx context.Context, studentUserID uuid.UUID, subjects []model.Subject) error
	StudentIDExists(ctx context.Context, studentID string) (bool, error)
	FindStudentByStudentID(ctx context.Context, studentID string) (*model.User, error)

	LinkChild(ctx context.Context, parentID, childID uuid.UUID) error
	UnlinkChild(ctx context.Context, parentID, childID uuid.UUID) error
	IsParentOfChild(ctx context.Context, parentID, childID uuid.UUID) (bool, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]*model.User, error)
	FindParentsOfStudent(ctx context.Context, studentID uuid.UUID) ([]*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("StudentProfile").
		Preload("StudentProfile.Subjects").
		Preload("TeacherProfile").
		Preload("TeacherProfile.Specialization").
		Preload("Children").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("StudentProfile").
		Preload("TeacherProfile").
		Preload("Children").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("StudentProfile", "TeacherProfile", "Children").Save(user).Error; err != nil {
			return err
		}

		if user.StudentProfile != nil {
			if err := tx.Save(user.StudentProfile).Error; err != nil {
				return err
			}
		}

		if user.TeacherProfile != nil {
			if err := tx.Save(user.TeacherProfile).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error
}

func (r *userRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("is_banned", banned).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) FindStudents(ctx context.Context, filter StudentFilter) ([]*model.User, error) {
	var users []*model.User
	q := r.db.WithContext(ctx).
		Joins("JOIN student_profiles ON student_profiles.user_id = users.id").
		Where("users.role = ?", model.RoleStudent).
		Preload("StudentProfile").
		Preload("StudentProfile.Subjects").
		Order("student_profiles.class_level, users.name")

	if filter.ClassLevel != "" {
		q = q.Where("student_profiles.class_level = ?", filter.ClassLevel)
	}
	if filter.Branch != "" {
		q = q.Where("student_profiles.branch = ?", filter.Branch)
	}

	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) FindStudentsBySubject(ctx context.Context, subjectID uuid.UUID) ([]*model.User, error) {
	var users []*model.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN student_profiles ON student_profiles.user_id = users.id").
		Joins("JOIN student_subjects ON student_subjects.student_profile_user_id = student_profiles.user_id").
		Where("users.role = ? AND student_subjects.subject_id = ?", model.RoleStudent, subjectID).
		Preload("StudentProfile").
		Order("student_profiles.class_level, users.name").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) CountStudentsBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("student_subjects").
		Where("subject_id = ?", subjectID).
		Count(&count).Error
	return count, err
}

func (r *userRepository) CountStudentsBySubjects(ctx context.Context, subjectIDs []uuid.UUID) (int64, error) {
	if len(subjectIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Table("student_subjects").
		Where("subject_id IN ?", subjectIDs).
		Distinct("student_profile_user_id").
		Count(&count).Error
	return count, err
}

func (r *userRepository) StudentHasSubject(ctx context.Context, studentUserID, subjectID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("student_subjects").
		Where("student_profile_user_id = ? AND subject_id = ?", studentUserID, subjectID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ReplaceStudentSubjects(ctx context.Context, studentUserID uuid.UUID, subjects []model.Subject) error {
	profile := model.StudentProfile{UserID: studentUserID}
	return r.db.WithContext(ctx).
		Model(&profile).
		Association("Subjects").
		Replace(subjects)
}

func (r *userRepository) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.StudentProfile{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) FindStudentByStudentID(ctx context.Context, studentID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN student_profiles ON student_profiles.user_id = users.id").
		Where("users.role = ? AND student_profiles.student_id = ?", model.RoleStudent, studentID).
		Preload("StudentProfile").
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) LinkChild(ctx context.Context, parentID, childID uuid.UUID) error {
	parent := model.User{ID: parentID}
	return r.db.WithContext(ctx).
		Model(&parent).
		Association("Children").
		Append(&model.User{ID: childID})
}

func (r *userRepository) UnlinkChild(ctx context.Context, parentID, childID uuid.UUID) error {
	parent := model.User{ID: parentID}
	return r.db.WithContext(ctx).
		Model(&parent).
		Association("Children").
		Delete(&model.User{ID: childID})
}

func (r *userRepository) IsParentOfChild(ctx context.Context, parentID, childID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("parent_children").
		Where("parent_id = ? AND child_id = ?", parentID, childID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]*model.User, error) {
	parent := model.User{ID: parentID}
	var children []*model.User
	err := r.db.WithContext(ctx).
		Preload("StudentProfile").
		Preload("StudentProfile.Subjects").
		Model(&parent).
		Association("Children").
		Find(&children)
	if err != nil {
		return nil, err
	}

	return children, nil
}

func (r *userRepository) FindParentsOfStudent(ctx context.Context, studentID uuid.UUID) ([]*model.User, error) {
	var parents []*model.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN parent_children ON parent_children.parent_id = users.id").
		Where("parent_children.child_id = ? AND users.role = ?", studentID, model.RoleParent).
		Find(&parents).Error; err != nil {
		return nil, err
	}

	return parents, nil
}
