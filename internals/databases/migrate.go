package database

import (
	"log"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	offeringModel "campusku_backend/internals/features/academics/class_offerings/model"
	departmentModel "campusku_backend/internals/features/academics/departments/model"
	attendanceModel "campusku_backend/internals/features/attendance/model"
	feedbackModel "campusku_backend/internals/features/feedback/model"
	studentModel "campusku_backend/internals/features/users/user_students/model"
	teacherModel "campusku_backend/internals/features/users/user_teachers/model"
	userModel "campusku_backend/internals/features/users/users/model"
)

// AutoMigrate creates tables and the unique indexes the engine relies on
// (department name, offering natural key, weekly summary per offering window).
func AutoMigrate(db *gorm.DB) error {
	models := []any{
		&userModel.UserModel{},
		&departmentModel.DepartmentModel{},
		&studentModel.UserStudentModel{},
		&teacherModel.UserTeacherModel{},
		&offeringModel.ClassOfferingModel{},
		&attendanceModel.ClassAttendanceSessionModel{},
		&attendanceModel.ClassAttendanceParticipantModel{},
		&feedbackModel.FeedbackFormModel{},
		&feedbackModel.FeedbackResponseModel{},
		&feedbackModel.WeeklyFeedbackSummaryModel{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return errors.Wrapf(err, "migrating %T", m)
		}
	}
	log.Println("✅ schema migrated")
	return nil
}
