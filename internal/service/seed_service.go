package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedService loads a demo classroom: teachers, students, courses,
// assignments, enrollments, scored submissions and activity history.
// It is idempotent per database; seeding a non-empty users table is a
// no-op.
type SeedService struct {
	DB *gorm.DB
}

func NewSeedService(db *gorm.DB) *SeedService {
	return &SeedService{DB: db}
}

var seedStudentNames = []string{
	"Nguyen Van An", "Tran Thi Binh", "Le Van Cuong", "Pham Thi Dung", "Hoang Van Em",
	"Vu Thi Phuong", "Dang Van Giang", "Bui Thi Hoa", "Do Van Inh", "Ngo Thi Kim",
	"Ly Van Long", "Truong Thi Mai", "Dinh Van Nam", "Cao Thi Oanh", "Phan Van Phuc",
	"Vo Thi Quynh", "Nguyen Van Son", "Tran Thi Thu", "Le Van Uy", "Pham Thi Van",
	"Hoang Van Xuan", "Vu Thi Yen", "Dang Van Bao", "Bui Thi Cam", "Do Van Duc",
	"Ngo Thi Em", "Ly Van Phong", "Truong Thi Quy", "Dinh Van Sang", "Cao Thi Tam",
}

func (s *SeedService) Run() error {
	var count int64
	if err := s.DB.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Log.Info("seed skipped, users already exist", zap.Int64("users", count))
		return nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	teacherHash, err := bcrypt.GenerateFromPassword([]byte("teacher123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	studentHash, err := bcrypt.GenerateFromPassword([]byte("student123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var teachers []model.User
	for i := 1; i <= 3; i++ {
		teachers = append(teachers, model.User{
			Username: fmt.Sprintf("teacher%d", i),
			Password: string(teacherHash),
			Role:     model.Teacher,
		})
	}
	if err := s.DB.Create(&teachers).Error; err != nil {
		return err
	}

	var students []model.User
	for i, name := range seedStudentNames {
		username := strings.ToLower(strings.ReplaceAll(name, " ", "")) + fmt.Sprint(i+1)
		students = append(students, model.User{
			Username: username,
			Password: string(studentHash),
			Role:     model.Student,
		})
	}
	if err := s.DB.Create(&students).Error; err != nil {
		return err
	}

	courses := []model.Course{
		{Name: "Nhập môn Lập trình Python", Description: "Khóa học cơ bản về lập trình Python cho người mới bắt đầu", TeacherID: teachers[0].ID},
		{Name: "Cấu trúc Dữ liệu và Giải thuật", Description: "Học về các cấu trúc dữ liệu cơ bản và thuật toán", TeacherID: teachers[1].ID},
		{Name: "Phân tích Dữ liệu với Pandas", Description: "Sử dụng Pandas để phân tích và xử lý dữ liệu", TeacherID: teachers[0].ID},
		{Name: "Machine Learning cơ bản", Description: "Giới thiệu về Machine Learning và các thuật toán cơ bản", TeacherID: teachers[2].ID},
		{Name: "Database Management", Description: "Quản lý cơ sở dữ liệu với SQL", TeacherID: teachers[1].ID},
	}
	if err := s.DB.Create(&courses).Error; err != nil {
		return err
	}

	deadline := func(days int) *time.Time {
		t := time.Now().AddDate(0, 0, days)
		return &t
	}
	assignments := []model.Assignment{
		{Title: "Bài tập 1: Biến và Kiểu dữ liệu", CourseID: courses[0].ID, Deadline: deadline(7)},
		{Title: "Bài tập 2: Vòng lặp và Điều kiện", CourseID: courses[0].ID, Deadline: deadline(14)},
		{Title: "Dự án cuối kỳ: Ứng dụng Python", CourseID: courses[0].ID, Deadline: deadline(30)},
		{Title: "Bài tập 1: Array và List", CourseID: courses[1].ID, Deadline: deadline(5)},
		{Title: "Bài tập 2: Stack và Queue", CourseID: courses[1].ID, Deadline: deadline(12)},
		{Title: "Phân tích Dataset Sales", CourseID: courses[2].ID, Deadline: deadline(10)},
		{Title: "Visualization với Matplotlib", CourseID: courses[2].ID, Deadline: deadline(17)},
		{Title: "Linear Regression", CourseID: courses[3].ID, Deadline: deadline(15)},
		{Title: "Classification với Decision Tree", CourseID: courses[3].ID, Deadline: deadline(25)},
		{Title: "Thiết kế lược đồ quan hệ", CourseID: courses[4].ID, Deadline: deadline(9)},
	}
	if err := s.DB.Create(&assignments).Error; err != nil {
		return err
	}

	assignmentsByCourse := make(map[uint][]model.Assignment)
	for _, a := range assignments {
		assignmentsByCourse[a.CourseID] = append(assignmentsByCourse[a.CourseID], a)
	}

	for _, student := range students {
		picked := rng.Perm(len(courses))[:2+rng.Intn(3)]
		for _, ci := range picked {
			course := courses[ci]
			if err := s.DB.Create(&model.Enrollment{UserID: student.ID, CourseID: course.ID}).Error; err != nil {
				return err
			}

			cid := course.ID
			for v := 0; v < 2+rng.Intn(4); v++ {
				if err := s.DB.Create(&model.ActivityLog{UserID: student.ID, CourseID: &cid, Action: model.ActionViewMaterial}).Error; err != nil {
					return err
				}
			}

			for _, a := range assignmentsByCourse[course.ID] {
				if rng.Float64() < 0.3 {
					continue
				}
				score := seedScore(rng, a.Title)
				if err := s.DB.Create(&model.Submission{
					AssignmentID: a.ID,
					StudentID:    student.ID,
					Score:        score,
				}).Error; err != nil {
					return err
				}
				if err := s.DB.Create(&model.ActivityLog{UserID: student.ID, CourseID: &cid, Action: model.ActionSubmitAssignment}).Error; err != nil {
					return err
				}
			}
		}

		for l := 0; l < 2+rng.Intn(15); l++ {
			if err := s.DB.Create(&model.ActivityLog{UserID: student.ID, Action: model.ActionLogin}).Error; err != nil {
				return err
			}
		}
	}

	for _, teacher := range teachers {
		if err := s.DB.Create(&model.ActivityLog{UserID: teacher.ID, Action: model.ActionLogin}).Error; err != nil {
			return err
		}
	}

	logger.Log.Info("demo data seeded",
		zap.Int("teachers", len(teachers)),
		zap.Int("students", len(students)),
		zap.Int("courses", len(courses)))
	return nil
}

// seedScore biases basic assignments high and leaves a few ungraded.
func seedScore(rng *rand.Rand, title string) *float64 {
	if rng.Float64() < 0.15 {
		return nil
	}
	lower := strings.ToLower(title)
	var score float64
	switch {
	case strings.Contains(lower, "cơ bản") || strings.Contains(lower, "bài tập 1"):
		score = 7.0 + rng.Float64()*3.0
	case strings.Contains(lower, "dự án") || strings.Contains(lower, "cuối kỳ"):
		score = 6.0 + rng.Float64()*3.5
	default:
		score = 5.0 + rng.Float64()*4.0
	}
	rounded := util.Round1(score)
	return &rounded
}
