package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// In-memory repository fakes backing the service tests. They mirror the
// tenant scoping of the GORM implementations: lookups filtered by a tenant
// return gorm.ErrRecordNotFound on a tenant mismatch.

type recordingNotifier struct {
	tenants    []uint
	recipients [][]Recipient
	events     []Event
}

func (n *recordingNotifier) Notify(_ context.Context, tenantID uint, recipients []Recipient, event Event) {
	n.tenants = append(n.tenants, tenantID)
	n.recipients = append(n.recipients, recipients)
	n.events = append(n.events, event)
}

type memoryCourseRepo struct {
	courses map[uint]models.Course
	nextID  uint
}

func newMemoryCourseRepo() *memoryCourseRepo {
	return &memoryCourseRepo{courses: make(map[uint]models.Course), nextID: 1}
}

func (m *memoryCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = m.nextID
	m.nextID++
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) GetByID(_ context.Context, id, tenantID uint) (models.Course, error) {
	course, ok := m.courses[id]
	if !ok || course.AdminID != tenantID {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (m *memoryCourseRepo) GetWithStudents(ctx context.Context, id, tenantID uint) (models.Course, error) {
	return m.GetByID(ctx, id, tenantID)
}

func (m *memoryCourseRepo) ExistsByCode(_ context.Context, tenantID uint, code string) (bool, error) {
	for _, course := range m.courses {
		if course.AdminID == tenantID && course.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryCourseRepo) ListByTenant(_ context.Context, tenantID uint) ([]models.Course, error) {
	var results []models.Course
	for _, course := range m.courses {
		if course.AdminID == tenantID {
			results = append(results, course)
		}
	}
	return results, nil
}

func (m *memoryCourseRepo) ListByTeacher(_ context.Context, tenantID, teacherID uint) ([]models.Course, error) {
	var results []models.Course
	for _, course := range m.courses {
		if course.AdminID == tenantID && course.TeacherID == teacherID {
			results = append(results, course)
		}
	}
	return results, nil
}

func (m *memoryCourseRepo) ListByStudent(_ context.Context, tenantID, studentID uint) ([]models.Course, error) {
	var results []models.Course
	for _, course := range m.courses {
		if course.AdminID == tenantID && course.HasStudent(studentID) {
			results = append(results, course)
		}
	}
	return results, nil
}

func (m *memoryCourseRepo) CountByTenant(_ context.Context, tenantID uint) (int64, error) {
	var count int64
	for _, course := range m.courses {
		if course.AdminID == tenantID {
			count++
		}
	}
	return count, nil
}

func (m *memoryCourseRepo) Save(_ context.Context, course *models.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) Delete(_ context.Context, id, tenantID uint) error {
	course, ok := m.courses[id]
	if !ok || course.AdminID != tenantID {
		return gorm.ErrRecordNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *memoryCourseRepo) AddStudent(_ context.Context, course *models.Course, student models.Student) error {
	course.Students = append(course.Students, student)
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) RemoveStudent(_ context.Context, course *models.Course, student models.Student) error {
	kept := course.Students[:0]
	for _, enrolled := range course.Students {
		if enrolled.ID != student.ID {
			kept = append(kept, enrolled)
		}
	}
	course.Students = kept
	m.courses[course.ID] = *course
	return nil
}

type memoryTestRepo struct {
	tests  map[uint]models.Test
	nextID uint
}

func newMemoryTestRepo() *memoryTestRepo {
	return &memoryTestRepo{tests: make(map[uint]models.Test), nextID: 1}
}

func (m *memoryTestRepo) Create(_ context.Context, test *models.Test) error {
	test.ID = m.nextID
	m.nextID++
	for i := range test.Questions {
		test.Questions[i].ID = uint(i + 1)
		test.Questions[i].TestID = test.ID
	}
	m.tests[test.ID] = *test
	return nil
}

func (m *memoryTestRepo) GetByID(_ context.Context, id, tenantID uint) (models.Test, error) {
	test, ok := m.tests[id]
	if !ok || test.AdminID != tenantID {
		return models.Test{}, gorm.ErrRecordNotFound
	}
	return test, nil
}

func (m *memoryTestRepo) List(_ context.Context, tenantID uint, filter repository.TestFilter) ([]models.Test, error) {
	var results []models.Test
	for _, test := range m.tests {
		if test.AdminID != tenantID {
			continue
		}
		if filter.CourseID != 0 && test.CourseID != filter.CourseID {
			continue
		}
		if filter.TeacherID != 0 && test.TeacherID != filter.TeacherID {
			continue
		}
		results = append(results, test)
	}
	return results, nil
}

func (m *memoryTestRepo) Save(_ context.Context, test *models.Test) error {
	if _, ok := m.tests[test.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.tests[test.ID] = *test
	return nil
}

func (m *memoryTestRepo) ReplaceQuestions(_ context.Context, test *models.Test, questions []models.TestQuestion) error {
	for i := range questions {
		questions[i].ID = uint(i + 1)
		questions[i].TestID = test.ID
	}
	test.Questions = questions
	m.tests[test.ID] = *test
	return nil
}

func (m *memoryTestRepo) Delete(_ context.Context, id, tenantID uint) error {
	test, ok := m.tests[id]
	if !ok || test.AdminID != tenantID {
		return gorm.ErrRecordNotFound
	}
	delete(m.tests, id)
	return nil
}

type memoryAssignmentRepo struct {
	assignments map[uint]models.Assignment
	nextID      uint
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{assignments: make(map[uint]models.Assignment), nextID: 1}
}

func (m *memoryAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	assignment.ID = m.nextID
	m.nextID++
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryAssignmentRepo) GetByID(_ context.Context, id, tenantID uint) (models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok || assignment.AdminID != tenantID {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (m *memoryAssignmentRepo) List(_ context.Context, tenantID uint, filter repository.AssignmentFilter) ([]models.Assignment, error) {
	var results []models.Assignment
	for _, assignment := range m.assignments {
		if assignment.AdminID != tenantID {
			continue
		}
		if filter.CourseID != 0 && assignment.CourseID != filter.CourseID {
			continue
		}
		if filter.TeacherID != 0 && assignment.TeacherID != filter.TeacherID {
			continue
		}
		results = append(results, assignment)
	}
	return results, nil
}

func (m *memoryAssignmentRepo) Save(_ context.Context, assignment *models.Assignment) error {
	if _, ok := m.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryAssignmentRepo) Delete(_ context.Context, id, tenantID uint) error {
	assignment, ok := m.assignments[id]
	if !ok || assignment.AdminID != tenantID {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	return nil
}

type submissionKey struct {
	itemType  string
	itemID    uint
	studentID uint
}

type memorySubmissionRepo struct {
	submissions map[submissionKey]models.Submission
	nextID      uint
}

func newMemorySubmissionRepo() *memorySubmissionRepo {
	return &memorySubmissionRepo{submissions: make(map[submissionKey]models.Submission), nextID: 1}
}

func (m *memorySubmissionRepo) Upsert(_ context.Context, submission *models.Submission) error {
	key := submissionKey{submission.ItemType, submission.ItemID, submission.StudentID}
	if existing, ok := m.submissions[key]; ok {
		submission.ID = existing.ID
	} else {
		submission.ID = m.nextID
		m.nextID++
	}
	m.submissions[key] = *submission
	return nil
}

func (m *memorySubmissionRepo) GetByKey(_ context.Context, tenantID uint, itemType string, itemID, studentID uint) (models.Submission, error) {
	submission, ok := m.submissions[submissionKey{itemType, itemID, studentID}]
	if !ok || submission.AdminID != tenantID {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (m *memorySubmissionRepo) ListByItem(_ context.Context, tenantID uint, itemType string, itemID uint) ([]models.Submission, error) {
	var results []models.Submission
	for _, submission := range m.submissions {
		if submission.AdminID == tenantID && submission.ItemType == itemType && submission.ItemID == itemID {
			results = append(results, submission)
		}
	}
	return results, nil
}

func (m *memorySubmissionRepo) ListByStudent(_ context.Context, tenantID, studentID uint) ([]models.Submission, error) {
	var results []models.Submission
	for _, submission := range m.submissions {
		if submission.AdminID == tenantID && submission.StudentID == studentID {
			results = append(results, submission)
		}
	}
	return results, nil
}

type memoryMarksRepo struct {
	marks  map[submissionKey]models.Marks
	nextID uint
}

func newMemoryMarksRepo() *memoryMarksRepo {
	return &memoryMarksRepo{marks: make(map[submissionKey]models.Marks), nextID: 1}
}

func (m *memoryMarksRepo) Upsert(_ context.Context, marks *models.Marks) error {
	key := submissionKey{marks.ItemType, marks.ItemID, marks.StudentID}
	if existing, ok := m.marks[key]; ok {
		marks.ID = existing.ID
	} else {
		marks.ID = m.nextID
		m.nextID++
	}
	m.marks[key] = *marks
	return nil
}

func (m *memoryMarksRepo) GetByID(_ context.Context, id, tenantID uint) (models.Marks, error) {
	for _, marks := range m.marks {
		if marks.ID == id && marks.AdminID == tenantID {
			return marks, nil
		}
	}
	return models.Marks{}, gorm.ErrRecordNotFound
}

func (m *memoryMarksRepo) GetByKey(_ context.Context, tenantID uint, itemType string, itemID, studentID uint) (models.Marks, error) {
	marks, ok := m.marks[submissionKey{itemType, itemID, studentID}]
	if !ok || marks.AdminID != tenantID {
		return models.Marks{}, gorm.ErrRecordNotFound
	}
	return marks, nil
}

func (m *memoryMarksRepo) List(_ context.Context, tenantID uint, filter repository.MarksFilter) ([]models.Marks, error) {
	var results []models.Marks
	for _, marks := range m.marks {
		if marks.AdminID != tenantID {
			continue
		}
		if filter.ItemType != "" && marks.ItemType != filter.ItemType {
			continue
		}
		if filter.ItemID != 0 && marks.ItemID != filter.ItemID {
			continue
		}
		if filter.StudentID != 0 && marks.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != 0 && marks.CourseID != filter.CourseID {
			continue
		}
		results = append(results, marks)
	}
	return results, nil
}

func (m *memoryMarksRepo) CountByCourse(_ context.Context, tenantID, courseID uint) (int64, error) {
	var count int64
	for _, marks := range m.marks {
		if marks.AdminID == tenantID && marks.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (m *memoryMarksRepo) Save(_ context.Context, marks *models.Marks) error {
	key := submissionKey{marks.ItemType, marks.ItemID, marks.StudentID}
	if _, ok := m.marks[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.marks[key] = *marks
	return nil
}

type memoryStudentRepo struct {
	students map[uint]models.Student
	nextID   uint
}

func newMemoryStudentRepo() *memoryStudentRepo {
	return &memoryStudentRepo{students: make(map[uint]models.Student), nextID: 1}
}

func (m *memoryStudentRepo) Create(_ context.Context, student *models.Student) error {
	student.ID = m.nextID
	m.nextID++
	m.students[student.ID] = *student
	return nil
}

func (m *memoryStudentRepo) GetByID(_ context.Context, id uint) (models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *memoryStudentRepo) GetByTenant(_ context.Context, id, tenantID uint) (models.Student, error) {
	student, ok := m.students[id]
	if !ok || student.AdminID != tenantID {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *memoryStudentRepo) GetByEmail(_ context.Context, email string) (models.Student, error) {
	for _, student := range m.students {
		if student.Email == email {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (m *memoryStudentRepo) GetByResetToken(_ context.Context, token string) (models.Student, error) {
	for _, student := range m.students {
		if token != "" && student.PasswordResetToken == token {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (m *memoryStudentRepo) ExistsByCollegeID(_ context.Context, tenantID uint, collegeID string) (bool, error) {
	for _, student := range m.students {
		if student.AdminID == tenantID && student.CollegeID == collegeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStudentRepo) ListByTenant(_ context.Context, tenantID uint) ([]models.Student, error) {
	var results []models.Student
	for _, student := range m.students {
		if student.AdminID == tenantID {
			results = append(results, student)
		}
	}
	return results, nil
}

func (m *memoryStudentRepo) CountByTenant(_ context.Context, tenantID uint) (int64, error) {
	var count int64
	for _, student := range m.students {
		if student.AdminID == tenantID {
			count++
		}
	}
	return count, nil
}

func (m *memoryStudentRepo) Save(_ context.Context, student *models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.students[student.ID] = *student
	return nil
}

func (m *memoryStudentRepo) Delete(_ context.Context, id, tenantID uint) error {
	student, ok := m.students[id]
	if !ok || student.AdminID != tenantID {
		return gorm.ErrRecordNotFound
	}
	delete(m.students, id)
	return nil
}

type memoryTeacherRepo struct {
	teachers map[uint]models.Teacher
	nextID   uint
}

func newMemoryTeacherRepo() *memoryTeacherRepo {
	return &memoryTeacherRepo{teachers: make(map[uint]models.Teacher), nextID: 1}
}

func (m *memoryTeacherRepo) Create(_ context.Context, teacher *models.Teacher) error {
	teacher.ID = m.nextID
	m.nextID++
	m.teachers[teacher.ID] = *teacher
	return nil
}

func (m *memoryTeacherRepo) GetByID(_ context.Context, id uint) (models.Teacher, error) {
	teacher, ok := m.teachers[id]
	if !ok {
		return models.Teacher{}, gorm.ErrRecordNotFound
	}
	return teacher, nil
}

func (m *memoryTeacherRepo) GetByTenant(_ context.Context, id, tenantID uint) (models.Teacher, error) {
	teacher, ok := m.teachers[id]
	if !ok || teacher.AdminID != tenantID {
		return models.Teacher{}, gorm.ErrRecordNotFound
	}
	return teacher, nil
}

func (m *memoryTeacherRepo) GetByEmail(_ context.Context, email string) (models.Teacher, error) {
	for _, teacher := range m.teachers {
		if teacher.Email == email {
			return teacher, nil
		}
	}
	return models.Teacher{}, gorm.ErrRecordNotFound
}

func (m *memoryTeacherRepo) GetByResetToken(_ context.Context, token string) (models.Teacher, error) {
	for _, teacher := range m.teachers {
		if token != "" && teacher.PasswordResetToken == token {
			return teacher, nil
		}
	}
	return models.Teacher{}, gorm.ErrRecordNotFound
}

func (m *memoryTeacherRepo) ExistsByCollegeID(_ context.Context, tenantID uint, collegeID string) (bool, error) {
	for _, teacher := range m.teachers {
		if teacher.AdminID == tenantID && teacher.CollegeID == collegeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryTeacherRepo) ListByTenant(_ context.Context, tenantID uint) ([]models.Teacher, error) {
	var results []models.Teacher
	for _, teacher := range m.teachers {
		if teacher.AdminID == tenantID {
			results = append(results, teacher)
		}
	}
	return results, nil
}

func (m *memoryTeacherRepo) CountByTenant(_ context.Context, tenantID uint) (int64, error) {
	var count int64
	for _, teacher := range m.teachers {
		if teacher.AdminID == tenantID {
			count++
		}
	}
	return count, nil
}

func (m *memoryTeacherRepo) Save(_ context.Context, teacher *models.Teacher) error {
	if _, ok := m.teachers[teacher.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.teachers[teacher.ID] = *teacher
	return nil
}

func (m *memoryTeacherRepo) Delete(_ context.Context, id, tenantID uint) error {
	teacher, ok := m.teachers[id]
	if !ok || teacher.AdminID != tenantID {
		return gorm.ErrRecordNotFound
	}
	delete(m.teachers, id)
	return nil
}

type memoryAdminRepo struct {
	admins map[uint]models.Admin
	nextID uint
}

func newMemoryAdminRepo() *memoryAdminRepo {
	return &memoryAdminRepo{admins: make(map[uint]models.Admin), nextID: 1}
}

func (m *memoryAdminRepo) Create(_ context.Context, admin *models.Admin) error {
	admin.ID = m.nextID
	m.nextID++
	m.admins[admin.ID] = *admin
	return nil
}

func (m *memoryAdminRepo) GetByID(_ context.Context, id uint) (models.Admin, error) {
	admin, ok := m.admins[id]
	if !ok {
		return models.Admin{}, gorm.ErrRecordNotFound
	}
	return admin, nil
}

func (m *memoryAdminRepo) GetByEmail(_ context.Context, email string) (models.Admin, error) {
	for _, admin := range m.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return models.Admin{}, gorm.ErrRecordNotFound
}

func (m *memoryAdminRepo) GetByResetToken(_ context.Context, token string) (models.Admin, error) {
	for _, admin := range m.admins {
		if token != "" && admin.PasswordResetToken == token {
			return admin, nil
		}
	}
	return models.Admin{}, gorm.ErrRecordNotFound
}

func (m *memoryAdminRepo) Save(_ context.Context, admin *models.Admin) error {
	if _, ok := m.admins[admin.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.admins[admin.ID] = *admin
	return nil
}

type memoryNoticeRepo struct {
	notices map[uint]models.Notice
	nextID  uint
}

func newMemoryNoticeRepo() *memoryNoticeRepo {
	return &memoryNoticeRepo{notices: make(map[uint]models.Notice), nextID: 1}
}

func (m *memoryNoticeRepo) Create(_ context.Context, notice *models.Notice) error {
	notice.ID = m.nextID
	m.nextID++
	m.notices[notice.ID] = *notice
	return nil
}

func (m *memoryNoticeRepo) GetByID(_ context.Context, id, tenantID uint) (models.Notice, error) {
	notice, ok := m.notices[id]
	if !ok || notice.AdminID != tenantID {
		return models.Notice{}, gorm.ErrRecordNotFound
	}
	return notice, nil
}

func (m *memoryNoticeRepo) List(_ context.Context, tenantID uint, targets []string, limit int) ([]models.Notice, error) {
	var results []models.Notice
	for _, notice := range m.notices {
		if notice.AdminID != tenantID {
			continue
		}
		if len(targets) > 0 {
			matched := false
			for _, target := range targets {
				if notice.Target == target {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		results = append(results, notice)
		if limit > 0 && len(results) == limit {
			break
		}
	}
	return results, nil
}

func (m *memoryNoticeRepo) Delete(_ context.Context, id, tenantID uint) error {
	notice, ok := m.notices[id]
	if !ok || notice.AdminID != tenantID {
		return gorm.ErrRecordNotFound
	}
	delete(m.notices, id)
	return nil
}
