package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
)

type memoryResourceRepo struct {
	resources map[uint]models.Resource
	nextID    uint
}

func newMemoryResourceRepo() *memoryResourceRepo {
	return &memoryResourceRepo{resources: make(map[uint]models.Resource), nextID: 1}
}

func (m *memoryResourceRepo) Create(_ context.Context, resource *models.Resource) error {
	resource.ID = m.nextID
	m.nextID++
	m.resources[resource.ID] = *resource
	return nil
}

func (m *memoryResourceRepo) GetByID(_ context.Context, id, tenantID uint) (models.Resource, error) {
	resource, ok := m.resources[id]
	if !ok || resource.AdminID != tenantID {
		return models.Resource{}, gorm.ErrRecordNotFound
	}
	return resource, nil
}

func (m *memoryResourceRepo) ListByCourse(_ context.Context, tenantID, courseID uint) ([]models.Resource, error) {
	var results []models.Resource
	for _, resource := range m.resources {
		if resource.AdminID == tenantID && resource.CourseID == courseID {
			results = append(results, resource)
		}
	}
	return results, nil
}

func (m *memoryResourceRepo) Delete(_ context.Context, id, tenantID uint) error {
	resource, ok := m.resources[id]
	if !ok || resource.AdminID != tenantID {
		return gorm.ErrRecordNotFound
	}
	delete(m.resources, id)
	return nil
}

type recordingUploader struct {
	scope string
	name  string
}

func (u *recordingUploader) Upload(_ context.Context, scope, name string, _ io.Reader) (string, error) {
	u.scope = scope
	u.name = name
	return "https://cdn.example.com/" + name, nil
}

func makeFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestResourceServiceUploadScopesByTenantAndCourse(t *testing.T) {
	resourceRepo := newMemoryResourceRepo()
	courseRepo := newMemoryCourseRepo()
	uploader := &recordingUploader{}
	notifier := &recordingNotifier{}
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewResourceService(resourceRepo, courseRepo, uploader, notifier, 20, validate, zerolog.New(io.Discard))
	ctx := context.Background()

	course := models.Course{
		Name:      "Graphics",
		Code:      "CS450",
		AdminID:   3,
		TeacherID: 2,
		Students:  []models.Student{{ID: 8, Name: "Ada", AdminID: 3}},
	}
	require.NoError(t, courseRepo.Create(ctx, &course))

	teacher := AuthContext{PrincipalID: 2, Role: models.RoleTeacher, TenantID: 3}
	file := makeFileHeader(t, "syllabus.pdf", []byte("%PDF-1.4 syllabus"))

	created, err := svc.Upload(ctx, teacher, dto.ResourceCreateRequest{Title: "Syllabus", CourseID: course.ID}, file)
	require.NoError(t, err)

	require.Equal(t, "tenants/3/courses/1", uploader.scope, "uploads are filed under the owning tenant and course")
	require.Equal(t, "syllabus.pdf", uploader.name)
	require.Equal(t, "https://cdn.example.com/syllabus.pdf", created.FileURL)
	require.Equal(t, "pdf", created.FileType)

	require.Len(t, notifier.events, 1)
	require.Equal(t, []Recipient{{Kind: models.RoleStudent, ID: 8}}, notifier.recipients[0])
}

func TestResourceServiceUploadGuards(t *testing.T) {
	resourceRepo := newMemoryResourceRepo()
	courseRepo := newMemoryCourseRepo()
	uploader := &recordingUploader{}
	notifier := &recordingNotifier{}
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewResourceService(resourceRepo, courseRepo, uploader, notifier, 20, validate, zerolog.New(io.Discard))
	ctx := context.Background()

	course := models.Course{Name: "Graphics", Code: "CS450", AdminID: 3, TeacherID: 2}
	require.NoError(t, courseRepo.Create(ctx, &course))

	file := makeFileHeader(t, "notes.txt", []byte("hello"))

	student := AuthContext{PrincipalID: 8, Role: models.RoleStudent, TenantID: 3}
	_, err := svc.Upload(ctx, student, dto.ResourceCreateRequest{Title: "Notes", CourseID: course.ID}, file)
	require.ErrorIs(t, err, ErrForbidden)

	teacher := AuthContext{PrincipalID: 2, Role: models.RoleTeacher, TenantID: 3}
	_, err = svc.Upload(ctx, teacher, dto.ResourceCreateRequest{Title: "Notes", CourseID: course.ID}, nil)
	require.ErrorIs(t, err, ErrInvalid, "a missing file is rejected before any upload happens")
	require.Empty(t, uploader.scope)
}
