package service

import (
	"testing"

	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/model"
	"go-invoicehub/internal/repository"
	"go-invoicehub/internal/storage"
	"go-invoicehub/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAdminServiceForTest(t *testing.T, db *gorm.DB) AdminService {
	t.Helper()
	tokens := jwt.NewManager("test-access-secret", "test-refresh-secret")
	return NewAdminService(
		repository.NewAdminRepo(db),
		repository.NewUserRepo(db),
		repository.NewComplaintRepo(db),
		tokens,
	)
}

func seedAdmin(t *testing.T, db *gorm.DB) *model.Admin {
	t.Helper()
	admin := &model.Admin{Username: "support", Email: "support@example.com"}
	require.NoError(t, admin.SetPassword("adminsecret"))
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func TestAdminLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminServiceForTest(t, db)

	seedAdmin(t, db)

	resp, err := svc.Login("support@example.com", "adminsecret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Empty(t, resp.Admin.Password)
	assert.Equal(t, "superadmin", resp.Admin.Role)

	_, err = svc.Login("support@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))

	_, err = svc.Login("nobody@example.com", "adminsecret")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))
}

func TestAdminDeleteUserCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminServiceForTest(t, db)

	owner := seedUser(t, db, "admintarget")
	seedProduct(t, db, owner.ID, "Goods", 1000, 2)

	require.NoError(t, svc.DeleteUser(owner.ID))

	var products int64
	require.NoError(t, db.Model(&model.Product{}).Where("owner_id = ?", owner.ID).Count(&products).Error)
	assert.Zero(t, products)

	users, err := svc.ListUsers()
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestAdminComplaintLifecycle(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := newAdminServiceForTest(t, db)

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	complaintSvc := NewComplaintService(repository.NewComplaintRepo(db), store, zap.NewNop())

	owner := seedUser(t, db, "complainer")

	complaint, err := complaintSvc.Submit(owner.ID, &ComplaintRequest{
		Subject:     "Reports page broken",
		Description: "The 30 day report never loads",
	}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, model.ComplaintPending, complaint.Status)

	all, err := adminSvc.ListComplaints()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Owner)
	assert.Equal(t, "complainer", all[0].Owner.Username)

	updated, err := adminSvc.UpdateComplaint(complaint.ID, &ComplaintUpdateRequest{
		Status:            model.ComplaintResolved,
		DeveloperResponse: "Fixed in the latest deploy",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ComplaintResolved, updated.Status)
	assert.Equal(t, "Fixed in the latest deploy", updated.DeveloperResponse)

	_, err = adminSvc.UpdateComplaint(complaint.ID, &ComplaintUpdateRequest{
		Status: model.ComplaintStatus("Escalated"),
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))

	// The filer sees the response on their own list.
	mine, err := complaintSvc.GetMine(owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, model.ComplaintResolved, mine[0].Status)
}

func TestComplaintValidation(t *testing.T) {
	db := setupTestDB(t)

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	svc := NewComplaintService(repository.NewComplaintRepo(db), store, zap.NewNop())

	owner := seedUser(t, db, "complaintvalid")

	_, err = svc.Submit(owner.ID, &ComplaintRequest{Subject: "No description"}, nil, "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
}
