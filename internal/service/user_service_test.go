package service

import (
	"testing"

	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/model"
	"go-invoicehub/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserServiceForTest(db *gorm.DB) UserService {
	return NewUserService(repository.NewUserRepo(db))
}

func TestUpdateAccountUsernameTaken(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserServiceForTest(db)

	user := seedUser(t, db, "original")
	seedUser(t, db, "occupied")

	_, err := svc.UpdateAccount(user.ID, &UpdateAccountRequest{Username: "occupied"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeAlreadyExists))

	// Re-submitting your own username is a no-op, not a conflict.
	updated, err := svc.UpdateAccount(user.ID, &UpdateAccountRequest{
		Username:     "original",
		BusinessName: "Renamed Traders",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Traders", updated.BusinessName)
}

func TestIsUsernameAvailable(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserServiceForTest(db)

	seedUser(t, db, "claimed")

	available, err := svc.IsUsernameAvailable("claimed")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = svc.IsUsernameAvailable("unclaimed")
	require.NoError(t, err)
	assert.True(t, available)

	_, err = svc.IsUsernameAvailable("")
	require.Error(t, err)
}

func TestDeleteAccountCascades(t *testing.T) {
	db := setupTestDB(t)
	users := newUserServiceForTest(db)
	invoices := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "cascade")
	survivor := seedUser(t, db, "survivor")

	product := seedProduct(t, db, owner.ID, "Owned", 3000, 10)
	customer := seedCustomer(t, db, owner.ID, "Theirs", "9200000001")
	seedProduct(t, db, survivor.ID, "Kept", 4000, 2)

	_, err := invoices.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.Complaint{
		OwnerID: owner.ID, Subject: "Broken page", Description: "Dashboard 500s",
	}).Error)

	require.NoError(t, users.DeleteAccount(owner.ID))

	counts := map[string]interface{}{
		"products":   &model.Product{},
		"customers":  &model.Customer{},
		"invoices":   &model.Invoice{},
		"complaints": &model.Complaint{},
	}
	for name, m := range counts {
		var count int64
		require.NoError(t, db.Model(m).Where("owner_id = ?", owner.ID).Count(&count).Error)
		assert.Zero(t, count, "leftover %s after cascade", name)
	}

	var itemCount int64
	require.NoError(t, db.Model(&model.InvoiceItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	// Other owners are untouched.
	var survivorProducts int64
	require.NoError(t, db.Model(&model.Product{}).Where("owner_id = ?", survivor.ID).Count(&survivorProducts).Error)
	assert.Equal(t, int64(1), survivorProducts)

	_, err = users.GetProfile(owner.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestDeleteAccountUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserServiceForTest(db)

	err := svc.DeleteAccount(uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
