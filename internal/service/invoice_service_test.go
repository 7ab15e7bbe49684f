package service

import (
	"testing"
	"time"

	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestCreateInvoiceComputesTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "totals")
	product := seedProduct(t, db, owner.ID, "Notebook", 10000, 10)
	customer := seedCustomer(t, db, owner.ID, "Asha", "9876500001")

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 2}},
		Discount:   2000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20000), invoice.TotalAmount)
	assert.Equal(t, int64(18000), invoice.FinalAmount)
	assert.Equal(t, model.StatusPending, invoice.Status)
	assert.Equal(t, 8, currentStock(t, db, product.ID))

	require.Len(t, invoice.Items, 1)
	assert.Equal(t, "Notebook", invoice.Items[0].Name)
	assert.Equal(t, int64(10000), invoice.Items[0].Price)
}

func TestCreateInvoiceInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "shortstock")
	product := seedProduct(t, db, owner.ID, "Stapler", 5000, 3)
	customer := seedCustomer(t, db, owner.ID, "Bina", "9876500002")

	_, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 5}},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInsufficientStock))

	// The failed attempt must not touch inventory.
	assert.Equal(t, 3, currentStock(t, db, product.ID))
}

func TestCreateInvoicePartialFailureRollsBack(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "rollback")
	first := seedProduct(t, db, owner.ID, "Pen", 1000, 10)
	second := seedProduct(t, db, owner.ID, "Pencil", 500, 1)
	customer := seedCustomer(t, db, owner.ID, "Chand", "9876500003")

	_, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items: []InvoiceItemRequest{
			{ProductID: first.ID, Quantity: 4},
			{ProductID: second.ID, Quantity: 3},
		},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInsufficientStock))

	// The first item's deduction is rolled back with the transaction.
	assert.Equal(t, 10, currentStock(t, db, first.ID))
	assert.Equal(t, 1, currentStock(t, db, second.ID))

	var count int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateInvoiceDueDateBeforeInvoiceDate(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "duedate")
	product := seedProduct(t, db, owner.ID, "Clip", 200, 5)
	customer := seedCustomer(t, db, owner.ID, "Dev", "9876500004")

	invoiceDate := time.Now()
	dueDate := invoiceDate.AddDate(0, 0, -2)

	_, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		Items:       []InvoiceItemRequest{{ProductID: product.ID, Quantity: 1}},
		InvoiceDate: &invoiceDate,
		DueDate:     &dueDate,
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
	assert.Equal(t, 5, currentStock(t, db, product.ID))
}

func TestCreateInvoiceSameDayDueDateAllowed(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "sameday")
	product := seedProduct(t, db, owner.ID, "Tape", 300, 5)
	customer := seedCustomer(t, db, owner.ID, "Esha", "9876500005")

	// Due later the same day but clock-earlier than the invoice timestamp:
	// day-granularity comparison must accept it.
	invoiceDate := time.Date(2026, 8, 15, 18, 0, 0, 0, time.Local)
	dueDate := time.Date(2026, 8, 15, 9, 0, 0, 0, time.Local)

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		Items:       []InvoiceItemRequest{{ProductID: product.ID, Quantity: 1}},
		InvoiceDate: &invoiceDate,
		DueDate:     &dueDate,
		Status:      model.StatusPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, invoice.Status)
}

func TestCreateInvoiceAutoOverdue(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "overdue")
	product := seedProduct(t, db, owner.ID, "Ruler", 400, 5)
	customer := seedCustomer(t, db, owner.ID, "Firoz", "9876500006")

	invoiceDate := time.Now().AddDate(0, 0, -10)
	dueDate := time.Now().AddDate(0, 0, -3)

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		Items:       []InvoiceItemRequest{{ProductID: product.ID, Quantity: 1}},
		InvoiceDate: &invoiceDate,
		DueDate:     &dueDate,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOverdue, invoice.Status)
}

func TestCreateCancelledInvoiceSkipsStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "cancelledcreate")
	product := seedProduct(t, db, owner.ID, "Eraser", 100, 4)
	customer := seedCustomer(t, db, owner.ID, "Gita", "9876500007")

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 2}},
		Status:     model.StatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, invoice.Status)
	assert.Equal(t, 4, currentStock(t, db, product.ID))
}

func TestCreateInvoiceOwnershipScoped(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "scopeowner")
	intruder := seedUser(t, db, "scopeintruder")
	product := seedProduct(t, db, owner.ID, "Marker", 1500, 5)
	customer := seedCustomer(t, db, owner.ID, "Hari", "9876500008")

	// Another owner referencing these records gets a plain not-found.
	_, err := svc.Create(intruder.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	assert.Equal(t, 5, currentStock(t, db, product.ID))
}

func TestInvoiceSnapshotSurvivesProductEdits(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "snapshot")
	product := seedProduct(t, db, owner.ID, "Diary", 25000, 8)
	customer := seedCustomer(t, db, owner.ID, "Indu", "9876500009")

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"name": "Renamed Diary", "price": 99999}).Error)

	reloaded, err := svc.GetByID(invoice.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "Diary", reloaded.Items[0].Name)
	assert.Equal(t, int64(25000), reloaded.Items[0].Price)
	assert.Equal(t, int64(25000), reloaded.FinalAmount)
}

func TestUpdateStatusCancelRestoresStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "cancelrestore")
	product := seedProduct(t, db, owner.ID, "Charger", 50000, 6)
	customer := seedCustomer(t, db, owner.ID, "Jaya", "9876500010")

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, currentStock(t, db, product.ID))

	cancelled, err := svc.UpdateStatus(invoice.ID, owner.ID, model.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, 6, currentStock(t, db, product.ID))
}

func TestUpdateStatusReactivateDeductsAgain(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "reactivate")
	product := seedProduct(t, db, owner.ID, "Cable", 8000, 5)
	customer := seedCustomer(t, db, owner.ID, "Kiran", "9876500011")

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(invoice.ID, owner.ID, model.StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, 5, currentStock(t, db, product.ID))

	reactivated, err := svc.UpdateStatus(invoice.ID, owner.ID, model.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, reactivated.Status)
	assert.Equal(t, 2, currentStock(t, db, product.ID))
}

func TestUpdateStatusReactivateBlockedByStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "reactblocked")
	product := seedProduct(t, db, owner.ID, "Adapter", 12000, 4)
	customer := seedCustomer(t, db, owner.ID, "Lata", "9876500012")

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(invoice.ID, owner.ID, model.StatusCancelled)
	require.NoError(t, err)

	// Stock was sold elsewhere while the invoice sat cancelled.
	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", product.ID).Update("stock", 1).Error)

	_, err = svc.UpdateStatus(invoice.ID, owner.ID, model.StatusPending)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInsufficientStock))

	// The invoice stays cancelled and the remaining unit untouched.
	reloaded, err := svc.GetByID(invoice.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, reloaded.Status)
	assert.Equal(t, 1, currentStock(t, db, product.ID))
}

func TestUpdateStatusBetweenActiveStatesLeavesStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "paidflip")
	product := seedProduct(t, db, owner.ID, "Mouse", 60000, 9)
	customer := seedCustomer(t, db, owner.ID, "Mohan", "9876500013")

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, currentStock(t, db, product.ID))

	_, err = svc.UpdateStatus(invoice.ID, owner.ID, model.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, 7, currentStock(t, db, product.ID))

	_, err = svc.UpdateStatus(invoice.ID, owner.ID, model.StatusOverdue)
	require.NoError(t, err)
	assert.Equal(t, 7, currentStock(t, db, product.ID))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "badstatus")

	_, err := svc.UpdateStatus(uuid.New(), owner.ID, model.InvoiceStatus("Refunded"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
}

func TestSendReminderRequiresCustomerEmail(t *testing.T) {
	db := setupTestDB(t)
	mail := &fakeMailer{}
	svc := newInvoiceServiceForTest(db, mail)

	owner := seedUser(t, db, "noemail")
	product := seedProduct(t, db, owner.ID, "Lamp", 30000, 3)

	customer := &model.Customer{OwnerID: owner.ID, Name: "Nisha", Phone: "9876500014"}
	require.NoError(t, db.Create(customer).Error)

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = svc.SendReminder(invoice.ID, owner.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
	assert.Zero(t, mail.sentCount())
}

func TestSendReminderIncrementsCount(t *testing.T) {
	db := setupTestDB(t)
	mail := &fakeMailer{}
	svc := newInvoiceServiceForTest(db, mail)

	owner := seedUser(t, db, "remind")
	product := seedProduct(t, db, owner.ID, "Desk", 150000, 2)
	customer := seedCustomer(t, db, owner.ID, "Omkar", "9876500015")

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendReminder(invoice.ID, owner.ID))
	require.NoError(t, svc.SendReminder(invoice.ID, owner.ID))

	assert.Equal(t, 2, mail.sentCount())

	reloaded, err := svc.GetByID(invoice.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.ReminderCount)
}

func TestSendReminderMailFailureKeepsCount(t *testing.T) {
	db := setupTestDB(t)
	mail := &fakeMailer{failNext: true}
	svc := newInvoiceServiceForTest(db, mail)

	owner := seedUser(t, db, "remindfail")
	product := seedProduct(t, db, owner.ID, "Chair", 90000, 2)
	customer := seedCustomer(t, db, owner.ID, "Pooja", "9876500016")

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = svc.SendReminder(invoice.ID, owner.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeUpstream))

	reloaded, err := svc.GetByID(invoice.ID, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.ReminderCount)
}

func TestGetByIDScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceServiceForTest(db, &fakeMailer{})

	owner := seedUser(t, db, "getowner")
	other := seedUser(t, db, "getother")
	product := seedProduct(t, db, owner.ID, "Fan", 220000, 3)
	customer := seedCustomer(t, db, owner.ID, "Qadir", "9876500017")

	invoice, err := svc.Create(owner.ID, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items:      []InvoiceItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.GetByID(invoice.ID, other.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestLockForUpdateEmitsRowLock(t *testing.T) {
	// DryRun against the postgres dialector: SQL is built, nothing connects.
	db, err := gorm.Open(postgres.Open("host=localhost user=invoicehub dbname=invoicehub"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	var product model.Product
	locked := lockForUpdate(db).First(&product, "id = ?", uuid.New()).Statement
	assert.Contains(t, locked.SQL.String(), "FOR UPDATE")

	plain := db.First(&product, "id = ?", uuid.New()).Statement
	assert.NotContains(t, plain.SQL.String(), "FOR UPDATE")
}
