package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"go-invoicehub/internal/model"
	"go-invoicehub/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Admin{},
		&model.Product{},
		&model.Customer{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Complaint{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		BusinessName: username + " traders",
		IsVerified:   true,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string, price int64, stock int) *model.Product {
	t.Helper()

	product := &model.Product{
		OwnerID: ownerID,
		Name:    name,
		Price:   price,
		Stock:   stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedCustomer(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name, phone string) *model.Customer {
	t.Helper()

	customer := &model.Customer{
		OwnerID: ownerID,
		Name:    name,
		Email:   strings.ToLower(name) + "@example.com",
		Phone:   phone,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func currentStock(t *testing.T, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()

	var product model.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	return product.Stock
}

// fakeMailer records outgoing mail instead of dialing SMTP.
type fakeMailer struct {
	mu       sync.Mutex
	sent     []fakeMail
	failNext bool
}

type fakeMail struct {
	To         string
	Subject    string
	Body       string
	Attachment []byte
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	return m.record(to, subject, htmlBody, nil)
}

func (m *fakeMailer) SendWithAttachment(to, subject, htmlBody string, attachment []byte, filename string) error {
	return m.record(to, subject, htmlBody, attachment)
}

func (m *fakeMailer) record(to, subject, body string, attachment []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("smtp unavailable")
	}
	m.sent = append(m.sent, fakeMail{To: to, Subject: subject, Body: body, Attachment: attachment})
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newInvoiceServiceForTest(db *gorm.DB, mail *fakeMailer) InvoiceService {
	return NewInvoiceService(
		db,
		repository.NewInvoiceRepo(db),
		repository.NewProductRepo(db),
		repository.NewCustomerRepo(db),
		repository.NewUserRepo(db),
		stubRenderer{},
		mail,
		nil,
		zap.NewNop(),
	)
}

// stubRenderer skips real PDF generation in tests.
type stubRenderer struct{}

func (stubRenderer) RenderInvoice(invoice *model.Invoice, owner *model.User) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}
