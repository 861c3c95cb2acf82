package service

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/devis-api/internal/domain/entity"
	"github.com/sangkips/devis-api/internal/domain/repository"
	"github.com/sangkips/devis-api/internal/infrastructure/storage"
	"github.com/sangkips/devis-api/internal/pdf"
	"github.com/sangkips/devis-api/pkg/apperror"
	"github.com/sangkips/devis-api/pkg/email"
	"github.com/sangkips/devis-api/pkg/layout"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeQuoteRepo struct {
	quotes map[uuid.UUID]*entity.Quote
}

func (r *fakeQuoteRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Quote, error) {
	return r.quotes[id], nil
}

func (r *fakeQuoteRepo) GetByNumber(_ context.Context, number string) (*entity.Quote, error) {
	for _, q := range r.quotes {
		if q.Number == number {
			return q, nil
		}
	}
	return nil, nil
}

func (r *fakeQuoteRepo) GetForRender(ctx context.Context, id uuid.UUID) (*entity.Quote, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeQuoteRepo) List(_ context.Context, userID uuid.UUID, _ *repository.QuoteFilterParams) ([]entity.Quote, int64, error) {
	var out []entity.Quote
	for _, q := range r.quotes {
		if q.UserID == userID {
			out = append(out, *q)
		}
	}
	return out, int64(len(out)), nil
}

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*entity.Invoice
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.invoices[id], nil
}

func (r *fakeInvoiceRepo) GetByNumber(_ context.Context, _ string) (*entity.Invoice, error) {
	return nil, nil
}

func (r *fakeInvoiceRepo) GetForRender(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeInvoiceRepo) List(_ context.Context, _ uuid.UUID, _ *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	return nil, 0, nil
}

type fakeFileRepo struct {
	mu    sync.Mutex
	files []entity.GeneratedFile
}

func (r *fakeFileRepo) Create(_ context.Context, file *entity.GeneratedFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	file.ID = uuid.New()
	r.files = append(r.files, *file)
	return nil
}

func (r *fakeFileRepo) ListByDocument(_ context.Context, kind string, documentID uuid.UUID) ([]entity.GeneratedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.GeneratedFile
	for i := len(r.files) - 1; i >= 0; i-- {
		if r.files[i].DocumentKind == kind && r.files[i].DocumentID == documentID {
			out = append(out, r.files[i])
		}
	}
	return out, nil
}

func (r *fakeFileRepo) GetLatest(ctx context.Context, kind string, documentID uuid.UUID) (*entity.GeneratedFile, error) {
	files, _ := r.ListByDocument(ctx, kind, documentID)
	if len(files) == 0 {
		return nil, nil
	}
	return &files[0], nil
}

type recordingMailer struct {
	sent []email.DocumentMail
}

func (m *recordingMailer) SendDocument(mail email.DocumentMail) error {
	m.sent = append(m.sent, mail)
	return nil
}

func testRenderService() *RenderService {
	profiles := map[string]layout.Profile{
		layout.KindQuote:   layout.QuoteProfile(),
		layout.KindInvoice: layout.InvoiceProfile(),
	}
	return NewRenderService(profiles, pdf.NewRenderer(pdf.DefaultConfig()), zap.NewNop())
}

func testStore(t *testing.T) *storage.LocalStorage {
	t.Helper()
	s, err := storage.NewStorage(afero.NewMemMapFs(), "/files", 0)
	require.NoError(t, err)
	return s
}

func sampleQuote(owner uuid.UUID, lines int) *entity.Quote {
	clientEmail := "jeanne@example.fr"
	q := &entity.Quote{
		ID:            uuid.New(),
		UserID:        owner,
		Number:        "DEV-0007",
		IssueDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		TaxRate:       decimal.NewFromInt(20),
		AmountExclTax: decimal.NewFromInt(int64(100 * lines)),
		Client:        &entity.Client{Name: "Jeanne Petit", Email: &clientEmail},
		Issuer:        &entity.Company{Name: "Studio Lumen"},
	}
	for i := 0; i < lines; i++ {
		q.Lines = append(q.Lines, entity.QuoteLine{
			ID:        uuid.New(),
			Position:  i,
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(100),
			Amount:    decimal.NewFromInt(100),
		})
	}
	return q
}

type quoteFixture struct {
	svc    *QuoteService
	files  *fakeFileRepo
	mailer *recordingMailer
	owner  uuid.UUID
	quote  *entity.Quote
}

func newQuoteFixture(t *testing.T, withMailer bool) quoteFixture {
	owner := uuid.New()
	q := sampleQuote(owner, 12)
	files := &fakeFileRepo{}
	mailer := &recordingMailer{}

	var dm DocumentMailer
	if withMailer {
		dm = mailer
	}
	svc := NewQuoteService(
		&fakeQuoteRepo{quotes: map[uuid.UUID]*entity.Quote{q.ID: q}},
		files, testRenderService(), testStore(t), dm, zap.NewNop(),
	)
	return quoteFixture{svc: svc, files: files, mailer: mailer, owner: owner, quote: q}
}

func statusOf(err error) int {
	return apperror.GetAppError(err).Code
}

func TestRenderServicePDF(t *testing.T) {
	q := sampleQuote(uuid.New(), 30)
	svc := NewQuoteService(&fakeQuoteRepo{quotes: map[uuid.UUID]*entity.Quote{q.ID: q}},
		&fakeFileRepo{}, testRenderService(), testStore(t), nil, zap.NewNop())

	rendered, err := svc.RenderPDF(context.Background(), q.UserID, q.ID)
	require.NoError(t, err)
	assert.Nil(t, rendered.Failed)
	assert.Greater(t, rendered.Pages, 1)
	assert.Equal(t, "devis-dev-0007.pdf", rendered.FileName)
	assert.True(t, strings.HasPrefix(string(rendered.Data), "%PDF-"))
}

func TestRenderServicePreconditionPage(t *testing.T) {
	q := sampleQuote(uuid.New(), 1)
	q.Client = nil
	svc := NewQuoteService(&fakeQuoteRepo{quotes: map[uuid.UUID]*entity.Quote{q.ID: q}},
		&fakeFileRepo{}, testRenderService(), testStore(t), nil, zap.NewNop())

	rendered, err := svc.RenderPDF(context.Background(), q.UserID, q.ID)
	require.NoError(t, err)
	require.NotNil(t, rendered.Failed)
	assert.Equal(t, "client", rendered.Failed.Field)
	assert.Equal(t, 1, rendered.Pages)
}

func TestRenderServiceLayoutPrecondition(t *testing.T) {
	_, err := testRenderService().Layout(context.Background(), nil)
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "document", appErr.Errors[0].Field)
}

func TestQuoteAccessControl(t *testing.T) {
	f := newQuoteFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, uuid.New(), f.quote.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, err = f.svc.Get(ctx, f.owner, uuid.New())
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	_, err = f.svc.Files(ctx, uuid.New(), f.quote.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(err))
}

func TestQuoteSaveRenderedPDF(t *testing.T) {
	f := newQuoteFixture(t, false)
	ctx := context.Background()

	file, err := f.svc.SavePDF(ctx, f.owner, f.quote.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, layout.KindQuote, file.DocumentKind)
	assert.Equal(t, f.quote.ID, file.DocumentID)
	assert.Equal(t, "devis-dev-0007.pdf", file.FileName)
	assert.True(t, strings.HasPrefix(file.Path, "quote/"+f.quote.ID.String()+"/"))
	assert.Positive(t, file.Pages)
	assert.Len(t, file.SHA256, 64)

	saved, err := f.svc.SavedPDF(ctx, f.owner, f.quote.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(saved.Data), "%PDF-"))
	assert.Equal(t, file.Size, int64(len(saved.Data)))

	files, err := f.svc.Files(ctx, f.owner, f.quote.ID)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestQuoteSaveUploadedPDF(t *testing.T) {
	f := newQuoteFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.SavePDF(ctx, f.owner, f.quote.ID, []byte("not a pdf"))
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	file, err := f.svc.SavePDF(ctx, f.owner, f.quote.ID, []byte("%PDF-1.4 uploaded"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("%PDF-1.4 uploaded")), file.Size)
}

func TestQuoteSaveRefusesIncompleteQuote(t *testing.T) {
	f := newQuoteFixture(t, false)
	f.quote.Number = ""

	_, err := f.svc.SavePDF(context.Background(), f.owner, f.quote.ID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(err))
	assert.Empty(t, f.files.files)
}

func TestQuoteSavedPDFMissing(t *testing.T) {
	f := newQuoteFixture(t, false)

	_, err := f.svc.SavedPDF(context.Background(), f.owner, f.quote.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestQuoteSendPDF(t *testing.T) {
	f := newQuoteFixture(t, true)

	err := f.svc.SendPDF(context.Background(), f.owner, f.quote.ID, SendInput{})
	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 1)

	mail := f.mailer.sent[0]
	assert.Equal(t, "jeanne@example.fr", mail.To)
	assert.Equal(t, "Devis DEV-0007 - Studio Lumen", mail.Subject)
	assert.Equal(t, "devis-dev-0007.pdf", mail.Attachment.Name)
	assert.Equal(t, "application/pdf", mail.Attachment.ContentType)
	assert.True(t, strings.HasPrefix(string(mail.Attachment.Data), "%PDF-"))
}

func TestQuoteSendPDFOverrides(t *testing.T) {
	f := newQuoteFixture(t, true)

	err := f.svc.SendPDF(context.Background(), f.owner, f.quote.ID, SendInput{To: "compta@example.fr", Subject: "Votre devis"})
	require.NoError(t, err)
	assert.Equal(t, "compta@example.fr", f.mailer.sent[0].To)
	assert.Equal(t, "Votre devis", f.mailer.sent[0].Subject)
}

func TestQuoteSendPDFRefusals(t *testing.T) {
	ctx := context.Background()

	t.Run("mail disabled", func(t *testing.T) {
		f := newQuoteFixture(t, false)
		err := f.svc.SendPDF(ctx, f.owner, f.quote.ID, SendInput{})
		assert.Equal(t, http.StatusServiceUnavailable, statusOf(err))
	})

	t.Run("no recipient", func(t *testing.T) {
		f := newQuoteFixture(t, true)
		f.quote.Client.Email = nil
		err := f.svc.SendPDF(ctx, f.owner, f.quote.ID, SendInput{})
		assert.Equal(t, http.StatusUnprocessableEntity, statusOf(err))
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("precondition failure", func(t *testing.T) {
		f := newQuoteFixture(t, true)
		f.quote.Client = nil
		err := f.svc.SendPDF(ctx, f.owner, f.quote.ID, SendInput{To: "x@example.fr"})
		assert.Equal(t, http.StatusUnprocessableEntity, statusOf(err))
		assert.Empty(t, f.mailer.sent)
	})
}

func TestInvoiceSendPDF(t *testing.T) {
	owner := uuid.New()
	due := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		ID:            uuid.New(),
		UserID:        owner,
		Number:        "FAC-0042",
		IssueDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		DueDate:       &due,
		TaxRate:       decimal.NewFromInt(20),
		AmountExclTax: decimal.NewFromInt(250),
		Client:        &entity.Client{Name: "SARL Martin"},
	}
	mailer := &recordingMailer{}
	files := &fakeFileRepo{}
	svc := NewInvoiceService(&fakeInvoiceRepo{invoices: map[uuid.UUID]*entity.Invoice{inv.ID: inv}},
		files, testRenderService(), testStore(t), mailer, zap.NewNop())

	err := svc.SendPDF(context.Background(), owner, inv.ID, SendInput{To: "martin@example.fr"})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Facture FAC-0042", mailer.sent[0].Subject)
	assert.Equal(t, "facture-fac-0042.pdf", mailer.sent[0].Attachment.Name)

	file, err := svc.SavePDF(context.Background(), owner, inv.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, layout.KindInvoice, file.DocumentKind)
	assert.True(t, strings.HasPrefix(file.Path, "invoice/"))
}

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "Devis D-1", subjectFor("Devis", "D-1", ""))
	assert.Equal(t, "Facture F-1 - ACME", subjectFor("Facture", "F-1", "ACME"))
}
