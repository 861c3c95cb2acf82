package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/devis-api/internal/domain/entity"
	"github.com/sangkips/devis-api/internal/domain/repository"
	"github.com/sangkips/devis-api/internal/infrastructure/storage"
	"github.com/sangkips/devis-api/pkg/apperror"
	"github.com/sangkips/devis-api/pkg/email"
	"go.uber.org/zap"
)

// FileStore persists PDF bytes
type FileStore interface {
	Save(name string, data []byte) (*storage.StoredFile, error)
	Read(name string) ([]byte, error)
}

// DocumentMailer delivers a rendered document by mail
type DocumentMailer interface {
	SendDocument(mail email.DocumentMail) error
}

// SendInput carries the optional recipient override of a send request
type SendInput struct {
	To      string
	Subject string
}

// documentFiles saves and mails PDFs for one document kind
type documentFiles struct {
	kind   string
	files  repository.GeneratedFileRepository
	store  FileStore
	mailer DocumentMailer
	logger *zap.Logger
	now    func() time.Time
}

func newDocumentFiles(kind string, files repository.GeneratedFileRepository, store FileStore, mailer DocumentMailer, logger *zap.Logger) documentFiles {
	return documentFiles{
		kind:   kind,
		files:  files,
		store:  store,
		mailer: mailer,
		logger: logger,
		now:    time.Now,
	}
}

var pdfMagic = []byte("%PDF-")

// save stores data under <kind>/<document id>/ and records it
func (d documentFiles) save(ctx context.Context, userID, documentID uuid.UUID, rendered *RenderedPDF) (*entity.GeneratedFile, error) {
	if !bytes.HasPrefix(rendered.Data, pdfMagic) {
		return nil, apperror.NewBadRequestError("Uploaded file is not a PDF")
	}

	name := fmt.Sprintf("%s/%s/%s-%s", d.kind, documentID, d.now().UTC().Format("20060102T150405"), rendered.FileName)
	stored, err := d.store.Save(name, rendered.Data)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, apperror.ErrPayloadTooLarge
		}
		return nil, apperror.NewInternalError("Failed to store PDF", err)
	}

	file := &entity.GeneratedFile{
		UserID:       userID,
		DocumentKind: d.kind,
		DocumentID:   documentID,
		FileName:     rendered.FileName,
		Path:         stored.Path,
		Size:         stored.Size,
		SHA256:       stored.SHA256,
		Pages:        rendered.Pages,
	}
	if err := d.files.Create(ctx, file); err != nil {
		return nil, apperror.NewInternalError("Failed to record PDF", err)
	}

	d.logger.Info("pdf saved",
		zap.String("kind", d.kind),
		zap.String("document_id", documentID.String()),
		zap.String("path", stored.Path),
		zap.Int64("size", stored.Size),
	)
	return file, nil
}

// list returns every saved PDF of a document, newest first
func (d documentFiles) list(ctx context.Context, documentID uuid.UUID) ([]entity.GeneratedFile, error) {
	files, err := d.files.ListByDocument(ctx, d.kind, documentID)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []entity.GeneratedFile{}
	}
	return files, nil
}

// latest loads the bytes of the most recently saved PDF of a document
func (d documentFiles) latest(ctx context.Context, documentID uuid.UUID) (*RenderedPDF, error) {
	file, err := d.files.GetLatest(ctx, d.kind, documentID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, apperror.NewNotFoundError("Saved PDF")
	}

	data, err := d.store.Read(file.Path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperror.NewNotFoundError("Saved PDF")
		}
		return nil, apperror.NewInternalError("Failed to read PDF", err)
	}
	return &RenderedPDF{Data: data, FileName: file.FileName, Pages: file.Pages}, nil
}

// send mails a rendered document. Documents stopped by a precondition are
// never mailed: the client would receive the explanatory page.
func (d documentFiles) send(rendered *RenderedPDF, mail email.DocumentMail) error {
	if rendered.Failed != nil {
		return toAppError(rendered.Failed)
	}
	if d.mailer == nil {
		return apperror.ErrMailNotAvailable
	}
	if strings.TrimSpace(mail.To) == "" {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "to", Message: "No recipient address: the client has no email"},
		})
	}

	mail.Attachment = email.Attachment{Name: rendered.FileName, ContentType: "application/pdf", Data: rendered.Data}
	if err := d.mailer.SendDocument(mail); err != nil {
		d.logger.Error("pdf mail failed", zap.String("kind", d.kind), zap.String("to", mail.To), zap.Error(err))
		return apperror.NewInternalError("Failed to send email", err)
	}

	d.logger.Info("pdf mailed", zap.String("kind", d.kind), zap.String("to", mail.To), zap.String("file", rendered.FileName))
	return nil
}

// ownedBy rejects documents belonging to another user
func ownedBy(owner, userID uuid.UUID) error {
	if userID != uuid.Nil && owner != userID {
		return apperror.ErrForbidden
	}
	return nil
}

func subjectFor(title, number, issuer string) string {
	if issuer == "" {
		return title + " " + number
	}
	return title + " " + number + " - " + issuer
}
