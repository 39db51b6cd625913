package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"docflow/internal/database/sqlc"
	"docflow/internal/docflow"
)

// Document record

func (u *unitOfWork) LockDocument(ctx context.Context, id string) (*docflow.Document, error) {
	row, err := u.lock(u.q, ctx, id)
	if err != nil {
		return nil, notFound(err, "document", id)
	}
	return documentFromRow(row), nil
}

func (u *unitOfWork) GetDocument(ctx context.Context, id string) (*docflow.Document, error) {
	row, err := u.q.GetDocument(ctx, id)
	if err != nil {
		return nil, notFound(err, "document", id)
	}
	return documentFromRow(row), nil
}

func (u *unitOfWork) InsertDocument(ctx context.Context, doc *docflow.Document) error {
	return u.q.InsertDocument(ctx, sqlc.InsertDocumentParams{
		ID:            doc.ID,
		ProjectID:     doc.ProjectID,
		RecipientID:   doc.RecipientID,
		StageCode:     doc.StageCode,
		Status:        string(doc.Status),
		Version:       int64(doc.Version),
		CurrentBlobID: doc.CurrentBlobID,
		GroupID:       nullString(doc.GroupID),
		TemplateID:    nullString(doc.TemplateID),
		Title:         doc.Title,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		SentAt:        nullTime(doc.SentAt),
		ViewedAt:      nullTime(doc.ViewedAt),
		SignedAt:      nullTime(doc.SignedAt),
		RejectedAt:    nullTime(doc.RejectedAt),
		DeletedAt:     nullTime(doc.DeletedAt),
	})
}

func (u *unitOfWork) UpdateDocument(ctx context.Context, doc *docflow.Document) error {
	return u.q.UpdateDocument(ctx, sqlc.UpdateDocumentParams{
		Status:        string(doc.Status),
		Version:       int64(doc.Version),
		CurrentBlobID: doc.CurrentBlobID,
		UpdatedAt:     doc.UpdatedAt,
		SentAt:        nullTime(doc.SentAt),
		ViewedAt:      nullTime(doc.ViewedAt),
		SignedAt:      nullTime(doc.SignedAt),
		RejectedAt:    nullTime(doc.RejectedAt),
		DeletedAt:     nullTime(doc.DeletedAt),
		ID:            doc.ID,
	})
}

func (u *unitOfWork) ListDocuments(ctx context.Context, q docflow.DocumentQuery) ([]*docflow.Document, error) {
	rows, err := u.q.ListDocuments(ctx, sqlc.ListDocumentsParams{
		ProjectID:       q.ProjectID,
		RecipientFilter: q.RecipientID,
		RecipientID:     q.RecipientID,
		GroupFilter:     q.GroupID,
		GroupID:         q.GroupID,
		StageFilter:     q.Stage,
		StageCode:       q.Stage,
		StatusFilter:    string(q.Status),
		Status:          string(q.Status),
		GroupTypeFilter: string(q.GroupType),
		GroupType:       string(q.GroupType),
	})
	if err != nil {
		return nil, err
	}
	docs := make([]*docflow.Document, len(rows))
	for i, row := range rows {
		docs[i] = documentFromRow(row)
	}
	return docs, nil
}

// Version ledger

func (u *unitOfWork) InsertVersion(ctx context.Context, v *docflow.Version) error {
	return u.q.InsertVersion(ctx, sqlc.InsertVersionParams{
		DocumentID:    v.DocumentID,
		Version:       int64(v.Version),
		BlobID:        v.BlobID,
		CreatedByType: string(v.CreatedByType),
		CreatedByID:   v.CreatedByID,
		CreatedAt:     v.CreatedAt,
	})
}

func (u *unitOfWork) ListVersions(ctx context.Context, documentID string) ([]*docflow.Version, error) {
	rows, err := u.q.ListVersions(ctx, documentID)
	if err != nil {
		return nil, err
	}
	versions := make([]*docflow.Version, len(rows))
	for i, row := range rows {
		versions[i] = &docflow.Version{
			DocumentID:    row.DocumentID,
			Version:       int(row.Version),
			BlobID:        row.BlobID,
			CreatedByType: docflow.ActorType(row.CreatedByType),
			CreatedByID:   row.CreatedByID,
			CreatedAt:     row.CreatedAt,
		}
	}
	return versions, nil
}

// Signature ledger

func (u *unitOfWork) InsertSignature(ctx context.Context, sig *docflow.Signature) error {
	return u.q.InsertSignature(ctx, sqlc.InsertSignatureParams{
		ID:         sig.ID,
		DocumentID: sig.DocumentID,
		SignerID:   sig.SignerID,
		SignerType: string(sig.SignerType),
		Type:       string(sig.Type),
		FileHash:   sig.FileHash,
		Payload:    string(sig.Payload),
		SignedAt:   sig.SignedAt,
	})
}

func (u *unitOfWork) HasSignature(ctx context.Context, documentID string, signerType docflow.ActorType) (bool, error) {
	n, err := u.q.CountSignaturesBySignerType(ctx, sqlc.CountSignaturesBySignerTypeParams{
		DocumentID: documentID,
		SignerType: string(signerType),
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (u *unitOfWork) ListSignatures(ctx context.Context, documentID string) ([]*docflow.Signature, error) {
	rows, err := u.q.ListSignatures(ctx, documentID)
	if err != nil {
		return nil, err
	}
	sigs := make([]*docflow.Signature, len(rows))
	for i, row := range rows {
		sigs[i] = &docflow.Signature{
			ID:         row.ID,
			DocumentID: row.DocumentID,
			SignerID:   row.SignerID,
			SignerType: docflow.ActorType(row.SignerType),
			Type:       docflow.SignatureType(row.Type),
			FileHash:   row.FileHash,
			Payload:    json.RawMessage(row.Payload),
			SignedAt:   row.SignedAt,
		}
	}
	return sigs, nil
}

// Comments and audit ledger

func (u *unitOfWork) InsertComment(ctx context.Context, c *docflow.Comment) error {
	seq, err := u.q.InsertComment(ctx, sqlc.InsertCommentParams{
		DocumentID: c.DocumentID,
		AuthorType: string(c.AuthorType),
		AuthorID:   c.AuthorID,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	})
	if err != nil {
		return err
	}
	c.Seq = seq
	return nil
}

func (u *unitOfWork) ListComments(ctx context.Context, documentID string) ([]*docflow.Comment, error) {
	rows, err := u.q.ListComments(ctx, documentID)
	if err != nil {
		return nil, err
	}
	comments := make([]*docflow.Comment, len(rows))
	for i, row := range rows {
		comments[i] = &docflow.Comment{
			Seq:        row.Seq,
			DocumentID: row.DocumentID,
			AuthorType: docflow.ActorType(row.AuthorType),
			AuthorID:   row.AuthorID,
			Text:       row.Text,
			CreatedAt:  row.CreatedAt,
		}
	}
	return comments, nil
}

func (u *unitOfWork) InsertAudit(ctx context.Context, entry *docflow.AuditEntry) error {
	seq, err := u.q.InsertAuditLog(ctx, sqlc.InsertAuditLogParams{
		DocumentID: entry.DocumentID,
		ActorType:  string(entry.ActorType),
		ActorID:    entry.ActorID,
		Action:     string(entry.Action),
		Payload:    string(entry.Payload),
		CreatedAt:  entry.CreatedAt,
	})
	if err != nil {
		return err
	}
	entry.Seq = seq
	return nil
}

func (u *unitOfWork) ListAudit(ctx context.Context, documentID string) ([]*docflow.AuditEntry, error) {
	rows, err := u.q.ListAuditLog(ctx, documentID)
	if err != nil {
		return nil, err
	}
	entries := make([]*docflow.AuditEntry, len(rows))
	for i, row := range rows {
		entries[i] = &docflow.AuditEntry{
			Seq:        row.Seq,
			DocumentID: row.DocumentID,
			ActorType:  docflow.ActorType(row.ActorType),
			ActorID:    row.ActorID,
			Action:     docflow.AuditAction(row.Action),
			Payload:    json.RawMessage(row.Payload),
			CreatedAt:  row.CreatedAt,
		}
	}
	return entries, nil
}

// Groups

func (u *unitOfWork) GetGroup(ctx context.Context, id string) (*docflow.Group, error) {
	row, err := u.q.GetGroup(ctx, id)
	if err != nil {
		return nil, notFound(err, "group", id)
	}
	return groupFromRow(row), nil
}

func (u *unitOfWork) GetOrCreateGroup(ctx context.Context, g *docflow.Group) (*docflow.Group, error) {
	err := u.q.InsertGroupIfAbsent(ctx, sqlc.InsertGroupIfAbsentParams{
		ID:             g.ID,
		ProjectID:      g.ProjectID,
		Type:           string(g.Type),
		Title:          g.Title,
		RootDocumentID: nullString(g.RootDocumentID),
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("inserting group: %w", err)
	}
	row, err := u.q.GetGroupByProjectAndType(ctx, sqlc.GetGroupByProjectAndTypeParams{
		ProjectID: g.ProjectID,
		Type:      string(g.Type),
	})
	if err != nil {
		return nil, fmt.Errorf("loading group: %w", err)
	}
	return groupFromRow(row), nil
}

func (u *unitOfWork) SetGroupRootDocument(ctx context.Context, groupID, documentID string, at time.Time) error {
	return u.q.SetGroupRootDocument(ctx, sqlc.SetGroupRootDocumentParams{
		RootDocumentID: nullString(documentID),
		UpdatedAt:      at,
		ID:             groupID,
	})
}

func (u *unitOfWork) ListGroups(ctx context.Context, projectID string) ([]*docflow.Group, error) {
	rows, err := u.q.ListGroupsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	groups := make([]*docflow.Group, len(rows))
	for i, row := range rows {
		groups[i] = groupFromRow(row)
	}
	return groups, nil
}

// Row conversion

func documentFromRow(row sqlc.Document) *docflow.Document {
	return &docflow.Document{
		ID:            row.ID,
		ProjectID:     row.ProjectID,
		RecipientID:   row.RecipientID,
		StageCode:     row.StageCode,
		Status:        docflow.Status(row.Status),
		Version:       int(row.Version),
		CurrentBlobID: row.CurrentBlobID,
		GroupID:       row.GroupID.String,
		TemplateID:    row.TemplateID.String,
		Title:         row.Title,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		SentAt:        timePtr(row.SentAt),
		ViewedAt:      timePtr(row.ViewedAt),
		SignedAt:      timePtr(row.SignedAt),
		RejectedAt:    timePtr(row.RejectedAt),
		DeletedAt:     timePtr(row.DeletedAt),
	}
}

func groupFromRow(row sqlc.DocumentGroup) *docflow.Group {
	return &docflow.Group{
		ID:             row.ID,
		ProjectID:      row.ProjectID,
		Type:           docflow.GroupType(row.Type),
		Title:          row.Title,
		RootDocumentID: row.RootDocumentID.String,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

// notFound maps sql.ErrNoRows to docflow.ErrNotFound.
func notFound(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", docflow.ErrNotFound, kind, id)
	}
	return fmt.Errorf("loading %s %s: %w", kind, id, err)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
