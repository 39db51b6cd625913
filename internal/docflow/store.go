package docflow

import (
	"context"
	"time"
)

// Store provides transactional access to documents and their ledgers.
type Store interface {
	// InTx runs fn inside a transaction and commits if fn returns nil.
	// If ctx already carries a transaction of this store, fn joins it
	// instead; an error from a joined fn marks the outer transaction
	// rollback-only.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// Close closes the underlying connection.
	Close() error
}

// Tx is the unit of work handed to InTx callbacks. Lookups that find
// nothing return an error wrapping ErrNotFound.
type Tx interface {
	// Document record

	// LockDocument loads a document and holds an exclusive lock on it
	// until the transaction completes.
	LockDocument(ctx context.Context, id string) (*Document, error)

	// GetDocument loads a document without locking it.
	GetDocument(ctx context.Context, id string) (*Document, error)

	// InsertDocument creates a new document record.
	InsertDocument(ctx context.Context, doc *Document) error

	// UpdateDocument persists the mutable fields of a document record.
	UpdateDocument(ctx context.Context, doc *Document) error

	// ListDocuments returns documents matching q, oldest first.
	ListDocuments(ctx context.Context, q DocumentQuery) ([]*Document, error)

	// Version ledger

	InsertVersion(ctx context.Context, v *Version) error
	ListVersions(ctx context.Context, documentID string) ([]*Version, error) // newest first

	// Signature ledger

	InsertSignature(ctx context.Context, sig *Signature) error
	HasSignature(ctx context.Context, documentID string, signerType ActorType) (bool, error)
	ListSignatures(ctx context.Context, documentID string) ([]*Signature, error)

	// Comments and audit ledger

	InsertComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, documentID string) ([]*Comment, error)
	InsertAudit(ctx context.Context, entry *AuditEntry) error
	ListAudit(ctx context.Context, documentID string) ([]*AuditEntry, error)

	// Groups

	GetGroup(ctx context.Context, id string) (*Group, error)

	// GetOrCreateGroup returns the group of the given type for a project,
	// creating it if needed. Concurrent first calls converge on one row.
	GetOrCreateGroup(ctx context.Context, g *Group) (*Group, error)

	// SetGroupRootDocument records the root document of a group unless it
	// already has one.
	SetGroupRootDocument(ctx context.Context, groupID, documentID string, at time.Time) error
	ListGroups(ctx context.Context, projectID string) ([]*Group, error)

	// AfterCompletion registers fn to run exactly once after the transaction
	// outcome is known. committed is false when the transaction rolled back.
	AfterCompletion(fn func(committed bool))
}
