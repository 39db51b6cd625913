package docflow

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultBucket is the blob store bucket holding document files.
const DefaultBucket = "documents"

// Engine is the document workflow engine. Every operation runs in exactly
// one store transaction; mutating operations lock the document row first,
// which serializes all mutations of one document while leaving other
// documents independent.
type Engine struct {
	store   Store
	blobs   BlobStore
	metrics Metrics
	logger  Logger
	clock   Clock
	idgen   IDGenerator
	bucket  string
}

// NewEngine creates an Engine with the provided dependencies.
// An empty bucket selects DefaultBucket.
func NewEngine(store Store, blobs BlobStore, metrics Metrics, logger Logger, clock Clock, idgen IDGenerator, bucket string) *Engine {
	if bucket == "" {
		bucket = DefaultBucket
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Engine{
		store:   store,
		blobs:   blobs,
		metrics: metrics,
		logger:  logger,
		clock:   clock,
		idgen:   idgen,
		bucket:  bucket,
	}
}

// Atomically runs fn in a single transaction. Engine operations invoked
// with the context passed to fn join that transaction, so either all of
// them commit or none do.
func (e *Engine) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	return e.inTx(ctx, func(ctx context.Context, _ Tx) error {
		return fn(ctx)
	})
}

// inTx detaches from caller cancellation: once started, an operation runs
// to normal completion or failure while it holds the document lock.
func (e *Engine) inTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return e.store.InTx(context.WithoutCancel(ctx), fn)
}

// saveBlob stores an uploaded file and registers a completion hook that
// deletes it again if the transaction rolls back.
func (e *Engine) saveBlob(ctx context.Context, tx Tx, file Upload) (string, error) {
	blobID, err := e.blobs.Save(ctx, e.bucket, file.Body, file.Size, file.ContentType, file.Filename)
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload file: %w", ErrBadInput, err)
	}

	tx.AfterCompletion(func(committed bool) {
		if committed {
			return
		}
		e.logger.Info("transaction rolled back, deleting blob", "bucket", e.bucket, "blob", blobID)
		if err := e.blobs.Delete(context.Background(), e.bucket, blobID); err != nil {
			e.logger.Warn("compensating blob delete failed", "bucket", e.bucket, "blob", blobID, "error", err)
		}
	})

	return blobID, nil
}

// addComment stores a non-blank comment and its COMMENT_ADDED audit entry.
func (e *Engine) addComment(ctx context.Context, tx Tx, doc *Document, who actor, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	c := &Comment{
		DocumentID: doc.ID,
		AuthorType: who.Type,
		AuthorID:   who.ID,
		Text:       text,
		CreatedAt:  e.clock.Now(),
	}
	if err := tx.InsertComment(ctx, c); err != nil {
		return fmt.Errorf("adding comment: %w", err)
	}
	return e.audit(ctx, tx, doc, who, CommentAddedPayload{Text: text})
}

// onCommit runs fn after the transaction commits.
func onCommit(tx Tx, fn func()) {
	tx.AfterCompletion(func(committed bool) {
		if committed {
			fn()
		}
	})
}

// stamp returns the current time for a lifecycle timestamp field.
func (e *Engine) stamp() *time.Time {
	t := e.clock.Now()
	return &t
}
