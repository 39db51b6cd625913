package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"docflow/internal/blobstore"
	"docflow/internal/config"
	"docflow/internal/database"
	"docflow/internal/database/migrations"
	"docflow/internal/docflow"
	"docflow/internal/encryption"
	"docflow/internal/fs"
	"docflow/internal/metrics"
)

// Options configures one DocflowApp.
type Options struct {
	// Operation names the CLI command being run (e.g. "doc upload").
	Operation string
	// Principal is the caller every operation is authorized against.
	Principal docflow.Principal
	// Passphrase unlocks the private key of an encrypted blob store. When
	// nil, encrypted files can be stored but not read.
	Passphrase func() (string, error)
	// LogLevel defaults to debug.
	LogLevel slog.Leveler
}

// DocflowApp is the application layer between the CLI and the engine.
// It constructs all dependencies from config, authorizes every call against
// the principal, and flushes metrics and closes the database on Close.
type DocflowApp struct {
	cfg       *config.Config
	db        *database.SQLDatabase
	blobs     docflow.BlobStore
	metrics   *metrics.Prometheus
	engine    *docflow.Engine
	principal docflow.Principal
	op        *Operation
	logger    *slog.Logger
	logFile   *os.File
	urlTTL    time.Duration
}

// NewDocflowApp creates a fully wired DocflowApp from the given config.
// The caller must call Close when done.
func NewDocflowApp(ctx context.Context, cfg *config.Config, opts Options) (*DocflowApp, error) {
	urlTTL, err := cfg.Engine.PresignTTL()
	if err != nil {
		return nil, err
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date (run `docflow db migrate`): %w", err)
	}

	blobs, err := newBlobStore(ctx, cfg, opts.Passphrase)
	if err != nil {
		db.Close()
		return nil, err
	}

	op := NewOperation(opts.Operation, opts.Principal, time.Now())
	logger, logFile, err := newLogger(cfg.LogDir, op.ID, opts.LogLevel)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	m := metrics.NewPrometheus()
	engine := docflow.NewEngine(db, blobs, m, &slogAdapter{l: logger}, docflow.RealClock{}, docflow.UUIDGenerator{}, cfg.Engine.DocumentsBucket)

	logger.Debug("operation started", "operation", op.Name, "user", op.Principal.UserID, "database", db.Dialect(), "blob_store", cfg.BlobStore.Type)

	return &DocflowApp{
		cfg:       cfg,
		db:        db,
		blobs:     blobs,
		metrics:   m,
		engine:    engine,
		principal: opts.Principal,
		op:        op,
		logger:    logger,
		logFile:   logFile,
		urlTTL:    urlTTL,
	}, nil
}

// openDatabase opens the configured database. A memory database starts
// empty, so it is migrated right away.
func openDatabase(ctx context.Context, cfg *config.Config) (*database.SQLDatabase, error) {
	db, err := database.NewDatabaseFromConfig(ctx, cfg.Database, cfg.InstanceID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	if cfg.Database.Type == "memory" {
		if err := db.MigrateUp(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating memory database: %w", err)
		}
	}
	return db, nil
}

// newBlobStore creates the configured blob store, wrapped in an
// EncryptedStore when encryption is enabled.
func newBlobStore(ctx context.Context, cfg *config.Config, passphrase func() (string, error)) (docflow.BlobStore, error) {
	blobs, err := blobstore.NewBlobStoreFromConfig(ctx, cfg.BlobStore)
	if err != nil {
		return nil, fmt.Errorf("creating blob store: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if enc == nil {
		return blobs, nil
	}
	if !enc.IsConfigured() {
		return nil, errors.New("encryption keys not found (run `docflow keys init`)")
	}

	var dec docflow.DecryptionContext
	if passphrase != nil {
		p, err := passphrase()
		if err != nil {
			return nil, fmt.Errorf("reading passphrase: %w", err)
		}
		dec, err = enc.Unlock(p)
		if err != nil {
			return nil, fmt.Errorf("unlocking private key: %w", err)
		}
	}
	return blobstore.NewEncryptedStore(blobs, enc, dec), nil
}

// MigrateDatabase applies pending migrations to the configured database.
func MigrateDatabase(ctx context.Context, cfg *config.Config) (*migrations.Status, error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := db.MigrateUp(); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db.MigrationStatus()
}

// DatabaseStatus reports the schema version of the configured database.
func DatabaseStatus(ctx context.Context, cfg *config.Config) (*migrations.Status, error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.MigrationStatus()
}

// SetupKeys generates the age key pair configured in cfg.
func SetupKeys(cfg *config.Config, passphrase string) error {
	if cfg.Encryption.Type != "age" {
		return fmt.Errorf("encryption type is %q, set [encryption] type = \"age\" first", cfg.Encryption.Type)
	}
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return err
	}
	return enc.Setup(passphrase)
}

// Engine exposes the wired engine.
func (a *DocflowApp) Engine() *docflow.Engine {
	return a.engine
}

// Metrics exposes the lifecycle counters.
func (a *DocflowApp) Metrics() *metrics.Prometheus {
	return a.metrics
}

// UploadInput describes a local file to upload as a new document.
type UploadInput struct {
	Path        string
	ProjectID   string
	StageCode   string
	RecipientID string
	GroupID     string
	GroupType   string // resolves the group by type instead of ID
	Title       string // defaults to the file name
	TemplateID  string
}

// Upload creates a document from a local file. Only providers upload.
func (a *DocflowApp) Upload(ctx context.Context, in UploadInput) (*docflow.Document, error) {
	doc, err := a.upload(ctx, in)
	return doc, a.op.Record(err)
}

func (a *DocflowApp) upload(ctx context.Context, in UploadInput) (*docflow.Document, error) {
	if err := docflow.RequireProvider(a.principal); err != nil {
		return nil, err
	}

	var groupType docflow.GroupType
	if in.GroupType != "" {
		gt, err := docflow.ParseGroupType(in.GroupType)
		if err != nil {
			return nil, err
		}
		groupType = gt
	}

	file, closer, err := fs.OpenUpload(in.Path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	title := in.Title
	if title == "" {
		title = filepath.Base(in.Path)
	}
	req := docflow.CreateRequest{
		ProjectID:    in.ProjectID,
		UploaderID:   a.principal.UserID,
		UploaderType: docflow.ActorFor(a.principal),
		StageCode:    in.StageCode,
		GroupID:      in.GroupID,
		GroupType:    groupType,
		RecipientID:  in.RecipientID,
		File:         file,
		Title:        title,
		TemplateID:   in.TemplateID,
	}
	if groupType != "" {
		return a.engine.StageUpload(ctx, req)
	}
	return a.engine.ManualUpload(ctx, req)
}

// NewVersion uploads a replacement file for a document. Only providers
// upload versions.
func (a *DocflowApp) NewVersion(ctx context.Context, documentID, path, comment string) (*docflow.Document, error) {
	doc, err := a.newVersion(ctx, documentID, path, comment)
	return doc, a.op.Record(err)
}

func (a *DocflowApp) newVersion(ctx context.Context, documentID, path, comment string) (*docflow.Document, error) {
	if err := docflow.RequireProvider(a.principal); err != nil {
		return nil, err
	}
	file, closer, err := fs.OpenUpload(path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return a.engine.UploadNewVersion(ctx, docflow.NewVersionRequest{
		DocumentID:   documentID,
		UploaderID:   a.principal.UserID,
		UploaderType: docflow.ActorFor(a.principal),
		File:         file,
		Comment:      comment,
	})
}

// OpenFile opens the current file of a document. When markViewed is set
// and the caller is the recipient, the document is marked viewed.
func (a *DocflowApp) OpenFile(ctx context.Context, documentID string, markViewed bool) (io.ReadCloser, error) {
	if err := a.engine.CanReadDocument(ctx, a.principal, documentID); err != nil {
		return nil, a.op.Record(err)
	}
	rc, err := a.engine.LoadFile(ctx, docflow.LoadFileRequest{
		DocumentID: documentID,
		MarkViewed: markViewed,
		ActorType:  docflow.ActorFor(a.principal),
		ActorID:    a.principal.UserID,
	})
	return rc, a.op.Record(err)
}

// SignInput carries the evidence of a SIMPLE signature.
type SignInput struct {
	DocumentID       string
	ConfirmationCode string
	IP               string
	UserAgent        string
}

// Sign signs a document as the caller's party.
func (a *DocflowApp) Sign(ctx context.Context, in SignInput) (*docflow.Signature, error) {
	if err := a.requireParty(ctx, in.DocumentID); err != nil {
		return nil, a.op.Record(err)
	}
	sig, err := a.engine.Sign(ctx, docflow.SignRequest{
		DocumentID:       in.DocumentID,
		SignerID:         a.principal.UserID,
		SignerType:       docflow.ActorFor(a.principal),
		SignatureType:    docflow.SignatureSimple,
		ConfirmationCode: in.ConfirmationCode,
		IP:               in.IP,
		UserAgent:        in.UserAgent,
	})
	return sig, a.op.Record(err)
}

// Reject rejects a document as the caller's party.
func (a *DocflowApp) Reject(ctx context.Context, documentID, comment string) (*docflow.Document, error) {
	if err := a.requireParty(ctx, documentID); err != nil {
		return nil, a.op.Record(err)
	}
	doc, err := a.engine.Reject(ctx, docflow.RejectRequest{
		DocumentID: documentID,
		UserID:     a.principal.UserID,
		ActorType:  docflow.ActorFor(a.principal),
		Comment:    comment,
	})
	return doc, a.op.Record(err)
}

// Delete soft-deletes a document. Only providers delete.
func (a *DocflowApp) Delete(ctx context.Context, documentID, comment string) (*docflow.Document, error) {
	if err := docflow.RequireProvider(a.principal); err != nil {
		return nil, a.op.Record(err)
	}
	doc, err := a.engine.SoftDelete(ctx, docflow.DeleteRequest{
		DocumentID: documentID,
		ActorID:    a.principal.UserID,
		ActorType:  docflow.ActorFor(a.principal),
		Comment:    comment,
	})
	return doc, a.op.Record(err)
}

// List lists project documents. Clients only see their own; userID
// defaults to the caller for them.
func (a *DocflowApp) List(ctx context.Context, projectID, userID string, f docflow.ListFilter) ([]*docflow.Document, error) {
	if userID == "" && !a.principal.IsProvider() {
		userID = a.principal.UserID
	}
	if err := docflow.CanReadProject(a.principal, userID); err != nil {
		return nil, a.op.Record(err)
	}
	if userID == "" {
		docs, err := a.engine.ListByProject(ctx, projectID, f)
		return docs, a.op.Record(err)
	}
	docs, err := a.engine.ListByProjectAndUser(ctx, projectID, userID, f)
	return docs, a.op.Record(err)
}

// Show returns the full details of a document the caller can read.
func (a *DocflowApp) Show(ctx context.Context, documentID string) (*docflow.Details, error) {
	if err := a.engine.CanReadDocument(ctx, a.principal, documentID); err != nil {
		return nil, a.op.Record(err)
	}
	d, err := a.engine.GetDetails(ctx, documentID)
	return d, a.op.Record(err)
}

// FileURL returns a presigned download URL valid for the configured TTL.
func (a *DocflowApp) FileURL(ctx context.Context, documentID string) (string, error) {
	if err := a.engine.CanReadDocument(ctx, a.principal, documentID); err != nil {
		return "", a.op.Record(err)
	}
	url, err := a.engine.FileURL(ctx, documentID, a.urlTTL)
	return url, a.op.Record(err)
}

// Groups lists the document groups of a project.
func (a *DocflowApp) Groups(ctx context.Context, projectID string) ([]*docflow.Group, error) {
	if err := docflow.RequireProvider(a.principal); err != nil {
		return nil, a.op.Record(err)
	}
	groups, err := a.engine.ListGroups(ctx, projectID)
	return groups, a.op.Record(err)
}

// StageStatus reports whether all documents of a stage are signed.
func (a *DocflowApp) StageStatus(ctx context.Context, projectID, stageCode string) (*docflow.Readiness, error) {
	if err := docflow.RequireProvider(a.principal); err != nil {
		return nil, a.op.Record(err)
	}
	r, err := a.engine.StageReadiness(ctx, projectID, stageCode)
	return r, a.op.Record(err)
}

// requireParty allows providers and the document's recipient.
func (a *DocflowApp) requireParty(ctx context.Context, documentID string) error {
	if a.principal.IsProvider() {
		return nil
	}
	doc, err := a.engine.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if a.principal.UserID == "" || doc.RecipientID != a.principal.UserID {
		return fmt.Errorf("%w: only the recipient may act on document %s", docflow.ErrForbidden, documentID)
	}
	return nil
}

// Close writes the metrics textfile, closes the database and the log file.
func (a *DocflowApp) Close() error {
	var firstErr error

	if path := a.cfg.Metrics.TextfilePath; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			firstErr = err
		}
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	a.logger.Debug("operation finished", "operation", a.op.Name, "status", a.op.Status,
		"duration", time.Since(a.op.StartedAt).Round(time.Millisecond))

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
