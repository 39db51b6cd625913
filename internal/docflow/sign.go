package docflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// minConfirmationCodeLen is the shortest confirmation code accepted for a
// SIMPLE signature.
const minConfirmationCodeLen = 4

// SignRequest describes one party signing a document.
type SignRequest struct {
	DocumentID       string
	SignerID         string
	SignerType       ActorType
	SignatureType    SignatureType
	ConfirmationCode string
	IP               string
	UserAgent        string
}

// signaturePayload is the evidence stored with a signature.
type signaturePayload struct {
	IP               string `json:"ip"`
	UserAgent        string `json:"userAgent"`
	ConfirmationCode string `json:"confirmationCode"`
}

// Sign records a signature bound to the hash of the document's current
// blob. Once both a CLIENT and a MANAGER signature exist the document moves
// to SIGNED. The whole check-insert-complete sequence runs under the
// document lock, so concurrent signers complete the document exactly once.
func (e *Engine) Sign(ctx context.Context, req SignRequest) (*Signature, error) {
	if req.SignatureType != SignatureSimple {
		return nil, fmt.Errorf("%w: unsupported signature type %q", ErrBadInput, req.SignatureType)
	}
	if utf8.RuneCountInString(req.ConfirmationCode) < minConfirmationCodeLen {
		return nil, fmt.Errorf("%w: confirmation code must be at least %d characters", ErrBadInput, minConfirmationCodeLen)
	}
	if !req.SignerType.CanSign() {
		return nil, fmt.Errorf("%w: signer type %q cannot sign", ErrBadInput, req.SignerType)
	}

	var sig *Signature
	err := e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		doc, err := tx.LockDocument(ctx, req.DocumentID)
		if err != nil {
			return err
		}
		if !doc.Status.AwaitsDecision() {
			return fmt.Errorf("%w: document %s cannot be signed in status %s", ErrBadState, doc.ID, doc.Status)
		}

		signed, err := tx.HasSignature(ctx, doc.ID, req.SignerType)
		if err != nil {
			return fmt.Errorf("checking signatures: %w", err)
		}
		if signed {
			return fmt.Errorf("%w: already signed by %s", ErrBadState, req.SignerType)
		}

		hash, err := e.hashBlob(ctx, doc.CurrentBlobID)
		if err != nil {
			return fmt.Errorf("%w: failed to read file for hashing: %w", ErrBadInput, err)
		}

		payload, err := json.Marshal(signaturePayload{
			IP:               req.IP,
			UserAgent:        req.UserAgent,
			ConfirmationCode: maskCode(req.ConfirmationCode),
		})
		if err != nil {
			return fmt.Errorf("encoding signature payload: %w", err)
		}

		sig = &Signature{
			ID:         e.idgen.New(),
			DocumentID: doc.ID,
			SignerID:   req.SignerID,
			SignerType: req.SignerType,
			Type:       req.SignatureType,
			FileHash:   hash,
			Payload:    payload,
			SignedAt:   e.clock.Now(),
		}
		if err := tx.InsertSignature(ctx, sig); err != nil {
			return fmt.Errorf("recording signature: %w", err)
		}

		completed, err := e.fullySigned(ctx, tx, doc.ID)
		if err != nil {
			return err
		}
		if completed {
			doc.Status = StatusSigned
			doc.SignedAt = &sig.SignedAt
			doc.UpdatedAt = sig.SignedAt
			if err := tx.UpdateDocument(ctx, doc); err != nil {
				return fmt.Errorf("completing document: %w", err)
			}
			onCommit(tx, e.metrics.DocumentSigned)
		}

		who := actor{Type: req.SignerType, ID: req.SignerID}
		if err := e.audit(ctx, tx, doc, who, SignedPayload{
			SignatureType: sig.Type,
			SignerType:    sig.SignerType,
			FileHash:      hash,
			Completed:     completed,
		}); err != nil {
			return err
		}

		e.logger.Info("document signed", "document", doc.ID, "signer_type", req.SignerType, "completed", completed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sig, nil
}

func (e *Engine) fullySigned(ctx context.Context, tx Tx, documentID string) (bool, error) {
	for _, t := range []ActorType{ActorClient, ActorManager} {
		ok, err := tx.HasSignature(ctx, documentID, t)
		if err != nil {
			return false, fmt.Errorf("checking %s signature: %w", t, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// hashBlob returns the lower-case hex SHA-256 of a stored blob.
func (e *Engine) hashBlob(ctx context.Context, blobID string) (string, error) {
	rc, err := e.blobs.Load(ctx, e.bucket, blobID)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	h := sha256.New()
	if _, err := io.Copy(h, rc); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// maskCode hides all but the last two characters of a confirmation code.
func maskCode(code string) string {
	r := []rune(code)
	if len(r) <= 2 {
		return "**"
	}
	return strings.Repeat("*", len(r)-2) + string(r[len(r)-2:])
}
