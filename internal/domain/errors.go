package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already in use")

	// Upload validation.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")

	// Field and signer setup validation.
	ErrInvalidFieldGeometry = errors.New("field geometry out of page bounds")
	ErrInvalidFieldType     = errors.New("invalid field type")
	ErrSignerEmailRequired  = errors.New("signer email is required")
	ErrDuplicateSignerEmail = errors.New("signer email already present on document")
	ErrInvalidSigningOrder  = errors.New("signing orders must form a dense 1..N sequence")
	ErrDocumentNotDraft     = errors.New("document is no longer editable")

	// Send-time validation.
	ErrNoFields  = errors.New("document has no signature fields")
	ErrNoSigners = errors.New("document has no signers")

	// Signature capture validation.
	ErrEmptySignature       = errors.New("signature capture is empty")
	ErrInvalidCaptureMethod = errors.New("invalid capture method")
	ErrInvalidImageType     = errors.New("uploaded signature is not an image")
	ErrImageTooLarge        = errors.New("uploaded signature exceeds maximum size")

	// Signing-state errors. NotYourTurn is distinct from NotSignable so the
	// caller can tell "wait" apart from "give up".
	ErrSignerNotFound      = errors.New("signing token does not resolve to a signer")
	ErrNotYourTurn         = errors.New("earlier signers have not finished yet")
	ErrDocumentNotSignable = errors.New("document is no longer signable")
	ErrFieldNotYours       = errors.New("field does not belong to this signer")
	ErrFieldAlreadySigned  = errors.New("field already has a captured value")
	ErrSignerDeclined      = errors.New("signer has declined")

	// Integrity errors.
	ErrUnsupportedDocumentFormat = errors.New("document bytes are not a valid PDF")
	ErrHashMismatch              = errors.New("content hash does not match stored hash")
)
