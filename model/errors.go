package model

import (
	"errors"
	"slices"
)

type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindValidation    ErrorKind = "validation"
	KindTransport     ErrorKind = "transport"
	KindSchema        ErrorKind = "schema"
)

// CuratorError carries the error kind and a message fit for the user.
type CuratorError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CuratorError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CuratorError) Unwrap() error {
	return e.Err
}

func NewTransportError(message string, err error) error {
	return &CuratorError{Kind: KindTransport, Message: message, Err: err}
}

func NewSchemaError(message string, err error) error {
	return &CuratorError{Kind: KindSchema, Message: message, Err: err}
}

func NewConfigurationError(message string, err error) error {
	return &CuratorError{Kind: KindConfiguration, Message: message, Err: err}
}

// KindOf returns the kind of a CuratorError, or "" for anything else.
func KindOf(err error) ErrorKind {
	var ce *CuratorError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// UserMessage returns the message a user should see for err.
func UserMessage(err error) string {
	var ce *CuratorError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}

//---------------------------------------
//---------------------------------------

var ErrOmdbKeyMissing = &CuratorError{Kind: KindConfiguration, Message: "OMDb API key not configured."}
var ErrGeminiKeyMissing = &CuratorError{Kind: KindConfiguration, Message: "Gemini API key is not configured."}
var ErrEmptyTitle = &CuratorError{Kind: KindValidation, Message: "Movie title is empty."}
var ErrInvalidStatus = &CuratorError{Kind: KindValidation, Message: "Status must be 'watched' or 'to-watch'."}
var ErrInvalidTab = &CuratorError{Kind: KindValidation, Message: "Tab must be 'search', 'to-watch' or 'watched'."}
var ErrTabHasNoList = &CuratorError{Kind: KindValidation, Message: "The search tab holds no list."}
var ErrNotEnoughWatched = &CuratorError{Kind: KindValidation, Message: "Please mark at least 3 movies as watched for a good analysis."}
var ErrAnalysisInProgress = &CuratorError{Kind: KindValidation, Message: "An analysis is already running."}
var ErrTasteAnalysisDisabled = &CuratorError{Kind: KindConfiguration, Message: "Taste analysis is disabled."}
var ErrSearchDisabled = &CuratorError{Kind: KindConfiguration, Message: "Search is disabled."}
var ErrMovieNotFound = &CuratorError{Kind: KindValidation, Message: "Movie not found."}
var ErrStoreNotSynced = &CuratorError{Kind: KindTransport, Message: "Your lists are still loading. Please try again in a moment."}

const (
	MsgCuratorBusy  = "The AI curator is busy. Please try again in a moment."
	MsgSearchFailed = "Failed to fetch search results."
)

func GetErrorCode(err error) int {
	code404 := []error{
		ErrMovieNotFound,
	}
	code409 := []error{
		ErrAnalysisInProgress,
	}

	for _, e := range code404 {
		if errors.Is(err, e) {
			return 404
		}
	}
	if slices.ContainsFunc(code409, func(e error) bool { return errors.Is(err, e) }) {
		return 409
	}

	switch KindOf(err) {
	case KindConfiguration:
		return 503
	case KindValidation:
		return 400
	case KindTransport, KindSchema:
		return 502
	}
	return 500
}
