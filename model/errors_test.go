package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{ErrMovieNotFound, 404},
		{fmt.Errorf("wrapped: %w", ErrAnalysisInProgress), 409},
		{ErrNotEnoughWatched, 400},
		{ErrOmdbKeyMissing, 503},
		{NewTransportError(MsgSearchFailed, errors.New("eof")), 502},
		{NewSchemaError(MsgCuratorBusy, errors.New("bad json")), 502},
		{errors.New("plain"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, GetErrorCode(tt.err), tt.err.Error())
	}
}

func TestCuratorErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransportError(MsgSearchFailed, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Equal(t, MsgSearchFailed, UserMessage(err))
	assert.Equal(t, MsgSearchFailed+": connection refused", err.Error())
	assert.Equal(t, ErrorKind(""), KindOf(cause))
	assert.Equal(t, "connection refused", UserMessage(cause))
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("")
	assert.NoError(t, err)
	assert.Equal(t, TabSearch, tab)

	tab, err = ParseTab("watched")
	assert.NoError(t, err)
	assert.Equal(t, TabWatched, tab)

	_, err = ParseTab("favourites")
	assert.ErrorIs(t, err, ErrInvalidTab)
}

func TestMovieRecordHelpers(t *testing.T) {
	record := MovieRecord{Title: " Heat "}
	assert.True(t, record.SameTitle("heat"))
	assert.False(t, record.HasDetails())

	description := "No details found."
	record.Description = &description
	assert.True(t, record.HasDetails())
}
