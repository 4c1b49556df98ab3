package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewEmptyFileError(),
			want: "[EMPTY_FILE] file contains no rows",
		},
		{
			name: "with cause",
			err:  NewParsingError("bad row", fmt.Errorf("unexpected quote")),
			want: "[PARSING] bad row: unexpected quote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("root")
	err := NewStorageError("write failed", cause)

	assert.True(t, stderrors.Is(err, cause))
}

func TestNewInvalidColumnChoiceError(t *testing.T) {
	err := NewInvalidColumnChoiceError(0, 7, 3, nil)

	assert.Equal(t, ErrTypeInvalidColumnChoice, err.Type)
	assert.Equal(t, 0, err.Context["id_column"])
	assert.Equal(t, 7, err.Context["score_column"])
	assert.Equal(t, 3, err.Context["width"])
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("analyze: %w", NewEmptyFileError())

	assert.True(t, IsEmptyFile(wrapped))
	assert.False(t, IsInvalidColumnChoice(wrapped))
	assert.False(t, IsEmptyFile(stderrors.New("plain")))
	assert.False(t, IsEmptyFile(nil))
}

func TestFromAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantNil    bool
		wantStatus int
		wantCode   string
	}{
		{
			name:       "empty file",
			err:        NewEmptyFileError(),
			wantStatus: 422,
			wantCode:   "EMPTY_FILE",
		},
		{
			name:       "wrapped invalid column",
			err:        fmt.Errorf("summarize: %w", NewInvalidColumnChoiceError(9, 1, 2, nil)),
			wantStatus: 422,
			wantCode:   "INVALID_COLUMN_CHOICE",
		},
		{
			name:       "unsupported file",
			err:        NewUnsupportedFileError("spreadsheet workbooks are not supported", nil),
			wantStatus: 415,
			wantCode:   "UNSUPPORTED_FILE",
		},
		{
			name:    "storage error has no api mapping",
			err:     NewStorageError("disk", nil),
			wantNil: true,
		},
		{
			name:    "plain error",
			err:     stderrors.New("boom"),
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromAppError(tt.err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.ErrorCode)
		})
	}
}
