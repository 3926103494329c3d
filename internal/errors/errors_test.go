package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComposeError_WithCause_FormatsCategorySeverityAndCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(cause, CategoryCompose, SeverityError, "merge failed")

	require.Equal(t, "compose (error): merge failed: boom", err.Error())
	require.True(t, stderrors.Is(err, cause))
}

func TestComposeError_WithoutCause_FormatsCategoryAndSeverity(t *testing.T) {
	err := New(CategoryConfig, SeverityFatal, "bad shape")
	require.Equal(t, "config (fatal): bad shape", err.Error())
	require.Nil(t, err.Unwrap())
}

func TestWithContext_AccumulatesFields(t *testing.T) {
	err := ConfigError("unknown locale").
		WithContext("locale", "xx-YY").
		WithContext("file", "site.yaml")

	require.Equal(t, "xx-YY", err.Context["locale"])
	require.Equal(t, "site.yaml", err.Context["file"])
}

func TestIsCategory_MatchesOnlyOwnCategory(t *testing.T) {
	err := DaemonError("listener down")
	require.True(t, IsCategory(err, CategoryDaemon))
	require.False(t, IsCategory(err, CategoryConfig))
	require.False(t, IsCategory(stderrors.New("plain"), CategoryDaemon))
}

func TestGetCategory_PlainErrorFallsBackToInternal(t *testing.T) {
	require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
	require.Equal(t, CategoryPages, GetCategory(New(CategoryPages, SeverityError, "x")))
}
