package noop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"tasignals/pkg/errors"
)

func TestTracker_RecordsCaptures(t *testing.T) {
	tr := New()
	ctx := context.Background()

	assert.NoError(t, tr.CaptureError(ctx, nil, nil))
	assert.NoError(t, tr.CaptureError(ctx, errors.ErrComputationFailure, map[string]string{"indicator": "rsi"}))
	assert.NoError(t, tr.CaptureMessage(ctx, "batch slow", errors.LevelWarning, nil))
	assert.NoError(t, tr.Flush(ctx))

	assert.Equal(t, []error{errors.ErrComputationFailure}, tr.Errors())
	assert.Equal(t, "rsi", tr.Tags(0)["indicator"])
	assert.Nil(t, tr.Tags(1))
	assert.Equal(t, []string{"warning: batch slow"}, tr.Messages())
}
