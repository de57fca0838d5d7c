package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storebroker-io/storebroker/pkg/store"
)

func TestSubmissionState_Known(t *testing.T) {
	t.Parallel()

	known := []store.SubmissionState{
		store.StateNone,
		store.StateInDraft,
		store.StateSubmitted,
		store.StateFailed,
		store.StateFailedInCertification,
		store.StateReadyToPublish,
		store.StatePublishing,
		store.StatePublished,
		store.StateInStore,
		store.StateCancelled,
	}

	for _, state := range known {
		assert.True(t, state.Known(), "state %q should be known", state)
	}

	assert.False(t, store.SubmissionState("Certifying").Known())
}

func TestSubmissionState_Failed(t *testing.T) {
	t.Parallel()

	assert.True(t, store.StateFailed.Failed())
	assert.True(t, store.StateFailedInCertification.Failed())
	assert.False(t, store.StatePublished.Failed())
	assert.False(t, store.StateCancelled.Failed())
}

func TestSubmissionState_Terminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state store.SubmissionState
		mode  store.TargetPublishMode
		want  bool
	}{
		{
			name:  "published is always terminal",
			state: store.StatePublished,
			mode:  store.PublishModeImmediate,
			want:  true,
		},
		{
			name:  "in store is terminal",
			state: store.StateInStore,
			mode:  store.PublishModeImmediate,
			want:  true,
		},
		{
			name:  "failure is terminal",
			state: store.StateFailedInCertification,
			mode:  store.PublishModeImmediate,
			want:  true,
		},
		{
			name:  "cancelled is terminal",
			state: store.StateCancelled,
			mode:  store.PublishModeManual,
			want:  true,
		},
		{
			name:  "ready to publish ends manual-mode monitoring",
			state: store.StateReadyToPublish,
			mode:  store.PublishModeManual,
			want:  true,
		},
		{
			name:  "ready to publish continues in immediate mode",
			state: store.StateReadyToPublish,
			mode:  store.PublishModeImmediate,
			want:  false,
		},
		{
			name:  "ready to publish continues for dated publishing",
			state: store.StateReadyToPublish,
			mode:  store.PublishModeSpecificDate,
			want:  false,
		},
		{
			name:  "publishing keeps monitoring",
			state: store.StatePublishing,
			mode:  store.PublishModeManual,
			want:  false,
		},
		{
			name:  "submitted keeps monitoring",
			state: store.StateSubmitted,
			mode:  store.PublishModeImmediate,
			want:  false,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, testCase.state.Terminal(testCase.mode))
		})
	}
}
