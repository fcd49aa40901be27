package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentwave/opportunity-engine/internal/config"
	"github.com/talentwave/opportunity-engine/internal/entities"
	"github.com/talentwave/opportunity-engine/internal/metrics"
)

var testDelays = config.SchedulerConfig{
	ArchiveReminderDelay:    30 * 24 * time.Hour,
	NoResponseReminderDelay: 15 * 24 * time.Hour,
	CandidateReminderDelay:  5 * 24 * time.Hour,
	PollSchedule:            "* * * * *",
}

func newSchedulerFixture(opportunity entities.Opportunity) (*Scheduler, *fakeAssociations, *fakeDispatch, *fakeQueue) {

	associations := newFakeAssociations()
	dispatch := &fakeDispatch{}
	queue := &fakeQueue{}

	scheduler := NewScheduler(queue,
		&fakeOpportunities{byID: map[int]*entities.Opportunity{opportunity.ID: &opportunity}},
		associations, dispatch, testDelays)

	return scheduler, associations, dispatch, queue
}

func payload(t *testing.T, p ReminderPayload) []byte {
	encoded, err := json.Marshal(p)
	require.NoError(t, err)
	return encoded
}

func Test_Schedule_UsesConfiguredDelaysAndOverrides(t *testing.T) {

	scheduler, _, _, queue := newSchedulerFixture(entities.Opportunity{ID: 7})
	ctx := context.Background()

	require.NoError(t, scheduler.ScheduleArchiveReminder(ctx, 7))
	require.NoError(t, scheduler.ScheduleNoResponseReminder(ctx, 7))
	require.NoError(t, scheduler.ScheduleCandidateReminder(ctx, 7, 1, time.Hour))

	require.Len(t, queue.enqueued, 3)
	assert.Equal(t, entities.TaskArchiveReminder, queue.enqueued[0].kind)
	assert.Equal(t, testDelays.ArchiveReminderDelay, queue.enqueued[0].delay)
	assert.Equal(t, testDelays.NoResponseReminderDelay, queue.enqueued[1].delay)
	assert.Equal(t, time.Hour, queue.enqueued[2].delay)
}

func Test_ArchiveReminder_ArchivedOpportunityIsTerminal(t *testing.T) {

	scheduler, _, dispatch, _ := newSchedulerFixture(entities.Opportunity{ID: 7, IsValidated: true, IsArchived: true})

	reschedule, err := scheduler.HandleArchiveReminder(context.Background(), payload(t, ReminderPayload{OpportunityID: 7}))
	require.NoError(t, err)
	assert.False(t, reschedule)
	assert.Empty(t, dispatch.archive)
}

func Test_ArchiveReminder_VanishedOpportunityIsTerminal(t *testing.T) {

	scheduler, _, dispatch, _ := newSchedulerFixture(entities.Opportunity{ID: 7})

	reschedule, err := scheduler.HandleArchiveReminder(context.Background(), payload(t, ReminderPayload{OpportunityID: 99}))
	require.NoError(t, err)
	assert.False(t, reschedule)
	assert.Empty(t, dispatch.archive)
}

func Test_ArchiveReminder_ActiveInterviewPostponesWithoutSending(t *testing.T) {

	scheduler, associations, dispatch, _ := newSchedulerFixture(entities.Opportunity{ID: 7, IsValidated: true})
	ctx := context.Background()

	require.NoError(t, associations.Create(ctx, &entities.Association{
		OpportunityID: 7, CandidateID: 1, Status: entities.StatusInterview,
	}))

	reschedule, err := scheduler.HandleArchiveReminder(ctx, payload(t, ReminderPayload{OpportunityID: 7}))
	require.NoError(t, err)
	assert.True(t, reschedule)
	assert.Empty(t, dispatch.archive)
}

func Test_ArchiveReminder_SendsAndReschedulesOtherwise(t *testing.T) {

	scheduler, associations, dispatch, _ := newSchedulerFixture(entities.Opportunity{ID: 7, IsValidated: true})
	ctx := context.Background()

	// an archived interview no longer holds the reminder back
	require.NoError(t, associations.Create(ctx, &entities.Association{
		OpportunityID: 7, CandidateID: 1, Status: entities.StatusInterview, Archived: true,
	}))

	reschedule, err := scheduler.HandleArchiveReminder(ctx, payload(t, ReminderPayload{OpportunityID: 7}))
	require.NoError(t, err)
	assert.True(t, reschedule)
	assert.Equal(t, []int{7}, dispatch.archive)
}

func Test_ArchiveReminder_DispatchFailureStillReschedules(t *testing.T) {

	scheduler, _, dispatch, _ := newSchedulerFixture(entities.Opportunity{ID: 7, IsValidated: true})
	dispatch.err = assert.AnError

	sent := metrics.RemindersCounter.WithLabelValues(entities.TaskArchiveReminder, metrics.ReminderOutcomeSent)
	failed := metrics.RemindersCounter.WithLabelValues(entities.TaskArchiveReminder, metrics.ReminderOutcomeDispatchFailed)
	sentBefore, failedBefore := testutil.ToFloat64(sent), testutil.ToFloat64(failed)

	reschedule, err := scheduler.HandleArchiveReminder(context.Background(), payload(t, ReminderPayload{OpportunityID: 7}))
	require.NoError(t, err)
	assert.True(t, reschedule)
	assert.Equal(t, []int{7}, dispatch.archive)

	// a failed delivery must never count as sent
	assert.Equal(t, sentBefore, testutil.ToFloat64(sent))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func Test_NoResponseReminder_StopsOnceACandidateWasProcessed(t *testing.T) {

	scheduler, associations, dispatch, _ := newSchedulerFixture(entities.Opportunity{ID: 7, IsValidated: true})
	ctx := context.Background()

	require.NoError(t, associations.Create(ctx, &entities.Association{
		OpportunityID: 7, CandidateID: 1, Status: entities.StatusContacted,
	}))

	reschedule, err := scheduler.HandleNoResponseReminder(ctx, payload(t, ReminderPayload{OpportunityID: 7}))
	require.NoError(t, err)
	assert.False(t, reschedule)
	assert.Empty(t, dispatch.noResponse)
}

func Test_NoResponseReminder_NudgesWhileEverythingSitsInToProcess(t *testing.T) {

	scheduler, associations, dispatch, _ := newSchedulerFixture(entities.Opportunity{ID: 7, IsValidated: true})
	ctx := context.Background()

	require.NoError(t, associations.Create(ctx, &entities.Association{
		OpportunityID: 7, CandidateID: 1, Status: entities.StatusToProcess,
	}))

	reschedule, err := scheduler.HandleNoResponseReminder(ctx, payload(t, ReminderPayload{OpportunityID: 7}))
	require.NoError(t, err)
	assert.True(t, reschedule)
	assert.Equal(t, []int{7}, dispatch.noResponse)
}

func Test_CandidateReminder_RemovedAssociationIsTerminal(t *testing.T) {

	scheduler, _, dispatch, _ := newSchedulerFixture(entities.Opportunity{ID: 7, IsValidated: true})

	reschedule, err := scheduler.HandleCandidateReminder(context.Background(),
		payload(t, ReminderPayload{OpportunityID: 7, CandidateID: 1}))
	require.NoError(t, err)
	assert.False(t, reschedule)
	assert.Empty(t, dispatch.candidate)
}

func Test_CandidateReminder_SeenAssociationIsTerminal(t *testing.T) {

	scheduler, associations, dispatch, _ := newSchedulerFixture(entities.Opportunity{ID: 7, IsValidated: true})
	ctx := context.Background()

	require.NoError(t, associations.Create(ctx, &entities.Association{
		OpportunityID: 7, CandidateID: 1, Status: entities.StatusToProcess, Seen: true,
	}))

	reschedule, err := scheduler.HandleCandidateReminder(ctx,
		payload(t, ReminderPayload{OpportunityID: 7, CandidateID: 1}))
	require.NoError(t, err)
	assert.False(t, reschedule)
	assert.Empty(t, dispatch.candidate)
}

func Test_CandidateReminder_NudgesAnUnseenToProcessCandidate(t *testing.T) {

	scheduler, associations, dispatch, _ := newSchedulerFixture(entities.Opportunity{ID: 7, IsValidated: true})
	ctx := context.Background()

	require.NoError(t, associations.Create(ctx, &entities.Association{
		OpportunityID: 7, CandidateID: 1, Status: entities.StatusToProcess,
	}))

	reschedule, err := scheduler.HandleCandidateReminder(ctx,
		payload(t, ReminderPayload{OpportunityID: 7, CandidateID: 1}))
	require.NoError(t, err)
	assert.True(t, reschedule)
	assert.Equal(t, []int{1}, dispatch.candidate)
}
