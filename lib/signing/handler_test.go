package signing

import (
	"esign-backend/models"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	t.Run("повторная отправка отклоняется", func(t *testing.T) {
		f := newFixture(t)
		id := f.addRequest(t, document("d1", models.DocSignStatusUnsigned))

		jobID, err := f.handler.Submit(officer(), id, signatureID)
		require.NoError(t, err)
		require.NotEmpty(t, jobID)
		require.Equal(t, models.SignStatusInProcess, f.request(t, id).SignStatus)
		require.Equal(t, officerID, f.request(t, id).UpdatedBy)

		_, err = f.handler.Submit(officer(), id, signatureID)
		require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)

		jobs, err := f.queue.List("", 0)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		require.Equal(t, models.SignJobPayload{
			RequestID:   id,
			UserID:      officerID,
			SignatureID: signatureID,
			CourtID:     courtID,
		}, jobs[0].Payload())
		require.Equal(t, []string{"inProcess"}, f.events.statuses())
	})

	tests := []struct {
		name    string
		prepare func(t *testing.T, f *fixture, id string)
		actor   models.Actor
		sigID   string
		kind    models.ErrorKind
	}{
		{
			name:  "чужая заявка",
			actor: models.Actor{UserID: "officer-2", Role: models.UserRoleOfficer, CourtID: courtID},
			sigID: signatureID,
			kind:  models.ErrPreconditionFailed,
		},
		{
			name:  "подпись не указана",
			actor: officer(),
			kind:  models.ErrPreconditionFailed,
		},
		{
			name:  "чужая подпись",
			actor: officer(),
			sigID: "signature-2",
			kind:  models.ErrPreconditionFailed,
		},
		{
			name:  "суд не найден",
			actor: models.Actor{UserID: officerID, Role: models.UserRoleOfficer, CourtID: "court-2"},
			sigID: signatureID,
			kind:  models.ErrPreconditionFailed,
		},
		{
			name: "заявка еще не отправлена",
			prepare: func(t *testing.T, f *fixture, id string) {
				_, err := f.requests.ConditionalUpdate(id, guardAny(), map[string]interface{}{
					"sign_status": models.SignStatusUnsigned,
				})
				require.NoError(t, err)
			},
			actor: officer(),
			sigID: signatureID,
			kind:  models.ErrPreconditionFailed,
		},
		{
			name: "не заполнено обязательное поле",
			prepare: func(t *testing.T, f *fixture, id string) {
				rec := f.request(t, id)
				rec.Data[0].Data.Set("fio", models.StringValue(""))
				_, err := f.requests.ConditionalUpdate(id, guardAny(), map[string]interface{}{
					"data": rec.Data,
				})
				require.NoError(t, err)
			},
			actor: officer(),
			sigID: signatureID,
			kind:  models.ErrValidation,
		},
		{
			name:  "несуществующая заявка",
			actor: officer(),
			sigID: signatureID,
			kind:  models.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.addRequest(t, document("d1", models.DocSignStatusUnsigned))
			if tt.prepare != nil {
				tt.prepare(t, f, id)
			}
			if tt.kind == models.ErrNotFound {
				id = "missing"
			}
			_, err := f.handler.Submit(tt.actor, id, tt.sigID)
			require.Error(t, err)
			require.Equal(t, tt.kind, models.KindOf(err), err.Error())
			require.Empty(t, f.events.statuses())
		})
	}

	t.Run("нет документов", func(t *testing.T) {
		f := newFixture(t)
		id := f.addRequest(t)
		_, err := f.handler.Submit(officer(), id, signatureID)
		require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)
		require.Equal(t, models.SignStatusReadyForSign, f.request(t, id).SignStatus)
	})

	t.Run("очередь недоступна", func(t *testing.T) {
		f := newFixture(t)
		id := f.addRequest(t, document("d1", models.DocSignStatusUnsigned))
		f.queue.failEnqueue = errors.New("connection refused")
		_, err := f.handler.Submit(officer(), id, signatureID)
		require.True(t, models.IsKind(err, models.ErrQueueUnavailable), err)
	})
}

func TestCancelJob(t *testing.T) {
	f := newFixture(t)
	id := f.addRequest(t, document("d1", models.DocSignStatusUnsigned))
	jobID, err := f.handler.Submit(officer(), id, signatureID)
	require.NoError(t, err)

	require.NoError(t, f.handler.CancelJob(jobID))
	require.Equal(t, models.JobStatusCancelled, f.queue.status(jobID))
	require.Equal(t, models.SignStatusReadyForSign, f.request(t, id).SignStatus)

	err = f.handler.CancelJob(jobID)
	require.True(t, models.IsKind(err, models.ErrPreconditionFailed), err)

	err = f.handler.CancelJob("missing")
	require.True(t, models.IsKind(err, models.ErrNotFound), err)
}
