package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/danwerth/opshub/internal/llm"
	"github.com/danwerth/opshub/internal/models"
)

type fakeStore struct {
	client        *models.Client
	upcoming      []models.Appointment
	appointmentAt *models.Appointment

	created       []models.Appointment
	contactName   string
	contactEmail  string
	statusUpdates []models.AppointmentStatus
}

func (f *fakeStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	return f.client, nil
}

func (f *fakeStore) UpdateClientContact(ctx context.Context, id, name, email string) (*models.Client, error) {
	f.contactName = name
	f.contactEmail = email
	c := *f.client
	c.Name = name
	if email != "" {
		c.Email = email
	}
	return &c, nil
}

func (f *fakeStore) CreateAppointment(ctx context.Context, clientID, title string, start, end time.Time, status models.AppointmentStatus) (*models.Appointment, error) {
	appt := models.Appointment{
		ID:       surrealmodels.NewRecordID("appointment", "a1"),
		ClientID: surrealmodels.NewRecordID("client", clientID),
		Title:    title,
		Start:    start,
		End:      end,
		Status:   status,
	}
	f.created = append(f.created, appt)
	return &appt, nil
}

func (f *fakeStore) UpcomingAppointments(ctx context.Context, clientID string) ([]models.Appointment, error) {
	return f.upcoming, nil
}

func (f *fakeStore) FindAppointmentAt(ctx context.Context, clientID string, start time.Time) (*models.Appointment, error) {
	if f.appointmentAt != nil && f.appointmentAt.Start.Equal(start) {
		return f.appointmentAt, nil
	}
	return nil, nil
}

func (f *fakeStore) SetAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	f.statusUpdates = append(f.statusUpdates, status)
	appt := *f.appointmentAt
	appt.Status = status
	return &appt, nil
}

type fakeNotifier struct {
	types []models.NotificationType
}

func (f *fakeNotifier) Notify(ctx context.Context, typ models.NotificationType, message, link string) {
	f.types = append(f.types, typ)
}

func newTestExecutor(store *fakeStore) (*Executor, *fakeNotifier) {
	notifier := &fakeNotifier{}
	return NewExecutor(Dependencies{
		Store:    store,
		Notifier: notifier,
		Logger:   slog.New(slog.DiscardHandler),
	}), notifier
}

func call(name, args string) llm.ToolCall {
	return llm.ToolCall{ID: "call-1", Name: name, Arguments: json.RawMessage(args)}
}

func TestBookAppointment(t *testing.T) {
	store := &fakeStore{client: &models.Client{Name: "Dana"}}
	exec, notifier := newTestExecutor(store)

	res := exec.Execute(context.Background(),
		"c1", call(NameBookAppointment, `{"title":"Consultation","date":"2026-09-14","time":"10:30"}`))

	require.True(t, res.OK, res.Err)
	require.Len(t, store.created, 1)

	appt := store.created[0]
	assert.Equal(t, "Consultation", appt.Title)
	assert.Equal(t, models.StatusInProgress, appt.Status)
	assert.Equal(t, 14, appt.Start.Day())
	assert.Equal(t, 10, appt.Start.Hour())
	assert.Equal(t, time.Hour, appt.End.Sub(appt.Start), "default duration is 60 minutes")

	assert.Contains(t, res.Summary, "Consultation")
	assert.Equal(t, []models.NotificationType{models.NotifyNewAppointment}, notifier.types)
}

func TestBookAppointmentCustomDuration(t *testing.T) {
	store := &fakeStore{}
	exec, _ := newTestExecutor(store)

	res := exec.Execute(context.Background(),
		"c1", call(NameBookAppointment, `{"title":"Haircut","date":"2026-09-14","time":"09:00","durationMinutes":45}`))

	require.True(t, res.OK, res.Err)
	assert.Equal(t, 45*time.Minute, store.created[0].End.Sub(store.created[0].Start))
}

func TestBookAppointmentBadDate(t *testing.T) {
	store := &fakeStore{}
	exec, notifier := newTestExecutor(store)

	res := exec.Execute(context.Background(),
		"c1", call(NameBookAppointment, `{"title":"Haircut","date":"tomorrow","time":"nine"}`))

	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "YYYY-MM-DD")
	assert.Empty(t, store.created)
	assert.Empty(t, notifier.types)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Payload()), &payload))
	assert.Equal(t, false, payload["ok"])
}

func TestCreateOrUpdateClientKeepsEmailWhenOmitted(t *testing.T) {
	store := &fakeStore{client: &models.Client{Name: "Unknown", Email: "old@example.com"}}
	exec, notifier := newTestExecutor(store)

	res := exec.Execute(context.Background(),
		"c1", call(NameCreateOrUpdateClient, `{"name":"Dana Smith"}`))

	require.True(t, res.OK, res.Err)
	assert.Equal(t, "Dana Smith", store.contactName)
	assert.Empty(t, store.contactEmail)
	assert.Contains(t, res.Summary, "Dana Smith")
	assert.Equal(t, []models.NotificationType{models.NotifyClientChange}, notifier.types)
}

func TestFindClientAppointments(t *testing.T) {
	start := time.Date(2026, 9, 14, 10, 30, 0, 0, time.Local)
	store := &fakeStore{upcoming: []models.Appointment{
		{Title: "Consultation", Start: start, Status: models.StatusConfirmed},
		{Title: "Follow-up", Start: start.AddDate(0, 0, 7), Status: models.StatusInProgress},
	}}
	exec, _ := newTestExecutor(store)

	res := exec.Execute(context.Background(), "c1", call(NameFindClientAppointments, `{}`))

	require.True(t, res.OK, res.Err)
	assert.Contains(t, res.Summary, "Consultation on Sep 14, 2026 at 10:30 AM")
	assert.Contains(t, res.Summary, "Follow-up")
	assert.Equal(t, 2, strings.Count(res.Summary, "\n- "), "one line per appointment")
}

func TestFindClientAppointmentsEmpty(t *testing.T) {
	exec, _ := newTestExecutor(&fakeStore{})

	res := exec.Execute(context.Background(), "c1", call(NameFindClientAppointments, `{}`))

	require.True(t, res.OK)
	assert.Equal(t, "No upcoming appointments found.", res.Summary)
}

func TestUpdateAppointmentStatus(t *testing.T) {
	start := time.Date(2026, 9, 14, 10, 30, 0, 0, time.Local)
	store := &fakeStore{appointmentAt: &models.Appointment{
		ID:     surrealmodels.NewRecordID("appointment", "a1"),
		Title:  "Consultation",
		Start:  start,
		Status: models.StatusInProgress,
	}}
	exec, notifier := newTestExecutor(store)

	res := exec.Execute(context.Background(),
		"c1", call(NameUpdateAppointmentStatus, `{"date":"2026-09-14","time":"10:30","newStatus":"Confirmed"}`))

	require.True(t, res.OK, res.Err)
	assert.Equal(t, []models.AppointmentStatus{models.StatusConfirmed}, store.statusUpdates)
	assert.Equal(t, "The appointment is confirmed.", res.Summary)
	assert.Equal(t, []models.NotificationType{models.NotifyAppointmentChange}, notifier.types)
}

func TestUpdateAppointmentStatusNoMatch(t *testing.T) {
	exec, notifier := newTestExecutor(&fakeStore{})

	res := exec.Execute(context.Background(),
		"c1", call(NameUpdateAppointmentStatus, `{"date":"2026-09-14","time":"10:30","newStatus":"Canceled"}`))

	assert.False(t, res.OK)
	assert.Equal(t, "No appointment found on 2026-09-14 at 10:30.", res.Err)
	assert.Empty(t, notifier.types)
}

func TestUpdateAppointmentStatusRejectsUnknownStatus(t *testing.T) {
	store := &fakeStore{appointmentAt: &models.Appointment{Start: time.Now()}}
	exec, _ := newTestExecutor(store)

	res := exec.Execute(context.Background(),
		"c1", call(NameUpdateAppointmentStatus, `{"date":"2026-09-14","time":"10:30","newStatus":"Done"}`))

	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "not a valid appointment status")
	assert.Empty(t, store.statusUpdates)
}

func TestGetClientInfo(t *testing.T) {
	store := &fakeStore{client: &models.Client{Name: "Dana", Phone: "+15550100", Email: "dana@example.com"}}
	exec, _ := newTestExecutor(store)

	res := exec.Execute(context.Background(), "c1", call(NameGetClientInfo, `{}`))

	require.True(t, res.OK, res.Err)
	assert.Contains(t, res.Summary, "Dana")
	assert.Contains(t, res.Summary, "+15550100")
	assert.Equal(t, "dana@example.com", res.Data["email"])
}

func TestExecuteUnknownTool(t *testing.T) {
	exec, _ := newTestExecutor(&fakeStore{})

	res := exec.Execute(context.Background(), "c1", call("deleteEverything", `{}`))

	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "unknown tool")
}
