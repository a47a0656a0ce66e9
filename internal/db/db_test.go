// Package db provides integration tests for SurrealDB operations.
package db

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/danwerth/opshub/internal/models"
)

var testDB *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		// No container in short mode; every test skips via resetData.
		os.Exit(m.Run())
	}

	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testDB, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testDB.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testDB.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

// resetData wipes all tables so tests start from a clean slate.
func resetData(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("skipping integration test: no database container")
	}
	require.NoError(t, testDB.WipeData(context.Background()))
}

func mustCreateClient(t *testing.T, in models.ClientInput) *models.Client {
	t.Helper()
	client, err := testDB.CreateClient(context.Background(), in)
	require.NoError(t, err)
	return client
}

func TestClientCRUD(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	created := mustCreateClient(t, models.ClientInput{
		Name:  "Alice Johnson",
		Phone: "15550100",
		Email: "alice@example.com",
	})
	id := models.MustRecordIDString(created.ID)

	got, err := testDB.GetClient(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", got.Name)
	assert.Equal(t, "15550100", got.Phone)
	assert.False(t, got.CreatedAt.IsZero())

	updated, err := testDB.UpdateClient(ctx, id, models.ClientInput{
		Name:  "Alice J.",
		Phone: "15550100",
		Email: "alice@example.com",
		Notes: "prefers mornings",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice J.", updated.Name)
	assert.Equal(t, "prefers mornings", updated.Notes)

	all, err := testDB.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, testDB.DeleteClient(ctx, id))

	_, err = testDB.GetClient(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientPhoneUnique(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	mustCreateClient(t, models.ClientInput{Name: "Bob", Phone: "15550101"})

	_, err := testDB.CreateClient(ctx, models.ClientInput{Name: "Bob Clone", Phone: "15550101"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestFindClientByPhone(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	created := mustCreateClient(t, models.ClientInput{Name: "Carol", Phone: "15550102"})

	found, err := testDB.FindClientByPhone(ctx, "15550102")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := testDB.FindClientByPhone(ctx, "19990000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateClientContactPreservesEmail(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	created := mustCreateClient(t, models.ClientInput{
		Name:  "Dave",
		Phone: "15550103",
		Email: "dave@example.com",
	})
	id := models.MustRecordIDString(created.ID)

	// Name-only update must not clear the stored email.
	updated, err := testDB.UpdateClientContact(ctx, id, "Dave Smith", "")
	require.NoError(t, err)
	assert.Equal(t, "Dave Smith", updated.Name)
	assert.Equal(t, "dave@example.com", updated.Email)

	updated, err = testDB.UpdateClientContact(ctx, id, "Dave Smith", "dsmith@example.com")
	require.NoError(t, err)
	assert.Equal(t, "dsmith@example.com", updated.Email)
}

func TestAppointmentLifecycle(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	client := mustCreateClient(t, models.ClientInput{Name: "Eve", Phone: "15550104"})
	clientID := models.MustRecordIDString(client.ID)

	start := time.Now().Add(48 * time.Hour).Truncate(time.Second).UTC()
	created, err := testDB.CreateAppointment(ctx, clientID, "Consultation", start, start.Add(time.Hour), models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, created.Status)
	assert.Equal(t, client.ID, created.ClientID)
	assert.True(t, created.Start.Equal(start))

	id := models.MustRecordIDString(created.ID)

	confirmed, err := testDB.SetAppointmentStatus(ctx, id, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)

	updated, err := testDB.UpdateAppointment(ctx, id, models.AppointmentInput{
		ClientID: clientID,
		Title:    "Extended Consultation",
		Start:    start,
		End:      start.Add(2 * time.Hour),
		Status:   models.StatusConfirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, "Extended Consultation", updated.Title)

	require.NoError(t, testDB.DeleteAppointment(ctx, id))

	all, err := testDB.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpcomingAppointmentsOrdered(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	client := mustCreateClient(t, models.ClientInput{Name: "Frank", Phone: "15550105"})
	clientID := models.MustRecordIDString(client.ID)

	now := time.Now().Truncate(time.Second).UTC()
	later := now.Add(72 * time.Hour)
	sooner := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	for _, tc := range []struct {
		title string
		start time.Time
	}{
		{"Later", later},
		{"Past", past},
		{"Sooner", sooner},
	} {
		_, err := testDB.CreateAppointment(ctx, clientID, tc.title, tc.start, tc.start.Add(time.Hour), models.StatusConfirmed)
		require.NoError(t, err)
	}

	upcoming, err := testDB.UpcomingAppointments(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "Sooner", upcoming[0].Title)
	assert.Equal(t, "Later", upcoming[1].Title)
}

func TestFindAppointmentAtExactMatch(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	client := mustCreateClient(t, models.ClientInput{Name: "Grace", Phone: "15550106"})
	clientID := models.MustRecordIDString(client.ID)

	start := time.Now().Add(24 * time.Hour).Truncate(time.Second).UTC()
	_, err := testDB.CreateAppointment(ctx, clientID, "Check-in", start, start.Add(time.Hour), models.StatusConfirmed)
	require.NoError(t, err)

	found, err := testDB.FindAppointmentAt(ctx, clientID, start)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Check-in", found.Title)

	// One minute off is not a match.
	miss, err := testDB.FindAppointmentAt(ctx, clientID, start.Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestConversationUniquePerClientChannel(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	client := mustCreateClient(t, models.ClientInput{Name: "Heidi", Phone: "15550107"})
	clientID := models.MustRecordIDString(client.ID)

	conv, err := testDB.CreateConversation(ctx, clientID, models.ChannelWhatsApp)
	require.NoError(t, err)
	assert.Empty(t, conv.Messages)
	assert.False(t, conv.Unread)

	_, err = testDB.CreateConversation(ctx, clientID, models.ChannelWhatsApp)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// A different channel for the same client is fine.
	_, err = testDB.CreateConversation(ctx, clientID, models.ChannelSMS)
	require.NoError(t, err)

	found, err := testDB.FindConversation(ctx, clientID, models.ChannelWhatsApp)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, conv.ID, found.ID)
}

func TestConversationMessageLog(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	client := mustCreateClient(t, models.ClientInput{Name: "Ivan", Phone: "15550108"})
	clientID := models.MustRecordIDString(client.ID)

	conv, err := testDB.CreateConversation(ctx, clientID, models.ChannelWhatsApp)
	require.NoError(t, err)
	convID := models.MustRecordIDString(conv.ID)

	now := time.Now().Truncate(time.Second).UTC()
	updated, err := testDB.AppendMessages(ctx, convID, true, models.Message{
		ID:        "m1",
		Sender:    models.SenderClient,
		Text:      "Hi, what are your hours?",
		Timestamp: now,
	})
	require.NoError(t, err)
	require.Len(t, updated.Messages, 1)
	assert.True(t, updated.Unread)
	assert.Equal(t, "Hi, what are your hours?", updated.Messages[0].Text)

	updated, err = testDB.AppendMessages(ctx, convID, false, models.Message{
		ID:        "m2",
		Sender:    models.SenderAI,
		Text:      "We're open 9 to 5.",
		Timestamp: now.Add(time.Second),
		IsAI:      true,
		ToolCallResult: &models.ToolCallResult{
			ToolName: "getClientInfo",
			ToolArgs: map[string]any{"reason": "greeting"},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Messages, 2)
	assert.False(t, updated.Unread)
	assert.True(t, updated.Messages[1].IsAI)
	require.NotNil(t, updated.Messages[1].ToolCallResult)
	assert.Equal(t, "getClientInfo", updated.Messages[1].ToolCallResult.ToolName)

	flagged, err := testDB.SetConversationUnread(ctx, convID, true)
	require.NoError(t, err)
	assert.True(t, flagged.Unread)

	cleared, err := testDB.ClearMessages(ctx, convID)
	require.NoError(t, err)
	assert.Empty(t, cleared.Messages)
	assert.False(t, cleared.Unread)
}

func TestAIConfigSingleton(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	_, err := testDB.GetAIConfig(ctx)
	assert.ErrorIs(t, err, ErrConfigMissing)

	saved, err := testDB.UpsertAIConfig(ctx, models.AIConfigInput{
		KnowledgeBase:     "We are open weekdays.",
		AfterHoursReply:   "We'll reply tomorrow.",
		AfterHoursEnabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "We are open weekdays.", saved.KnowledgeBase)

	// Upserting again overwrites the same singleton record.
	saved2, err := testDB.UpsertAIConfig(ctx, models.AIConfigInput{
		KnowledgeBase:     "New hours.",
		AfterHoursEnabled: false,
	})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, saved2.ID)

	got, err := testDB.GetAIConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New hours.", got.KnowledgeBase)
	assert.False(t, got.AfterHoursEnabled)
}

func TestKnowledgeFiles(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	created, err := testDB.CreateKnowledgeFile(ctx, "menu.pdf", "application/pdf", 2048, "/uploads/menu.pdf")
	require.NoError(t, err)
	assert.Equal(t, "menu.pdf", created.Name)
	assert.False(t, created.UploadedAt.IsZero())

	id := models.MustRecordIDString(created.ID)

	got, err := testDB.GetKnowledgeFile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/menu.pdf", got.Path)

	files, err := testDB.ListKnowledgeFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	require.NoError(t, testDB.DeleteKnowledgeFile(ctx, id))

	_, err = testDB.GetKnowledgeFile(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotifications(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	first, err := testDB.CreateNotification(ctx, "admin", "New client: Alice", models.NotifyNewClient, "/clients/1")
	require.NoError(t, err)
	assert.False(t, first.Read)

	time.Sleep(10 * time.Millisecond)
	_, err = testDB.CreateNotification(ctx, "admin", "New appointment booked", models.NotifyNewAppointment, "")
	require.NoError(t, err)

	list, err := testDB.ListNotifications(ctx, "admin")
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first.
	assert.Equal(t, "New appointment booked", list[0].Message)

	read, err := testDB.MarkNotificationRead(ctx, models.MustRecordIDString(first.ID))
	require.NoError(t, err)
	assert.True(t, read.Read)

	require.NoError(t, testDB.MarkAllNotificationsRead(ctx, "admin"))
	require.NoError(t, testDB.MarkAllNotificationsRead(ctx, "admin"))

	list, err = testDB.ListNotifications(ctx, "admin")
	require.NoError(t, err)
	for _, n := range list {
		assert.True(t, n.Read)
	}

	other, err := testDB.ListNotifications(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestChannelCRUD(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	created, err := testDB.CreateChannel(ctx, models.ChannelInput{
		Name:       "Whatsapp Channel",
		Type:       "whatsapp",
		ExternalID: "212698360842",
		Enabled:    true,
		Status:     "active",
	})
	require.NoError(t, err)
	id := models.MustRecordIDString(created.ID)

	updated, err := testDB.UpdateChannel(ctx, id, models.ChannelInput{
		Name:       "Whatsapp Channel",
		Type:       "whatsapp",
		ExternalID: "212698360842",
		Enabled:    false,
		Status:     "paused",
	})
	require.NoError(t, err)
	assert.False(t, updated.Enabled)
	assert.Equal(t, "paused", updated.Status)

	list, err := testDB.ListChannels(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, testDB.DeleteChannel(ctx, id))

	list, err = testDB.ListChannels(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIdentifierCRUD(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	created, err := testDB.CreateIdentifier(ctx, models.IdentifierInput{
		Name:              "Meta Business",
		Kind:              "whatsapp",
		Status:            "active",
		AccessToken:       "tok-123",
		BusinessAccountID: "ba-456",
	})
	require.NoError(t, err)
	id := models.MustRecordIDString(created.ID)

	updated, err := testDB.UpdateIdentifier(ctx, id, models.IdentifierInput{
		Name:              "Meta Business",
		Kind:              "whatsapp",
		Status:            "revoked",
		AccessToken:       "tok-789",
		BusinessAccountID: "ba-456",
	})
	require.NoError(t, err)
	assert.Equal(t, "revoked", updated.Status)
	assert.Equal(t, "tok-789", updated.AccessToken)

	list, err := testDB.ListIdentifiers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, testDB.DeleteIdentifier(ctx, id))

	list, err = testDB.ListIdentifiers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
