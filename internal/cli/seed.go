package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/danwerth/opshub/internal/models"
)

var seedWipe bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo data",
	Long:  `Populates the database with a small set of demo clients, appointments and conversations for local development.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if seedWipe {
			if err := dbClient.WipeData(ctx); err != nil {
				return fmt.Errorf("wipe data: %w", err)
			}
			logger.Info("database wiped")
		}

		now := time.Now()

		seedClients := []models.ClientInput{
			{Name: "Alice Johnson", Phone: "+15550101", Email: "alice.j@example.com", Address: "123 Maple St", Notes: "Prefers morning appointments."},
			{Name: "Bob Williams", Phone: "+15550102", Email: "bob.w@example.com", Address: "456 Oak Ave", Notes: "Interested in new services."},
			{Name: "Charlie Brown", Phone: "+15550103", Email: "charlie.b@example.com", Address: "789 Pine Ln"},
			{Name: "Diana Prince", Phone: "+15550104", Email: "diana.p@example.com", Address: "101 Power Ct", Notes: "VIP client"},
		}

		ids := make([]string, 0, len(seedClients))
		for _, in := range seedClients {
			c, err := dbClient.CreateClient(ctx, in)
			if err != nil {
				return fmt.Errorf("seed client %q: %w", in.Name, err)
			}
			ids = append(ids, models.MustRecordIDString(c.ID))
		}

		appts := []struct {
			client int
			title  string
			start  time.Time
			dur    time.Duration
			status models.AppointmentStatus
		}{
			{0, "Consultation", now.Add(2 * time.Hour), time.Hour, models.StatusConfirmed},
			{1, "Follow-up", now.Add(4 * time.Hour), 30 * time.Minute, models.StatusInProgress},
			{2, "Project Kickoff", now.AddDate(0, 0, -1), 2 * time.Hour, models.StatusTreated},
			{3, "Strategy Session", now.AddDate(0, 0, -2), time.Hour, models.StatusCanceled},
			{0, "Check-in", now.Add(24 * time.Hour), time.Hour, models.StatusPostponed},
		}
		for _, a := range appts {
			if _, err := dbClient.CreateAppointment(ctx, ids[a.client], a.title, a.start, a.start.Add(a.dur), a.status); err != nil {
				return fmt.Errorf("seed appointment %q: %w", a.title, err)
			}
		}

		conv, err := dbClient.CreateConversation(ctx, ids[0], models.ChannelWhatsApp)
		if err != nil {
			return fmt.Errorf("seed conversation: %w", err)
		}
		_, err = dbClient.AppendMessages(ctx, models.MustRecordIDString(conv.ID), true, models.Message{
			ID:        uuid.NewString(),
			Sender:    models.SenderClient,
			Text:      "Hi! Can I ask about your hours?",
			Timestamp: now.AddDate(0, 0, -1),
		})
		if err != nil {
			return fmt.Errorf("seed messages: %w", err)
		}

		if _, err := dbClient.UpsertAIConfig(ctx, models.AIConfigInput{
			KnowledgeBase: "Our business hours are Monday to Friday, 9 AM to 5 PM.\n" +
				"We are located at 123 Business Rd, Commerce City.\n" +
				"Basic consultation costs $100 per hour.\n" +
				"We do not offer services on weekends.",
			AfterHoursReply:   "Thanks for your message! We're currently closed, but we'll get back to you during our business hours (Mon-Fri, 9am-5pm).",
			AfterHoursEnabled: true,
		}); err != nil {
			return fmt.Errorf("seed agent config: %w", err)
		}

		if _, err := dbClient.CreateChannel(ctx, models.ChannelInput{
			Name:       "Whatsapp Channel",
			Type:       string(models.ChannelWhatsApp),
			ExternalID: "212698360842",
			Enabled:    true,
			Status:     "Active",
		}); err != nil {
			return fmt.Errorf("seed channel: %w", err)
		}

		logger.Info("demo data loaded",
			"clients", len(seedClients),
			"appointments", len(appts))
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedWipe, "wipe", false, "wipe all data before seeding")
}
