package jobs

import (
	"context"
	"time"

	"unilib-backend/internal/logger"
)

// MarkOverdueTransactions flags outstanding borrows whose due date has
// passed. The overdue flag is advisory; it never blocks a return.
func (jr *JobRunner) MarkOverdueTransactions() {
	jr.runWithRecovery("MarkOverdueTransactions", func() {
		ctx := context.Background()

		count, err := jr.store.TransactionRepository.MarkOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to mark overdue transactions", "error", err)
			return
		}
		logger.Info("Marked transactions as overdue", "count", count)
	})
}

// SendDueReminders emails borrowers whose books come due within the
// configured lead window.
func (jr *JobRunner) SendDueReminders() {
	jr.runWithRecovery("SendDueReminders", func() {
		ctx := context.Background()

		now := time.Now()
		lead := time.Duration(jr.config.Library.DueReminderLeadDays) * 24 * time.Hour
		due, err := jr.store.TransactionRepository.ListDueSoon(ctx, now, now.Add(lead))
		if err != nil {
			logger.Error("Failed to list transactions due soon", "error", err)
			return
		}

		sent := 0
		for _, txn := range due {
			user, err := jr.store.UserRepository.GetByID(ctx, txn.UserID)
			if err != nil {
				logger.Error("Failed to load borrower for reminder",
					"transaction_id", txn.ID, "user_id", txn.UserID, "error", err)
				continue
			}
			book, err := jr.store.BookRepository.GetByID(ctx, txn.BookID)
			if err != nil {
				logger.Error("Failed to load book for reminder",
					"transaction_id", txn.ID, "book_id", txn.BookID, "error", err)
				continue
			}
			if err := jr.services.Email.SendDueReminder(ctx, user.Email, user.Username, book.Name.EN, txn.DueDate); err != nil {
				logger.Error("Failed to send due reminder",
					"transaction_id", txn.ID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Sent due reminders", "candidates", len(due), "sent", sent)
	})
}
