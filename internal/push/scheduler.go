package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/habitgrid/internal/model"
	"github.com/dukerupert/habitgrid/internal/schedule"
	"github.com/dukerupert/habitgrid/internal/store"
)

// Scheduler sends each subscribed user one reminder per day listing how
// many habits are still due.
type Scheduler struct {
	mu       sync.RWMutex
	sender   Sender
	push     *store.PushStore
	habits   *store.HabitStore
	loc      *time.Location
	hour     int
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewScheduler creates a reminder scheduler that fires during hour in loc.
func NewScheduler(sender Sender, pushStore *store.PushStore, habitStore *store.HabitStore, loc *time.Location, hour int, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		sender:   sender,
		push:     pushStore,
		habits:   habitStore,
		loc:      loc,
		hour:     hour,
		interval: time.Minute,
		now:      time.Now,
		logger:   logger,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Tick runs one pass. Outside the reminder hour it does nothing; inside it,
// users already reminded today are skipped, so repeated ticks are safe.
func (s *Scheduler) Tick() int {
	today := s.now().In(s.loc)
	if today.Hour() != s.hour {
		return 0
	}

	userIDs, err := s.push.ListUserIDs()
	if err != nil {
		s.logger.Error("list push users", "error", err)
		return 0
	}

	sent := 0
	for _, uid := range userIDs {
		ok, err := s.remindUser(uid, today)
		if err != nil {
			s.logger.Error("habit reminder", "user_id", uid, "error", err)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent
}

func (s *Scheduler) remindUser(userID int64, today time.Time) (bool, error) {
	refID := schedule.FormatDate(today)

	enabled, err := s.push.IsPreferenceEnabled(userID, model.NotifTypeHabitReminder)
	if err != nil || !enabled {
		return false, err
	}
	sent, err := s.push.WasSent(userID, model.NotifTypeHabitReminder, refID)
	if err != nil || sent {
		return false, err
	}

	snap, err := s.habits.LoadDay(userID, refID)
	if err != nil {
		return false, err
	}
	left := snap.Day(today, today).Incomplete
	if len(left) == 0 {
		return false, nil
	}

	subs, err := s.push.ListByUser(userID)
	if err != nil {
		return false, err
	}

	payload := reminderPayload(left, refID)
	delivered := 0
	for _, sub := range subs {
		if err := s.sender.Send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				s.logger.Info("removing expired push subscription", "user_id", userID, "subscription_id", sub.ID)
				if err := s.push.DeleteByEndpoint(sub.Endpoint); err != nil {
					s.logger.Error("delete expired subscription", "error", err)
				}
				continue
			}
			s.logger.Warn("send habit reminder", "user_id", userID, "error", err)
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return false, nil
	}
	if err := s.push.RecordSent(userID, model.NotifTypeHabitReminder, refID); err != nil {
		return true, err
	}
	return true, nil
}

func reminderPayload(left []model.Habit, date string) Payload {
	body := fmt.Sprintf("%d habits left today", len(left))
	if len(left) == 1 {
		body = fmt.Sprintf("1 habit left today: %s", left[0].Title)
	}
	return Payload{
		Title: "Habit check-in",
		Body:  body,
		URL:   "/?date=" + date,
		Tag:   "habit-reminder",
	}
}
