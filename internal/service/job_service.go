package service

import (
	"fmt"
	"log"
	"time"

	"agendabeleza/internal/cache"
	"agendabeleza/internal/catalog"
	"agendabeleza/internal/repository"
)

type JobService struct {
	Repo    *repository.JobRepository
	Catalog *catalog.Catalog
	Sender  *SenderService
	Slots   *cache.SlotCache
}

func NewJobService(repo *repository.JobRepository, cat *catalog.Catalog, sender *SenderService, slots *cache.SlotCache) *JobService {
	return &JobService{Repo: repo, Catalog: cat, Sender: sender, Slots: slots}
}

// CancelStalePending cancels pending appointments older than maxAge, freeing
// slots held by bookings that were never confirmed. Rows are cancelled, never
// deleted.
func (s *JobService) CancelStalePending(maxAge time.Duration) error {
	log.Println("Cron Job: checking for stale pending appointments...")

	stale, err := s.Repo.ListPendingOlderThan(time.Now().Add(-maxAge))
	if err != nil {
		return fmt.Errorf("cron job: failed to list stale pending appointments: %w", err)
	}
	if len(stale) == 0 {
		log.Println("Cron Job: no stale pending appointments found")
		return nil
	}

	ids := make([]int64, len(stale))
	for i, a := range stale {
		ids[i] = a.ID
	}
	if err := s.Repo.CancelByIDs(ids); err != nil {
		return fmt.Errorf("cron job: failed to cancel stale pending appointments: %w", err)
	}
	log.Printf("Cron Job: cancelled %d stale pending appointments. IDs: %v", len(ids), ids)

	for _, a := range stale {
		s.Slots.InvalidateDate(a.Date)
	}
	return nil
}

// SendDayBeforeReminders notifies every client with a confirmed appointment
// tomorrow.
func (s *JobService) SendDayBeforeReminders() error {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	appointments, err := s.Repo.ListConfirmedOn(tomorrow)
	if err != nil {
		return fmt.Errorf("cron job: failed to list confirmed appointments for %s: %w", tomorrow, err)
	}
	if len(appointments) == 0 {
		return nil
	}
	log.Printf("Cron Job: sending %d reminders for %s", len(appointments), tomorrow)

	for _, a := range appointments {
		svc, ok := s.Catalog.ByID(a.ServiceID)
		if !ok {
			log.Printf("Cron Job: appointment %d references unknown service %q, skipping reminder", a.ID, a.ServiceID)
			continue
		}
		if s.Sender != nil {
			s.Sender.SendReminder(a, svc)
		}
	}
	return nil
}
