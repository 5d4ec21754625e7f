package services

import (
	"fmt"
	"log"
	"time"

	"api/database"
	"api/metrics"
	"api/models"
	"api/realtime"
)

// SweepExpiredCompetitions flips every ACTIVE competition whose deadline has
// passed to ENDED. The transition is one-directional, so the sweep is
// idempotent and safe to run concurrently with itself or with submission and
// rating requests: it only narrows the accepting window.
func SweepExpiredCompetitions() (int, error) {
	var expired []models.Competition
	err := database.DB.Scopes(models.Live).
		Where("status = ? AND deadline < ?", models.CompetitionStatusActive, time.Now()).
		Find(&expired).Error
	if err != nil {
		return 0, fmt.Errorf("failed to fetch expired competitions: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	swept := 0
	for _, competition := range expired {
		// The status guard keeps a concurrent sweep from double-counting
		result := database.DB.Model(&models.Competition{}).
			Where("id = ? AND status = ?", competition.ID, models.CompetitionStatusActive).
			Update("status", models.CompetitionStatusEnded)
		if result.Error != nil {
			return swept, fmt.Errorf("failed to end competition %s: %w", competition.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			continue
		}

		swept++
		metrics.CompetitionsEnded.Inc()
		realtime.BroadcastCompetitionUpdate(realtime.CompetitionUpdate{
			CompetitionID: competition.ID,
			UpdateType:    realtime.UpdateCompetitionEnded,
		})
		log.Printf("Competition %s status set to ENDED", competition.ID)
	}
	return swept, nil
}

// StartCompetitionSweeper runs the deadline sweep on a fixed interval until
// stop is closed. A run already in progress completes rather than being
// interrupted mid-transition.
func StartCompetitionSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		log.Println("Competition sweeper started")
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				swept, err := SweepExpiredCompetitions()
				if err != nil {
					log.Printf("Competition sweep failed: %v", err)
					continue
				}
				if swept > 0 {
					log.Printf("Swept %d expired competitions", swept)
				}
			case <-stop:
				log.Println("Competition sweeper stopped")
				return
			}
		}
	}()
}
