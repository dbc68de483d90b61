package store

import (
	"time"

	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EntryFor builds the ledger row for one committed change.
func EntryFor(c engine.Change, at time.Time) model.LedgerEntry {
	e := model.LedgerEntry{
		ID:          uuid.NewString(),
		Op:          string(c.Op),
		PointsDelta: c.After.Points - c.Before.Points,
		StreakAfter: c.After.Streak,
		LevelAfter:  c.After.Level,
		RecordedAt:  at,
	}
	if c.Tx != nil {
		e.Kind = c.Tx.Kind
		e.Amount = c.Tx.Amount
		e.Note = c.Tx.Note
		if c.Tx.Kind == model.Expense {
			e.Category = engine.NormalizeCategory(c.Tx.Category)
		}
	}
	return e
}

// Recorder returns a tracker observer that persists every commit. A reset
// wipes the ledger before it is recorded. Write failures are logged; the
// in-memory state stays authoritative.
func (s *Store) Recorder(log zerolog.Logger) engine.Observer {
	return func(c engine.Change) {
		if c.Op == engine.OpReset {
			if err := s.Clear(); err != nil {
				log.Error().Err(err).Msg("clearing store on reset")
			}
		}
		if err := s.SaveSnapshot(c.After); err != nil {
			log.Error().Err(err).Str("op", string(c.Op)).Msg("saving snapshot")
		}
		entry := EntryFor(c, time.Now())
		if err := s.RecordEntry(entry); err != nil {
			log.Error().Err(err).Str("op", string(c.Op)).Msg("recording ledger entry")
			return
		}
		log.Debug().Str("op", entry.Op).Str("id", entry.ID).Int64("points_delta", entry.PointsDelta).Msg("recorded")
	}
}

// Seed returns the stored state, or fallback when the store is empty.
func (s *Store) Seed(fallback model.UserFinancialState) (model.UserFinancialState, error) {
	st, _, ok, err := s.LoadSnapshot()
	if err != nil {
		return model.UserFinancialState{}, err
	}
	if !ok {
		return fallback, nil
	}
	return st, nil
}
