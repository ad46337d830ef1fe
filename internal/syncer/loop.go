package syncer

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/stockboard/internal/inventory"
	"github.com/five82/stockboard/internal/source"
)

// Everything in this file runs on the loop goroutine.

// schedule arms the poll ticker. Any existing ticker is stopped first, so at
// most one is ever armed.
func (s *Synchronizer) schedule() {
	s.stopTicker()
	s.ticker = s.clock.NewTicker(s.interval)
}

func (s *Synchronizer) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

func (s *Synchronizer) setVisible(ctx context.Context, visible bool) {
	if visible == s.active {
		return
	}
	if visible {
		s.resume(ctx)
		return
	}
	s.pause()
}

func (s *Synchronizer) pause() {
	s.stopTicker()
	s.active = false
	s.store.SetPaused(true)
	s.metrics.SetPaused(true)
	s.logger.Info("polling paused")
}

func (s *Synchronizer) resume(ctx context.Context) {
	s.active = true
	s.store.SetPaused(false)
	s.metrics.SetPaused(false)
	s.logger.Info("polling resumed")
	s.schedule()
	s.dispatch(ctx, TriggerResume)
}

func (s *Synchronizer) refresh(ctx context.Context) bool {
	if !s.active {
		return false
	}
	if !s.limiter.AllowN(s.clock.Now(), 1) {
		s.logger.Debug("refresh throttled")
		return false
	}
	s.dispatch(ctx, TriggerRefresh)
	return true
}

// dispatch starts a fetch on its own goroutine. The transport request is
// bound to ctx and is aborted by Stop.
func (s *Synchronizer) dispatch(ctx context.Context, trigger Trigger) {
	s.seq++
	seq := s.seq
	id := uuid.NewString()
	s.inflight++
	s.store.SetFetching(true)

	s.logger.Debug("fetch dispatched",
		zap.String("attempt_id", id),
		zap.Uint64("seq", seq),
		zap.String("trigger", string(trigger)))

	started := s.clock.Now()
	s.fetches.Add(1)
	go func() {
		defer s.fetches.Done()
		snap, err := s.fetcher.Fetch(ctx)
		res := result{
			seq:      seq,
			id:       id,
			trigger:  trigger,
			snap:     snap,
			err:      err,
			duration: s.clock.Since(started),
		}
		select {
		case s.results <- res:
		case <-ctx.Done():
		}
	}()
}

func (s *Synchronizer) apply(res result) {
	s.inflight--
	defer func() {
		if s.inflight == 0 {
			s.store.SetFetching(false)
		}
	}()

	log := s.logger.With(
		zap.String("attempt_id", res.id),
		zap.Uint64("seq", res.seq),
		zap.String("trigger", string(res.trigger)),
		zap.Duration("duration", res.duration))

	// Results apply in completion order, except that an older attempt never
	// overwrites data from a newer success.
	if res.seq < s.succeeded {
		s.metrics.RecordDiscarded()
		log.Debug("stale fetch result discarded", zap.Uint64("succeeded", s.succeeded))
		return
	}

	first := !s.resolved
	s.resolved = true
	now := s.clock.Now()

	if res.err == nil {
		s.succeeded = res.seq
		s.store.ApplySuccess(res.snap, now)
		s.metrics.RecordSuccess(res.duration, len(res.snap.Stores))
		log.Info("fetch succeeded",
			zap.Int("products", len(res.snap.Products)),
			zap.Int("stores", len(res.snap.Stores)),
			zap.String("last_updated", res.snap.LastUpdated))
	} else {
		var fallback *inventory.Snapshot
		if first {
			fallback = s.fallback
		}
		s.store.ApplyFailure(res.err.Error(), now, fallback)

		kind := source.Kind(res.err)
		status := source.StatusCode(res.err)
		s.metrics.RecordFailure(res.duration, kind, status)
		fields := []zap.Field{zap.String("kind", kind), zap.Error(res.err)}
		if status > 0 {
			fields = append(fields, zap.Int("status", status))
		}
		if first && fallback != nil {
			log.Warn("initial fetch failed, showing fallback data", fields...)
		} else {
			log.Warn("fetch failed, keeping previous data", fields...)
		}
	}

	if s.afterApply != nil {
		s.afterApply(s.store.State())
	}
}
