package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"restaurant_rater/internal/domain"
)

// SeedFile is the JSON import format: raters first, then restaurants with
// their menus, locations and ratings nested underneath.
type SeedFile struct {
	Raters      []domain.Rater   `json:"raters"`
	Restaurants []SeedRestaurant `json:"restaurants"`
}

type SeedRestaurant struct {
	domain.Restaurant
	Menu      []SeedMenuItem    `json:"menu"`
	Locations []domain.Location `json:"locations"`
	Ratings   []domain.Rating   `json:"ratings"`
}

type SeedMenuItem struct {
	domain.MenuItem
	Ratings []SeedItemRating `json:"ratings"`
}

// SeedItemRating takes postDate as text so naive ISO datetimes are accepted.
type SeedItemRating struct {
	UserID   string `json:"userId"`
	PostDate string `json:"postDate"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

func DecodeSeedFile(r io.Reader) (SeedFile, error) {
	var f SeedFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return SeedFile{}, fmt.Errorf("decode seed file: %w", err)
	}
	return f, nil
}

type SeedReport struct {
	Created int64
	Skipped int64
	Failed  int64
}

// Seeder imports a SeedFile through the CommandService, so every record is
// validated and the store constraints apply. Rows that already exist are
// skipped, which makes re-running a seed file safe.
type Seeder struct {
	cmd     *CommandService
	workers int64
}

func NewSeeder(cmd *CommandService, workers int) *Seeder {
	if workers < 1 {
		workers = 1
	}
	return &Seeder{cmd: cmd, workers: int64(workers)}
}

func (s *Seeder) Run(ctx context.Context, f SeedFile) (SeedReport, error) {
	var rep seedCounter

	// raters first: every rating below references one
	for _, r := range f.Raters {
		_, err := s.cmd.CreateRater(ctx, r)
		rep.record(err, "rater", r.UserID)
	}

	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup

	for _, sr := range f.Restaurants {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return rep.report(), err
		}

		wg.Add(1)
		go func(sr SeedRestaurant) {
			defer wg.Done()
			defer sem.Release(1)
			s.seedRestaurant(ctx, sr, &rep)
		}(sr)
	}

	wg.Wait()
	out := rep.report()
	log.Info().
		Int64("created", out.Created).
		Int64("skipped", out.Skipped).
		Int64("failed", out.Failed).
		Msg("seed completed")
	return out, ctx.Err()
}

func (s *Seeder) seedRestaurant(ctx context.Context, sr SeedRestaurant, rep *seedCounter) {
	rest, err := s.cmd.CreateRestaurant(ctx, sr.Restaurant)
	rep.record(err, "restaurant", sr.Name)
	if err != nil {
		// children need the generated id
		return
	}

	for _, mi := range sr.Menu {
		mi.RestaurantID = rest.ID
		item, err := s.cmd.AddMenuItem(ctx, mi.MenuItem)
		rep.record(err, "menu_item", mi.Name)
		if err != nil {
			continue
		}
		for _, ir := range mi.Ratings {
			posted, err := domain.ParseDateTime(ir.PostDate)
			if err != nil {
				rep.record(err, "rating_item", ir.UserID)
				continue
			}
			_, err = s.cmd.PostItemRating(ctx, domain.NewRatingItem(ir.UserID, posted, item.ID, ir.Rating, ir.Comment))
			rep.record(err, "rating_item", ir.UserID)
		}
	}

	for _, l := range sr.Locations {
		l.RestaurantID = rest.ID
		_, err := s.cmd.AddLocation(ctx, l)
		rep.record(err, "location", l.StreetAddress)
	}

	for _, r := range sr.Ratings {
		r.RestaurantID = rest.ID
		_, err := s.cmd.PostRating(ctx, r)
		rep.record(err, "rating", r.UserID)
	}
}

type seedCounter struct {
	created, skipped, failed atomic.Int64
}

func (c *seedCounter) record(err error, entity, key string) {
	switch {
	case err == nil:
		c.created.Add(1)
	case errors.Is(err, domain.ErrDuplicate):
		c.skipped.Add(1)
		log.Debug().Str("entity", entity).Str("key", key).Msg("seed skip existing")
	default:
		c.failed.Add(1)
		log.Warn().Err(err).Str("entity", entity).Str("key", key).Msg("seed failed")
	}
}

func (c *seedCounter) report() SeedReport {
	return SeedReport{Created: c.created.Load(), Skipped: c.skipped.Load(), Failed: c.failed.Load()}
}
