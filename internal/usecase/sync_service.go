package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fixturelab/fixture-sync/internal/config"
	"github.com/fixturelab/fixture-sync/internal/domain/league"
	"github.com/fixturelab/fixture-sync/internal/domain/match"
	"github.com/fixturelab/fixture-sync/internal/domain/team"
	"github.com/fixturelab/fixture-sync/internal/platform/logging"
	"github.com/fixturelab/fixture-sync/internal/platform/slug"
)

const (
	dateLayout     = "2006-01-02"
	maxWindowDays  = 14
	defaultWindow  = 1
	defaultWorkers = 4
)

// RunRequest selects what to sync. League accepts a configured slug or the
// numeric provider id. Date defaults to today in the request timezone; Days
// extends the window forward from that date.
type RunRequest struct {
	League   string
	Date     string
	Days     int
	Season   int
	Timezone string
	Debug    bool
}

// Summary is the accounting for one league run. Every fetched fixture lands in
// exactly one of Created, Updated, or Skipped.
type Summary struct {
	League  string
	Season  int
	From    string
	To      string
	Fetched int
	Created int
	Updated int
	Skipped int
	Errors  []string
	Debug   *DebugInfo
}

// DebugInfo is returned only when the caller asks for it.
type DebugInfo struct {
	ProviderLeagueID int64
	Timezone         string
	WindowClamped    bool
}

type SyncService struct {
	cfg      config.Config
	provider FixtureProvider
	leagues  league.Repository
	teams    team.Repository
	matches  match.Repository
	logger   *logging.Logger
	workers  int
	now      func() time.Time
}

func NewSyncService(
	cfg config.Config,
	provider FixtureProvider,
	leagues league.Repository,
	teams team.Repository,
	matches match.Repository,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.SyncMaxWorkers
	if workers < 1 {
		workers = defaultWorkers
	}

	return &SyncService{
		cfg:      cfg,
		provider: provider,
		leagues:  leagues,
		teams:    teams,
		matches:  matches,
		logger:   logger,
		workers:  workers,
		now:      time.Now,
	}
}

// Run syncs one league for the requested window and reports created, updated,
// and skipped counts.
func (s *SyncService) Run(ctx context.Context, req RunRequest) (Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.Run")
	defer span.End()

	leagueCfg, ok := s.cfg.LeagueBySelector(req.League)
	if !ok {
		return Summary{}, fmt.Errorf("%w: unknown league %q", ErrInvalidInput, req.League)
	}

	timezone := strings.TrimSpace(req.Timezone)
	if timezone == "" {
		timezone = s.cfg.DefaultTimezone
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: invalid timezone %q", ErrInvalidInput, req.Timezone)
	}

	from, to, clamped, err := s.resolveWindow(req, leagueCfg, location)
	if err != nil {
		return Summary{}, err
	}

	season := req.Season
	if season <= 0 {
		season = leagueCfg.Season
	}

	summary := Summary{
		League: leagueCfg.Slug,
		Season: season,
	}
	if req.Debug {
		summary.Debug = &DebugInfo{
			ProviderLeagueID: leagueCfg.ProviderID,
			Timezone:         timezone,
			WindowClamped:    clamped,
		}
	}

	if from.IsZero() {
		// Window fell entirely outside the configured season bounds.
		s.logger.InfoContext(ctx, "sync window outside season bounds, nothing to do",
			"league", leagueCfg.Slug, "season", season)
		return summary, nil
	}
	summary.From = from.Format(dateLayout)
	summary.To = to.Format(dateLayout)

	query := FixtureQuery{
		LeagueID: leagueCfg.ProviderID,
		Season:   season,
		Timezone: timezone,
	}
	if summary.From == summary.To {
		query.Date = summary.From
	} else {
		query.From = summary.From
		query.To = summary.To
	}

	fixtures, err := s.provider.FetchFixtures(ctx, query)
	if err != nil {
		return Summary{}, err
	}
	summary.Fetched = len(fixtures)

	leagueID, err := s.ensureLeague(ctx, leagueCfg, fixtures)
	if err != nil {
		return Summary{}, err
	}

	candidates := make([]match.Match, 0, len(fixtures))
	teamIDCache := make(map[string]int64, 2*len(fixtures))
	for _, fixture := range fixtures {
		if fixture.ExternalID <= 0 {
			// No identity to upsert by. Counted, not reported.
			summary.Skipped++
			continue
		}
		candidate, skipReason, err := s.buildMatch(ctx, leagueID, season, fixture, teamIDCache)
		if err != nil {
			return Summary{}, err
		}
		if skipReason != "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, skipReason)
			continue
		}
		candidates = append(candidates, candidate)
	}

	outcomes, err := s.matches.UpsertMany(ctx, candidates)
	if err != nil {
		return Summary{}, fmt.Errorf("persist matches league=%s: %w", leagueCfg.Slug, err)
	}
	for _, outcome := range outcomes {
		switch {
		case outcome.Err != nil:
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("match %s: %v", outcome.ExternalID, outcome.Err))
		case outcome.Created:
			summary.Created++
		default:
			summary.Updated++
		}
	}

	s.logger.InfoContext(ctx, "league sync finished",
		"league", leagueCfg.Slug,
		"season", season,
		"from", summary.From,
		"to", summary.To,
		"fetched", summary.Fetched,
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

// RunAll syncs every configured league concurrently and aggregates totals.
// Per-league failures are reported in the result rows; RunAll itself fails
// only when the worker pool cannot be built.
func (s *SyncService) RunAll(ctx context.Context, req RunRequest) (RunAllResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.RunAll")
	defer span.End()

	slugs := make([]string, 0, len(s.cfg.Leagues))
	for key := range s.cfg.Leagues {
		slugs = append(slugs, key)
	}
	sort.Strings(slugs)

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return RunAllResult{}, fmt.Errorf("create sync worker pool: %w", err)
	}
	defer pool.Release()

	var (
		created atomic.Int64
		updated atomic.Int64
		skipped atomic.Int64
		failed  atomic.Int64
	)
	results := make([]LeagueRunResult, len(slugs))

	var wg sync.WaitGroup
	for i, leagueSlug := range slugs {
		wg.Add(1)
		task := func() {
			defer wg.Done()

			leagueReq := req
			leagueReq.League = leagueSlug
			summary, runErr := s.Run(ctx, leagueReq)

			row := LeagueRunResult{League: leagueSlug, Summary: summary}
			if runErr != nil {
				row.Err = runErr.Error()
				failed.Add(1)
				s.logger.ErrorContext(ctx, "league sync failed", "league", leagueSlug, "error", runErr)
			} else {
				created.Add(int64(summary.Created))
				updated.Add(int64(summary.Updated))
				skipped.Add(int64(summary.Skipped))
			}
			results[i] = row
		}
		if submitErr := pool.Submit(task); submitErr != nil {
			task()
		}
	}
	wg.Wait()

	return RunAllResult{
		Leagues: results,
		Created: int(created.Load()),
		Updated: int(updated.Load()),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}, nil
}

type LeagueRunResult struct {
	League  string
	Summary Summary
	Err     string
}

type RunAllResult struct {
	Leagues []LeagueRunResult
	Created int
	Updated int
	Skipped int
	Failed  int
}

// resolveWindow picks the [from, to] day range and clamps it to the league's
// season bounds. A zero from signals an empty window.
func (s *SyncService) resolveWindow(req RunRequest, leagueCfg config.LeagueConfig, location *time.Location) (time.Time, time.Time, bool, error) {
	var base time.Time
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.Date), location)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidInput, req.Date)
		}
		base = parsed
	} else {
		now := s.now().In(location)
		base = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, location)
	}

	days := req.Days
	if days <= 0 {
		days = defaultWindow
	}
	if days > maxWindowDays {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, maxWindowDays)
	}

	from := base
	to := base.AddDate(0, 0, days-1)

	clamped := false
	if leagueCfg.SeasonStart != nil {
		start := dayInLocation(*leagueCfg.SeasonStart, location)
		if from.Before(start) {
			from = start
			clamped = true
		}
	}
	if leagueCfg.SeasonEnd != nil {
		end := dayInLocation(*leagueCfg.SeasonEnd, location)
		if to.After(end) {
			to = end
			clamped = true
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, true, nil
	}
	return from, to, clamped, nil
}

func dayInLocation(t time.Time, location *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, location)
}

// ensureLeague writes the league row before any match references it. Name and
// country come from the fetched payload when present, else from configuration.
func (s *SyncService) ensureLeague(ctx context.Context, leagueCfg config.LeagueConfig, fixtures []ExternalFixture) (int64, error) {
	name := ""
	country := ""
	for _, fixture := range fixtures {
		if fixture.LeagueName != "" {
			name = fixture.LeagueName
			country = fixture.LeagueCountry
			break
		}
	}
	if name == "" {
		name = leagueCfg.Slug
	}

	row := league.League{
		ExternalID: strconv.FormatInt(leagueCfg.ProviderID, 10),
		Name:       name,
		Slug:       leagueCfg.Slug,
		Country:    country,
	}
	id, _, err := s.leagues.Upsert(ctx, row)
	if err != nil {
		return 0, fmt.Errorf("ensure league %s: %w", leagueCfg.Slug, err)
	}
	return id, nil
}

// buildMatch maps one provider fixture to a match row. It returns a non-empty
// skip reason when the fixture cannot become a valid row; an error means a
// team write failed and the run must stop.
func (s *SyncService) buildMatch(ctx context.Context, leagueID int64, requestedSeason int, fixture ExternalFixture, teamIDCache map[string]int64) (match.Match, string, error) {
	externalID := strconv.FormatInt(fixture.ExternalID, 10)

	kickoff := match.KickoffInstant(fixture.KickoffTimestamp, fixture.KickoffISO)
	if kickoff.IsZero() {
		return match.Match{}, fmt.Sprintf("fixture %s: unparseable kickoff time", externalID), nil
	}

	season := fixture.Season
	if season <= 0 {
		season = requestedSeason
	}

	homeID, err := s.resolveTeam(ctx, fixture.HomeTeam, teamIDCache)
	if err != nil {
		return match.Match{}, "", err
	}
	awayID, err := s.resolveTeam(ctx, fixture.AwayTeam, teamIDCache)
	if err != nil {
		return match.Match{}, "", err
	}

	return match.Match{
		ExternalID: externalID,
		LeagueID:   leagueID,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		Venue:      fixture.Venue,
		KickoffAt:  kickoff,
		Status:     match.NormalizeStatus(fixture.StatusCode),
		Round:      fixture.Round,
		Season:     season,
		Payload:    fixture.RawJSON,
	}, "", nil
}

// resolveTeam upserts one side and returns its internal id. A side whose
// provider id is absent stays nil; a store failure is fatal for the run, the
// same way a league write failure is.
func (s *SyncService) resolveTeam(ctx context.Context, external ExternalTeam, cache map[string]int64) (*int64, error) {
	if external.ExternalID <= 0 {
		return nil, nil
	}
	externalID := strconv.FormatInt(external.ExternalID, 10)
	if id, ok := cache[externalID]; ok {
		return &id, nil
	}

	name := external.Name
	if name == "" {
		name = "team-" + externalID
	}
	id, _, err := s.teams.Upsert(ctx, team.Team{
		ExternalID: externalID,
		Name:       name,
		Slug:       slug.Make(name),
		LogoURL:    external.LogoURL,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve team %s: %w", externalID, err)
	}
	cache[externalID] = id
	return &id, nil
}
