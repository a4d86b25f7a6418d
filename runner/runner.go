// Package runner plays self-play games in lockstep batches across worker
// goroutines, recording every position reached in a shared visited set.
package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/slide2048/batch"
	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/rng"
	"github.com/domino14/slide2048/stats"
	"github.com/domino14/slide2048/visited"
)

// seedStride spreads per-game seeds apart.
const seedStride = 0x9e3779b97f4a7c15

type GameResult struct {
	Index   int         `yaml:"index"`
	Moves   int         `yaml:"moves"`
	Final   board.Board `yaml:"-"`
	MaxTile int         `yaml:"max-tile"`
	TileSum int         `yaml:"tile-sum"`
	Score   int         `yaml:"score"`
}

type Summary struct {
	Games             int           `yaml:"games"`
	Canceled          bool          `yaml:"canceled"`
	Policy            string        `yaml:"policy"`
	Backend           string        `yaml:"backend"`
	Threads           int           `yaml:"threads"`
	BatchWidth        int           `yaml:"batch-width"`
	TotalMoves        int           `yaml:"total-moves"`
	MeanMoves         float64       `yaml:"mean-moves"`
	StdevMoves        float64       `yaml:"stdev-moves"`
	MovesCI95         float64       `yaml:"moves-ci95"`
	MinMoves          int           `yaml:"min-moves"`
	MaxMoves          int           `yaml:"max-moves"`
	MeanScore         float64       `yaml:"mean-score"`
	BestScore         int           `yaml:"best-score"`
	BestGame          int           `yaml:"best-game"`
	MaxTiles          map[int]int   `yaml:"max-tiles"`
	DistinctPositions int           `yaml:"distinct-positions"`
	Visited           visited.Stats `yaml:"visited"`
	ElapsedSeconds    float64       `yaml:"elapsed-seconds"`
	MovesPerSecond    float64       `yaml:"moves-per-second"`
}

type Runner struct {
	opts     Options
	visited  *visited.Set
	nextGame atomic.Int64
	moves    atomic.Uint64
}

// New validates opts. set may be nil, in which case positions are not
// recorded.
func New(opts Options, set *visited.Set) (*Runner, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Runner{opts: opts, visited: set}, nil
}

// Moves returns the number of moves played so far in the current run.
func (r *Runner) Moves() uint64 {
	return r.moves.Load()
}

// Run plays all games and blocks until they finish or ctx is done.
// Cancellation is not an error: the games completed so far are returned and
// the summary is marked canceled.
func (r *Runner) Run(ctx context.Context) ([]GameResult, Summary, error) {
	logger := zerolog.Ctx(ctx)

	results := make([]GameResult, r.opts.Games)
	// done[i] is written only by the goroutine that played game i
	done := make([]bool, r.opts.Games)
	perThread := make([]stats.Statistic, r.opts.Threads)
	r.nextGame.Store(0)
	r.moves.Store(0)
	if r.visited != nil && r.opts.Threads > 1 {
		r.visited.SetMultiThreadedMode()
	}

	logger.Info().Int("games", r.opts.Games).Int("threads", r.opts.Threads).
		Int("batch-width", r.opts.BatchWidth).Str("policy", r.opts.Policy.String()).
		Str("backend", batch.Active().Name()).Msg("selfplay-starting")

	tstart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < r.opts.Threads; t++ {
		g.Go(func() error {
			defer func() {
				logger.Debug().Int("thread", t).Msg("selfplay-thread-exiting")
			}()
			return r.playThread(gctx, results, done, &perThread[t])
		})
	}
	err := g.Wait()
	elapsed := time.Since(tstart)

	canceled := false
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.Debug().AnErr("err", err).Msg("selfplay-canceled")
		canceled = true
		err = nil
	}

	finished := lo.Filter(results, func(_ GameResult, i int) bool {
		return done[i]
	})
	summary := r.summarize(finished, perThread, elapsed, canceled)
	logger.Info().Int("games", summary.Games).Int("total-moves", summary.TotalMoves).
		Float64("mean-moves", summary.MeanMoves).Int("distinct-positions", summary.DistinctPositions).
		Float64("elapsed-seconds", summary.ElapsedSeconds).Bool("canceled", canceled).
		Msg("selfplay-finished")
	return finished, summary, err
}

// lane tracks the game in one batch slot. game is -1 for an idle slot.
type lane struct {
	game  int
	moves int
	src   rng.Source
}

func (r *Runner) claim() (int, bool) {
	i := int(r.nextGame.Add(1)) - 1
	return i, i < r.opts.Games
}

// gameSource gives every game its own stream, so a game's outcome depends
// only on its index and the seed.
func (r *Runner) gameSource(idx int) rng.Source {
	if r.opts.RNG == rng.KindFrand && r.opts.Seed == 0 {
		return rng.New(rng.KindFrand, 0)
	}
	return rng.New(r.opts.RNG, r.opts.Seed+uint64(idx)*seedStride)
}

// startLane puts the next unclaimed game into slot i, or idles the slot.
func (r *Runner) startLane(cur batch.Batch, l *lane, i int) (batch.Batch, bool) {
	idx, ok := r.claim()
	if !ok {
		*l = lane{game: -1}
		return cur.WithLane(i, 0), false
	}
	src := r.gameSource(idx)
	*l = lane{game: idx, src: src}
	return cur.WithLane(i, board.Start(src)), true
}

func (r *Runner) playThread(ctx context.Context, results []GameResult, done []bool,
	st *stats.Statistic) error {

	lanes := make([]lane, r.opts.BatchWidth)
	cur := batch.New(r.opts.BatchWidth)
	active := 0
	for i := range lanes {
		var ok bool
		if cur, ok = r.startLane(cur, &lanes[i], i); ok {
			active++
		}
	}

	for active > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.record(cur, lanes)

		var moved uint8
		if r.opts.Policy == PolicyRandom {
			cur, moved = randomStep(cur, lanes)
		} else {
			cur, moved = dumbStep(cur, lanes)
		}

		for i := range lanes {
			l := &lanes[i]
			if l.game < 0 {
				continue
			}
			if moved>>i&1 == 1 {
				l.moves++
				// A move that changed the board always leaves an empty cell.
				nb, _ := cur.Lane(i).InsertRandomTile(l.src)
				cur = cur.WithLane(i, nb)
				continue
			}
			final := cur.Lane(i)
			results[l.game] = GameResult{
				Index:   l.game,
				Moves:   l.moves,
				Final:   final,
				MaxTile: final.MaxTile(),
				TileSum: final.TileSum(),
				Score:   final.Score(),
			}
			done[l.game] = true
			st.Push(float64(l.moves))
			r.moves.Add(uint64(l.moves))

			var ok bool
			if cur, ok = r.startLane(cur, l, i); !ok {
				active--
			}
		}
	}
	return nil
}

// record adds the canonical form of every live lane to the visited set.
func (r *Runner) record(cur batch.Batch, lanes []lane) {
	if r.visited == nil {
		return
	}
	canon := cur.Canonical()
	for i := range lanes {
		if lanes[i].game >= 0 {
			r.visited.Add(canon.Lane(i).Raw())
		}
	}
}

func liveMask(lanes []lane) uint8 {
	var m uint8
	for i := range lanes {
		if lanes[i].game >= 0 {
			m |= 1 << i
		}
	}
	return m
}

// dumbStep moves right, rotating a quarter turn after each failed try. A lane
// that moves keeps the rotated orientation; a lane that fails four times is
// back where it started and its game is over.
func dumbStep(cur batch.Batch, lanes []lane) (batch.Batch, uint8) {
	out := cur
	pending := liveMask(lanes)
	var moved uint8
	for try := 0; try < 4 && pending != 0; try++ {
		next, changed := cur.Move(board.Right)
		hit := changed & pending
		for i := range lanes {
			if hit>>i&1 == 1 {
				out = out.WithLane(i, next.Lane(i))
			}
		}
		moved |= hit
		pending &^= hit
		cur = cur.Rotate90()
	}
	return out, moved
}

// randomStep plays a uniformly chosen legal move in every live lane.
func randomStep(cur batch.Batch, lanes []lane) (batch.Batch, uint8) {
	var results [4]batch.Batch
	var changed [4]uint8
	for _, d := range board.Directions {
		results[d], changed[d] = cur.Move(d)
	}
	out := cur
	var moved uint8
	for i := range lanes {
		if lanes[i].game < 0 {
			continue
		}
		var legal [4]board.Direction
		n := 0
		for _, d := range board.Directions {
			if changed[d]>>i&1 == 1 {
				legal[n] = d
				n++
			}
		}
		if n == 0 {
			continue
		}
		d := legal[lanes[i].src.Next()%uint32(n)]
		out = out.WithLane(i, results[d].Lane(i))
		moved |= 1 << i
	}
	return out, moved
}

func (r *Runner) summarize(finished []GameResult, perThread []stats.Statistic,
	elapsed time.Duration, canceled bool) Summary {

	var moves stats.Statistic
	for i := range perThread {
		moves.Merge(&perThread[i])
	}
	var scores stats.Statistic
	for _, g := range finished {
		scores.Push(float64(g.Score))
	}

	s := Summary{
		Games:          len(finished),
		Canceled:       canceled,
		Policy:         r.opts.Policy.String(),
		Backend:        batch.Active().Name(),
		Threads:        r.opts.Threads,
		BatchWidth:     r.opts.BatchWidth,
		TotalMoves:     lo.SumBy(finished, func(g GameResult) int { return g.Moves }),
		MeanMoves:      moves.Mean(),
		StdevMoves:     moves.Stdev(),
		MovesCI95:      moves.ConfidenceInterval(95),
		MinMoves:       int(moves.Min()),
		MaxMoves:       int(moves.Max()),
		MeanScore:      scores.Mean(),
		BestGame:       -1,
		MaxTiles:       lo.CountValuesBy(finished, func(g GameResult) int { return g.MaxTile }),
		ElapsedSeconds: elapsed.Seconds(),
	}
	if len(finished) > 0 {
		best := lo.MaxBy(finished, func(a, b GameResult) bool { return a.Score > b.Score })
		s.BestScore, s.BestGame = best.Score, best.Index
	}
	if elapsed > 0 {
		s.MovesPerSecond = float64(s.TotalMoves) / elapsed.Seconds()
	}
	if r.visited != nil {
		s.DistinctPositions = r.visited.Len()
		s.Visited = r.visited.Stats()
	}
	return s
}
