package numbering

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rahulverma-dev/medstock-backend/pkg/config"
	pkgerrors "github.com/rahulverma-dev/medstock-backend/pkg/errors"
	"github.com/rahulverma-dev/medstock-backend/pkg/logger"
	"github.com/rahulverma-dev/medstock-backend/pkg/metrics"
)

// GRNPrefix is the document prefix for goods received notes.
const GRNPrefix = "GRN"

const sequenceWidth = 4

// Index is the persistence surface the generator scans for existing numbers.
// Both calls must observe committed writes from concurrent creators.
type Index interface {
	HighestNumber(ctx context.Context, storeID uuid.UUID, numberPrefix string) (string, error)
	NumberExists(ctx context.Context, storeID uuid.UUID, number string) (bool, error)
}

// Generator produces human-readable document numbers of the form
// <PREFIX><YYYYMM><SEQ>, unique per store. There is no lock: collisions with
// concurrent creators are detected by a re-check query and resolved by retry,
// falling back to a timestamp suffix once retries are exhausted. Numbers may
// skip after a fallback but never collide.
type Generator struct {
	index      Index
	logg       *logger.Logger
	metrics    *metrics.NumberingMetrics
	maxRetries int
	backoff    time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// NewGenerator builds a document number generator.
func NewGenerator(index Index, logg *logger.Logger, m *metrics.NumberingMetrics, cfg config.NumberingConfig) (*Generator, error) {
	if index == nil {
		return nil, fmt.Errorf("numbering index required")
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 50 * time.Millisecond
	}
	return &Generator{
		index:      index,
		logg:       logg,
		metrics:    m,
		maxRetries: maxRetries,
		backoff:    backoff,
		now:        time.Now,
		sleep:      time.Sleep,
	}, nil
}

// Next proposes the next free number for the store and prefix in the current
// month. On a detected collision it backs off linearly (backoff x attempt) and
// rescans; after maxRetries it returns a timestamp-suffixed number instead,
// sacrificing sequence density for guaranteed uniqueness.
func (g *Generator) Next(ctx context.Context, storeID uuid.UUID, prefix string) (string, error) {
	if prefix == "" {
		prefix = GRNPrefix
	}
	period := prefix + g.now().Format("200601")

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		highest, err := g.index.HighestNumber(ctx, storeID, period)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan document numbers")
		}

		seq := parseSequence(highest, period) + 1
		candidate := fmt.Sprintf("%s%0*d", period, sequenceWidth, seq)

		exists, err := g.index.NumberExists(ctx, storeID, candidate)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "re-check document number")
		}
		if !exists {
			return candidate, nil
		}

		g.metrics.IncRetry(prefix)
		if g.logg != nil {
			fields := map[string]any{
				"store_id":  storeID.String(),
				"candidate": candidate,
				"attempt":   attempt,
			}
			g.logg.Warn(g.logg.WithFields(ctx, fields), "document number collision, retrying")
		}
		g.sleep(g.backoff * time.Duration(attempt))
	}

	g.metrics.IncFallback(prefix)
	fallback := fmt.Sprintf("%s%d", period, g.now().UnixMilli())
	if g.logg != nil {
		fields := map[string]any{
			"store_id": storeID.String(),
			"number":   fallback,
		}
		g.logg.Warn(g.logg.WithFields(ctx, fields), "document number retries exhausted, using timestamp fallback")
	}
	return fallback, nil
}

// parseSequence extracts the trailing sequence from the highest known number.
// Fallback numbers carry a timestamp suffix wider than sequenceWidth; their
// digits are ignored so the dense sequence resumes from the last real one.
func parseSequence(number, period string) int {
	if number == "" || !strings.HasPrefix(number, period) {
		return 0
	}
	suffix := number[len(period):]
	if len(suffix) != sequenceWidth {
		return 0
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil {
		return 0
	}
	return seq
}
