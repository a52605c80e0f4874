package batch

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/gridpoint/pkg/gpc"
)

// Options configures Run.
type Options struct {
	Mode        Mode
	Concurrency int
	// Formatted selects #XXXX-XXXX-XXX output codes.
	Formatted bool
}

// Summary counts the outcome of a Run.
type Summary struct {
	Total    int           `json:"total"`
	Encoded  int           `json:"encoded"`
	Decoded  int           `json:"decoded"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// Run converts records in place with at most opts.Concurrency workers.
// Row failures are written to the record; only cancellation aborts the run.
func Run(ctx context.Context, records []Record, opts Options) (*Summary, error) {
	start := time.Now()
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	var encoded, decoded, failed atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i := range records {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			rec := &records[i]
			switch convert(rec, opts) {
			case ModeEncode:
				encoded.Add(1)
			case ModeDecode:
				decoded.Add(1)
			default:
				failed.Add(1)
				zap.L().Debug("batch: row failed",
					zap.Int("row", rec.Row),
					zap.String("error", rec.Error),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &Summary{
		Total:    len(records),
		Encoded:  int(encoded.Load()),
		Decoded:  int(decoded.Load()),
		Failed:   int(failed.Load()),
		Duration: time.Since(start),
	}
	zap.L().Info("batch: run complete",
		zap.Int("total", s.Total),
		zap.Int("encoded", s.Encoded),
		zap.Int("decoded", s.Decoded),
		zap.Int("failed", s.Failed),
		zap.Duration("duration", s.Duration),
	)
	return s, nil
}

// convert processes one record and returns the direction taken, or "" when
// the record failed.
func convert(r *Record, opts Options) Mode {
	mode := opts.Mode
	if mode == ModeAuto {
		mode = ModeEncode
		if r.Code != "" {
			mode = ModeDecode
		}
	}

	switch mode {
	case ModeDecode:
		c, err := gpc.Decode(r.Code)
		if err != nil {
			r.fail(err)
			return ""
		}
		r.Latitude, r.Longitude = c.Latitude, c.Longitude
		r.Code = gpc.Normalize(r.Code)
		if opts.Formatted {
			r.Code = gpc.FormatCode(r.Code)
		}
	default:
		lat, err := parseAxis("latitude", r.rawLatitude)
		if err != nil {
			r.fail(err)
			return ""
		}
		lon, err := parseAxis("longitude", r.rawLongitude)
		if err != nil {
			r.fail(err)
			return ""
		}
		code, err := gpc.EncodeWithFormat(lat, lon, opts.Formatted)
		if err != nil {
			r.fail(err)
			return ""
		}
		r.Latitude, r.Longitude, r.Code = lat, lon, code
	}
	return mode
}

func parseAxis(axis, raw string) (float64, error) {
	if raw == "" {
		return 0, eris.Errorf("%s: missing value", axis)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, eris.Errorf("%s: invalid number %q", axis, raw)
	}
	return v, nil
}
