package stream

import (
	"bufio"
	stderrors "errors"
	"io"
	"syscall"

	"github.com/mcncl/mp2json/internal/config"
	"github.com/mcncl/mp2json/internal/converter"
	"github.com/mcncl/mp2json/internal/decoder"
	"github.com/mcncl/mp2json/internal/errors"
	"github.com/mcncl/mp2json/internal/formatter"
	"github.com/rs/zerolog"
)

// Options selects the I/O behaviour of a Driver.
type Options struct {
	// Buffered wraps the source in a read-ahead buffer and the sink in a
	// write-behind buffer that is flushed once when the stream ends.
	// Without it every value is written to the sink as soon as it is
	// converted.
	Buffered bool
	// Pretty writes each value indented over several lines.
	Pretty bool
}

// stepResult is the outcome of one decode, convert and write cycle.
type stepResult int

const (
	stepValue stepResult = iota
	stepEndOfStream
	stepOutputClosed
)

func (r stepResult) String() string {
	switch r {
	case stepValue:
		return "value"
	case stepEndOfStream:
		return "end of stream"
	case stepOutputClosed:
		return "output closed"
	default:
		return "unknown"
	}
}

// Driver converts a stream of msgpack values to newline-delimited JSON.
type Driver struct {
	opts   Options
	cfg    *config.Config
	logger zerolog.Logger
}

// NewDriver creates a Driver with the default configuration and no logging.
func NewDriver(opts Options) *Driver {
	return &Driver{
		opts:   opts,
		cfg:    config.NewConfig(),
		logger: zerolog.Nop(),
	}
}

// NewDriverWithConfig creates a Driver whose options, float policy and
// decoding limits come from cfg.
func NewDriverWithConfig(cfg *config.Config, logger zerolog.Logger) *Driver {
	return &Driver{
		opts: Options{
			Buffered: !cfg.Output.Unbuffered,
			Pretty:   cfg.Output.Pretty,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Run converts src to sink with a Driver configured by opts.
func Run(src io.Reader, sink io.Writer, opts Options) error {
	return NewDriver(opts).Run(src, sink)
}

// Run reads values from src until it ends, writing one JSON line per value
// to sink. It returns nil when src ends on a value boundary or when the
// reader of sink has gone away. Lines written before a failure stay written.
func (d *Driver) Run(src io.Reader, sink io.Writer) error {
	in, out, flush := d.bind(src, sink)
	c := &cycle{
		dec:  decoder.NewDecoderWithConfig(in, d.cfg),
		conv: converter.NewConverterWithConfig(d.cfg),
		fmt:  formatter.NewFormatter(d.opts.Pretty),
		out:  out,
	}

	d.logger.Debug().
		Bool("buffered", d.opts.Buffered).
		Bool("pretty", d.opts.Pretty).
		Msg("stream started")

	var (
		count  int
		result stepResult
	)
	for {
		res, err := c.step()
		if err != nil {
			d.logger.Debug().Int("values", count).Err(err).Msg("stream failed")
			// Keep what was already converted; the original error wins.
			_ = flush()
			return err
		}
		if res != stepValue {
			result = res
			break
		}
		count++
		d.logger.Debug().Int("index", count-1).Int("bytes", c.lastLen).Msg("value written")
	}

	if err := flush(); err != nil {
		if !isBrokenPipe(err) {
			return errors.NewOutputError("failed to flush output", err)
		}
		result = stepOutputClosed
	}

	d.logger.Debug().Int("values", count).Stringer("reason", result).Msg("stream finished")
	return nil
}

// bind decides the buffering policy once for the whole run.
func (d *Driver) bind(src io.Reader, sink io.Writer) (io.Reader, io.Writer, func() error) {
	if d.opts.Buffered {
		w := bufio.NewWriter(sink)
		return bufio.NewReader(src), w, w.Flush
	}
	return newByteReader(src), sink, func() error { return nil }
}

type cycle struct {
	dec     *decoder.Decoder
	conv    *converter.Converter
	fmt     *formatter.Formatter
	out     io.Writer
	lastLen int
}

func (c *cycle) step() (stepResult, error) {
	v, err := c.dec.Decode()
	if err == io.EOF {
		return stepEndOfStream, nil
	}
	if err != nil {
		return 0, err
	}

	jv, err := c.conv.Convert(v)
	if err != nil {
		return 0, err
	}

	line, err := c.fmt.Format(jv)
	if err != nil {
		return 0, errors.NewOutputError("failed to serialize value", err)
	}
	line = append(line, '\n')
	c.lastLen = len(line)

	if _, err := c.out.Write(line); err != nil {
		if isBrokenPipe(err) {
			return stepOutputClosed, nil
		}
		return 0, errors.NewOutputError("failed to write value", err)
	}
	return stepValue, nil
}

// isBrokenPipe reports whether err means the reading end of the sink is
// closed.
func isBrokenPipe(err error) bool {
	return stderrors.Is(err, syscall.EPIPE) || stderrors.Is(err, io.ErrClosedPipe)
}
