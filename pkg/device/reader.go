package device

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/itohio/shockwatch/pkg/console"
)

// readEvents scans console lines from r and sends the parsed events to out
// until r is exhausted or ctx is cancelled. Lines that do not parse, such as
// the boot banner, are logged and skipped. out is closed on return.
func readEvents(ctx context.Context, r io.Reader, out chan<- console.Event) {
	defer close(out)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readEvents: %v", r)
		}
	}()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		event, err := console.Parse(line)
		if err != nil {
			log.Printf("Skipping console line '%s': %v", line, err)
			continue
		}
		event.Timestamp = time.Now()

		select {
		case out <- event:
		case <-ctx.Done():
			return
		default:
			log.Printf("Events channel full, dropping %s event", event.Kind)
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil && !errors.Is(err, io.ErrClosedPipe) {
		log.Printf("Error reading console: %v", err)
	}
}
