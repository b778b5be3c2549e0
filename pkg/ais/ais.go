// Package ais ingests a live AIS (Automatic Identification System)
// feed over TCP and turns position reports into rtree.Entry values,
// so a Tree can be rebuilt from real vessel traffic instead of
// synthetic points. Reconnection uses exponential backoff: AIS feeds
// are broadcast over flaky links, and a dropped connection should be
// retried with growing patience rather than hammered or abandoned.
package ais

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"time"

	ais "github.com/andmarios/aislib"
	"github.com/cenkalti/backoff"

	"github.com/kass/go-geo-index/pkg/models"
	"github.com/kass/go-geo-index/pkg/rtree"
)

const (
	minRetryInterval = 5 * time.Second
	maxRetryInterval = 1 * time.Hour
	giveUpAfter      = 7 * 24 * time.Hour
)

// Report carries one decoded position as a point rtree.Entry whose
// models.Ship payload holds the MMSI it belongs to.
type Report struct {
	Entry rtree.Entry[models.Ship]
}

// Feed reads AIVDM sentences from a TCP address and decodes class A
// and class B position reports into Reports, retrying the connection
// with exponential backoff on any read or dial error. Feed blocks
// until ctx is cancelled or the backoff policy gives up.
func Feed(ctx context.Context, addr string, reports chan<- Report) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = minRetryInterval
	eb.MaxInterval = maxRetryInterval
	eb.MaxElapsedTime = giveUpAfter

	for {
		err := connectAndStream(ctx, addr, reports)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			eb.Reset()
			continue
		}
		wait := eb.NextBackOff()
		if wait == backoff.Stop {
			return fmt.Errorf("giving up on AIS feed %s: %w", addr, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func connectAndStream(ctx context.Context, addr string, reports chan<- Report) error {
	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	sentences := make(chan string, 64)
	messages := make(chan ais.Message, 64)
	failed := make(chan ais.FailedSentence, 64)
	go ais.Router(sentences, messages, failed)

	go func() {
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			select {
			case sentences <- scanner.Text():
			case <-ctx.Done():
				close(sentences)
				return
			}
		}
		close(sentences)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-failed:
			// malformed sentence; the router already dropped it
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("AIS router closed for %s", addr)
			}
			if entry, ok := decode(msg); ok {
				reports <- Report{Entry: entry}
			}
		}
	}
}

// decode converts a routed aislib.Message into a point entry. Only
// class A (types 1-3) and class B (type 18) position reports carry
// coordinates; everything else is ignored here.
func decode(msg ais.Message) (rtree.Entry[models.Ship], bool) {
	switch msg.Type {
	case 1, 2, 3:
		report, err := ais.DecodeClassAPositionReport(msg.Payload)
		if err != nil || !validCoords(report.Lat, report.Lon) {
			return rtree.Entry[models.Ship]{}, false
		}
		return pointEntry(report.MMSI, report.Lat, report.Lon), true
	case 18:
		report, err := ais.DecodeClassBPositionReport(msg.Payload)
		if err != nil || !validCoords(report.Lat, report.Lon) {
			return rtree.Entry[models.Ship]{}, false
		}
		return pointEntry(report.MMSI, report.Lat, report.Lon), true
	default:
		return rtree.Entry[models.Ship]{}, false
	}
}

func pointEntry(mmsi uint32, lat, lon float64) rtree.Entry[models.Ship] {
	x, y := float32(lat), float32(lon)
	return rtree.Entry[models.Ship]{
		MBR:     rtree.MBR{X1: x, Y1: y, X2: x, Y2: y},
		Payload: models.Ship{MMSI: mmsi},
	}
}

// validCoords rejects the <91, 181> sentinel aislib emits for
// position reports the transmitting unit has no fix for.
func validCoords(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
