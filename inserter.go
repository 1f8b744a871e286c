package bigquery

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Inserter streams rows into a table through the insertAll API. Rows staged
// with Send accumulate in the background and are flushed as one batch when
// their encoded size passes BatchSize or BatchInterval elapses, whichever
// comes first.
type Inserter struct {
	c *Client

	datasetID string
	tableID   string

	currentSize uint64
	pending     []*insertSendBatch
	sendCh      chan *insertSendBatch

	// BatchSize is the flush threshold in accumulated encoded bytes.
	BatchSize uint64
	// BatchInterval is the longest time staged rows wait before flushing.
	BatchInterval time.Duration
	// SkipInvalidRows is forwarded on every insertAll call.
	SkipInvalidRows bool
	// IgnoreUnknownValues is forwarded on every insertAll call.
	IgnoreUnknownValues bool
}

type insertSendBatch struct {
	rows []json.RawMessage
	size uint64

	err  chan error
	done chan struct{}
}

// Inserter creates a streaming inserter for the given table.
func (c *Client) Inserter(datasetID, tableID string) *Inserter {
	return &Inserter{
		c:             c,
		datasetID:     datasetID,
		tableID:       tableID,
		pending:       make([]*insertSendBatch, 0),
		sendCh:        make(chan *insertSendBatch),
		BatchSize:     1024 * 1024, // default to 1MiB
		BatchInterval: time.Second, // default to 1 second
	}
}

// Start launches the background flush loop. It must be called once before
// Send, and the loop runs until Close.
func (ins *Inserter) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(ins.BatchInterval)
		defer ticker.Stop()

		stop, tick := false, false
		for {
			if tick || ins.currentSize > ins.BatchSize {
				ins.flush(ctx, ins.pending)
				tick = false
				ins.currentSize = 0
				ins.pending = nil
			}

			if stop {
				break
			}

			select {
			case <-ticker.C:
				if len(ins.pending) > 0 {
					tick = true
				}
			case sb, more := <-ins.sendCh:
				if !more {
					stop = true
					if len(ins.pending) > 0 {
						tick = true
					}
					continue
				}
				ins.currentSize += sb.size
				ins.pending = append(ins.pending, sb)
			}
		}
	}()
}

// flush posts the staged batches as one insertAll call and reports the
// outcome on each batch's channels.
func (ins *Inserter) flush(ctx context.Context, batches []*insertSendBatch) {
	rows := make([]*insertRow, 0, len(batches))
	for _, sb := range batches {
		for _, row := range sb.rows {
			rows = append(rows, &insertRow{
				InsertID: uuid.NewString(),
				JSON:     row,
			})
		}
	}

	err := ins.c.insertAll(ctx, ins.datasetID, ins.tableID, &insertAllRequest{
		Rows:                rows,
		SkipInvalidRows:     ins.SkipInvalidRows,
		IgnoreUnknownValues: ins.IgnoreUnknownValues,
	})
	for _, sb := range batches {
		if err != nil {
			sb.err <- err
		}
		close(sb.err)
		close(sb.done)
	}
}

// Send stages rows for insertion. Each row must marshal to a JSON object
// matching the table schema. The returned channels report completion and the
// flush error, if any, once the batch containing these rows is sent.
func (ins *Inserter) Send(rows ...any) (<-chan struct{}, <-chan error) {
	sb := &insertSendBatch{
		err:  make(chan error, 1),
		done: make(chan struct{}, 1),
	}
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			sb.err <- err
			close(sb.err)
			close(sb.done)
			return sb.done, sb.err
		}
		sb.rows = append(sb.rows, data)
		sb.size += uint64(len(data))
	}
	ins.sendCh <- sb
	return sb.done, sb.err
}

// Close stops the flush loop after flushing any staged rows. The inserter
// cannot send more rows once closed.
func (ins *Inserter) Close() {
	close(ins.sendCh)
}
