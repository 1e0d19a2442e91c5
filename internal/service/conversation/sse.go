package conversation

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"

	"github.com/plottwist/yngo/backend/internal/model/chat"
)

// doneSentinel terminates a stream; keepAliveMarker is a provider-specific
// filler line some upstreams emit while the model warms up.
const (
	doneSentinel    = "[DONE]"
	keepAliveMarker = "PROCESSING"
)

// sseFrame mirrors the wire shape of one completion chunk. Some upstream
// variants put the text under message instead of delta, so both are decoded.
type sseFrame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// Decoder turns arbitrary byte chunks into an ordered sequence of deltas.
// Chunk boundaries need not align with frame boundaries: incomplete trailing
// lines are buffered until the next feed. A malformed frame is logged and
// skipped; it never aborts the stream.
type Decoder struct {
	buf  []byte
	done bool
}

// NewDecoder returns a decoder positioned at the start of a stream. Decoders
// are single-use and not restartable.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed consumes the next byte chunk and returns the deltas completed by it,
// in arrival order.
func (d *Decoder) Feed(p []byte) []chat.Delta {
	if d.done || len(p) == 0 {
		return nil
	}

	d.buf = append(d.buf, p...)

	var deltas []chat.Delta
	for {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx < 0 {
			break
		}
		line := string(d.buf[:idx])
		d.buf = d.buf[idx+1:]

		if delta, ok := d.decodeLine(line); ok {
			deltas = append(deltas, delta)
		}
		if d.done {
			break
		}
	}
	return deltas
}

// Done reports whether the stream signalled its end (finish_reason or the
// [DONE] sentinel).
func (d *Decoder) Done() bool {
	return d.done
}

func (d *Decoder) decodeLine(line string) (chat.Delta, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.Contains(line, keepAliveMarker) {
		return chat.Delta{}, false
	}
	if strings.Contains(line, doneSentinel) {
		d.done = true
		return chat.Delta{}, false
	}
	if !strings.HasPrefix(line, "data:") {
		return chat.Delta{}, false
	}

	payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
	var frame sseFrame
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		log.Printf("[sse] skipping malformed frame: %v", err)
		return chat.Delta{}, false
	}
	if len(frame.Choices) == 0 {
		return chat.Delta{}, false
	}

	choice := frame.Choices[0]
	if choice.FinishReason != nil && *choice.FinishReason != "" {
		d.done = true
	}

	content := choice.Delta.Content
	if content == "" {
		content = choice.Message.Content
	}
	if content == "" {
		return chat.Delta{}, false
	}
	return chat.Delta{Text: content}, true
}
