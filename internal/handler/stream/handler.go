package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
	"github.com/hzhao-dev/triagecare/backend/internal/service/ai"
	sessionservice "github.com/hzhao-dev/triagecare/backend/internal/service/session"
	"github.com/hzhao-dev/triagecare/backend/pkg/utils"
)

// Handler streams a spoken-style narration of the final report over SSE.
// The stored assessment and report are never recomputed; the stream only
// rephrases them, and degrades to replaying the stored text when the model
// cannot stream.
type Handler struct {
	sessions *sessionservice.Service
	gen      ai.Generator
}

// New creates the stream handler. gen may be nil.
func New(sessions *sessionservice.Service, gen ai.Generator) *Handler {
	return &Handler{sessions: sessions, gen: gen}
}

// chunk is one streamed SSE payload. Content chunks are data-only frames;
// completion and errors use named events.
type chunk struct {
	Content  string `json:"content,omitempty"`
	Finished bool   `json:"finished,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HandleStream writes the narration for a terminal session.
func (h *Handler) HandleStream(ctx context.Context, w http.ResponseWriter, sessionID string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	assessment, report, err := h.sessions.FinalResult(ctx, sessionID)
	if err != nil {
		return err
	}

	utils.SetupSSEHeaders(w)

	if streamer, ok := h.gen.(ai.Streamer); ok {
		err := h.streamNarration(ctx, w, flusher, streamer, assessment, report)
		if err == nil {
			return nil
		}
		log.Printf("[stream] narration stream failed, replaying stored report: %v", err)
	}

	h.replayStored(w, flusher, report)
	return nil
}

func (h *Handler) streamNarration(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, streamer ai.Streamer, assessment *model.Assessment, report *model.Report) error {
	query := narrationQuery(assessment, report)
	reader, err := streamer.Stream(ctx, narrationSystemPrompt, query)
	if err != nil {
		return err
	}
	defer reader.Close()

	sent := false
	for {
		msg, err := reader.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if !sent {
				return err
			}
			utils.SendSSEEvent(w, flusher, "error", chunk{Error: "stream interrupted"})
			return nil
		}
		if msg == nil || msg.Content == "" {
			continue
		}
		sent = true
		utils.SendSSEChunk(w, flusher, chunk{Content: msg.Content})
	}

	utils.SendSSEEvent(w, flusher, "complete", chunk{Finished: true})
	return nil
}

// replayStored emits the stored deterministic messaging as a short sequence
// of chunks so the client contract stays identical.
func (h *Handler) replayStored(w http.ResponseWriter, flusher http.Flusher, report *model.Report) {
	parts := []string{
		report.Message.PrimaryWarning,
		report.Message.OpportunityCost,
		report.Message.ActionBenefit,
	}
	for _, part := range parts {
		if part != "" {
			utils.SendSSEChunk(w, flusher, chunk{Content: part})
		}
	}
	utils.SendSSEEvent(w, flusher, "complete", chunk{Finished: true})
}

const narrationSystemPrompt = "You narrate a completed medical triage report to the patient in short, warm, plain-language sentences. " +
	"Stay strictly within the facts given; never raise or lower the stated urgency."

func narrationQuery(assessment *model.Assessment, report *model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Triage level: %s (%s)\n", assessment.Level, assessment.TimeUrgency)
	fmt.Fprintf(&b, "Primary warning: %s\n", report.Message.PrimaryWarning)
	fmt.Fprintf(&b, "Action benefit: %s\n", report.Message.ActionBenefit)
	if len(assessment.Recommendations) > 0 {
		fmt.Fprintf(&b, "Recommendations: %s\n", strings.Join(assessment.Recommendations, "; "))
	}
	b.WriteString("Narrate this to the patient.")
	return b.String()
}
