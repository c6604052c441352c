package port

import (
	"context"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

// ClipAnalyzer runs behavior analysis on a local video file. The
// implementation owns its own upload/poll/generate loop with a bounded
// retry ceiling.
type ClipAnalyzer interface {
	AnalyzeClip(ctx context.Context, filePath string) (*entity.AnalysisResult, error)
}

// TextGenerator produces short free-form text, used for quick-action
// outreach messages. Callers must tolerate failure and fall back to a
// deterministic template.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
