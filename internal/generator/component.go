package generator

import (
	"time"

	"github.com/ashureev/uiforge/internal/codegen"
	"github.com/ashureev/uiforge/internal/domain"
	"github.com/google/uuid"
)

const descriptionLen = 80

// NewComponent wraps a generation result for delivery to clients.
func NewComponent(res domain.GenerationResult, fw domain.Framework, prompt string) domain.GeneratedComponent {
	code := codegen.Format(res.Code)
	return domain.GeneratedComponent{
		ID:          uuid.NewString(),
		Name:        codegen.ComponentName(code),
		Framework:   fw,
		Code:        code,
		Description: codegen.Excerpt(prompt, descriptionLen),
		Explanation: res.Explanation,
		Suggestions: res.Suggestions,
		CreatedAt:   time.Now(),
	}
}

// RefinedComponent wraps a refinement result for delivery to clients.
func RefinedComponent(res domain.RefinementResult, fw domain.Framework) domain.GeneratedComponent {
	code := codegen.Format(res.Code)
	return domain.GeneratedComponent{
		ID:          uuid.NewString(),
		Name:        codegen.ComponentName(code),
		Framework:   fw,
		Code:        code,
		Explanation: res.Explanation,
		Changes:     res.Changes,
		CreatedAt:   time.Now(),
	}
}
