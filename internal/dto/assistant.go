package dto

// AssistantRequest carries a free-text question.
type AssistantRequest struct {
	Question string `json:"question" validate:"required,max=2000"`
}

// AssistantResponse carries the generated HTML answer.
type AssistantResponse struct {
	Answer string `json:"answer"`
}
