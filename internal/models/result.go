package models

type EvaluateRequest struct {
	Name      string       `json:"name"`
	IdeasPath string       `json:"ideas_path" validate:"required"`
	FilesDir  string       `json:"files_dir"`
	Rubric    []RubricItem `json:"rubric" validate:"required"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string         `json:"id"`
	Status       string         `json:"status"`
	Results      []OutputRecord `json:"results,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
}
