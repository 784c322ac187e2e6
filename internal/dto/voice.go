package dto

type TranscribeResponse struct {
	Text string `json:"text" example:"I have been a driver for Uber since 2020"`
}

type UploadResponse struct {
	Message    string         `json:"message" example:"Profile created successfully"`
	ID         uint           `json:"id" example:"1"`
	Transcript string         `json:"transcript" example:"I have been a driver for Uber since 2020"`
	Structured map[string]any `json:"structured" swaggertype:"object"`
}
