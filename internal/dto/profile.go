package dto

type ParseRequest struct {
	Text string `json:"text" validate:"required" example:"I drive for Uber since 2020"`
}

type CreateProfileRequest struct {
	PhoneNumber string         `json:"phone_number,omitempty" validate:"omitempty,max=20" example:"+254700000000"`
	Name        string         `json:"name,omitempty" validate:"omitempty,max=120" example:"Jane Doe"`
	ProfileData map[string]any `json:"profile_data,omitempty" swaggertype:"object"`
}

type CreateProfileResponse struct {
	ID uint `json:"id" example:"1"`
}

type ProfileResponse struct {
	ID          uint           `json:"id" example:"1"`
	Name        string         `json:"name" example:"Unnamed Worker"`
	ProfileData map[string]any `json:"profile_data" swaggertype:"object"`
}
