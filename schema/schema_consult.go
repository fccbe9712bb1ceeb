package schema

// ConsultRequest is a private advisor lead as captured by the consultation form.
type ConsultRequest struct {
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Model     Model           `json:"model"`
	Hardware  Hardware        `json:"hardware"`
	Leather   SpecialCategory `json:"leather"`
	Size      string          `json:"size,omitempty"`
	Message   string          `json:"message,omitempty"`
	ImagePath string          `json:"image_path,omitempty"`
}

// ConsultOutcome is the inline status shown after a submission attempt.
type ConsultOutcome struct {
	Status   ConsultStatus `json:"status"`
	Message  string        `json:"message"`
	ImageURL string        `json:"image_url,omitempty"`
}

// User-facing consultation messages.
const (
	ConsultSuccessMessage  = "Your request has been sent successfully. Our advisor will contact you shortly."
	ConsultRejectedMessage = "There was an issue sending your request. Please try again."
	ConsultNetworkMessage  = "Network error occurred. Please try again later."
)
