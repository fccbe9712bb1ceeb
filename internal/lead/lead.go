// Package lead submits private advisor consultation requests.
package lead

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/huangsam/birkin/schema"
)

var (
	// ErrRejected means the backend answered but did not accept the request.
	ErrRejected = errors.New("request rejected")

	// ErrTransport means the backend could not be reached or answered garbage.
	ErrTransport = errors.New("transport failure")
)

// ValidateRequest applies the consultation form rules. Name, email, model,
// hardware and leather are required. Size, message and image are optional.
func ValidateRequest(req schema.ConsultRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("invalid email %q: %w", req.Email, err)
	}
	if req.Model == "" {
		return errors.New("model is required")
	}
	if _, ok := schema.ValidModels[req.Model]; !ok {
		return fmt.Errorf("invalid model '%s'", req.Model)
	}
	if req.Hardware == "" {
		return errors.New("hardware is required")
	}
	if _, ok := schema.ValidHardware[req.Hardware]; !ok {
		return fmt.Errorf("invalid hardware '%s'", req.Hardware)
	}
	if req.Leather == "" {
		return errors.New("leather is required")
	}
	if _, ok := schema.ValidSpecialCategories[req.Leather]; !ok {
		return fmt.Errorf("invalid leather '%s'", req.Leather)
	}
	return nil
}
